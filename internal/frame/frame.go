// go-rsservo
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-rsservo.
//
// go-rsservo is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-rsservo is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-rsservo; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package frame

import (
	"errors"
	"fmt"
)

// Frame build and parse errors
var (
	ErrPayloadLength    = errors.New("payload length does not match frame shape")
	ErrCount            = errors.New("servo count out of range")
	ErrInvalidHeader    = errors.New("invalid frame header")
	ErrFrameTooShort    = errors.New("frame too short")
	ErrChecksumMismatch = errors.New("frame checksum mismatch")
)

// Frame is a command frame before header and checksum are attached
type Frame struct {
	Payload []byte
	ID      byte
	Flags   byte
	Address byte
	Length  byte
	Count   byte
}

// countZeroed reports whether a short frame with these flags carries count 0.
// Flash write, reboot, factory reset and address reads have no servo count.
func countZeroed(flags byte) bool {
	return flags&0xF0 != 0 || flags&0x0F == FlagReturnAddress
}

// NewShort builds a short frame addressing one servo
func NewShort(id, flags, address, width byte, data []byte) (*Frame, error) {
	if len(data) != int(width) {
		return nil, fmt.Errorf("%w: short frame width %d, got %d bytes", ErrPayloadLength, width, len(data))
	}

	f := &Frame{
		ID:      id,
		Flags:   flags,
		Address: address,
		Length:  width,
		Count:   1,
	}
	if countZeroed(flags) {
		f.Count = 0
	}
	if width > 0 {
		f.Payload = append([]byte(nil), data...)
	}
	return f, nil
}

// NewLong builds a long frame addressing count servos at once. data holds
// width bytes per servo, already flattened in servo order.
func NewLong(address, width byte, count int, data []byte) (*Frame, error) {
	if count < 1 || count > MaxCount {
		return nil, fmt.Errorf("%w: %d", ErrCount, count)
	}
	if len(data) != int(width)*count {
		return nil, fmt.Errorf("%w: long frame %d x %d, got %d bytes",
			ErrPayloadLength, width, count, len(data))
	}

	return &Frame{
		ID:      LongPacketID,
		Flags:   FlagNone,
		Address: address,
		Length:  width,
		Count:   byte(count),
		Payload: append([]byte(nil), data...),
	}, nil
}

// IsLong reports whether the frame is a long packet
func (f *Frame) IsLong() bool {
	return f.ID == LongPacketID
}

// Size returns the encoded length in bytes
func (f *Frame) Size() int {
	return HeaderLength + len(f.Payload) + ChecksumLength
}

// Bytes encodes the frame with header and trailing checksum
func (f *Frame) Bytes() []byte {
	buf := make([]byte, 0, f.Size())
	buf = append(buf, Header1, Header2, f.ID, f.Flags, f.Address, f.Length, f.Count)
	buf = append(buf, f.Payload...)
	return append(buf, Checksum(buf))
}

// String renders the frame on one line for logs
func (f *Frame) String() string {
	kind := "short"
	if f.IsLong() {
		kind = "long"
	}
	return fmt.Sprintf("%s id=%d flags=%02X addr=%02X len=%d cnt=%d data=% X",
		kind, f.ID, f.Flags, f.Address, f.Length, f.Count, f.Payload)
}

// payloadSize returns the payload length implied by the frame fields
func payloadSize(id, length, count byte) int {
	if id == LongPacketID {
		return int(length) * int(count)
	}
	return int(length)
}

// Parse decodes an encoded command frame. It does not decode servo return
// packets.
func Parse(data []byte) (*Frame, error) {
	if len(data) < MinFrameLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooShort, len(data))
	}
	if data[0] != Header1 || data[1] != Header2 {
		return nil, fmt.Errorf("%w: %02X %02X", ErrInvalidHeader, data[0], data[1])
	}

	id := data[OffsetID]
	n := payloadSize(id, data[OffsetLength], data[OffsetCount])
	if len(data) != HeaderLength+n+ChecksumLength {
		return nil, fmt.Errorf("%w: header declares %d payload bytes, frame is %d bytes",
			ErrPayloadLength, n, len(data))
	}
	if !ValidateChecksum(data) {
		return nil, fmt.Errorf("%w: got %02X, want %02X",
			ErrChecksumMismatch, data[len(data)-1], Checksum(data[:len(data)-1]))
	}

	f := &Frame{
		ID:      id,
		Flags:   data[OffsetFlags],
		Address: data[OffsetAddress],
		Length:  data[OffsetLength],
		Count:   data[OffsetCount],
	}
	if n > 0 {
		f.Payload = append([]byte(nil), data[OffsetPayload:OffsetPayload+n]...)
	}
	return f, nil
}

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

// Package frame builds and parses Futaba RS servo command frames
package frame

// Frame header bytes marking the start of every command frame
const (
	Header1 = 0xFA
	Header2 = 0xAF
)

// Byte offsets inside an encoded frame
const (
	OffsetID      = 2
	OffsetFlags   = 3
	OffsetAddress = 4
	OffsetLength  = 5
	OffsetCount   = 6
	OffsetPayload = 7
)

// Frame size limits
const (
	HeaderLength   = OffsetPayload // header + id + flags + address + length + count
	ChecksumLength = 1
	MinFrameLength = HeaderLength + ChecksumLength
	MaxCount       = 0xFF
)

// Flag bytes selecting whole-device operations
const (
	FlagNone          = 0x00
	FlagReturnAddress = 0x0F // return from the given address (read request)
	FlagFactoryReset  = 0x10
	FlagReboot        = 0x20
	FlagWriteFlashROM = 0x40
)

// AddressNone is the address sentinel for flag-only operations
const AddressNone = 0xFF

// LongPacketID is the servo id byte carried by every long packet
const LongPacketID = 0x00

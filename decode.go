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

package rsservo

import (
	"fmt"
	"strings"

	"github.com/ZaparooProject/go-rsservo/internal/frame"
)

// Param is one decoded payload field
type Param struct {
	Name  string
	Value int
	// Entry is the servo entry index in a long packet, 0 for short packets
	Entry int
}

// DecodedFrame is a parsed command frame matched against the catalog
type DecodedFrame struct {
	Command Command
	Payload []byte
	Params  []Param
	ID      byte
	Flags   byte
	Address byte
	Length  byte
	Count   byte
	Known   bool
}

// IsLong reports whether the frame is a long packet
func (d *DecodedFrame) IsLong() bool {
	return d.ID == frame.LongPacketID
}

// String renders the frame with its decoded fields
func (d *DecodedFrame) String() string {
	var sb strings.Builder
	name := "unknown"
	if d.Known {
		name = d.Command.Name
	}
	if d.IsLong() {
		_, _ = fmt.Fprintf(&sb, "%s count=%d", name, d.Count)
	} else {
		_, _ = fmt.Fprintf(&sb, "%s id=%d", name, d.ID)
	}
	for _, p := range d.Params {
		if d.IsLong() {
			_, _ = fmt.Fprintf(&sb, " [%d]%s=%d", p.Entry, p.Name, p.Value)
		} else {
			_, _ = fmt.Fprintf(&sb, " %s=%d", p.Name, p.Value)
		}
	}
	if !d.Known && len(d.Payload) > 0 {
		_, _ = fmt.Fprintf(&sb, " data=% X", d.Payload)
	}
	return sb.String()
}

type fieldKind int

const (
	fieldU8 fieldKind = iota
	fieldU16
	fieldI16
)

type field struct {
	name string
	kind fieldKind
}

// layouts lists the payload fields of each command, per servo entry
var layouts = map[string][]field{
	cmdSetID.Name:          {{"new_id", fieldU8}},
	cmdSetReverse.Name:     {{"reverse", fieldU8}},
	cmdSetBaudRate.Name:    {{"baudrate", fieldU8}},
	cmdSetReturnDelay.Name: {{"delay", fieldU8}},
	cmdSetAngleLimit.Name:  {{"cw", fieldI16}, {"ccw", fieldI16}},
	cmdSetTempLimit.Name:   {{"limit", fieldU16}},
	cmdSetCompliance.Name: {
		{"margin_cw", fieldU8}, {"margin_ccw", fieldU8},
		{"slope_cw", fieldU8}, {"slope_ccw", fieldU8},
		{"punch", fieldU16},
	},
	cmdSetMove.Name:        {{"position", fieldI16}, {"duration", fieldU16}},
	cmdSetMaxTorque.Name:   {{"percent", fieldU8}},
	cmdSetTorque.Name:      {{"mode", fieldU8}},
	cmdSetPID.Name:         {{"pid", fieldU8}},
	cmdSetTorqueMulti.Name: {{"id", fieldU8}, {"mode", fieldU8}},
	cmdSetMoveMulti.Name:   {{"id", fieldU8}, {"position", fieldI16}, {"duration", fieldU16}},
}

// matchCommand finds the catalog command that produces frames shaped like f
func matchCommand(f *frame.Frame) (Command, bool) {
	for _, c := range catalog {
		switch {
		case c.IsFlagOnly():
			if !f.IsLong() && f.Flags == c.Flags && f.Address == c.Address && f.Length == 0 {
				return c, true
			}
		case c.IsBatch():
			if f.IsLong() && f.Flags == frame.FlagNone && f.Address == c.Address && f.Length == c.Width {
				return c, true
			}
		default:
			if !f.IsLong() && f.Flags == frame.FlagNone && f.Address == c.Address && f.Length == c.Width {
				return c, true
			}
		}
	}
	return Command{}, false
}

func decodeFields(layout []field, data []byte, entry int) []Param {
	params := make([]Param, 0, len(layout))
	off := 0
	for _, fd := range layout {
		var v int
		switch fd.kind {
		case fieldU8:
			v = int(data[off])
			off++
		case fieldU16:
			v = int(frame.Uint16LE(data[off:]))
			off += 2
		case fieldI16:
			v = int(frame.Int16LE(data[off:]))
			off += 2
		}
		params = append(params, Param{Name: fd.name, Value: v, Entry: entry})
	}
	return params
}

// DecodeFrame parses an encoded command frame and names its fields. Frames
// with a valid shape that match no catalog command decode with Known false.
func DecodeFrame(data []byte) (*DecodedFrame, error) {
	f, err := frame.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFrameCorrupted, err)
	}

	d := &DecodedFrame{
		ID:      f.ID,
		Flags:   f.Flags,
		Address: f.Address,
		Length:  f.Length,
		Count:   f.Count,
		Payload: f.Payload,
	}

	cmd, ok := matchCommand(f)
	if !ok {
		return d, nil
	}
	d.Command = cmd
	d.Known = true

	layout := layouts[cmd.Name]
	if len(layout) == 0 {
		return d, nil
	}
	if !cmd.IsBatch() {
		d.Params = decodeFields(layout, f.Payload, 0)
		return d, nil
	}
	w := int(cmd.Width)
	for i := 0; i < int(f.Count); i++ {
		d.Params = append(d.Params, decodeFields(layout, f.Payload[i*w:(i+1)*w], i)...)
	}
	return d, nil
}

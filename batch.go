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

	"github.com/ZaparooProject/go-rsservo/internal/frame"
)

// TorqueEntry is one servo's part of a torque long packet
type TorqueEntry struct {
	ID   ServoID
	Mode TorqueMode
}

// MoveEntry is one servo's part of a move long packet
type MoveEntry struct {
	ID       ServoID
	Position Position
	Duration Duration
}

// Flat list arities: (id, mode) and (id, position, duration)
const (
	torqueArity = 2
	moveArity   = 3
)

// checkBatchLen rejects flat lists that do not split evenly into entries
func checkBatchLen(n, arity int) (int, error) {
	if n == 0 {
		return 0, fmt.Errorf("%w: empty list", ErrMalformedBatchInput)
	}
	if n%arity != 0 {
		return 0, fmt.Errorf("%w: %d values is not a multiple of %d", ErrMalformedBatchInput, n, arity)
	}
	if n/arity > frame.MaxCount {
		return 0, fmt.Errorf("%w: %d entries exceeds %d", ErrMalformedBatchInput, n/arity, frame.MaxCount)
	}
	return n / arity, nil
}

func checkEntryCount(n int) error {
	if n == 0 {
		return fmt.Errorf("%w: no entries", ErrMalformedBatchInput)
	}
	if n > frame.MaxCount {
		return fmt.Errorf("%w: %d entries exceeds %d", ErrMalformedBatchInput, n, frame.MaxCount)
	}
	return nil
}

func intInRange(name string, v, lo, hi int) error {
	if v < lo || v > hi {
		return fmt.Errorf("%w: %s %d not in [%d, %d]", ErrOutOfRange, name, v, lo, hi)
	}
	return nil
}

// ParseTorqueList splits a flat [id, mode, id, mode, ...] list into entries.
// In legacy mode values are masked to 8 bits instead of range checked.
func ParseTorqueList(values []int, mode ValidationMode) ([]TorqueEntry, error) {
	n, err := checkBatchLen(len(values), torqueArity)
	if err != nil {
		return nil, err
	}

	entries := make([]TorqueEntry, 0, n)
	for i := 0; i < len(values); i += torqueArity {
		id, torque := values[i], values[i+1]
		if err := mode.check(
			intInRange("servo id", id, int(MinServoID), int(MaxServoID)),
			intInRange("torque mode", torque, int(TorqueOff), int(TorqueBrake)),
		); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i/torqueArity, err)
		}
		entries = append(entries, TorqueEntry{
			ID:   ServoID(frame.Uint8(id)),
			Mode: TorqueMode(frame.Uint8(torque)),
		})
	}
	return entries, nil
}

// ParseMoveList splits a flat [id, position, duration, ...] list into entries.
// In legacy mode positions and durations are masked to 16 bits.
func ParseMoveList(values []int, mode ValidationMode) ([]MoveEntry, error) {
	n, err := checkBatchLen(len(values), moveArity)
	if err != nil {
		return nil, err
	}

	entries := make([]MoveEntry, 0, n)
	for i := 0; i < len(values); i += moveArity {
		id, pos, dur := values[i], values[i+1], values[i+2]
		if err := mode.check(
			intInRange("servo id", id, int(MinServoID), int(MaxServoID)),
			intInRange("position", pos, int(MinPosition), int(MaxPosition)),
			intInRange("duration", dur, 0, int(MaxDuration)),
		); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i/moveArity, err)
		}
		entries = append(entries, MoveEntry{
			ID:       ServoID(frame.Uint8(id)),
			Position: Position(int16(frame.Uint16(pos))),
			Duration: Duration(frame.Uint16(dur)),
		})
	}
	return entries, nil
}

// EncodeTorqueBatch flattens entries into [id, mode] pairs for a torque long packet
func EncodeTorqueBatch(entries []TorqueEntry) ([]byte, error) {
	return encodeTorqueBatch(ValidationStrict, entries)
}

// EncodeMoveBatch flattens entries into [id, posL, posH, timeL, timeH] groups
// for a move long packet
func EncodeMoveBatch(entries []MoveEntry) ([]byte, error) {
	return encodeMoveBatch(ValidationStrict, entries)
}

func encodeTorqueBatch(mode ValidationMode, entries []TorqueEntry) ([]byte, error) {
	if err := checkEntryCount(len(entries)); err != nil {
		return nil, err
	}

	buf := make([]byte, 0, len(entries)*int(cmdSetTorqueMulti.Width))
	for i, e := range entries {
		if err := mode.check(e.ID.Validate(), e.Mode.Validate()); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		buf = append(buf, byte(e.ID), byte(e.Mode))
	}
	return buf, nil
}

func encodeMoveBatch(mode ValidationMode, entries []MoveEntry) ([]byte, error) {
	if err := checkEntryCount(len(entries)); err != nil {
		return nil, err
	}

	buf := make([]byte, 0, len(entries)*int(cmdSetMoveMulti.Width))
	for i, e := range entries {
		if err := mode.check(e.ID.Validate(), e.Position.Validate(), e.Duration.Validate()); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		pos := frame.PutInt16LE(int16(e.Position))
		dur := frame.PutUint16LE(uint16(e.Duration))
		buf = append(buf, byte(e.ID), pos[0], pos[1], dur[0], dur[1])
	}
	return buf, nil
}

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
	"context"
	"fmt"

	"github.com/ZaparooProject/go-rsservo/internal/frame"
)

// WriteFlashROMContext stores the servo's current settings (addresses 4-29)
// in flash ROM
func (d *Device) WriteFlashROMContext(ctx context.Context, id ServoID) error {
	return d.sendShort(ctx, cmdWriteFlashROM, id, nil)
}

// RebootContext restarts the servo
func (d *Device) RebootContext(ctx context.Context, id ServoID) error {
	return d.sendShort(ctx, cmdReboot, id, nil)
}

// FactoryResetContext restores the servo's factory settings
func (d *Device) FactoryResetContext(ctx context.Context, id ServoID) error {
	return d.sendShort(ctx, cmdFactoryReset, id, nil)
}

// SetIDContext changes the servo id. The servo accepts it only with torque off.
func (d *Device) SetIDContext(ctx context.Context, id, newID ServoID) error {
	if err := d.config.Validation.check(newID.Validate()); err != nil {
		return fmt.Errorf("%s new id: %w", cmdSetID.Name, err)
	}
	return d.sendShort(ctx, cmdSetID, id, []byte{byte(newID)})
}

// SetReverseContext sets the rotation direction. Torque must be off.
func (d *Device) SetReverseContext(ctx context.Context, id ServoID, rotation Rotation) error {
	if err := d.config.Validation.check(rotation.Validate()); err != nil {
		return fmt.Errorf("%s: %w", cmdSetReverse.Name, err)
	}
	return d.sendShort(ctx, cmdSetReverse, id, []byte{byte(rotation)})
}

// SetBaudRateContext sets the servo's communication speed. The transport
// must be reopened at the new speed afterwards.
func (d *Device) SetBaudRateContext(ctx context.Context, id ServoID, rate BaudRate) error {
	if err := d.config.Validation.check(rate.Validate()); err != nil {
		return fmt.Errorf("%s: %w", cmdSetBaudRate.Name, err)
	}
	return d.sendShort(ctx, cmdSetBaudRate, id, []byte{byte(rate)})
}

// SetReturnDelayContext sets the delay before the servo answers. Torque must be off.
func (d *Device) SetReturnDelayContext(ctx context.Context, id ServoID, delay uint8) error {
	return d.sendShort(ctx, cmdSetReturnDelay, id, []byte{delay})
}

// SetAngleLimitContext sets the clockwise and counter-clockwise travel limits.
// Torque must be off.
func (d *Device) SetAngleLimitContext(ctx context.Context, id ServoID, limit AngleLimit) error {
	if err := d.config.Validation.check(limit.Validate()); err != nil {
		return fmt.Errorf("%s: %w", cmdSetAngleLimit.Name, err)
	}
	cw := frame.PutInt16LE(int16(limit.CW))
	ccw := frame.PutInt16LE(int16(limit.CCW))
	return d.sendShort(ctx, cmdSetAngleLimit, id, []byte{cw[0], cw[1], ccw[0], ccw[1]})
}

// SetTempLimitContext sets the temperature limit
func (d *Device) SetTempLimitContext(ctx context.Context, id ServoID, limit uint16) error {
	b := frame.PutUint16LE(limit)
	return d.sendShort(ctx, cmdSetTempLimit, id, b[:])
}

// SetComplianceContext sets the compliance margins, slopes and punch
func (d *Device) SetComplianceContext(ctx context.Context, id ServoID, c Compliance) error {
	punch := frame.PutUint16LE(c.Punch)
	return d.sendShort(ctx, cmdSetCompliance, id, []byte{
		c.MarginCW, c.MarginCCW, c.SlopeCW, c.SlopeCCW, punch[0], punch[1],
	})
}

// SetMoveContext moves the servo to pos, taking dur to get there
func (d *Device) SetMoveContext(ctx context.Context, id ServoID, pos Position, dur Duration) error {
	if err := d.config.Validation.check(pos.Validate(), dur.Validate()); err != nil {
		return fmt.Errorf("%s: %w", cmdSetMove.Name, err)
	}
	p := frame.PutInt16LE(int16(pos))
	t := frame.PutUint16LE(uint16(dur))
	return d.sendShort(ctx, cmdSetMove, id, []byte{p[0], p[1], t[0], t[1]})
}

// SetMaxTorqueContext limits output torque to percent (0-100) of maximum
func (d *Device) SetMaxTorqueContext(ctx context.Context, id ServoID, percent uint8) error {
	if err := d.config.Validation.check(
		intInRange("max torque", int(percent), 0, MaxTorquePercent),
	); err != nil {
		return fmt.Errorf("%s: %w", cmdSetMaxTorque.Name, err)
	}
	return d.sendShort(ctx, cmdSetMaxTorque, id, []byte{percent})
}

// SetTorqueContext switches torque off, on or to brake mode
func (d *Device) SetTorqueContext(ctx context.Context, id ServoID, mode TorqueMode) error {
	if err := d.config.Validation.check(mode.Validate()); err != nil {
		return fmt.Errorf("%s: %w", cmdSetTorque.Name, err)
	}
	return d.sendShort(ctx, cmdSetTorque, id, []byte{byte(mode)})
}

// SetPIDContext sets the motor control coefficient (1-255)
func (d *Device) SetPIDContext(ctx context.Context, id ServoID, pid uint8) error {
	if err := d.config.Validation.check(intInRange("pid", int(pid), 1, 0xFF)); err != nil {
		return fmt.Errorf("%s: %w", cmdSetPID.Name, err)
	}
	return d.sendShort(ctx, cmdSetPID, id, []byte{pid})
}

// SetTorqueBatchContext sets torque modes of several servos in one long packet
func (d *Device) SetTorqueBatchContext(ctx context.Context, entries []TorqueEntry) error {
	data, err := encodeTorqueBatch(d.config.Validation, entries)
	if err != nil {
		return fmt.Errorf("%s: %w", cmdSetTorqueMulti.Name, err)
	}
	return d.sendLong(ctx, cmdSetTorqueMulti, len(entries), data)
}

// SetMoveBatchContext moves several servos with one long packet
func (d *Device) SetMoveBatchContext(ctx context.Context, entries []MoveEntry) error {
	data, err := encodeMoveBatch(d.config.Validation, entries)
	if err != nil {
		return fmt.Errorf("%s: %w", cmdSetMoveMulti.Name, err)
	}
	return d.sendLong(ctx, cmdSetMoveMulti, len(entries), data)
}

// SetTorqueMultiContext takes a flat [id, mode, id, mode, ...] list
func (d *Device) SetTorqueMultiContext(ctx context.Context, values []int) error {
	entries, err := ParseTorqueList(values, d.config.Validation)
	if err != nil {
		return fmt.Errorf("%s: %w", cmdSetTorqueMulti.Name, err)
	}
	return d.SetTorqueBatchContext(ctx, entries)
}

// SetMoveMultiContext takes a flat [id, position, duration, ...] list
func (d *Device) SetMoveMultiContext(ctx context.Context, values []int) error {
	entries, err := ParseMoveList(values, d.config.Validation)
	if err != nil {
		return fmt.Errorf("%s: %w", cmdSetMoveMulti.Name, err)
	}
	return d.SetMoveBatchContext(ctx, entries)
}

// WriteRegisterContext sends a short packet for any catalog command with
// already encoded data. len(data) must match cmd.Width.
func (d *Device) WriteRegisterContext(ctx context.Context, id ServoID, cmd Command, data []byte) error {
	if known, ok := LookupCommand(cmd.Name); !ok || known != cmd {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Name)
	}
	if cmd.IsBatch() {
		return fmt.Errorf("%w: %s is a long packet command", ErrInvalidParameter, cmd.Name)
	}
	return d.sendShort(ctx, cmd, id, data)
}

// SendRawContext writes a pre-encoded command frame after checking its
// header, length and checksum
func (d *Device) SendRawContext(ctx context.Context, data []byte) (int, error) {
	f, err := frame.Parse(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFrameCorrupted, err)
	}
	cmd, ok := matchCommand(f)
	if !ok {
		cmd = Command{Name: "raw", Flags: f.Flags, Address: f.Address, Width: f.Length}
	}
	return d.send(ctx, cmd, f)
}

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
)

// WriteFlashROM stores the servo's current settings in flash ROM
func (d *Device) WriteFlashROM(id ServoID) error {
	return d.WriteFlashROMContext(context.Background(), id)
}

// Reboot restarts the servo
func (d *Device) Reboot(id ServoID) error {
	return d.RebootContext(context.Background(), id)
}

// FactoryReset restores the servo's factory settings
func (d *Device) FactoryReset(id ServoID) error {
	return d.FactoryResetContext(context.Background(), id)
}

// SetID changes the servo id
func (d *Device) SetID(id, newID ServoID) error {
	return d.SetIDContext(context.Background(), id, newID)
}

// SetReverse sets the rotation direction
func (d *Device) SetReverse(id ServoID, rotation Rotation) error {
	return d.SetReverseContext(context.Background(), id, rotation)
}

// SetBaudRate sets the servo's communication speed
func (d *Device) SetBaudRate(id ServoID, rate BaudRate) error {
	return d.SetBaudRateContext(context.Background(), id, rate)
}

// SetReturnDelay sets the delay before the servo answers
func (d *Device) SetReturnDelay(id ServoID, delay uint8) error {
	return d.SetReturnDelayContext(context.Background(), id, delay)
}

// SetAngleLimit sets the travel limits
func (d *Device) SetAngleLimit(id ServoID, limit AngleLimit) error {
	return d.SetAngleLimitContext(context.Background(), id, limit)
}

// SetTempLimit sets the temperature limit
func (d *Device) SetTempLimit(id ServoID, limit uint16) error {
	return d.SetTempLimitContext(context.Background(), id, limit)
}

// SetCompliance sets the compliance registers
func (d *Device) SetCompliance(id ServoID, c Compliance) error {
	return d.SetComplianceContext(context.Background(), id, c)
}

// SetMove moves the servo to pos over dur.
//
// Example: move servo 1 to +150.0 degrees in 0.6 s
//
//	err := device.SetMove(1, 1500, 60)
func (d *Device) SetMove(id ServoID, pos Position, dur Duration) error {
	return d.SetMoveContext(context.Background(), id, pos, dur)
}

// SetMaxTorque limits output torque in percent
func (d *Device) SetMaxTorque(id ServoID, percent uint8) error {
	return d.SetMaxTorqueContext(context.Background(), id, percent)
}

// SetTorque switches torque off, on or to brake mode
func (d *Device) SetTorque(id ServoID, mode TorqueMode) error {
	return d.SetTorqueContext(context.Background(), id, mode)
}

// SetPID sets the motor control coefficient
func (d *Device) SetPID(id ServoID, pid uint8) error {
	return d.SetPIDContext(context.Background(), id, pid)
}

// SetTorqueBatch sets torque modes of several servos in one long packet
func (d *Device) SetTorqueBatch(entries []TorqueEntry) error {
	return d.SetTorqueBatchContext(context.Background(), entries)
}

// SetMoveBatch moves several servos with one long packet
func (d *Device) SetMoveBatch(entries []MoveEntry) error {
	return d.SetMoveBatchContext(context.Background(), entries)
}

// SetTorqueMulti takes a flat [id, mode, ...] list
func (d *Device) SetTorqueMulti(values []int) error {
	return d.SetTorqueMultiContext(context.Background(), values)
}

// SetMoveMulti takes a flat [id, position, duration, ...] list
func (d *Device) SetMoveMulti(values []int) error {
	return d.SetMoveMultiContext(context.Background(), values)
}

// WriteRegister sends a short packet for any catalog command
func (d *Device) WriteRegister(id ServoID, cmd Command, data []byte) error {
	return d.WriteRegisterContext(context.Background(), id, cmd, data)
}

// SendRaw writes a pre-encoded command frame
func (d *Device) SendRaw(data []byte) (int, error) {
	return d.SendRawContext(context.Background(), data)
}

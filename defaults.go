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

// Factory default register values
const (
	DefaultAngleLimitCW  uint16 = 0x05DC // +150.0 degrees
	DefaultAngleLimitCCW uint16 = 0xFA24 // -150.0 degrees
	DefaultMarginCW      uint8  = 0x02
	DefaultMarginCCW     uint8  = 0x02
	DefaultSlopeCW       uint8  = 0x01
	DefaultSlopeCCW      uint8  = 0x01
	DefaultPunch         uint16 = 0x0008
	DefaultTempLimit     uint16 = 0x0037
	DefaultMaxTorque     uint8  = 0x64
	DefaultPID           uint8  = 0x64
	DefaultBaudRate             = Baud115200
	DefaultReturnDelay   uint8  = 0x00
	DefaultRotation             = RotationNormal
)

// DefaultAngleLimit returns the full travel limits
func DefaultAngleLimit() AngleLimit {
	cw, ccw := DefaultAngleLimitCW, DefaultAngleLimitCCW
	return AngleLimit{
		CW:  Position(int16(cw)),
		CCW: Position(int16(ccw)),
	}
}

// DefaultCompliance returns the factory compliance settings
func DefaultCompliance() Compliance {
	return Compliance{
		MarginCW:  DefaultMarginCW,
		MarginCCW: DefaultMarginCCW,
		SlopeCW:   DefaultSlopeCW,
		SlopeCCW:  DefaultSlopeCCW,
		Punch:     DefaultPunch,
	}
}

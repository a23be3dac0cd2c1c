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
	"math"
	"time"
)

// ServoID addresses one servo on the bus
type ServoID uint8

// Servo id bounds
const (
	MinServoID ServoID = 1
	MaxServoID ServoID = 127
)

// Validate checks the id is addressable by a short packet
func (id ServoID) Validate() error {
	if id < MinServoID || id > MaxServoID {
		return fmt.Errorf("%w: servo id %d not in [%d, %d]", ErrOutOfRange, id, MinServoID, MaxServoID)
	}
	return nil
}

// Position is a target angle in 0.1 degree units
type Position int16

// Position bounds (-150.0 to +150.0 degrees)
const (
	MinPosition Position = -1500
	MaxPosition Position = 1500
)

// Validate checks the position is within the servo's travel
func (p Position) Validate() error {
	if p < MinPosition || p > MaxPosition {
		return fmt.Errorf("%w: position %d not in [%d, %d]", ErrOutOfRange, p, MinPosition, MaxPosition)
	}
	return nil
}

// Degrees returns the position in degrees
func (p Position) Degrees() float64 {
	return float64(p) / 10
}

// PositionFromDegrees rounds deg to the nearest 0.1 degree
func PositionFromDegrees(deg float64) (Position, error) {
	v := math.Round(deg * 10)
	if math.IsNaN(v) || v < float64(MinPosition) || v > float64(MaxPosition) {
		return 0, fmt.Errorf("%w: %.1f degrees not in [-150.0, 150.0]", ErrOutOfRange, deg)
	}
	return Position(v), nil
}

// Duration is a move time in 10 ms units
type Duration uint16

// MaxDuration is the longest encodable move time (163.83 s)
const MaxDuration Duration = 0x3FFF

// DurationUnit is the wall time of one Duration step
const DurationUnit = 10 * time.Millisecond

// Validate checks the duration fits the 14-bit field
func (d Duration) Validate() error {
	if d > MaxDuration {
		return fmt.Errorf("%w: duration %d exceeds %d", ErrOutOfRange, d, MaxDuration)
	}
	return nil
}

// Std converts to a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d) * DurationUnit
}

// DurationFrom rounds t down to 10 ms steps
func DurationFrom(t time.Duration) (Duration, error) {
	if t < 0 || t/DurationUnit > time.Duration(MaxDuration) {
		return 0, fmt.Errorf("%w: move time %s not in [0, %s]", ErrOutOfRange, t, MaxDuration.Std())
	}
	return Duration(t / DurationUnit), nil
}

// TorqueMode is the torque enable register value
type TorqueMode uint8

// Torque modes
const (
	TorqueOff   TorqueMode = 0
	TorqueOn    TorqueMode = 1
	TorqueBrake TorqueMode = 2
)

// Validate checks the mode is one of off, on or brake
func (m TorqueMode) Validate() error {
	if m > TorqueBrake {
		return fmt.Errorf("%w: torque mode %d", ErrOutOfRange, m)
	}
	return nil
}

// String returns the mode name
func (m TorqueMode) String() string {
	switch m {
	case TorqueOff:
		return "off"
	case TorqueOn:
		return "on"
	case TorqueBrake:
		return "brake"
	default:
		return fmt.Sprintf("TorqueMode(%d)", uint8(m))
	}
}

// ParseTorqueMode accepts a mode name or its register value
func ParseTorqueMode(s string) (TorqueMode, error) {
	switch s {
	case "off", "0":
		return TorqueOff, nil
	case "on", "1":
		return TorqueOn, nil
	case "brake", "2":
		return TorqueBrake, nil
	default:
		return 0, fmt.Errorf("%w: torque mode %q", ErrInvalidParameter, s)
	}
}

// Rotation selects the servo's rotation direction
type Rotation uint8

// Rotation directions
const (
	RotationNormal   Rotation = 0
	RotationReversed Rotation = 1
)

// Validate checks the value is normal or reversed
func (r Rotation) Validate() error {
	if r > RotationReversed {
		return fmt.Errorf("%w: rotation %d", ErrOutOfRange, r)
	}
	return nil
}

// BaudRate is the servo's communication speed index
type BaudRate uint8

// Baud rate indexes
const (
	Baud9600   BaudRate = 0
	Baud14400  BaudRate = 1
	Baud19200  BaudRate = 2
	Baud28800  BaudRate = 3
	Baud38400  BaudRate = 4
	Baud57600  BaudRate = 5
	Baud76800  BaudRate = 6
	Baud115200 BaudRate = 7
	Baud153600 BaudRate = 8
	Baud230400 BaudRate = 9
)

var baudRates = [...]int{9600, 14400, 19200, 28800, 38400, 57600, 76800, 115200, 153600, 230400}

// Validate checks the index names a supported speed
func (b BaudRate) Validate() error {
	if int(b) >= len(baudRates) {
		return fmt.Errorf("%w: baud rate index %d", ErrOutOfRange, b)
	}
	return nil
}

// BPS returns the speed in bits per second, or 0 for an unknown index
func (b BaudRate) BPS() int {
	if int(b) >= len(baudRates) {
		return 0
	}
	return baudRates[b]
}

// BaudRateFromBPS returns the index for a speed in bits per second
func BaudRateFromBPS(bps int) (BaudRate, error) {
	for i, v := range baudRates {
		if v == bps {
			return BaudRate(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unsupported baud rate %d", ErrInvalidParameter, bps)
}

// MaxTorquePercent bounds the max torque register
const MaxTorquePercent = 100

// AngleLimit bounds the servo's travel
type AngleLimit struct {
	CW  Position
	CCW Position
}

// Validate checks both limits are valid positions
func (a AngleLimit) Validate() error {
	if err := a.CW.Validate(); err != nil {
		return fmt.Errorf("cw limit: %w", err)
	}
	if err := a.CCW.Validate(); err != nil {
		return fmt.Errorf("ccw limit: %w", err)
	}
	return nil
}

// Compliance holds the control law tuning registers
type Compliance struct {
	MarginCW  uint8
	MarginCCW uint8
	SlopeCW   uint8
	SlopeCCW  uint8
	Punch     uint16
}

// ValidationMode selects how out-of-range parameters are handled
type ValidationMode int

const (
	// ValidationStrict rejects out-of-range values before any byte is built
	ValidationStrict ValidationMode = iota
	// ValidationLegacy masks values to their field width and sends them anyway,
	// matching older drivers bit for bit
	ValidationLegacy
)

// String returns the mode name
func (m ValidationMode) String() string {
	if m == ValidationLegacy {
		return "legacy"
	}
	return "strict"
}

// check returns the first non-nil error in strict mode and nil in legacy mode
func (m ValidationMode) check(errs ...error) error {
	if m == ValidationLegacy {
		return nil
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

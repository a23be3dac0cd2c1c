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

// Package profile loads servo register settings from YAML and writes them
// to a bus
package profile

import (
	"context"
	"fmt"
	"os"

	rsservo "github.com/ZaparooProject/go-rsservo"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Profile is the top level of a profile file
type Profile struct {
	Port   string  `yaml:"port,omitempty"`
	Baud   int     `yaml:"baud,omitempty" validate:"omitempty,oneof=9600 14400 19200 28800 38400 57600 76800 115200 153600 230400"`
	Servos []Servo `yaml:"servos" validate:"required,min=1,unique=ID,dive"`
}

// AngleLimit is the travel range in 0.1 degree units
type AngleLimit struct {
	CW  int `yaml:"cw" validate:"min=-1500,max=1500"`
	CCW int `yaml:"ccw" validate:"min=-1500,max=1500"`
}

// Compliance mirrors the compliance registers
type Compliance struct {
	MarginCW  uint8  `yaml:"margin_cw"`
	MarginCCW uint8  `yaml:"margin_ccw"`
	SlopeCW   uint8  `yaml:"slope_cw"`
	SlopeCCW  uint8  `yaml:"slope_ccw"`
	Punch     uint16 `yaml:"punch"`
}

// Servo holds the settings for one servo. Nil fields are left untouched.
type Servo struct {
	Reverse     *bool       `yaml:"reverse,omitempty"`
	ReturnDelay *uint8      `yaml:"return_delay,omitempty"`
	AngleLimit  *AngleLimit `yaml:"angle_limit,omitempty"`
	TempLimit   *uint16     `yaml:"temp_limit,omitempty"`
	Compliance  *Compliance `yaml:"compliance,omitempty"`
	MaxTorque   *uint8      `yaml:"max_torque,omitempty" validate:"omitempty,max=100"`
	PID         *uint8      `yaml:"pid,omitempty" validate:"omitempty,min=1"`
	Torque      string      `yaml:"torque,omitempty" validate:"omitempty,oneof=off on brake"`
	ID          int         `yaml:"id" validate:"required,min=1,max=127"`
	WriteFlash  bool        `yaml:"write_flash,omitempty"`
}

var validate = validator.New()

// Load reads and validates a profile file
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes and validates a profile
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", rsservo.ErrInvalidParameter, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks every field range
func (p *Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %w", rsservo.ErrOutOfRange, err)
	}
	return nil
}

// Marshal encodes the profile as YAML
func (p *Profile) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile: %w", err)
	}
	return data, nil
}

// Default returns the factory settings for one servo
func Default(id int) Servo {
	reverse := rsservo.DefaultRotation == rsservo.RotationReversed
	delay := rsservo.DefaultReturnDelay
	limit := rsservo.DefaultAngleLimit()
	temp := rsservo.DefaultTempLimit
	c := rsservo.DefaultCompliance()
	maxTorque := rsservo.DefaultMaxTorque
	pid := rsservo.DefaultPID

	return Servo{
		ID:          id,
		Reverse:     &reverse,
		ReturnDelay: &delay,
		AngleLimit:  &AngleLimit{CW: int(limit.CW), CCW: int(limit.CCW)},
		TempLimit:   &temp,
		Compliance: &Compliance{
			MarginCW:  c.MarginCW,
			MarginCCW: c.MarginCCW,
			SlopeCW:   c.SlopeCW,
			SlopeCCW:  c.SlopeCCW,
			Punch:     c.Punch,
		},
		MaxTorque: &maxTorque,
		PID:       &pid,
	}
}

// Apply writes every servo's settings in register order, then stores them
// in flash ROM for servos with WriteFlash set. It stops at the first error.
func (p *Profile) Apply(ctx context.Context, dev *rsservo.Device) error {
	for i := range p.Servos {
		if err := p.Servos[i].Apply(ctx, dev); err != nil {
			return err
		}
	}
	return nil
}

// Apply writes this servo's settings
func (s *Servo) Apply(ctx context.Context, dev *rsservo.Device) error {
	id := rsservo.ServoID(s.ID)
	log := rsservo.Logger().With(zap.Int("servo", s.ID))

	steps := s.steps(id)
	for _, step := range steps {
		if err := step.write(ctx, dev); err != nil {
			return fmt.Errorf("servo %d %s: %w", s.ID, step.name, err)
		}
		log.Debug("profile register written", zap.String("register", step.name))
	}
	return nil
}

type step struct {
	write func(ctx context.Context, dev *rsservo.Device) error
	name  string
}

func (s *Servo) steps(id rsservo.ServoID) []step {
	var steps []step
	add := func(name string, fn func(ctx context.Context, dev *rsservo.Device) error) {
		steps = append(steps, step{name: name, write: fn})
	}

	if s.Reverse != nil {
		rotation := rsservo.RotationNormal
		if *s.Reverse {
			rotation = rsservo.RotationReversed
		}
		add("reverse", func(ctx context.Context, dev *rsservo.Device) error {
			return dev.SetReverseContext(ctx, id, rotation)
		})
	}
	if s.ReturnDelay != nil {
		delay := *s.ReturnDelay
		add("return_delay", func(ctx context.Context, dev *rsservo.Device) error {
			return dev.SetReturnDelayContext(ctx, id, delay)
		})
	}
	if s.AngleLimit != nil {
		limit := rsservo.AngleLimit{
			CW:  rsservo.Position(s.AngleLimit.CW),
			CCW: rsservo.Position(s.AngleLimit.CCW),
		}
		add("angle_limit", func(ctx context.Context, dev *rsservo.Device) error {
			return dev.SetAngleLimitContext(ctx, id, limit)
		})
	}
	if s.TempLimit != nil {
		temp := *s.TempLimit
		add("temp_limit", func(ctx context.Context, dev *rsservo.Device) error {
			return dev.SetTempLimitContext(ctx, id, temp)
		})
	}
	if s.Compliance != nil {
		c := rsservo.Compliance(*s.Compliance)
		add("compliance", func(ctx context.Context, dev *rsservo.Device) error {
			return dev.SetComplianceContext(ctx, id, c)
		})
	}
	if s.MaxTorque != nil {
		percent := *s.MaxTorque
		add("max_torque", func(ctx context.Context, dev *rsservo.Device) error {
			return dev.SetMaxTorqueContext(ctx, id, percent)
		})
	}
	if s.Torque != "" {
		add("torque", func(ctx context.Context, dev *rsservo.Device) error {
			mode, err := rsservo.ParseTorqueMode(s.Torque)
			if err != nil {
				return err
			}
			return dev.SetTorqueContext(ctx, id, mode)
		})
	}
	if s.PID != nil {
		pid := *s.PID
		add("pid", func(ctx context.Context, dev *rsservo.Device) error {
			return dev.SetPIDContext(ctx, id, pid)
		})
	}
	if s.WriteFlash {
		add("write_flash", func(ctx context.Context, dev *rsservo.Device) error {
			return dev.WriteFlashROMContext(ctx, id)
		})
	}
	return steps
}

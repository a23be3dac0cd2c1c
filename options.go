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
	"time"

	"go.uber.org/zap"
)

// Option is a functional option for configuring a Device
type Option func(*Device) error

// WithTimeout sets the transport write timeout
func WithTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		if timeout < 0 {
			return fmt.Errorf("%w: negative timeout %s", ErrInvalidParameter, timeout)
		}
		return d.SetTimeout(timeout)
	}
}

// WithValidationMode selects strict range checks or legacy masking
func WithValidationMode(mode ValidationMode) Option {
	return func(d *Device) error {
		d.config.Validation = mode
		return nil
	}
}

// WithLegacyMasking sends out-of-range values truncated to their field
// width instead of rejecting them
func WithLegacyMasking() Option {
	return WithValidationMode(ValidationLegacy)
}

// WithLogger sets the logger used for frame tracing
func WithLogger(logger *zap.Logger) Option {
	return func(d *Device) error {
		d.logger = logger
		return nil
	}
}

// WithFrameObserver registers an observer notified after every write
func WithFrameObserver(observer FrameObserver) Option {
	return func(d *Device) error {
		d.observer = observer
		return nil
	}
}

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

// Package rs485 drives a half-duplex RS485 transceiver. The driver-enable
// line is a GPIO pin that is raised for the duration of each frame.
package rs485

import (
	"context"
	"fmt"
	"sync"
	"time"

	rsservo "github.com/ZaparooProject/go-rsservo"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// DirectionPin is the output that switches the transceiver between
// transmit and receive. Any periph gpio.PinOut satisfies it.
type DirectionPin interface {
	Out(l gpio.Level) error
}

// Option configures a Transport
type Option func(*Transport)

// WithActiveLow inverts the driver-enable level
func WithActiveLow() Option {
	return func(t *Transport) {
		t.transmit = gpio.Low
	}
}

// WithTurnaround waits d after the frame is drained before releasing the bus
func WithTurnaround(d time.Duration) Option {
	return func(t *Transport) {
		t.turnaround = d
	}
}

// Transport wraps a serial transport and toggles the direction pin around
// every frame
type Transport struct {
	line       rsservo.Transport
	pin        DirectionPin
	pinName    string
	transmit   gpio.Level
	turnaround time.Duration
	mu         sync.Mutex
}

// New looks up pinName through periph's GPIO registry and wraps line
func New(line rsservo.Transport, pinName string, opts ...Option) (*Transport, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, fmt.Errorf("%w: gpio pin %q not found", rsservo.ErrTransportUnavailable, pinName)
	}

	t, err := NewWithPin(line, pin, opts...)
	if err != nil {
		return nil, err
	}
	t.pinName = pinName
	return t, nil
}

// NewWithPin wraps line using an already opened direction pin. The pin is
// set to receive before returning.
func NewWithPin(line rsservo.Transport, pin DirectionPin, opts ...Option) (*Transport, error) {
	if line == nil || pin == nil {
		return nil, fmt.Errorf("%w: rs485 needs a serial line and a direction pin", rsservo.ErrInvalidParameter)
	}

	t := &Transport{
		line:     line,
		pin:      pin,
		transmit: gpio.High,
	}
	for _, opt := range opts {
		opt(t)
	}

	if err := t.pin.Out(!t.transmit); err != nil {
		return nil, fmt.Errorf("failed to set direction pin: %w", err)
	}
	return t, nil
}

// Write enables the driver, writes and drains the frame, then returns the
// bus to receive. The pin is released even when the write fails.
func (t *Transport) Write(data []byte) (n int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.pin.Out(t.transmit); err != nil {
		return 0, rsservo.NewTransportError("direction", t.PortName(), err, rsservo.ErrorTypeTransient)
	}
	defer func() {
		if t.turnaround > 0 {
			time.Sleep(t.turnaround)
		}
		if perr := t.pin.Out(!t.transmit); perr != nil {
			rsservo.Logger().Warn("failed to release rs485 direction pin",
				zap.String("pin", t.pinName), zap.Error(perr))
			if err == nil {
				err = rsservo.NewTransportError("direction", t.PortName(), perr, rsservo.ErrorTypeTransient)
			}
		}
	}()

	n, err = t.line.Write(data)
	if err != nil {
		return n, err
	}
	// Bytes still in the UART would be cut off when the driver turns off
	if err := t.line.Flush(); err != nil {
		return n, err
	}
	return n, nil
}

// WriteContext writes the frame unless ctx is already done
func (t *Transport) WriteContext(ctx context.Context, data []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context cancelled before write: %w", err)
	}
	return t.Write(data)
}

// Flush is a no-op; Write already drained the line
func (*Transport) Flush() error {
	return nil
}

// Close releases the bus and closes the serial line
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_ = t.pin.Out(!t.transmit)
	if err := t.line.Close(); err != nil {
		return fmt.Errorf("failed to close rs485 line: %w", err)
	}
	return nil
}

// SetTimeout sets the serial line write timeout
func (t *Transport) SetTimeout(timeout time.Duration) error {
	return t.line.SetTimeout(timeout)
}

// Timeout returns the serial line's write timeout, or 0 when the line does
// not report one
func (t *Transport) Timeout() time.Duration {
	if tr, ok := t.line.(rsservo.TimeoutReporter); ok {
		return tr.Timeout()
	}
	return 0
}

// IsConnected reports whether the serial line is open
func (t *Transport) IsConnected() bool {
	return t.line.IsConnected()
}

// Type returns the transport type
func (*Transport) Type() rsservo.TransportType {
	return rsservo.TransportRS485
}

// PortName returns the serial line's port name
func (t *Transport) PortName() string {
	if pn, ok := t.line.(rsservo.PortNamer); ok {
		return pn.PortName()
	}
	return string(rsservo.TransportRS485)
}

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

// Package uart provides a TTL serial transport for RS servos
package uart

import (
	"context"
	"fmt"
	"sync"
	"time"

	rsservo "github.com/ZaparooProject/go-rsservo"
	"github.com/ZaparooProject/go-rsservo/internal/transport"
	"go.bug.st/serial"
	"go.uber.org/zap"
)

// DefaultPort is the Raspberry Pi primary UART
const DefaultPort = "/dev/serial0"

// Config holds the serial line settings
type Config struct {
	BaudRate int
	DataBits int
	Parity   serial.Parity
	StopBits serial.StopBits
	// Timeout bounds how long Write keeps retrying while the port accepts
	// zero bytes. A single blocked port write is not interrupted.
	Timeout time.Duration
}

// DefaultConfig returns 115200 baud 8N1 with a 100 ms stall timeout
func DefaultConfig() Config {
	return Config{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
		Timeout:  100 * time.Millisecond,
	}
}

func (c Config) mode() *serial.Mode {
	return &serial.Mode{
		BaudRate: c.BaudRate,
		DataBits: c.DataBits,
		Parity:   c.Parity,
		StopBits: c.StopBits,
	}
}

// Option configures a Transport
type Option func(*Config)

// WithBaudRate sets the line speed in bits per second
func WithBaudRate(bps int) Option {
	return func(c *Config) {
		c.BaudRate = bps
	}
}

// WithTimeout sets the stall timeout, see Config.Timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithConfig replaces the whole line configuration
func WithConfig(config Config) Option {
	return func(c *Config) {
		*c = config
	}
}

// openPort is replaced in tests
var openPort = serial.Open

// Transport writes frames to a serial port
type Transport struct {
	port     serial.Port
	portName string
	config   Config
	mu       sync.Mutex
}

// New opens portName with the default 115200 8N1 settings unless
// overridden by opts
func New(portName string, opts ...Option) (*Transport, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.BaudRate <= 0 {
		return nil, fmt.Errorf("%w: baud rate %d", rsservo.ErrInvalidParameter, config.BaudRate)
	}

	port, err := openPort(portName, config.mode())
	if err != nil {
		return nil, rsservo.NewUnavailableError(portName, err)
	}

	rsservo.Logger().Debug("uart opened",
		zap.String("port", portName),
		zap.Int("baud", config.BaudRate),
		zap.Duration("timeout", config.Timeout))
	return &Transport{
		port:     port,
		portName: portName,
		config:   config,
	}, nil
}

// Write writes the whole frame, continuing after partial writes
func (t *Transport) Write(data []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		return 0, rsservo.NewTransportError("write", t.portName, rsservo.ErrTransportClosed, rsservo.ErrorTypePermanent)
	}
	return transport.WriteFull(t.port, t.portName, data, t.config.Timeout)
}

// WriteContext writes the frame unless ctx is already done
func (t *Transport) WriteContext(ctx context.Context, data []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context cancelled before write: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return 0, fmt.Errorf("context deadline passed before write: %w", context.DeadlineExceeded)
		}
		if err := t.SetTimeout(remaining); err != nil {
			return 0, err
		}
	}
	return t.Write(data)
}

// Flush waits until the frame has left the UART
func (t *Transport) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		return rsservo.NewTransportError("flush", t.portName, rsservo.ErrTransportClosed, rsservo.ErrorTypePermanent)
	}
	if err := t.port.Drain(); err != nil {
		return rsservo.NewTransportError("flush", t.portName, err, rsservo.ErrorTypeTransient)
	}
	return nil
}

// SetBaudRate changes the line speed of the open port, typically right
// after sending a setBaudrate command
func (t *Transport) SetBaudRate(bps int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		return rsservo.ErrTransportClosed
	}
	config := t.config
	config.BaudRate = bps
	if err := t.port.SetMode(config.mode()); err != nil {
		return fmt.Errorf("failed to set baud rate %d: %w", bps, err)
	}
	t.config = config
	return nil
}

// Close closes the port
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		return nil
	}
	err := t.port.Close()
	t.port = nil
	if err != nil {
		return fmt.Errorf("failed to close %s: %w", t.portName, err)
	}
	return nil
}

// SetTimeout sets the write timeout
func (t *Transport) SetTimeout(timeout time.Duration) error {
	if timeout < 0 {
		return fmt.Errorf("%w: negative timeout %s", rsservo.ErrInvalidParameter, timeout)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.config.Timeout = timeout
	return nil
}

// Timeout returns the write timeout
func (t *Transport) Timeout() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.config.Timeout
}

// IsConnected returns true while the port is open
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.port != nil
}

// Type returns the transport type
func (*Transport) Type() rsservo.TransportType {
	return rsservo.TransportUART
}

// PortName returns the serial device path
func (t *Transport) PortName() string {
	return t.portName
}

// BaudRate returns the configured line speed
func (t *Transport) BaudRate() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.config.BaudRate
}

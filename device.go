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
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/go-rsservo/detection"
	"github.com/ZaparooProject/go-rsservo/internal/frame"
	"go.uber.org/zap"
)

// DeviceConfig contains configuration options for the Device
type DeviceConfig struct {
	// Timeout is the transport write timeout
	Timeout time.Duration
	// Validation selects strict range checks or legacy masking
	Validation ValidationMode
}

// DefaultDeviceConfig returns default device configuration
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		Timeout:    1 * time.Second,
		Validation: ValidationStrict,
	}
}

// FrameObserver is notified after every frame write attempt
type FrameObserver interface {
	ObserveFrame(cmd Command, bytesWritten int, err error)
}

// Device is a connection to one servo bus. It owns its transport.
//
// Thread Safety: Device is NOT thread-safe. All methods must be called from
// a single goroutine or protected with external synchronization. Frames
// written concurrently to one bus interleave on the wire.
type Device struct {
	transport Transport
	config    *DeviceConfig
	logger    *zap.Logger
	observer  FrameObserver
	// timeoutSet is true once SetTimeout or WithTimeout chose a timeout
	timeoutSet bool
}

// New creates a new device with the given transport
func New(transport Transport, opts ...Option) (*Device, error) {
	device := &Device{
		transport: transport,
		config:    DefaultDeviceConfig(),
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	return device, nil
}

// Transport returns the underlying transport
func (d *Device) Transport() Transport {
	return d.transport
}

// ValidationMode returns the active validation mode
func (d *Device) ValidationMode() ValidationMode {
	return d.config.Validation
}

// SetTimeout sets the transport write timeout
func (d *Device) SetTimeout(timeout time.Duration) error {
	d.config.Timeout = timeout
	d.timeoutSet = true
	if d.transport == nil {
		return nil
	}
	if err := d.transport.SetTimeout(timeout); err != nil {
		return fmt.Errorf("failed to set timeout on transport: %w", err)
	}
	return nil
}

// Close closes the device connection
func (d *Device) Close() error {
	if d.transport != nil {
		if err := d.transport.Close(); err != nil {
			return fmt.Errorf("failed to close transport: %w", err)
		}
	}
	return nil
}

func (d *Device) log() *zap.Logger {
	if d.logger != nil {
		return d.logger
	}
	return Logger()
}

// sendShort validates the servo id and writes one short frame
func (d *Device) sendShort(ctx context.Context, cmd Command, id ServoID, data []byte) error {
	if err := d.config.Validation.check(id.Validate()); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name, err)
	}

	f, err := frame.NewShort(byte(id), cmd.Flags, cmd.Address, cmd.Width, data)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", cmd.Name, ErrInvalidParameter, err)
	}

	if _, err := d.send(ctx, cmd, f); err != nil {
		return fmt.Errorf("%s servo %d: %w", cmd.Name, id, err)
	}
	return nil
}

// sendLong writes one long frame carrying count servo entries
func (d *Device) sendLong(ctx context.Context, cmd Command, count int, data []byte) error {
	f, err := frame.NewLong(cmd.Address, cmd.Width, count, data)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", cmd.Name, ErrMalformedBatchInput, err)
	}

	if _, err := d.send(ctx, cmd, f); err != nil {
		return fmt.Errorf("%s (%d servos): %w", cmd.Name, count, err)
	}
	return nil
}

func (d *Device) send(ctx context.Context, cmd Command, f *frame.Frame) (int, error) {
	data := f.Bytes()
	d.log().Debug("sending frame",
		zap.String("command", cmd.Name),
		zap.Stringer("frame", f),
		zap.String("hex", hex.EncodeToString(data)))

	n, err := d.write(ctx, data)
	if err != nil {
		d.log().Debug("frame write failed", zap.String("command", cmd.Name), zap.Int("written", n), zap.Error(err))
	}
	if d.observer != nil {
		d.observer.ObserveFrame(cmd, n, err)
	}
	return n, err
}

// write issues one frame and flushes it. The frame is never resent.
func (d *Device) write(ctx context.Context, data []byte) (int, error) {
	if d.transport == nil {
		return 0, fmt.Errorf("%w: no transport", ErrTransportUnavailable)
	}
	port := portName(d.transport)
	if !d.transport.IsConnected() {
		return 0, NewTransportError("write", port, ErrTransportClosed, ErrorTypePermanent)
	}

	var (
		n   int
		err error
	)
	if ctx.Done() == nil {
		n, err = d.transport.Write(data)
	} else {
		if _, ok := ctx.Deadline(); ok {
			if restore := d.timeoutRestorer(); restore != nil {
				defer restore()
			}
		}
		n, err = AsTransportContext(d.transport).WriteContext(ctx, data)
	}
	if err != nil {
		var te *TransportError
		if ctx.Err() != nil || errors.As(err, &te) {
			return n, err
		}
		return n, NewWriteError(port, err)
	}

	if n != len(data) {
		return n, NewTransportError("write", port,
			fmt.Errorf("%w: %w: wrote %d of %d bytes", ErrTransportWrite, ErrShortWrite, n, len(data)),
			ErrorTypeTransient)
	}

	if err := d.transport.Flush(); err != nil {
		return n, NewTransportError("flush", port, fmt.Errorf("%w: %w", ErrTransportWrite, err), ErrorTypeTransient)
	}
	return n, nil
}

// timeoutRestorer returns a function that puts back the transport timeout in
// effect before a deadline-bounded write, or nil when it is unknown
func (d *Device) timeoutRestorer() func() {
	prev := d.config.Timeout
	if tr, ok := d.transport.(TimeoutReporter); ok {
		prev = tr.Timeout()
	} else if !d.timeoutSet {
		return nil
	}
	return func() { _ = d.transport.SetTimeout(prev) }
}

// TransportFactory is a function type for creating transports
type TransportFactory func(path string) (Transport, error)

// TransportFromDeviceFactory is a function type for creating transports from detected devices
type TransportFromDeviceFactory func(device detection.DeviceInfo) (Transport, error)

// ConnectOption represents a functional option for ConnectDevice
type ConnectOption func(*connectConfig) error

// connectConfig holds configuration options for device connection
type connectConfig struct {
	transportFactory       TransportFactory
	transportDeviceFactory TransportFromDeviceFactory
	detectOptions          *detection.Options
	deviceOptions          []Option
	timeout                time.Duration
	autoDetect             bool
}

// WithAutoDetection enables automatic port detection instead of using a specific path
func WithAutoDetection() ConnectOption {
	return func(c *connectConfig) error {
		c.autoDetect = true
		return nil
	}
}

// WithDetectionOptions sets the options used for auto-detection
func WithDetectionOptions(opts *detection.Options) ConnectOption {
	return func(c *connectConfig) error {
		c.detectOptions = opts
		return nil
	}
}

// WithDeviceOptions adds device-level options
func WithDeviceOptions(opts ...Option) ConnectOption {
	return func(c *connectConfig) error {
		c.deviceOptions = append(c.deviceOptions, opts...)
		return nil
	}
}

// WithConnectTimeout sets the transport write timeout applied after connecting
func WithConnectTimeout(timeout time.Duration) ConnectOption {
	return func(c *connectConfig) error {
		if timeout < 0 {
			return fmt.Errorf("%w: negative timeout %s", ErrInvalidParameter, timeout)
		}
		c.timeout = timeout
		return nil
	}
}

// WithTransportFactory sets the transport factory function
func WithTransportFactory(factory TransportFactory) ConnectOption {
	return func(c *connectConfig) error {
		c.transportFactory = factory
		return nil
	}
}

// WithTransportFromDeviceFactory sets the transport from device factory function
func WithTransportFromDeviceFactory(factory TransportFromDeviceFactory) ConnectOption {
	return func(c *connectConfig) error {
		c.transportDeviceFactory = factory
		return nil
	}
}

func applyConnectOptions(opts []ConnectOption) (*connectConfig, error) {
	config := &connectConfig{
		timeout: DefaultDeviceConfig().Timeout,
	}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, fmt.Errorf("failed to apply connect option: %w", err)
		}
	}

	return config, nil
}

// ConnectDevice opens a transport for path, or for the first detected port
// when path is empty or auto-detection is enabled, and wraps it in a Device.
//
// Example usage:
//
//	// Connect to specific port
//	device, err := rsservo.ConnectDevice("/dev/serial0",
//	    rsservo.WithTransportFactory(func(path string) (rsservo.Transport, error) {
//	        return uart.New(path)
//	    }))
func ConnectDevice(path string, opts ...ConnectOption) (*Device, error) {
	config, err := applyConnectOptions(opts)
	if err != nil {
		return nil, err
	}

	transport, err := createTransport(path, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	device, err := New(transport, config.deviceOptions...)
	if err != nil {
		_ = transport.Close()
		return nil, fmt.Errorf("failed to create device: %w", err)
	}

	if config.timeout > 0 {
		if err := device.SetTimeout(config.timeout); err != nil {
			_ = transport.Close()
			return nil, err
		}
	}

	return device, nil
}

func createTransport(path string, config *connectConfig) (Transport, error) {
	if config.autoDetect || path == "" {
		return createAutoDetectedTransport(config.detectOptions, config.transportDeviceFactory)
	}
	return createManualTransport(path, config.transportFactory)
}

// createManualTransport handles creation of transport for a specific path
func createManualTransport(path string, factory TransportFactory) (Transport, error) {
	if factory == nil {
		return nil, errors.New("transport factory not provided")
	}

	transport, err := factory(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport for path %s: %w", path, err)
	}

	return transport, nil
}

// createAutoDetectedTransport opens the first detected port
func createAutoDetectedTransport(opts *detection.Options, factory TransportFromDeviceFactory) (Transport, error) {
	if factory == nil {
		return nil, errors.New("transport device factory not provided")
	}
	if opts == nil {
		defaults := detection.DefaultOptions()
		opts = &defaults
	}

	devices, err := detection.DetectAll(opts)
	if errors.Is(err, detection.ErrNoDevicesFound) {
		return nil, fmt.Errorf("%w: %w", ErrTransportUnavailable, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to detect ports: %w", err)
	}

	return factory(devices[0])
}

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
	"time"
)

// Transport defines the interface for writing frames to a servo bus.
// This can be implemented by UART, RS485 or mock backends.
type Transport interface {
	// Write writes the whole frame or returns an error. Implementations
	// must not drop bytes silently.
	Write(data []byte) (int, error)

	// Flush blocks until written bytes have left the output buffer
	Flush() error

	// Close closes the transport connection
	Close() error

	// SetTimeout sets the write timeout for the transport
	SetTimeout(timeout time.Duration) error

	// IsConnected returns true if the transport is connected
	IsConnected() bool

	// Type returns the transport type
	Type() TransportType
}

// TransportType represents the type of transport
type TransportType string

const (
	// TransportUART represents a TTL UART/serial transport.
	TransportUART TransportType = "uart"
	// TransportRS485 represents a half-duplex RS485 transport with a direction pin.
	TransportRS485 TransportType = "rs485"
	// TransportMock represents a mock transport for testing
	TransportMock TransportType = "mock"
)

// TimeoutReporter is implemented by transports that expose their current
// write timeout. Device uses it to put the timeout back after a write bounded
// by a context deadline.
type TimeoutReporter interface {
	Timeout() time.Duration
}

// PortNamer is implemented by transports that know their port name.
// Device uses it to label transport errors.
type PortNamer interface {
	PortName() string
}

func portName(t Transport) string {
	if pn, ok := t.(PortNamer); ok {
		return pn.PortName()
	}
	return string(t.Type())
}

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
	"errors"
	"fmt"
)

// Transport errors
var (
	ErrTransportUnavailable = errors.New("transport unavailable")
	ErrTransportWrite       = errors.New("transport write failed")
	ErrTransportTimeout     = errors.New("transport timeout")
	ErrTransportClosed      = errors.New("transport closed")
	ErrShortWrite           = errors.New("short write")
)

// Parameter and encoding errors
var (
	ErrMalformedBatchInput = errors.New("malformed batch input")
	ErrOutOfRange          = errors.New("parameter out of range")
	ErrInvalidParameter    = errors.New("invalid parameter")
	ErrFrameCorrupted      = errors.New("frame corrupted")
	ErrUnknownCommand      = errors.New("unknown command")
)

// ErrorType classifies transport errors for callers that implement their own
// recovery. The device itself never retries.
type ErrorType int

const (
	// ErrorTypePermanent errors will not go away by resending
	ErrorTypePermanent ErrorType = iota
	// ErrorTypeTransient errors may succeed on a later attempt
	ErrorTypeTransient
	// ErrorTypeTimeout errors hit a transport deadline
	ErrorTypeTimeout
)

// String returns the error type name
func (t ErrorType) String() string {
	switch t {
	case ErrorTypePermanent:
		return "permanent"
	case ErrorTypeTransient:
		return "transient"
	case ErrorTypeTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("ErrorType(%d)", int(t))
	}
}

// TransportError describes a failed transport operation
type TransportError struct {
	Err       error
	Op        string
	Port      string
	Type      ErrorType
	Retryable bool
}

// Error implements error
func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a transport error, deriving Retryable from the type
func NewTransportError(op, port string, err error, errType ErrorType) *TransportError {
	return &TransportError{
		Op:        op,
		Port:      port,
		Err:       err,
		Type:      errType,
		Retryable: errType != ErrorTypePermanent,
	}
}

// NewTimeoutError creates a retryable timeout error
func NewTimeoutError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrTransportTimeout, ErrorTypeTimeout)
}

// NewUnavailableError wraps an open failure as a permanent error
func NewUnavailableError(port string, err error) *TransportError {
	return NewTransportError("open", port, fmt.Errorf("%w: %w", ErrTransportUnavailable, err), ErrorTypePermanent)
}

// NewWriteError wraps a write failure as a transient error
func NewWriteError(port string, err error) *TransportError {
	return NewTransportError("write", port, fmt.Errorf("%w: %w", ErrTransportWrite, err), ErrorTypeTransient)
}

// IsRetryable reports whether resending the same frame may succeed
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}

	switch {
	case errors.Is(err, ErrTransportTimeout),
		errors.Is(err, ErrTransportWrite),
		errors.Is(err, ErrShortWrite):
		return true
	default:
		return false
	}
}

// GetErrorType classifies err
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ErrorTypePermanent
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Type
	}

	switch {
	case errors.Is(err, ErrTransportTimeout):
		return ErrorTypeTimeout
	case errors.Is(err, ErrTransportWrite), errors.Is(err, ErrShortWrite):
		return ErrorTypeTransient
	default:
		return ErrorTypePermanent
	}
}

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
	"io"
	"sync"
	"time"
)

// WriterTransport sends frames to any io.Writer. It backs dry runs and the
// encode command, where frames go to a file or stdout instead of a bus.
type WriterTransport struct {
	w      io.Writer
	mu     sync.Mutex
	closed bool
}

// NewWriterTransport wraps w. Close does not close w.
func NewWriterTransport(w io.Writer) *WriterTransport {
	return &WriterTransport{w: w}
}

// Write writes one frame to the underlying writer
func (t *WriterTransport) Write(data []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return 0, ErrTransportClosed
	}
	return t.w.Write(data)
}

// Flush flushes buffered writers such as bufio.Writer
func (t *WriterTransport) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close marks the transport closed
func (t *WriterTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

// SetTimeout is a no-op
func (*WriterTransport) SetTimeout(time.Duration) error {
	return nil
}

// IsConnected reports whether Close has not been called
func (t *WriterTransport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.closed
}

// Type returns TransportMock
func (*WriterTransport) Type() TransportType {
	return TransportMock
}

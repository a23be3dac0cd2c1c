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
	"fmt"
	"time"
)

// TransportContext defines the interface for servo bus transports
// with context support for cancellation and timeouts.
type TransportContext interface {
	Transport

	// WriteContext writes a frame with context support
	WriteContext(ctx context.Context, data []byte) (int, error)
}

// transportContextAdapter wraps a Transport to provide context support
type transportContextAdapter struct {
	Transport
}

// WriteContext implements TransportContext by using the context deadline
func (t *transportContextAdapter) WriteContext(ctx context.Context, data []byte) (int, error) {
	// Check if context is already cancelled
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("context cancelled before write: %w", ctx.Err())
	default:
	}

	// If there's a deadline, bound the transport write timeout by it
	if deadline, ok := ctx.Deadline(); ok {
		timeout := time.Until(deadline)
		if timeout <= 0 {
			return 0, fmt.Errorf("context deadline passed before write: %w", context.DeadlineExceeded)
		}
		if err := t.SetTimeout(timeout); err != nil {
			return 0, fmt.Errorf("failed to set write timeout: %w", err)
		}
	}

	type result struct {
		err error
		n   int
	}
	resultChan := make(chan result, 1)

	go func() {
		n, err := t.Write(data)
		resultChan <- result{err: err, n: n}
	}()

	// The frame may still reach the bus after cancellation; the caller only
	// stops waiting for it.
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("context cancelled while waiting for write: %w", ctx.Err())
	case res := <-resultChan:
		return res.n, res.err
	}
}

// AsTransportContext converts a Transport to TransportContext
func AsTransportContext(t Transport) TransportContext {
	if tc, ok := t.(TransportContext); ok {
		return tc
	}
	return &transportContextAdapter{Transport: t}
}

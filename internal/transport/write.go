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

// Package transport provides internal transport utilities
package transport

import (
	"io"
	"time"

	rsservo "github.com/ZaparooProject/go-rsservo"
)

// DefaultStallTimeout bounds WriteFull when the caller sets no timeout
const DefaultStallTimeout = time.Second

// RetryOperation represents one attempt of a polled operation
// Returns: data, shouldRetry, error
// - data: the result so far
// - shouldRetry: true if the operation has not finished yet
// - error: any permanent error that should stop polling
type RetryOperation[T any] func() (T, bool, error)

// TimeoutRetry runs operation until it reports done, fails, or timeout elapses
func TimeoutRetry[T any](op, port string, timeout time.Duration, operation RetryOperation[T]) (T, error) {
	deadline := time.Now().Add(timeout)

	for {
		result, shouldRetry, err := operation()
		if err != nil {
			return result, err
		}
		if !shouldRetry {
			return result, nil
		}
		if !time.Now().Before(deadline) {
			return result, rsservo.NewTimeoutError(op, port)
		}

		// Small delay before next attempt
		time.Sleep(time.Millisecond)
	}
}

// WriteFull writes data to w, continuing after partial writes until every
// byte is accepted. Bytes already accepted are never written again, so a
// failure part way through leaves a truncated frame on the wire and the
// returned count says how much. timeout only limits how long w may keep
// accepting zero bytes; a Write call that blocks is not interrupted.
func WriteFull(w io.Writer, port string, data []byte, timeout time.Duration) (int, error) {
	if timeout <= 0 {
		timeout = DefaultStallTimeout
	}

	written := 0
	return TimeoutRetry("write", port, timeout, func() (int, bool, error) {
		n, err := w.Write(data[written:])
		if n > 0 {
			written += n
		}
		if err != nil {
			return written, false, rsservo.NewWriteError(port, err)
		}
		return written, written < len(data), nil
	})
}

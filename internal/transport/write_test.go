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

package transport

import (
	"errors"
	"testing"
	"time"

	rsservo "github.com/ZaparooProject/go-rsservo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkWriter accepts at most max bytes per call and fails after failAfter calls
type chunkWriter struct {
	err       error
	got       []byte
	max       int
	calls     int
	failAfter int
}

func (w *chunkWriter) Write(p []byte) (int, error) {
	w.calls++
	if w.failAfter > 0 && w.calls > w.failAfter {
		return 0, w.err
	}
	n := len(p)
	if n > w.max {
		n = w.max
	}
	w.got = append(w.got, p[:n]...)
	return n, nil
}

func TestWriteFull(t *testing.T) {
	t.Parallel()

	frame := []byte{0xFA, 0xAF, 0x01, 0x00, 0x24, 0x01, 0x01, 0x01, 0x24}

	tests := []struct {
		writer    *chunkWriter
		wantErr   error
		name      string
		wantN     int
		wantCalls int
	}{
		{
			name:      "Single_Write",
			writer:    &chunkWriter{max: 64},
			wantN:     9,
			wantCalls: 1,
		},
		{
			name:      "Partial_Writes",
			writer:    &chunkWriter{max: 4},
			wantN:     9,
			wantCalls: 3,
		},
		{
			name:      "Fails_Midway",
			writer:    &chunkWriter{max: 4, failAfter: 1, err: errors.New("unplugged")},
			wantN:     4,
			wantCalls: 2,
			wantErr:   rsservo.ErrTransportWrite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n, err := WriteFull(tt.writer, "/dev/ttyTEST", frame, 100*time.Millisecond)
			assert.Equal(t, tt.wantN, n)
			assert.Equal(t, tt.wantCalls, tt.writer.calls)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, frame, tt.writer.got)
		})
	}
}

func TestWriteFull_StalledWriterTimesOut(t *testing.T) {
	t.Parallel()

	w := &chunkWriter{max: 0}
	start := time.Now()
	n, err := WriteFull(w, "/dev/ttyTEST", []byte{0x01, 0x02}, 20*time.Millisecond)

	require.ErrorIs(t, err, rsservo.ErrTransportTimeout)
	assert.Equal(t, 0, n)
	assert.True(t, rsservo.IsRetryable(err))
	assert.Less(t, time.Since(start), time.Second)
}

func TestTimeoutRetry_StopsOnError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	calls := 0
	_, err := TimeoutRetry("op", "port", time.Second, func() (int, bool, error) {
		calls++
		return 0, true, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

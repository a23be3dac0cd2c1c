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
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// mockHangingTransport simulates a transport whose writes stall
type mockHangingTransport struct {
	hangDuration time.Duration
	callCount    int32
}

func (m *mockHangingTransport) Write(data []byte) (int, error) {
	atomic.AddInt32(&m.callCount, 1)
	time.Sleep(m.hangDuration)
	return len(data), nil
}

func (*mockHangingTransport) Flush() error                     { return nil }
func (*mockHangingTransport) Close() error                     { return nil }
func (*mockHangingTransport) SetTimeout(_ time.Duration) error { return nil }
func (*mockHangingTransport) IsConnected() bool                { return true }
func (*mockHangingTransport) Type() TransportType              { return TransportMock }

func (m *mockHangingTransport) CallCount() int32 {
	return atomic.LoadInt32(&m.callCount)
}

func TestWriteContext_CancellationPreventsHang(t *testing.T) {
	tests := []struct {
		name         string
		hangDuration time.Duration
		ctxTimeout   time.Duration
		expectErr    bool
	}{
		{
			name:         "quick cancellation",
			hangDuration: 1 * time.Second,
			ctxTimeout:   10 * time.Millisecond,
			expectErr:    true,
		},
		{
			name:         "slow write with sufficient timeout",
			hangDuration: 10 * time.Millisecond,
			ctxTimeout:   200 * time.Millisecond,
			expectErr:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTransport := &mockHangingTransport{hangDuration: tt.hangDuration}
			transportCtx := AsTransportContext(mockTransport)

			ctx, cancel := context.WithTimeout(context.Background(), tt.ctxTimeout)
			defer cancel()

			frame := []byte{0xFA, 0xAF, 0x01, 0x20, 0xFF, 0x00, 0x00, 0xDE}
			startTime := time.Now()
			n, err := transportCtx.WriteContext(ctx, frame)
			elapsed := time.Since(startTime)

			if tt.expectErr {
				if !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
					t.Errorf("expected context cancellation error, got: %v", err)
				}
				if elapsed > tt.ctxTimeout+100*time.Millisecond {
					t.Errorf("cancellation took too long: %v (expected ~%v)", elapsed, tt.ctxTimeout)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if n != len(frame) {
				t.Errorf("wrote %d bytes, want %d", n, len(frame))
			}
		})
	}
}

func TestWriteContext_AlreadyCancelled(t *testing.T) {
	t.Parallel()
	mockTransport := &mockHangingTransport{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := AsTransportContext(mockTransport).WriteContext(ctx, []byte{0x00})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
	if mockTransport.CallCount() != 0 {
		t.Errorf("write should not start after cancellation")
	}
}

func TestWriteContext_NoDeadlineCancel(t *testing.T) {
	mockTransport := &mockHangingTransport{hangDuration: 200 * time.Millisecond}
	transportCtx := AsTransportContext(mockTransport)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := transportCtx.WriteContext(ctx, []byte{0x01})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
}

func TestAsTransportContext_Passthrough(t *testing.T) {
	t.Parallel()
	mock := NewMockTransport()
	tc := AsTransportContext(mock)
	tc2 := AsTransportContext(tc)
	if tc != tc2 {
		t.Error("wrapping a TransportContext should return it unchanged")
	}
}

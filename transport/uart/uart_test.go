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

package uart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	rsservo "github.com/ZaparooProject/go-rsservo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

// fakePort implements serial.Port, accepting at most chunk bytes per write
type fakePort struct {
	writeErr error
	drainErr error
	mode     *serial.Mode
	written  []byte
	chunk    int
	drains   int
	closed   bool
}

func (p *fakePort) SetMode(mode *serial.Mode) error { p.mode = mode; return nil }
func (*fakePort) Read(_ []byte) (int, error)        { return 0, nil }

func (p *fakePort) Write(b []byte) (int, error) {
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	n := len(b)
	if p.chunk > 0 && n > p.chunk {
		n = p.chunk
	}
	p.written = append(p.written, b[:n]...)
	return n, nil
}

func (p *fakePort) Drain() error {
	p.drains++
	return p.drainErr
}

func (*fakePort) ResetInputBuffer() error              { return nil }
func (*fakePort) ResetOutputBuffer() error             { return nil }
func (*fakePort) SetDTR(_ bool) error                  { return nil }
func (*fakePort) SetRTS(_ bool) error                  { return nil }
func (*fakePort) SetReadTimeout(_ time.Duration) error { return nil }
func (*fakePort) Break(_ time.Duration) error          { return nil }

func (*fakePort) GetModemStatusBits() (*serial.ModemStatusBits, error) {
	return &serial.ModemStatusBits{}, nil
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

// openPort is package state, so tests that swap it run serially
var openPortMu sync.Mutex

func withFakePort(t *testing.T, port *fakePort, openErr error) *serial.Mode {
	t.Helper()
	openPortMu.Lock()
	var gotMode serial.Mode
	orig := openPort
	openPort = func(_ string, mode *serial.Mode) (serial.Port, error) {
		gotMode = *mode
		if openErr != nil {
			return nil, openErr
		}
		return port, nil
	}
	t.Cleanup(func() {
		openPort = orig
		openPortMu.Unlock()
	})
	return &gotMode
}

// TestTransportCreation verifies basic transport creation and properties
func TestTransportCreation(t *testing.T) {
	t.Parallel()

	testPortName := "/dev/ttyUSB0"
	transport := &Transport{
		portName: testPortName,
	}

	assert.Equal(t, testPortName, transport.PortName())
	assert.Equal(t, rsservo.TransportUART, transport.Type())
	assert.False(t, transport.IsConnected(), "uninitialized transport should not be connected")
}

func TestNew_DefaultMode(t *testing.T) {
	port := &fakePort{}
	mode := withFakePort(t, port, nil)

	tr, err := New(DefaultPort)
	require.NoError(t, err)
	assert.Equal(t, 115200, mode.BaudRate)
	assert.Equal(t, 8, mode.DataBits)
	assert.Equal(t, serial.NoParity, mode.Parity)
	assert.Equal(t, serial.OneStopBit, mode.StopBits)
	assert.True(t, tr.IsConnected())
	assert.Equal(t, DefaultPort, tr.PortName())
}

func TestNew_OpenFails(t *testing.T) {
	withFakePort(t, nil, errors.New("no such file or directory"))

	_, err := New("/dev/ttyUSB9", WithBaudRate(57600))
	require.ErrorIs(t, err, rsservo.ErrTransportUnavailable)
	assert.False(t, rsservo.IsRetryable(err))
}

func TestNew_InvalidBaud(t *testing.T) {
	withFakePort(t, &fakePort{}, nil)

	_, err := New(DefaultPort, WithBaudRate(0))
	require.ErrorIs(t, err, rsservo.ErrInvalidParameter)
}

func TestTransport_WriteAndFlush(t *testing.T) {
	port := &fakePort{chunk: 3}
	withFakePort(t, port, nil)

	tr, err := New(DefaultPort, WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	frame := []byte{0xFA, 0xAF, 0x01, 0x00, 0x24, 0x01, 0x01, 0x01, 0x24}
	n, err := tr.Write(frame)
	require.NoError(t, err)
	assert.Equal(t, len(frame), n)
	assert.Equal(t, frame, port.written)

	require.NoError(t, tr.Flush())
	assert.Equal(t, 1, port.drains)
}

func TestTransport_WriteError(t *testing.T) {
	port := &fakePort{writeErr: errors.New("input/output error")}
	withFakePort(t, port, nil)

	tr, err := New(DefaultPort)
	require.NoError(t, err)

	_, err = tr.Write([]byte{0x01})
	require.ErrorIs(t, err, rsservo.ErrTransportWrite)
}

func TestTransport_FlushError(t *testing.T) {
	port := &fakePort{drainErr: errors.New("drain failed")}
	withFakePort(t, port, nil)

	tr, err := New(DefaultPort)
	require.NoError(t, err)
	err = tr.Flush()
	require.Error(t, err)
	assert.True(t, rsservo.IsRetryable(err))
}

func TestTransport_Close(t *testing.T) {
	port := &fakePort{}
	withFakePort(t, port, nil)

	tr, err := New(DefaultPort)
	require.NoError(t, err)
	require.NoError(t, tr.Close())
	assert.True(t, port.closed)
	assert.False(t, tr.IsConnected())
	require.NoError(t, tr.Close(), "second close is a no-op")

	_, err = tr.Write([]byte{0x01})
	require.ErrorIs(t, err, rsservo.ErrTransportClosed)
}

func TestTransport_SetBaudRate(t *testing.T) {
	port := &fakePort{}
	withFakePort(t, port, nil)

	tr, err := New(DefaultPort)
	require.NoError(t, err)
	require.NoError(t, tr.SetBaudRate(230400))
	assert.Equal(t, 230400, port.mode.BaudRate)
	assert.Equal(t, 230400, tr.BaudRate())
}

func TestTransport_WriteContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := (&Transport{}).WriteContext(ctx, []byte{0x01})
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 10*time.Millisecond)
}

func TestTransport_WithDevice(t *testing.T) {
	port := &fakePort{}
	withFakePort(t, port, nil)

	tr, err := New(DefaultPort)
	require.NoError(t, err)
	device, err := rsservo.New(tr)
	require.NoError(t, err)

	require.NoError(t, device.SetMove(1, 1500, 60))
	assert.Equal(t, []byte{0xFA, 0xAF, 0x01, 0x00, 0x1E, 0x04, 0x01, 0xDC, 0x05, 0x3C, 0x00, 0xFF}, port.written)
	assert.Equal(t, 1, port.drains)
}

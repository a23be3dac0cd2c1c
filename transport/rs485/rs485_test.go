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

package rs485

import (
	"context"
	"errors"
	"testing"
	"time"

	rsservo "github.com/ZaparooProject/go-rsservo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// levelProbe records the direction pin level seen at write and flush time
type levelProbe struct {
	*rsservo.MockTransport
	pin         *gpiotest.Pin
	writeLevels []gpio.Level
	flushLevels []gpio.Level
}

func (p *levelProbe) Write(data []byte) (int, error) {
	p.writeLevels = append(p.writeLevels, p.pin.Read())
	return p.MockTransport.Write(data)
}

func (p *levelProbe) Flush() error {
	p.flushLevels = append(p.flushLevels, p.pin.Read())
	return p.MockTransport.Flush()
}

func newProbe() (*levelProbe, *gpiotest.Pin) {
	pin := &gpiotest.Pin{N: "GPIO18", Num: 18, L: gpio.High}
	return &levelProbe{MockTransport: rsservo.NewMockTransport(), pin: pin}, pin
}

func TestNewWithPin_StartsInReceive(t *testing.T) {
	t.Parallel()

	probe, pin := newProbe()
	tr, err := NewWithPin(probe, pin)
	require.NoError(t, err)
	assert.Equal(t, gpio.Low, pin.Read())
	assert.Equal(t, rsservo.TransportRS485, tr.Type())
}

func TestNewWithPin_Nil(t *testing.T) {
	t.Parallel()

	_, err := NewWithPin(nil, &gpiotest.Pin{})
	require.ErrorIs(t, err, rsservo.ErrInvalidParameter)
}

func TestTransport_WriteTogglesDirection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     []Option
		transmit gpio.Level
	}{
		{name: "Active_High", transmit: gpio.High},
		{name: "Active_Low", opts: []Option{WithActiveLow()}, transmit: gpio.Low},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			probe, pin := newProbe()
			tr, err := NewWithPin(probe, pin, tt.opts...)
			require.NoError(t, err)

			frame := []byte{0xFA, 0xAF, 0x01, 0x20, 0xFF, 0x00, 0x00, 0xDE}
			n, err := tr.Write(frame)
			require.NoError(t, err)
			assert.Equal(t, len(frame), n)
			assert.Equal(t, []gpio.Level{tt.transmit}, probe.writeLevels)
			assert.Equal(t, []gpio.Level{tt.transmit}, probe.flushLevels)
			assert.Equal(t, !tt.transmit, pin.Read(), "bus released after frame")
		})
	}
}

func TestTransport_WriteErrorReleasesBus(t *testing.T) {
	t.Parallel()

	probe, pin := newProbe()
	tr, err := NewWithPin(probe, pin)
	require.NoError(t, err)
	probe.SetWriteError(errors.New("i/o error"))

	_, err = tr.Write([]byte{0x01})
	require.Error(t, err)
	assert.Equal(t, gpio.Low, pin.Read())
	assert.Empty(t, probe.flushLevels)
}

func TestTransport_Turnaround(t *testing.T) {
	t.Parallel()

	probe, pin := newProbe()
	tr, err := NewWithPin(probe, pin, WithTurnaround(5*time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	_, err = tr.Write([]byte{0x01})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}

func TestTransport_WithDevice(t *testing.T) {
	t.Parallel()

	probe, pin := newProbe()
	tr, err := NewWithPin(probe, pin)
	require.NoError(t, err)
	device, err := rsservo.New(tr)
	require.NoError(t, err)

	require.NoError(t, device.SetTorqueContext(context.Background(), 1, rsservo.TorqueOn))
	assert.Equal(t, []byte{0xFA, 0xAF, 0x01, 0x00, 0x24, 0x01, 0x01, 0x01, 0x24}, probe.LastWrite())

	require.NoError(t, device.Close())
	assert.False(t, tr.IsConnected())
}

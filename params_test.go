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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServoID_Validate(t *testing.T) {
	t.Parallel()

	for _, id := range []ServoID{1, 64, 127} {
		require.NoError(t, id.Validate(), "id %d", id)
	}
	for _, id := range []ServoID{0, 128, 255} {
		require.ErrorIs(t, id.Validate(), ErrOutOfRange, "id %d", id)
	}
}

func TestPositionFromDegrees(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		deg     float64
		want    Position
		wantErr bool
	}{
		{name: "Zero", deg: 0, want: 0},
		{name: "Max", deg: 150, want: 1500},
		{name: "Min", deg: -150, want: -1500},
		{name: "Rounds", deg: 12.34, want: 123},
		{name: "Too_Far", deg: 150.1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := PositionFromDegrees(tt.deg)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrOutOfRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPosition_Degrees(t *testing.T) {
	t.Parallel()
	assert.InDelta(t, -90.5, Position(-905).Degrees(), 1e-9)
}

func TestDurationFrom(t *testing.T) {
	t.Parallel()

	d, err := DurationFrom(600 * time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, Duration(60), d)
	assert.Equal(t, 600*time.Millisecond, d.Std())

	d, err = DurationFrom(MaxDuration.Std())
	require.NoError(t, err)
	assert.Equal(t, MaxDuration, d)

	_, err = DurationFrom(MaxDuration.Std() + DurationUnit)
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = DurationFrom(-time.Millisecond)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestParseTorqueMode(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]TorqueMode{
		"off": TorqueOff, "0": TorqueOff,
		"on": TorqueOn, "1": TorqueOn,
		"brake": TorqueBrake, "2": TorqueBrake,
	} {
		got, err := ParseTorqueMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTorqueMode("hold")
	require.ErrorIs(t, err, ErrInvalidParameter)
	assert.Equal(t, "brake", TorqueBrake.String())
}

func TestBaudRate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 115200, Baud115200.BPS())
	assert.Equal(t, 9600, Baud9600.BPS())
	assert.Equal(t, 230400, Baud230400.BPS())
	assert.Equal(t, 0, BaudRate(10).BPS())

	b, err := BaudRateFromBPS(57600)
	require.NoError(t, err)
	assert.Equal(t, Baud57600, b)

	_, err = BaudRateFromBPS(12345)
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	limit := DefaultAngleLimit()
	assert.Equal(t, MaxPosition, limit.CW)
	assert.Equal(t, MinPosition, limit.CCW)
	require.NoError(t, limit.Validate())
	assert.Equal(t, Compliance{MarginCW: 2, MarginCCW: 2, SlopeCW: 1, SlopeCCW: 1, Punch: 8}, DefaultCompliance())
}

func TestValidationMode_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "strict", ValidationStrict.String())
	assert.Equal(t, "legacy", ValidationLegacy.String())
}

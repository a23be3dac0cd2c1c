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

package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShort_CountZeroing(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		flags     byte
		wantCount byte
	}{
		{name: "normal write", flags: FlagNone, wantCount: 1},
		{name: "flash write", flags: FlagWriteFlashROM, wantCount: 0},
		{name: "reboot", flags: FlagReboot, wantCount: 0},
		{name: "factory reset", flags: FlagFactoryReset, wantCount: 0},
		{name: "return from address", flags: FlagReturnAddress, wantCount: 0},
		{name: "high nibble with low bits", flags: 0x81, wantCount: 0},
		{name: "low nibble not 0x0F", flags: 0x01, wantCount: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f, err := NewShort(1, tt.flags, AddressNone, 0, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, f.Count)
			assert.Equal(t, tt.wantCount, f.Bytes()[OffsetCount])
		})
	}
}

func TestNewShort_Bytes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		data    []byte
		want    []byte
		id      byte
		flags   byte
		address byte
	}{
		{
			name:    "flash write",
			id:      1,
			flags:   FlagWriteFlashROM,
			address: AddressNone,
			want:    []byte{0xFA, 0xAF, 0x01, 0x40, 0xFF, 0x00, 0x00, 0xBE},
		},
		{
			name:    "factory reset",
			id:      1,
			flags:   FlagFactoryReset,
			address: AddressNone,
			want:    []byte{0xFA, 0xAF, 0x01, 0x10, 0xFF, 0x00, 0x00, 0xEE},
		},
		{
			name:    "torque on servo 1",
			id:      1,
			address: 0x24,
			data:    []byte{0x01},
			want:    []byte{0xFA, 0xAF, 0x01, 0x00, 0x24, 0x01, 0x01, 0x01, 0x24},
		},
		{
			name:    "torque on servo 127",
			id:      127,
			address: 0x24,
			data:    []byte{0x01},
			want:    []byte{0xFA, 0xAF, 0x7F, 0x00, 0x24, 0x01, 0x01, 0x01, 0x5A},
		},
		{
			name:    "compliance defaults",
			id:      1,
			address: 0x18,
			data:    []byte{0x02, 0x02, 0x01, 0x01, 0x08, 0x00},
			want: []byte{
				0xFA, 0xAF, 0x01, 0x00, 0x18, 0x06, 0x01,
				0x02, 0x02, 0x01, 0x01, 0x08, 0x00, 0x16,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f, err := NewShort(tt.id, tt.flags, tt.address, byte(len(tt.data)), tt.data)
			require.NoError(t, err)

			got := f.Bytes()
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, HeaderLength+len(tt.data)+ChecksumLength)
			assert.Equal(t, got, f.Bytes(), "encoding must be repeatable")
		})
	}
}

func TestNewShort_PayloadMismatch(t *testing.T) {
	t.Parallel()
	_, err := NewShort(1, FlagNone, 0x1E, 4, []byte{0x01, 0x02})
	require.ErrorIs(t, err, ErrPayloadLength)
}

func TestNewShort_CopiesPayload(t *testing.T) {
	t.Parallel()
	data := []byte{0x01}
	f, err := NewShort(1, FlagNone, 0x24, 1, data)
	require.NoError(t, err)
	data[0] = 0x02
	assert.Equal(t, []byte{0x01}, f.Payload)
}

func TestNewLong(t *testing.T) {
	t.Parallel()

	t.Run("torque batch", func(t *testing.T) {
		t.Parallel()
		f, err := NewLong(0x24, 2, 3, []byte{1, 1, 2, 0, 3, 1})
		require.NoError(t, err)
		assert.True(t, f.IsLong())
		assert.Equal(t, []byte{1, 1, 2, 0, 3, 1}, f.Payload)
		assert.Equal(t, []byte{
			0xFA, 0xAF, 0x00, 0x00, 0x24, 0x02, 0x03,
			0x01, 0x01, 0x02, 0x00, 0x03, 0x01, 0x25,
		}, f.Bytes())
	})

	t.Run("move batch", func(t *testing.T) {
		t.Parallel()
		payload := []byte{0x01, 0xDC, 0x05, 0x28, 0x00, 0x02, 0x24, 0xFA, 0x50, 0x00}
		f, err := NewLong(0x1E, 5, 2, payload)
		require.NoError(t, err)
		got := f.Bytes()
		assert.Len(t, got, 18)
		assert.Equal(t, byte(0x65), got[len(got)-1])
	})

	t.Run("single byte payload", func(t *testing.T) {
		t.Parallel()
		f, err := NewLong(0x24, 1, 1, []byte{0x01})
		require.NoError(t, err)
		assert.Equal(t, []byte{0xFA, 0xAF, 0x00, 0x00, 0x24, 0x01, 0x01, 0x01, 0x25}, f.Bytes())
	})

	t.Run("zero count", func(t *testing.T) {
		t.Parallel()
		_, err := NewLong(0x24, 2, 0, nil)
		require.ErrorIs(t, err, ErrCount)
	})

	t.Run("count overflow", func(t *testing.T) {
		t.Parallel()
		_, err := NewLong(0x24, 1, 256, make([]byte, 256))
		require.ErrorIs(t, err, ErrCount)
	})

	t.Run("payload mismatch", func(t *testing.T) {
		t.Parallel()
		_, err := NewLong(0x24, 2, 3, []byte{1, 1, 2, 0, 3})
		require.ErrorIs(t, err, ErrPayloadLength)
	})
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("short frame", func(t *testing.T) {
		t.Parallel()
		f, err := Parse([]byte{0xFA, 0xAF, 0x01, 0x00, 0x1E, 0x04, 0x01, 0x24, 0xFA, 0x50, 0x00, 0x94})
		require.NoError(t, err)
		assert.False(t, f.IsLong())
		assert.Equal(t, byte(0x1E), f.Address)
		assert.Equal(t, int16(-1500), Int16LE(f.Payload[0:2]))
		assert.Equal(t, uint16(80), Uint16LE(f.Payload[2:4]))
	})

	t.Run("flag only frame", func(t *testing.T) {
		t.Parallel()
		f, err := Parse([]byte{0xFA, 0xAF, 0x01, 0x20, 0xFF, 0x00, 0x00, 0xDE})
		require.NoError(t, err)
		assert.Equal(t, byte(FlagReboot), f.Flags)
		assert.Empty(t, f.Payload)
	})

	t.Run("round trip long frame", func(t *testing.T) {
		t.Parallel()
		orig, err := NewLong(0x24, 2, 3, []byte{1, 1, 2, 0, 3, 1})
		require.NoError(t, err)
		got, err := Parse(orig.Bytes())
		require.NoError(t, err)
		assert.Equal(t, orig, got)
	})

	t.Run("bad header", func(t *testing.T) {
		t.Parallel()
		_, err := Parse([]byte{0xFF, 0xFF, 0x01, 0x20, 0xFF, 0x00, 0x00, 0xDE})
		require.ErrorIs(t, err, ErrInvalidHeader)
	})

	t.Run("too short", func(t *testing.T) {
		t.Parallel()
		_, err := Parse([]byte{0xFA, 0xAF, 0x01})
		require.ErrorIs(t, err, ErrFrameTooShort)
	})

	t.Run("truncated payload", func(t *testing.T) {
		t.Parallel()
		_, err := Parse([]byte{0xFA, 0xAF, 0x01, 0x00, 0x24, 0x01, 0x01, 0x24})
		require.ErrorIs(t, err, ErrPayloadLength)
	})

	t.Run("checksum mismatch", func(t *testing.T) {
		t.Parallel()
		_, err := Parse([]byte{0xFA, 0xAF, 0x01, 0x00, 0x24, 0x01, 0x01, 0x01, 0x25})
		require.ErrorIs(t, err, ErrChecksumMismatch)
	})
}

func TestFrame_String(t *testing.T) {
	t.Parallel()
	f, err := NewShort(1, FlagNone, 0x24, 1, []byte{0x01})
	require.NoError(t, err)
	assert.Equal(t, "short id=1 flags=00 addr=24 len=1 cnt=1 data=01", f.String())
}

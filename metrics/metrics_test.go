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

package metrics

import (
	"errors"
	"testing"

	rsservo "github.com/ZaparooProject/go-rsservo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_WithDevice(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	mock := rsservo.NewMockTransport()
	dev, err := rsservo.New(mock, rsservo.WithFrameObserver(c))
	require.NoError(t, err)

	require.NoError(t, dev.SetTorque(1, rsservo.TorqueOn))
	require.NoError(t, dev.SetMove(1, 0, 10))
	require.NoError(t, dev.SetTorque(2, rsservo.TorqueOff))

	mock.SetWriteError(errors.New("unplugged"))
	require.Error(t, dev.SetTorque(1, rsservo.TorqueOff))

	assert.InDelta(t, 2, testutil.ToFloat64(c.frames.WithLabelValues("setTorque", StatusSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.frames.WithLabelValues("setMove", StatusSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.frames.WithLabelValues("setTorque", StatusFailed)), 0)
	assert.InDelta(t, 9+12+9, testutil.ToFloat64(c.bytes), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.errors.WithLabelValues("setTorque", "transient")), 0)
}

func TestNewCollector_RegistersOnce(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	NewCollector(reg)
	assert.Panics(t, func() { NewCollector(reg) })
}

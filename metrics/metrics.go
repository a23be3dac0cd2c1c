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

// Package metrics exports frame counters to Prometheus
package metrics

import (
	rsservo "github.com/ZaparooProject/go-rsservo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Status label values
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Collector counts frames written through a Device. Register it with
// rsservo.WithFrameObserver.
type Collector struct {
	frames *prometheus.CounterVec
	bytes  prometheus.Counter
	errors *prometheus.CounterVec
}

// NewCollector creates the counters on reg
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		frames: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rsservo_frames_total",
			Help: "The total number of command frames written, by command and status",
		}, []string{"command", "status"}),
		bytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "rsservo_frame_bytes_total",
			Help: "The total number of frame bytes accepted by the transport",
		}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rsservo_errors_total",
			Help: "The total number of failed frame writes, by command and error type",
		}, []string{"command", "type"}),
	}
}

// ObserveFrame implements rsservo.FrameObserver
func (c *Collector) ObserveFrame(cmd rsservo.Command, bytesWritten int, err error) {
	if bytesWritten > 0 {
		c.bytes.Add(float64(bytesWritten))
	}
	if err != nil {
		c.frames.WithLabelValues(cmd.Name, StatusFailed).Inc()
		c.errors.WithLabelValues(cmd.Name, rsservo.GetErrorType(err).String()).Inc()
		return
	}
	c.frames.WithLabelValues(cmd.Name, StatusSuccess).Inc()
}

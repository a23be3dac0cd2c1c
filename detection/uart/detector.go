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

// Package uart registers a detector that lists serial ports through the
// OS serial enumerator
package uart

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZaparooProject/go-rsservo/detection"
	"go.bug.st/serial/enumerator"
)

// listPorts is replaced in tests
var listPorts = enumerator.GetDetailedPortsList

// detector implements the Detector interface for serial ports
type detector struct{}

// New creates a new UART detector
func New() detection.Detector {
	return &detector{}
}

// init registers the detector on package import
func init() {
	detection.RegisterDetector(New())
}

// Transport returns the transport type
func (*detector) Transport() string {
	return "uart"
}

// Detect lists serial ports. Bluetooth ports are skipped.
func (*detector) Detect(ctx context.Context, _ *detection.Options) ([]detection.DeviceInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ports, err := listPorts()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}

	devices := make([]detection.DeviceInfo, 0, len(ports))
	for _, p := range ports {
		if p == nil || skipPort(p.Name) {
			continue
		}
		info := detection.DeviceInfo{
			Transport: "uart",
			Path:      p.Name,
			Name:      p.Product,
			USB:       p.IsUSB,
		}
		if p.IsUSB {
			info.VIDPID = detection.FormatVIDPID(p.VID, p.PID)
			info.Metadata = map[string]string{"serial": p.SerialNumber}
		}
		devices = append(devices, info)
	}
	return devices, nil
}

// skipPort drops ports that can never be a servo bus
func skipPort(name string) bool {
	return strings.Contains(strings.ToLower(name), "bluetooth")
}

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

// Package detection lists serial ports that may have an RS servo bus
// attached. Command frames get no reply, so ports are never probed:
// detection only enumerates and filters.
package detection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

var (
	// ErrUnsupportedPlatform is returned by detectors that cannot enumerate
	// ports on the current OS
	ErrUnsupportedPlatform = errors.New("detection not supported on this platform")
	// ErrNoDevicesFound is returned when no detector failed and none found a port
	ErrNoDevicesFound = errors.New("no serial ports found")
)

// DeviceInfo describes one candidate port
type DeviceInfo struct {
	Metadata  map[string]string
	Transport string
	Path      string
	Name      string
	// VIDPID is the USB vendor and product id as "VVVV:PPPP", empty for
	// on-board UARTs
	VIDPID string
	USB    bool
}

// String returns a one-line description
func (d DeviceInfo) String() string {
	if d.VIDPID != "" {
		return fmt.Sprintf("%s (%s, %s %s)", d.Path, d.Transport, d.VIDPID, d.Name)
	}
	return fmt.Sprintf("%s (%s)", d.Path, d.Transport)
}

// Options filter detection results
type Options struct {
	// Blocklist holds VID:PID pairs that are never returned
	Blocklist []string
	// IgnorePaths holds port paths that are never returned
	IgnorePaths []string
	// Timeout bounds the whole detection run
	Timeout time.Duration
	// OnlyUSB drops on-board UARTs
	OnlyUSB bool
}

// DefaultOptions returns options with the default blocklist and a 2 s timeout
func DefaultOptions() Options {
	return Options{
		Blocklist: DefaultBlocklist(),
		Timeout:   2 * time.Second,
	}
}

// Detector enumerates ports for one transport kind
type Detector interface {
	Detect(ctx context.Context, opts *Options) ([]DeviceInfo, error)
	Transport() string
}

var (
	detectorsMu sync.RWMutex
	detectors   []Detector
)

// RegisterDetector adds d to the registry. Detector packages call it from init.
func RegisterDetector(d Detector) {
	detectorsMu.Lock()
	defer detectorsMu.Unlock()
	detectors = append(detectors, d)
}

func registered() []Detector {
	detectorsMu.RLock()
	defer detectorsMu.RUnlock()
	return append([]Detector(nil), detectors...)
}

// DetectAll runs every registered detector with a background context
func DetectAll(opts *Options) ([]DeviceInfo, error) {
	return DetectAllContext(context.Background(), opts)
}

// DetectAllContext runs every registered detector and returns the filtered
// results, USB adapters first. A detector failing with
// ErrUnsupportedPlatform is skipped; other failures are returned only when
// nothing was found.
func DetectAllContext(ctx context.Context, opts *Options) ([]DeviceInfo, error) {
	if opts == nil {
		defaults := DefaultOptions()
		opts = &defaults
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var (
		found []DeviceInfo
		errs  []error
	)
	for _, d := range registered() {
		devices, err := d.Detect(ctx, opts)
		if err != nil {
			if !errors.Is(err, ErrUnsupportedPlatform) {
				errs = append(errs, fmt.Errorf("%s: %w", d.Transport(), err))
			}
			continue
		}
		for _, dev := range devices {
			if opts.Allows(dev) {
				found = append(found, dev)
			}
		}
	}

	if len(found) == 0 {
		if len(errs) > 0 {
			return nil, errors.Join(errs...)
		}
		return nil, ErrNoDevicesFound
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].USB != found[j].USB {
			return found[i].USB
		}
		return found[i].Path < found[j].Path
	})
	return found, nil
}

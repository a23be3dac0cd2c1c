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

package detection

import (
	"path/filepath"
	"strings"
)

// DefaultBlocklist returns USB adapters that are known not to carry a servo
// bus. Format: VID:PID in hexadecimal (case-insensitive).
func DefaultBlocklist() []string {
	return []string{
		"1D50:614E", // Klipper MCU firmware
		"2341:0043", // Arduino Uno
	}
}

// Allows reports whether dev passes the blocklist, ignore list and USB filter
func (o *Options) Allows(dev DeviceInfo) bool {
	if o.OnlyUSB && !dev.USB {
		return false
	}
	if dev.VIDPID != "" && IsBlocked(dev.VIDPID, o.Blocklist) {
		return false
	}
	return !IsPathIgnored(dev.Path, o.IgnorePaths)
}

// IsBlocked checks if a VID:PID pair is in the blocklist
func IsBlocked(vidpid string, blocklist []string) bool {
	vidpid = strings.ToUpper(strings.TrimSpace(vidpid))
	for _, blocked := range blocklist {
		if vidpid == strings.ToUpper(strings.TrimSpace(blocked)) {
			return true
		}
	}
	return false
}

// FormatVIDPID joins vendor and product ids into the blocklist format
func FormatVIDPID(vid, pid string) string {
	vid = strings.ToUpper(strings.TrimPrefix(strings.ToLower(vid), "0x"))
	pid = strings.ToUpper(strings.TrimPrefix(strings.ToLower(pid), "0x"))
	if vid == "" || pid == "" {
		return ""
	}
	return vid + ":" + pid
}

// IsPathIgnored checks if a port path should be skipped. Paths are compared
// cleaned and case-insensitively so "COM3" matches "com3".
func IsPathIgnored(devicePath string, ignorePaths []string) bool {
	if devicePath == "" {
		return false
	}
	normalized := normalizedPath(devicePath)
	for _, p := range ignorePaths {
		if p != "" && normalizedPath(p) == normalized {
			return true
		}
	}
	return false
}

func normalizedPath(path string) string {
	return strings.ToLower(filepath.Clean(path))
}

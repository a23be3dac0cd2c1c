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

// Checksum returns the XOR of every byte from the servo id byte onward.
// The header bytes are never included. Input shorter than a header plus
// id byte yields 0.
func Checksum(data []byte) byte {
	var sum byte
	if len(data) <= OffsetID {
		return sum
	}
	for _, b := range data[OffsetID:] {
		sum ^= b
	}
	return sum
}

// ValidateChecksum reports whether a complete frame, including its trailing
// checksum byte, XORs to zero over [id, end].
func ValidateChecksum(data []byte) bool {
	if len(data) < MinFrameLength {
		return false
	}
	return Checksum(data) == 0
}

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

import "encoding/binary"

// PutInt16LE encodes v as two's-complement little-endian bytes
func PutInt16LE(v int16) [2]byte {
	return PutUint16LE(uint16(v))
}

// PutUint16LE encodes v as little-endian bytes (low byte first)
func PutUint16LE(v uint16) [2]byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return b
}

// Int16LE decodes two little-endian bytes as a signed value
func Int16LE(b []byte) int16 {
	return int16(Uint16LE(b))
}

// Uint16LE decodes two little-endian bytes
func Uint16LE(b []byte) uint16 {
	return binary.LittleEndian.Uint16(b)
}

// Uint8 narrows v to its low 8 bits. Out-of-range values are truncated,
// never rejected; callers that need range checks do them first.
func Uint8(v int) byte {
	return byte(v & 0xFF)
}

// Uint16 narrows v to its low 16 bits with the same truncation contract as Uint8
func Uint16(v int) uint16 {
	return uint16(v & 0xFFFF)
}

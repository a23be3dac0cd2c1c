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

/*
Package rsservo sends command frames to Futaba RS series serial servos.

The servos share one half-duplex bus. Every frame starts with the header
FA AF and ends with an XOR checksum. Short frames address one servo, long
frames carry the same register write for several servos at once. This
package only writes; replies are never read.

Features:
  - Typed operations for every writable register the servos expose
  - Long packet batches for torque and movement
  - UART transport, with an optional RS485 driver-enable pin
  - Serial port detection
  - Strict range checking, or masking for compatibility with older tools

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-rsservo"
	    "github.com/ZaparooProject/go-rsservo/transport/uart"
	)

	transport, err := uart.New("/dev/ttyUSB0")
	if err != nil {
	    log.Fatal(err)
	}

	device, err := rsservo.New(transport, rsservo.WithTimeout(200*time.Millisecond))
	if err != nil {
	    log.Fatal(err)
	}
	defer device.Close()

	// Switch torque on and move to +90.0 degrees in 0.5 s
	if err := device.SetTorque(1, rsservo.TorqueOn); err != nil {
	    log.Fatal(err)
	}
	if err := device.SetMove(1, 900, 50); err != nil {
	    log.Fatal(err)
	}

	// Move three servos with one frame
	err = device.SetMoveMulti([]int{1, 0, 40, 2, 0, 40, 3, 0, 40})

Settings changed with the setters are lost at power-off unless
WriteFlashROM is sent afterwards. Registers documented as requiring torque
off are only accepted by the servo while torque is off.

Validation:

By default out-of-range arguments are rejected with ErrOutOfRange before
anything is written. WithLegacyMasking keeps the low bits of the value
instead, matching frames produced by older tooling.

Dry Runs:

NewWriterTransport sends frames to any io.Writer, and DecodeFrame turns a
frame back into its command and fields.
*/
package rsservo

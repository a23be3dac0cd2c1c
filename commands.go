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

import "github.com/ZaparooProject/go-rsservo/internal/frame"

// Command describes how one servo operation is addressed on the wire
type Command struct {
	Name    string
	Flags   byte
	Address byte
	Width   byte // payload bytes per servo
}

// Register addresses in the RS servo memory map
const (
	RegServoID     = 0x04
	RegReverse     = 0x05
	RegBaudRate    = 0x06
	RegReturnDelay = 0x07
	RegAngleLimit  = 0x08
	RegTempLimit   = 0x0E
	RegCompliance  = 0x18
	RegGoal        = 0x1E
	RegMaxTorque   = 0x23
	RegTorque      = 0x24
	RegPID         = 0x26
)

// Short packet commands
var (
	cmdWriteFlashROM  = Command{Name: "writeFlashRom", Flags: frame.FlagWriteFlashROM, Address: frame.AddressNone}
	cmdReboot         = Command{Name: "reboot", Flags: frame.FlagReboot, Address: frame.AddressNone}
	cmdFactoryReset   = Command{Name: "factoryReset", Flags: frame.FlagFactoryReset, Address: frame.AddressNone}
	cmdSetID          = Command{Name: "setId", Address: RegServoID, Width: 1}
	cmdSetReverse     = Command{Name: "setReverse", Address: RegReverse, Width: 1}
	cmdSetBaudRate    = Command{Name: "setBaudrate", Address: RegBaudRate, Width: 1}
	cmdSetReturnDelay = Command{Name: "setReturnDelay", Address: RegReturnDelay, Width: 1}
	cmdSetAngleLimit  = Command{Name: "setAngleLimit", Address: RegAngleLimit, Width: 4}
	cmdSetTempLimit   = Command{Name: "setTempLimit", Address: RegTempLimit, Width: 2}
	cmdSetCompliance  = Command{Name: "setCompliance", Address: RegCompliance, Width: 6}
	cmdSetMove        = Command{Name: "setMove", Address: RegGoal, Width: 4}
	cmdSetMaxTorque   = Command{Name: "setMaxTorque", Address: RegMaxTorque, Width: 1}
	cmdSetTorque      = Command{Name: "setTorque", Address: RegTorque, Width: 1}
	cmdSetPID         = Command{Name: "setPID", Address: RegPID, Width: 1}
)

// Long packet commands. Width counts the servo id byte that leads each entry.
var (
	cmdSetTorqueMulti = Command{Name: "setTorqueMulti", Address: RegTorque, Width: 2}
	cmdSetMoveMulti   = Command{Name: "setMoveMulti", Address: RegGoal, Width: 5}
)

var catalog = []Command{
	cmdWriteFlashROM,
	cmdReboot,
	cmdFactoryReset,
	cmdSetID,
	cmdSetReverse,
	cmdSetBaudRate,
	cmdSetReturnDelay,
	cmdSetAngleLimit,
	cmdSetTempLimit,
	cmdSetCompliance,
	cmdSetMove,
	cmdSetMaxTorque,
	cmdSetTorque,
	cmdSetPID,
	cmdSetTorqueMulti,
	cmdSetMoveMulti,
}

var catalogByName = func() map[string]Command {
	m := make(map[string]Command, len(catalog))
	for _, c := range catalog {
		m[c.Name] = c
	}
	return m
}()

// Commands returns the command catalog in register order, flag-only
// commands first and long packet commands last
func Commands() []Command {
	return append([]Command(nil), catalog...)
}

// LookupCommand returns the catalog entry with the given name
func LookupCommand(name string) (Command, bool) {
	c, ok := catalogByName[name]
	return c, ok
}

// IsFlagOnly reports whether the command carries no register address
func (c Command) IsFlagOnly() bool {
	return c.Address == frame.AddressNone
}

// IsBatch reports whether the command is sent as a long packet
func (c Command) IsBatch() bool {
	return c == cmdSetTorqueMulti || c == cmdSetMoveMulti
}

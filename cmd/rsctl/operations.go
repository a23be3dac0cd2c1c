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

package main

import (
	"context"
	"fmt"
	"math"
	"strconv"

	rsservo "github.com/ZaparooProject/go-rsservo"
	"github.com/spf13/cobra"
)

// operation is one servo command reachable from the command line
type operation struct {
	run   func(ctx context.Context, dev *rsservo.Device, args []string) error
	name  string
	args  string
	short string
	// nargs is the exact argument count, or the group size for list commands
	nargs int
	list  bool
}

var operations = []operation{
	{
		name: "move", args: "ID POS TIME", nargs: 3,
		short: "Move to POS (0.1 degree units) in TIME (10 ms units)",
		run: func(ctx context.Context, dev *rsservo.Device, args []string) error {
			v, err := parseInts(args)
			if err != nil {
				return err
			}
			id, err := toServoID(v[0])
			if err != nil {
				return err
			}
			if v[1] < math.MinInt16 || v[1] > math.MaxInt16 || v[2] < 0 || v[2] > math.MaxUint16 {
				return fmt.Errorf("%w: position %d or time %d does not fit 16 bits", rsservo.ErrOutOfRange, v[1], v[2])
			}
			return dev.SetMoveContext(ctx, id, rsservo.Position(v[1]), rsservo.Duration(v[2]))
		},
	},
	{
		name: "torque", args: "ID off|on|brake", nargs: 2,
		short: "Switch torque off, on or to brake mode",
		run: func(ctx context.Context, dev *rsservo.Device, args []string) error {
			id, err := parseServoID(args[0])
			if err != nil {
				return err
			}
			mode, err := rsservo.ParseTorqueMode(args[1])
			if err != nil {
				return err
			}
			return dev.SetTorqueContext(ctx, id, mode)
		},
	},
	{
		name: "torque-multi", args: "ID MODE [ID MODE...]", nargs: 2, list: true,
		short: "Set torque of several servos with one long packet",
		run: func(ctx context.Context, dev *rsservo.Device, args []string) error {
			v, err := parseInts(args)
			if err != nil {
				return err
			}
			return dev.SetTorqueMultiContext(ctx, v)
		},
	},
	{
		name: "move-multi", args: "ID POS TIME [ID POS TIME...]", nargs: 3, list: true,
		short: "Move several servos with one long packet",
		run: func(ctx context.Context, dev *rsservo.Device, args []string) error {
			v, err := parseInts(args)
			if err != nil {
				return err
			}
			return dev.SetMoveMultiContext(ctx, v)
		},
	},
	{
		name: "flash", args: "ID", nargs: 1,
		short: "Store current settings in flash ROM",
		run: func(ctx context.Context, dev *rsservo.Device, args []string) error {
			id, err := parseServoID(args[0])
			if err != nil {
				return err
			}
			return dev.WriteFlashROMContext(ctx, id)
		},
	},
	{
		name: "reboot", args: "ID", nargs: 1,
		short: "Restart the servo",
		run: func(ctx context.Context, dev *rsservo.Device, args []string) error {
			id, err := parseServoID(args[0])
			if err != nil {
				return err
			}
			return dev.RebootContext(ctx, id)
		},
	},
	{
		name: "reset", args: "ID", nargs: 1,
		short: "Restore factory settings",
		run: func(ctx context.Context, dev *rsservo.Device, args []string) error {
			id, err := parseServoID(args[0])
			if err != nil {
				return err
			}
			return dev.FactoryResetContext(ctx, id)
		},
	},
	{
		name: "set-id", args: "ID NEW_ID", nargs: 2,
		short: "Change the servo id (torque must be off)",
		run: func(ctx context.Context, dev *rsservo.Device, args []string) error {
			id, err := parseServoID(args[0])
			if err != nil {
				return err
			}
			newID, err := parseServoID(args[1])
			if err != nil {
				return err
			}
			return dev.SetIDContext(ctx, id, newID)
		},
	},
	{
		name: "baud", args: "ID BPS", nargs: 2,
		short: "Change the servo line speed",
		run: func(ctx context.Context, dev *rsservo.Device, args []string) error {
			v, err := parseInts(args)
			if err != nil {
				return err
			}
			id, err := toServoID(v[0])
			if err != nil {
				return err
			}
			rate, err := rsservo.BaudRateFromBPS(v[1])
			if err != nil {
				return err
			}
			return dev.SetBaudRateContext(ctx, id, rate)
		},
	},
	{
		name: "reverse", args: "ID 0|1", nargs: 2,
		short: "Set rotation direction (torque must be off)",
		run: u8Setter(func(ctx context.Context, dev *rsservo.Device, id rsservo.ServoID, v uint8) error {
			return dev.SetReverseContext(ctx, id, rsservo.Rotation(v))
		}),
	},
	{
		name: "return-delay", args: "ID DELAY", nargs: 2,
		short: "Set the reply delay (torque must be off)",
		run: u8Setter(func(ctx context.Context, dev *rsservo.Device, id rsservo.ServoID, v uint8) error {
			return dev.SetReturnDelayContext(ctx, id, v)
		}),
	},
	{
		name: "max-torque", args: "ID PERCENT", nargs: 2,
		short: "Limit output torque",
		run: u8Setter(func(ctx context.Context, dev *rsservo.Device, id rsservo.ServoID, v uint8) error {
			return dev.SetMaxTorqueContext(ctx, id, v)
		}),
	},
	{
		name: "pid", args: "ID VALUE", nargs: 2,
		short: "Set the motor control coefficient",
		run: u8Setter(func(ctx context.Context, dev *rsservo.Device, id rsservo.ServoID, v uint8) error {
			return dev.SetPIDContext(ctx, id, v)
		}),
	},
	{
		name: "angle-limit", args: "ID CW CCW", nargs: 3,
		short: "Set travel limits in 0.1 degree units (torque must be off)",
		run: func(ctx context.Context, dev *rsservo.Device, args []string) error {
			v, err := parseInts(args)
			if err != nil {
				return err
			}
			id, err := toServoID(v[0])
			if err != nil {
				return err
			}
			for _, p := range v[1:] {
				if p < math.MinInt16 || p > math.MaxInt16 {
					return fmt.Errorf("%w: limit %d does not fit 16 bits", rsservo.ErrOutOfRange, p)
				}
			}
			return dev.SetAngleLimitContext(ctx, id, rsservo.AngleLimit{
				CW:  rsservo.Position(v[1]),
				CCW: rsservo.Position(v[2]),
			})
		},
	},
	{
		name: "temp-limit", args: "ID LIMIT", nargs: 2,
		short: "Set the temperature limit",
		run: func(ctx context.Context, dev *rsservo.Device, args []string) error {
			v, err := parseInts(args)
			if err != nil {
				return err
			}
			id, err := toServoID(v[0])
			if err != nil {
				return err
			}
			if v[1] < 0 || v[1] > math.MaxUint16 {
				return fmt.Errorf("%w: limit %d does not fit 16 bits", rsservo.ErrOutOfRange, v[1])
			}
			return dev.SetTempLimitContext(ctx, id, uint16(v[1]))
		},
	},
	{
		name: "compliance", args: "ID MARGIN_CW MARGIN_CCW SLOPE_CW SLOPE_CCW PUNCH", nargs: 6,
		short: "Set compliance margins, slopes and punch",
		run: func(ctx context.Context, dev *rsservo.Device, args []string) error {
			v, err := parseInts(args)
			if err != nil {
				return err
			}
			id, err := toServoID(v[0])
			if err != nil {
				return err
			}
			for _, b := range v[1:5] {
				if b < 0 || b > math.MaxUint8 {
					return fmt.Errorf("%w: %d does not fit 8 bits", rsservo.ErrOutOfRange, b)
				}
			}
			if v[5] < 0 || v[5] > math.MaxUint16 {
				return fmt.Errorf("%w: punch %d does not fit 16 bits", rsservo.ErrOutOfRange, v[5])
			}
			return dev.SetComplianceContext(ctx, id, rsservo.Compliance{
				MarginCW:  uint8(v[1]),
				MarginCCW: uint8(v[2]),
				SlopeCW:   uint8(v[3]),
				SlopeCCW:  uint8(v[4]),
				Punch:     uint16(v[5]),
			})
		},
	},
}

func lookupOperation(name string) (operation, bool) {
	for _, op := range operations {
		if op.name == name {
			return op, true
		}
	}
	return operation{}, false
}

func (op operation) checkArgs(args []string) error {
	if op.list {
		if len(args) == 0 || len(args)%op.nargs != 0 {
			return fmt.Errorf("%s expects groups of %d values, got %d", op.name, op.nargs, len(args))
		}
		return nil
	}
	if len(args) != op.nargs {
		return fmt.Errorf("%s expects %d arguments (%s), got %d", op.name, op.nargs, op.args, len(args))
	}
	return nil
}

func (c *cli) newOperationCmd(op operation) *cobra.Command {
	return c.operationCmd(op, false)
}

// operationCmd builds the command for op. With encodeOnly set the frame is
// printed to stdout and never sent.
func (c *cli) operationCmd(op operation, encodeOnly bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   op.name + " " + op.args,
		Short: op.short,
		Args: func(_ *cobra.Command, args []string) error {
			return op.checkArgs(args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if encodeOnly {
				c.cfg.dryRun = true
			}
			dev, closeDev, err := c.openDevice(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDev()
			return op.run(cmd.Context(), dev, args)
		},
	}
	// positions may be negative
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.ParseInt(a, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", rsservo.ErrInvalidParameter, a)
		}
		out[i] = int(v)
	}
	return out, nil
}

func toServoID(v int) (rsservo.ServoID, error) {
	if v < 0 || v > math.MaxUint8 {
		return 0, fmt.Errorf("%w: servo id %d does not fit 8 bits", rsservo.ErrOutOfRange, v)
	}
	return rsservo.ServoID(v), nil
}

func parseServoID(s string) (rsservo.ServoID, error) {
	v, err := parseInts([]string{s})
	if err != nil {
		return 0, err
	}
	return toServoID(v[0])
}

func u8Setter(set func(ctx context.Context, dev *rsservo.Device, id rsservo.ServoID, v uint8) error,
) func(ctx context.Context, dev *rsservo.Device, args []string) error {
	return func(ctx context.Context, dev *rsservo.Device, args []string) error {
		v, err := parseInts(args)
		if err != nil {
			return err
		}
		id, err := toServoID(v[0])
		if err != nil {
			return err
		}
		if v[1] < 0 || v[1] > math.MaxUint8 {
			return fmt.Errorf("%w: %d does not fit 8 bits", rsservo.ErrOutOfRange, v[1])
		}
		return set(ctx, dev, id, uint8(v[1]))
	}
}

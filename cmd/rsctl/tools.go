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
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	rsservo "github.com/ZaparooProject/go-rsservo"
	"github.com/ZaparooProject/go-rsservo/detection"
	"github.com/ZaparooProject/go-rsservo/profile"
	"github.com/spf13/cobra"
)

func (c *cli) newPortsCmd() *cobra.Command {
	var onlyUSB bool
	cmd := &cobra.Command{
		Use:   "ports",
		Short: "List serial ports a servo bus may be attached to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := detection.DefaultOptions()
			opts.OnlyUSB = onlyUSB
			devices, err := detection.DetectAllContext(cmd.Context(), &opts)
			if errors.Is(err, detection.ErrNoDevicesFound) {
				_, _ = fmt.Fprintln(c.out, "no ports found")
				return nil
			}
			if err != nil {
				return err
			}
			for _, d := range devices {
				_, _ = fmt.Fprintln(c.out, d.String())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&onlyUSB, "usb", false, "only list USB serial adapters")
	return cmd
}

func (c *cli) newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply FILE",
		Short: "Write the settings from a YAML profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := profile.Load(args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if p.Port != "" && !flags.Changed("device") {
				c.cfg.devicePath = p.Port
			}
			if p.Baud != 0 && !flags.Changed("baud") {
				c.cfg.baud = p.Baud
			}

			dev, closeDev, err := c.openDevice(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDev()
			return p.Apply(cmd.Context(), dev)
		},
	}
}

func (c *cli) newEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode COMMAND ARGS...",
		Short: "Print the frame for a command without sending it",
	}
	for _, op := range operations {
		cmd.AddCommand(c.operationCmd(op, true))
	}
	return cmd
}

func (c *cli) newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [HEX...]",
		Short: "Describe a frame given as hex, or one frame per stdin line",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return c.decodeLine(strings.Join(args, ""))
			}
			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				line := strings.TrimSpace(sc.Text())
				if line == "" {
					continue
				}
				if err := c.decodeLine(line); err != nil {
					return err
				}
			}
			return sc.Err()
		},
	}
}

func (c *cli) decodeLine(s string) error {
	s = strings.NewReplacer(" ", "", ":", "", "\t", "").Replace(s)
	data, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("%w: %w", rsservo.ErrInvalidParameter, err)
	}
	decoded, err := rsservo.DecodeFrame(data)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(c.out, decoded.String())
	return nil
}

func (c *cli) newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Configure servos 1 to 3 and sweep them between the end stops",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dev, closeDev, err := c.openDevice(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDev()

			wait := func(d time.Duration) error {
				if c.cfg.dryRun {
					return nil
				}
				select {
				case <-time.After(d):
					return nil
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				}
			}
			return runDemo(cmd.Context(), dev, wait)
		},
	}
}

func runDemo(ctx context.Context, dev *rsservo.Device, wait func(time.Duration) error) error {
	setup := []func() error{
		func() error { return dev.WriteFlashROMContext(ctx, 1) },
		func() error { return dev.RebootContext(ctx, 1) },
		func() error { return dev.FactoryResetContext(ctx, 1) },
		func() error { return dev.SetIDContext(ctx, 1, 1) },
		func() error { return dev.SetBaudRateContext(ctx, 1, rsservo.Baud115200) },
		func() error { return dev.SetAngleLimitContext(ctx, 1, rsservo.DefaultAngleLimit()) },
		func() error { return dev.SetReturnDelayContext(ctx, 1, rsservo.DefaultReturnDelay) },
		func() error { return dev.SetReverseContext(ctx, 1, rsservo.RotationNormal) },
		func() error { return dev.SetTorqueContext(ctx, 1, rsservo.TorqueOn) },
		func() error { return dev.SetComplianceContext(ctx, 1, rsservo.DefaultCompliance()) },
		func() error { return dev.SetPIDContext(ctx, 1, rsservo.DefaultPID) },
		func() error { return dev.SetMaxTorqueContext(ctx, 2, rsservo.DefaultMaxTorque) },
		func() error { return dev.SetTempLimitContext(ctx, 3, rsservo.DefaultTempLimit) },
		func() error { return dev.SetTorqueMultiContext(ctx, []int{1, 1, 2, 1, 3, 1}) },
	}
	for _, step := range setup {
		if err := step(); err != nil {
			return err
		}
	}

	if err := dev.SetMoveMultiContext(ctx, []int{1, 1500, 40, 2, 1500, 40, 3, 1500, 40}); err != nil {
		return err
	}
	if err := wait(600 * time.Millisecond); err != nil {
		return err
	}
	for id := rsservo.ServoID(1); id <= 3; id++ {
		if err := dev.SetMoveContext(ctx, id, -1500, 80); err != nil {
			return err
		}
	}
	if err := wait(1200 * time.Millisecond); err != nil {
		return err
	}
	if err := dev.SetMoveMultiContext(ctx, []int{1, 0, 40, 2, 0, 40, 3, 0, 40}); err != nil {
		return err
	}
	if err := wait(600 * time.Millisecond); err != nil {
		return err
	}
	return dev.SetTorqueMultiContext(ctx, []int{1, 0, 2, 0, 3, 0})
}

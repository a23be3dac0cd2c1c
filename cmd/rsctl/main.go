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

// rsctl sends command frames to Futaba RS series servos.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	rsservo "github.com/ZaparooProject/go-rsservo"
	"github.com/ZaparooProject/go-rsservo/detection"
	// Import detectors to register them
	_ "github.com/ZaparooProject/go-rsservo/detection/uart"
	"github.com/ZaparooProject/go-rsservo/metrics"
	"github.com/ZaparooProject/go-rsservo/transport/rs485"
	"github.com/ZaparooProject/go-rsservo/transport/uart"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type config struct {
	devicePath  string
	rs485Pin    string
	metricsAddr string
	baud        int
	timeout     time.Duration
	debug       bool
	legacy      bool
	dryRun      bool
}

type cli struct {
	out    io.Writer
	cfg    config
	dryOut io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out, dryOut: out}

	root := &cobra.Command{
		Use:           "rsctl",
		Short:         "Send commands to Futaba RS series servos",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if c.cfg.debug {
				rsservo.SetDebugEnabled(true)
			}
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVarP(&c.cfg.devicePath, "device", "d", uart.DefaultPort,
		`serial device path, or "auto" to use the first detected port`)
	flags.IntVarP(&c.cfg.baud, "baud", "b", uart.DefaultConfig().BaudRate, "serial line speed")
	flags.DurationVar(&c.cfg.timeout, "timeout", uart.DefaultConfig().Timeout, "write timeout")
	flags.BoolVar(&c.cfg.debug, "debug", false, "log every frame")
	flags.BoolVar(&c.cfg.legacy, "legacy", false, "mask out-of-range values instead of rejecting them")
	flags.BoolVarP(&c.cfg.dryRun, "dry-run", "n", false, "print frames as hex instead of sending them")
	flags.StringVar(&c.cfg.rs485Pin, "rs485-pin", "", "GPIO name of an RS485 driver-enable pin (e.g. GPIO18)")
	flags.StringVar(&c.cfg.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")

	for _, op := range operations {
		root.AddCommand(c.newOperationCmd(op))
	}
	root.AddCommand(
		c.newPortsCmd(),
		c.newApplyCmd(),
		c.newEncodeCmd(),
		c.newDecodeCmd(),
		c.newDemoCmd(),
	)
	return root
}

// hexLineWriter prints each frame as one line of hex
type hexLineWriter struct {
	w io.Writer
}

func (h hexLineWriter) Write(p []byte) (int, error) {
	if _, err := fmt.Fprintf(h.w, "% X\n", p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *cli) deviceOptions(observer rsservo.FrameObserver) []rsservo.Option {
	opts := []rsservo.Option{rsservo.WithLogger(rsservo.Logger())}
	if c.cfg.legacy {
		opts = append(opts, rsservo.WithLegacyMasking())
	}
	if observer != nil {
		opts = append(opts, rsservo.WithFrameObserver(observer))
	}
	return opts
}

func (c *cli) newTransport(path string) (rsservo.Transport, error) {
	line, err := uart.New(path, uart.WithBaudRate(c.cfg.baud), uart.WithTimeout(c.cfg.timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create UART transport: %w", err)
	}
	if c.cfg.rs485Pin == "" {
		return line, nil
	}
	t, err := rs485.New(line, c.cfg.rs485Pin)
	if err != nil {
		_ = line.Close()
		return nil, fmt.Errorf("failed to create RS485 transport: %w", err)
	}
	return t, nil
}

func (c *cli) newTransportFromDevice(device detection.DeviceInfo) (rsservo.Transport, error) {
	if !strings.EqualFold(device.Transport, "uart") {
		return nil, fmt.Errorf("unsupported transport type: %s", device.Transport)
	}
	rsservo.Logger().Info("using detected port", zap.Stringer("device", device))
	return c.newTransport(device.Path)
}

// openDevice connects to the bus, or to stdout in dry-run mode. The returned
// function closes the device and stops the metrics server.
func (c *cli) openDevice(ctx context.Context) (*rsservo.Device, func(), error) {
	var (
		observer rsservo.FrameObserver
		stopHTTP = func() {}
	)
	if c.cfg.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		observer = metrics.NewCollector(reg)
		stopHTTP = serveMetrics(ctx, c.cfg.metricsAddr, reg)
	}

	if c.cfg.dryRun {
		dev, err := rsservo.New(rsservo.NewWriterTransport(hexLineWriter{w: c.dryOut}), c.deviceOptions(observer)...)
		if err != nil {
			stopHTTP()
			return nil, nil, err
		}
		return dev, func() { _ = dev.Close(); stopHTTP() }, nil
	}

	connectOpts := []rsservo.ConnectOption{
		rsservo.WithConnectTimeout(c.cfg.timeout),
		rsservo.WithDeviceOptions(c.deviceOptions(observer)...),
	}
	path := c.cfg.devicePath
	if path == "auto" {
		path = ""
		connectOpts = append(connectOpts,
			rsservo.WithAutoDetection(),
			rsservo.WithTransportFromDeviceFactory(c.newTransportFromDevice))
	} else {
		connectOpts = append(connectOpts, rsservo.WithTransportFactory(c.newTransport))
	}

	dev, err := rsservo.ConnectDevice(path, connectOpts...)
	if err != nil {
		stopHTTP()
		return nil, nil, err
	}
	return dev, func() { _ = dev.Close(); stopHTTP() }, nil
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rsservo.Logger().Error("metrics server failed", zap.Error(err))
		}
	}()
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}

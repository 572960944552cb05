// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethersphere/payadjuster/pkg/debugapi"
	"github.com/ethersphere/payadjuster/pkg/payable"
	"github.com/ethersphere/payadjuster/pkg/scanner"
	"github.com/spf13/cobra"
)

func (c *command) initDebugAPICmd() {
	cmd := &cobra.Command{
		Use:   "debug-api",
		Short: "Serve the debug HTTP API",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			logger, err := c.newLogger(cmd)
			if err != nil {
				return err
			}

			stateStore, err := c.openStateStore(logger)
			if err != nil {
				return err
			}
			defer stateStore.Close()
			store := payable.NewStore(stateStore)

			a, err := c.newAdjuster(logger)
			if err != nil {
				return err
			}

			var s *scanner.Scanner
			if c.config.GetString(optionNameTokenAddress) != "" {
				var closeBackend func()
				s, closeBackend, err = c.newScanner(context.Background(), logger, store)
				if err != nil {
					return err
				}
				defer closeBackend()
			}

			service := debugapi.New(debugapi.Options{
				Logger:   logger,
				Adjuster: a,
				Store:    store,
				Scanner:  s,
			})
			service.MustRegisterMetrics(logger.Metrics()...)
			service.MustRegisterMetrics(a.Metrics()...)
			if s != nil {
				service.MustRegisterMetrics(s.Metrics()...)
			}

			listener, err := net.Listen("tcp", c.config.GetString(optionNameDebugAPIAddr))
			if err != nil {
				return fmt.Errorf("debug api listener: %w", err)
			}
			server := &http.Server{
				Handler:           service,
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				logger.Infof("debug api address: %s", listener.Addr())

				if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
					logger.Errorf("debug api server: %v", err)
				}
			}()

			// Wait for termination or interrupt signals.
			interruptChannel := make(chan os.Signal, 1)
			signal.Notify(interruptChannel, syscall.SIGINT, syscall.SIGTERM)

			sig := <-interruptChannel
			logger.Infof("received signal: %v", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logger.Errorf("debug api server shutdown: %v", err)
			}
			return nil
		},
	}

	cmd.Flags().String(optionNameDebugAPIAddr, ":1635", "debug HTTP API listen address")
	c.setDataDirFlag(cmd)
	c.setChainFlags(cmd)
	c.setThresholdFlags(cmd)
	c.setAdjusterFlags(cmd)

	c.root.AddCommand(cmd)
}

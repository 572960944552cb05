// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethersphere/payadjuster/pkg/blockchain"
	"github.com/ethersphere/payadjuster/pkg/logging"
	"github.com/ethersphere/payadjuster/pkg/payable"
	"github.com/ethersphere/payadjuster/pkg/scanner"
	"github.com/spf13/cobra"
)

func (c *command) initScanCmd() {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Plan the payments of the stored debts",
		Long: `Reads the wallet balances from the blockchain and prints the payments a
scan would make for the stored debts. Nothing is sent.`,
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

			s, closeBackend, err := c.newScanner(context.Background(), logger, payable.NewStore(stateStore))
			if err != nil {
				return err
			}
			defer closeBackend()

			report, err := s.Scan(context.Background())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	c.setDataDirFlag(cmd)
	c.setChainFlags(cmd)
	c.setThresholdFlags(cmd)
	c.setAdjusterFlags(cmd)

	c.root.AddCommand(cmd)
}

func (c *command) setChainFlags(cmd *cobra.Command) {
	cmd.Flags().String(optionNameSwapEndpoint, "ws://localhost:8546", "ethereum blockchain endpoint")
	cmd.Flags().String(optionNameTokenAddress, "", "service fee token contract address")
	cmd.Flags().String(optionNameWalletAddress, "", "consuming wallet address")
	cmd.Flags().Uint64(optionNameGasPerTransfer, blockchain.DefaultGasPerTransfer, "gas budgeted for a single token transfer")
	cmd.Flags().Uint64(optionNameGasPriceMargin, blockchain.DefaultMarginPercent, "percent added to the suggested gas price")
}

// newScanner builds a dry run scanner against the configured endpoint.
func (c *command) newScanner(ctx context.Context, logger logging.Logger, store *payable.Store) (s *scanner.Scanner, closeBackend func(), err error) {
	token := c.config.GetString(optionNameTokenAddress)
	if !common.IsHexAddress(token) {
		return nil, nil, fmt.Errorf("invalid %s %q", optionNameTokenAddress, token)
	}
	wallet := c.config.GetString(optionNameWalletAddress)
	if !common.IsHexAddress(wallet) {
		return nil, nil, fmt.Errorf("invalid %s %q", optionNameWalletAddress, wallet)
	}
	thresholds, err := c.thresholds()
	if err != nil {
		return nil, nil, err
	}
	a, err := c.newAdjuster(logger)
	if err != nil {
		return nil, nil, err
	}

	backend, err := ethclient.DialContext(ctx, c.config.GetString(optionNameSwapEndpoint))
	if err != nil {
		return nil, nil, fmt.Errorf("dial blockchain endpoint: %w", err)
	}

	s, err = scanner.New(scanner.Options{
		Store:      store,
		Thresholds: thresholds,
		Balances: blockchain.New(blockchain.Options{
			Backend:        backend,
			Token:          common.HexToAddress(token),
			Wallet:         common.HexToAddress(wallet),
			GasPerTransfer: c.config.GetUint64(optionNameGasPerTransfer),
			MarginPercent:  c.config.GetUint64(optionNameGasPriceMargin),
		}),
		Adjuster: a,
		Logger:   logger,
		DryRun:   true,
	})
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	return s, backend.Close, nil
}

// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/ethersphere/payadjuster/pkg/adjuster"
	"github.com/ethersphere/payadjuster/pkg/bigint"
	"github.com/ethersphere/payadjuster/pkg/payable"
	"github.com/spf13/cobra"
)

func (c *command) initAdjustCmd() {
	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Compute the payments for a list of debts",
		Long: `Computes how much to pay each creditor from the disposable balance.

All debts in the file are treated as qualified for payment. The payments are
printed as JSON, heaviest account first.`,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			logger, err := c.newLogger(cmd)
			if err != nil {
				return err
			}

			debts, err := readDebts(c.config.GetString(optionNameFile))
			if err != nil {
				return err
			}
			disposable, err := bigint.Parse(c.config.GetString(optionNameDisposableBalance))
			if err != nil {
				return fmt.Errorf("%s: %w", optionNameDisposableBalance, err)
			}
			now, err := c.now()
			if err != nil {
				return err
			}

			a, err := c.newAdjuster(logger)
			if err != nil {
				return err
			}
			payments, err := a.Adjust(adjuster.Setup{
				Debts:             payable.Qualify(debts...),
				Now:               now,
				DisposableBalance: disposable,
				MaxTransactions:   c.config.GetInt(optionNameMaxTransactions),
			})
			if err != nil {
				return err
			}
			if payments == nil {
				payments = []payable.BareDebt{}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(payments)
		},
	}

	cmd.Flags().String(optionNameFile, "", "YAML file with the debts")
	cmd.Flags().String(optionNameDisposableBalance, "0", "balance available for the payments")
	cmd.Flags().String(optionNameNow, "", "RFC3339 time the debt ages are measured at, current time if empty")
	c.setAdjusterFlags(cmd)

	c.root.AddCommand(cmd)
}

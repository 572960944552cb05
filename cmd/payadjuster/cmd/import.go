// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/ethersphere/payadjuster/pkg/logging"
	"github.com/ethersphere/payadjuster/pkg/payable"
	"github.com/ethersphere/payadjuster/pkg/statestore/leveldb"
	"github.com/spf13/cobra"
)

func (c *command) initImportCmd() {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Store debts from a file in the payables database",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			logger, err := c.newLogger(cmd)
			if err != nil {
				return err
			}

			debts, err := readDebts(c.config.GetString(optionNameFile))
			if err != nil {
				return err
			}

			stateStore, err := c.openStateStore(logger)
			if err != nil {
				return err
			}
			defer stateStore.Close()

			store := payable.NewStore(stateStore)
			for _, d := range debts {
				if err := store.Put(d); err != nil {
					return fmt.Errorf("store %s: %w", d.Creditor.Hex(), err)
				}
			}

			cmd.Printf("imported %d debts\n", len(debts))
			return nil
		},
	}

	cmd.Flags().String(optionNameFile, "", "YAML file with the debts")
	c.setDataDirFlag(cmd)

	c.root.AddCommand(cmd)
}

func (c *command) openStateStore(logger logging.Logger) (*leveldb.Store, error) {
	dataDir := c.config.GetString(optionNameDataDir)
	if dataDir == "" {
		return nil, fmt.Errorf("no %s provided", optionNameDataDir)
	}
	return leveldb.New(filepath.Join(dataDir, "statestore"), leveldb.Options{Logger: logger})
}

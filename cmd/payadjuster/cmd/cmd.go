// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethersphere/payadjuster/pkg/adjuster"
	"github.com/ethersphere/payadjuster/pkg/bigint"
	"github.com/ethersphere/payadjuster/pkg/logging"
	"github.com/ethersphere/payadjuster/pkg/payable"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	optionNameDataDir                 = "data-dir"
	optionNameVerbosity               = "verbosity"
	optionNameFile                    = "file"
	optionNameDisqualificationPercent = "disqualification-percent"
	optionNameMaxTransactions         = "max-transactions"
	optionNameDisposableBalance       = "disposable-balance"
	optionNameNow                     = "now"
	optionNameSwapEndpoint            = "swap-endpoint"
	optionNameTokenAddress            = "token-address"
	optionNameWalletAddress           = "wallet-address"
	optionNameGasPerTransfer          = "gas-per-transfer"
	optionNameGasPriceMargin          = "gas-price-margin"
	optionNameDebugAPIAddr            = "debug-api-addr"
	optionNameDebtThreshold           = "debt-threshold"
	optionNamePermanentDebtAllowed    = "permanent-debt-allowed"
	optionNameMaturityThreshold       = "maturity-threshold"
	optionNameThresholdInterval       = "threshold-interval"
)

func init() {
	cobra.EnableCommandSorting = false
}

type command struct {
	root    *cobra.Command
	config  *viper.Viper
	cfgFile string
	homeDir string
}

type option func(*command)

func newCommand(opts ...option) (c *command, err error) {
	c = &command{
		root: &cobra.Command{
			Use:           "payadjuster",
			Short:         "Adjust payments to creditors to the available balance",
			SilenceErrors: true,
			SilenceUsage:  true,
			PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
				if err := c.initConfig(); err != nil {
					return err
				}
				return c.config.BindPFlags(cmd.Flags())
			},
		},
	}

	for _, o := range opts {
		o(c)
	}

	// Find home directory.
	if err := c.setHomeDir(); err != nil {
		return nil, err
	}

	c.initGlobalFlags()

	c.initAdjustCmd()
	c.initImportCmd()
	c.initScanCmd()
	c.initDebugAPICmd()
	c.initVersionCmd()

	return c, nil
}

func (c *command) Execute() (err error) {
	return c.root.Execute()
}

// Execute parses command line arguments and runs appropriate functions.
func Execute() (err error) {
	c, err := newCommand()
	if err != nil {
		return err
	}
	return c.Execute()
}

func (c *command) initGlobalFlags() {
	globalFlags := c.root.PersistentFlags()
	globalFlags.StringVar(&c.cfgFile, "config", "", "config file (default is $HOME/.payadjuster.yaml)")
	globalFlags.String(optionNameVerbosity, "info", "log verbosity level 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace")
}

func (c *command) initConfig() (err error) {
	config := viper.New()
	configName := ".payadjuster"
	if c.cfgFile != "" {
		// Use config file from the flag.
		config.SetConfigFile(c.cfgFile)
	} else {
		// Search config in home directory with name ".payadjuster" (without extension).
		config.AddConfigPath(c.homeDir)
		config.SetConfigName(configName)
	}

	// Environment
	config.SetEnvPrefix("payadjuster")
	config.AutomaticEnv() // read in environment variables that match
	config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// If a config file is found, read it in.
	if err := config.ReadInConfig(); err != nil {
		var e viper.ConfigFileNotFoundError
		if !errors.As(err, &e) {
			return err
		}
	}
	c.config = config
	return nil
}

func (c *command) setHomeDir() (err error) {
	if c.homeDir != "" {
		return
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	c.homeDir = dir
	return nil
}

func (c *command) setAdjusterFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64(optionNameDisqualificationPercent, adjuster.DefaultDisqualificationPercent, "minimum share of its debt an account has to be offered to stay in the payment list")
	cmd.Flags().Int(optionNameMaxTransactions, adjuster.NoTransactionLimit, "maximum number of payments, 0 for no limit")
}

func (c *command) setThresholdFlags(cmd *cobra.Command) {
	t := payable.DefaultThresholds
	cmd.Flags().String(optionNameDebtThreshold, t.DebtThreshold.String(), "balance a debt has to exceed right after maturity to be paid")
	cmd.Flags().String(optionNamePermanentDebtAllowed, t.PermanentDebtAllowed.String(), "balance that is never paid")
	cmd.Flags().Duration(optionNameMaturityThreshold, t.MaturityThreshold, "age a debt has to reach to be paid")
	cmd.Flags().Duration(optionNameThresholdInterval, t.ThresholdInterval, "time over which the payment threshold descends to the permanent debt allowed")
}

func (c *command) setDataDirFlag(cmd *cobra.Command) {
	cmd.Flags().String(optionNameDataDir, filepath.Join(c.homeDir, ".payadjuster"), "data directory")
}

func (c *command) newLogger(cmd *cobra.Command) (logging.Logger, error) {
	v := strings.ToLower(c.config.GetString(optionNameVerbosity))
	level, err := logging.ParseLevel(v)
	if err != nil {
		return nil, fmt.Errorf("unknown verbosity level %q", v)
	}
	// stdout carries the command results
	return logging.New(cmd.ErrOrStderr(), level), nil
}

func (c *command) newAdjuster(logger logging.Logger) (*adjuster.Adjuster, error) {
	return adjuster.New(adjuster.Options{
		Logger: logger,
		Disqualification: &adjuster.DisqualificationPolicy{
			Percent: c.config.GetUint64(optionNameDisqualificationPercent),
		},
		Diagnostics: adjuster.NewLogDiagnostics(logger),
	})
}

func (c *command) thresholds() (t payable.Thresholds, err error) {
	if t.DebtThreshold, err = bigint.Parse(c.config.GetString(optionNameDebtThreshold)); err != nil {
		return t, fmt.Errorf("%s: %w", optionNameDebtThreshold, err)
	}
	if t.PermanentDebtAllowed, err = bigint.Parse(c.config.GetString(optionNamePermanentDebtAllowed)); err != nil {
		return t, fmt.Errorf("%s: %w", optionNamePermanentDebtAllowed, err)
	}
	t.MaturityThreshold = c.config.GetDuration(optionNameMaturityThreshold)
	t.ThresholdInterval = c.config.GetDuration(optionNameThresholdInterval)
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// now returns the configured point in time or the current time.
func (c *command) now() (time.Time, error) {
	v := c.config.GetString(optionNameNow)
	if v == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", optionNameNow, err)
	}
	return t, nil
}

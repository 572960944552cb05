// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"errors"
	"fmt"
	"io/ioutil"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethersphere/payadjuster/pkg/bigint"
	"github.com/ethersphere/payadjuster/pkg/payable"
	"gopkg.in/yaml.v2"
)

var errNoDebtsFile = errors.New("no debts file provided")

// debtsFile is the YAML document read by the adjust and import commands.
type debtsFile struct {
	Debts []debtEntry `yaml:"debts"`
}

type debtEntry struct {
	Creditor string         `yaml:"creditor"`
	Balance  bigint.Uint128 `yaml:"balance"`
	LastPaid string         `yaml:"last_paid"`
}

func readDebts(path string) ([]payable.BareDebt, error) {
	if path == "" {
		return nil, errNoDebtsFile
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseDebts(data)
}

func parseDebts(data []byte) ([]payable.BareDebt, error) {
	var f debtsFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("parse debts: %w", err)
	}

	debts := make([]payable.BareDebt, len(f.Debts))
	for i, e := range f.Debts {
		if !common.IsHexAddress(e.Creditor) {
			return nil, fmt.Errorf("debt %d: invalid creditor address %q", i, e.Creditor)
		}
		lastPaid, err := time.Parse(time.RFC3339, e.LastPaid)
		if err != nil {
			return nil, fmt.Errorf("debt %d: last paid: %w", i, err)
		}
		debts[i] = payable.BareDebt{
			Creditor: common.HexToAddress(e.Creditor),
			Balance:  e.Balance,
			LastPaid: lastPaid,
		}
	}
	return debts, nil
}

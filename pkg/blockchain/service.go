// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blockchain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethersphere/go-sw3-abi/sw3abi"
	"github.com/ethersphere/payadjuster/pkg/bigint"
)

var (
	erc20ABI     = ParseABIUnchecked(sw3abi.ERC20ABIv0_3_1)
	errDecodeABI = errors.New("could not decode abi data")
)

type Options struct {
	Backend Backend
	// Token is the address of the ERC20 service fee token contract.
	Token common.Address
	// Wallet is the consuming wallet.
	Wallet         common.Address
	GasPerTransfer uint64
	MarginPercent  uint64
}

// Service reads the balances of the consuming wallet.
type Service struct {
	backend        Backend
	token          common.Address
	wallet         common.Address
	gasPerTransfer uint64
	marginPercent  uint64
}

func New(o Options) *Service {
	s := &Service{
		backend:        o.Backend,
		token:          o.Token,
		wallet:         o.Wallet,
		gasPerTransfer: o.GasPerTransfer,
		marginPercent:  o.MarginPercent,
	}
	if s.gasPerTransfer == 0 {
		s.gasPerTransfer = DefaultGasPerTransfer
	}
	return s
}

// TokenBalance returns the service fee token balance of the wallet.
func (s *Service) TokenBalance(ctx context.Context) (bigint.Uint128, error) {
	callData, err := erc20ABI.Pack("balanceOf", s.wallet)
	if err != nil {
		return bigint.Zero, err
	}

	output, err := s.backend.CallContract(ctx, ethereum.CallMsg{
		From: s.wallet,
		To:   &s.token,
		Data: callData,
	}, nil)
	if err != nil {
		return bigint.Zero, fmt.Errorf("token balance: %w", err)
	}

	results, err := erc20ABI.Unpack("balanceOf", output)
	if err != nil {
		return bigint.Zero, err
	}
	if len(results) != 1 {
		return bigint.Zero, errDecodeABI
	}

	balance, ok := abi.ConvertType(results[0], new(big.Int)).(*big.Int)
	if !ok || balance == nil {
		return bigint.Zero, errDecodeABI
	}
	return bigint.FromBig(balance)
}

// FeeBudget returns the fee budget from the suggested gas price and the
// native coin balance of the wallet.
func (s *Service) FeeBudget(ctx context.Context) (FeeBudget, error) {
	gasPrice, err := s.backend.SuggestGasPrice(ctx)
	if err != nil {
		return FeeBudget{}, fmt.Errorf("suggest gas price: %w", err)
	}
	balance, err := s.backend.BalanceAt(ctx, s.wallet, nil)
	if err != nil {
		return FeeBudget{}, fmt.Errorf("wallet balance: %w", err)
	}
	return FeeBudget{
		GasPrice:       gasPrice,
		GasPerTransfer: s.gasPerTransfer,
		MarginPercent:  s.marginPercent,
		Balance:        balance,
	}, nil
}

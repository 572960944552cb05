// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blockchain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethersphere/payadjuster/pkg/bigint"
)

// TxRequest describes a request for a transaction that can be executed.
type TxRequest struct {
	To       *common.Address // recipient of the transaction
	Data     []byte          // transaction data
	GasLimit uint64          // gas limit or 0 if it should be estimated
	Value    *big.Int        // amount of wei to send
}

// Sender signs and broadcasts transactions.
type Sender interface {
	Send(ctx context.Context, request *TxRequest) (txHash common.Hash, err error)
}

// TokenPayer pays creditors with ERC20 transfers.
type TokenPayer struct {
	sender   Sender
	token    common.Address
	gasLimit uint64
}

func NewTokenPayer(sender Sender, token common.Address, gasLimit uint64) *TokenPayer {
	return &TokenPayer{
		sender:   sender,
		token:    token,
		gasLimit: gasLimit,
	}
}

// Pay transfers amount tokens to creditor.
func (p *TokenPayer) Pay(ctx context.Context, creditor common.Address, amount bigint.Uint128) (common.Hash, error) {
	callData, err := erc20ABI.Pack("transfer", creditor, amount.Big())
	if err != nil {
		return common.Hash{}, err
	}

	return p.sender.Send(ctx, &TxRequest{
		To:       &p.token,
		Data:     callData,
		GasLimit: p.gasLimit,
		Value:    big.NewInt(0),
	})
}

// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package debugapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ethersphere/payadjuster/pkg/adjuster"
	"github.com/ethersphere/payadjuster/pkg/bigint"
	"github.com/ethersphere/payadjuster/pkg/jsonhttp"
	"github.com/ethersphere/payadjuster/pkg/payable"
)

type adjustRequest struct {
	Debts             []payable.BareDebt `json:"debts"`
	DisposableBalance bigint.Uint128     `json:"disposableBalance"`
	MaxTransactions   int                `json:"maxTransactions"`
	// Now defaults to the time of the request.
	Now *time.Time `json:"now,omitempty"`
}

type adjustResponse struct {
	Adjusted bool               `json:"adjusted"`
	Payments []payable.BareDebt `json:"payments"`
}

func (s *Service) adjustHandler(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if jsonhttp.HandleBodyReadError(err, w) {
			return
		}
		s.logger.Debugf("debug api: adjust: decode request: %v", err)
		jsonhttp.BadRequest(w, "invalid request")
		return
	}
	setup := adjuster.Setup{
		Debts:             payable.Qualify(req.Debts...),
		Now:               time.Now(),
		DisposableBalance: req.DisposableBalance,
		MaxTransactions:   req.MaxTransactions,
	}
	if req.Now != nil {
		setup.Now = *req.Now
	}

	adjusted, err := s.adjuster.NeedsAdjustment(setup)
	if err != nil {
		s.respondAdjustError(w, err)
		return
	}
	payments, err := s.adjuster.Adjust(setup)
	if err != nil {
		s.respondAdjustError(w, err)
		return
	}
	if payments == nil {
		payments = []payable.BareDebt{}
	}

	jsonhttp.OK(w, adjustResponse{
		Adjusted: adjusted,
		Payments: payments,
	})
}

func (s *Service) respondAdjustError(w http.ResponseWriter, err error) {
	s.logger.Debugf("debug api: adjust: %v", err)
	switch {
	case errors.Is(err, adjuster.ErrDuplicateCreditor):
		jsonhttp.BadRequest(w, "duplicate creditor")
	case errors.Is(err, adjuster.ErrInvalidMaxTransactions):
		jsonhttp.BadRequest(w, "invalid max transactions")
	case errors.Is(err, bigint.ErrOverflow):
		s.logger.Error("debug api: adjust: arithmetic overflow")
		jsonhttp.InternalServerError(w, "arithmetic overflow")
	default:
		s.logger.Error("debug api: adjust failed")
		jsonhttp.InternalServerError(w, nil)
	}
}

// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package debugapi

import (
	"net/http"

	"github.com/ethersphere/payadjuster/pkg/jsonhttp"
	"github.com/ethersphere/payadjuster/pkg/payable"
)

type payablesResponse struct {
	Payables []payable.BareDebt `json:"payables"`
}

func (s *Service) payablesHandler(w http.ResponseWriter, _ *http.Request) {
	debts, err := s.store.All()
	if err != nil {
		s.logger.Debugf("debug api: payables: %v", err)
		s.logger.Error("debug api: cannot get payables")
		jsonhttp.InternalServerError(w, nil)
		return
	}
	if debts == nil {
		debts = []payable.BareDebt{}
	}
	jsonhttp.OK(w, payablesResponse{Payables: debts})
}

// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package debugapi

import (
	"errors"
	"net/http"

	"github.com/ethersphere/payadjuster/pkg/jsonhttp"
	"github.com/ethersphere/payadjuster/pkg/scanner"
)

func (s *Service) scanHandler(w http.ResponseWriter, r *http.Request) {
	report, err := s.scanner.Scan(r.Context())
	if err != nil {
		s.logger.Debugf("debug api: scan: %v", err)
		if errors.Is(err, scanner.ErrInsufficientTransactionFee) {
			jsonhttp.ServiceUnavailable(w, "insufficient balance for transaction fees")
			return
		}
		s.logger.Error("debug api: scan failed")
		jsonhttp.InternalServerError(w, nil)
		return
	}
	if report.Payments == nil {
		report.Payments = []scanner.Payment{}
	}
	jsonhttp.OK(w, report)
}

// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package debugapi_test

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/ethersphere/payadjuster/pkg/adjuster"
	"github.com/ethersphere/payadjuster/pkg/debugapi"
	"github.com/ethersphere/payadjuster/pkg/jsonhttp/jsonhttptest"
	"github.com/ethersphere/payadjuster/pkg/logging"
	"github.com/ethersphere/payadjuster/pkg/payable"
	"github.com/ethersphere/payadjuster/pkg/scanner"
	"resenje.org/web"
)

type testServerOptions struct {
	Adjuster *adjuster.Adjuster
	Store    *payable.Store
	Scanner  *scanner.Scanner
}

func newTestServer(t *testing.T, o testServerOptions) *http.Client {
	t.Helper()

	if o.Adjuster == nil {
		a, err := adjuster.New(adjuster.Options{})
		if err != nil {
			t.Fatal(err)
		}
		o.Adjuster = a
	}

	s := debugapi.New(debugapi.Options{
		Logger:   logging.New(ioutil.Discard, 0),
		Adjuster: o.Adjuster,
		Store:    o.Store,
		Scanner:  o.Scanner,
	})
	s.MustRegisterMetrics(o.Adjuster.Metrics()...)

	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)

	return &http.Client{
		Transport: web.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			u, err := url.Parse(ts.URL + r.URL.String())
			if err != nil {
				return nil, err
			}
			r.URL = u
			return ts.Client().Transport.RoundTrip(r)
		}),
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	client := newTestServer(t, testServerOptions{})

	jsonhttptest.Request(t, client, http.MethodGet, "/health", http.StatusOK,
		jsonhttptest.WithExpectedJSONResponse(map[string]string{"status": "ok"}),
	)
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	client := newTestServer(t, testServerOptions{})

	jsonhttptest.Request(t, client, http.MethodGet, "/payables", http.StatusNotFound)
	jsonhttptest.Request(t, client, http.MethodPost, "/scan", http.StatusNotFound)
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	client := newTestServer(t, testServerOptions{})

	header := jsonhttptest.Request(t, client, http.MethodGet, "/metrics", http.StatusOK)
	if header.Get("Content-Type") == "" {
		t.Error("metrics without content type")
	}
}

// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adjuster

var Finalize = finalize

func MetricsOf(a *Adjuster) metrics {
	return a.metrics
}

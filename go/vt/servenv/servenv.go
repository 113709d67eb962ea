// Copyright 2012, Google Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package servenv

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"vitess.io/polystore/go/stats/prometheusbackend"
	"vitess.io/polystore/go/vt/log"
)

var metricsOnce sync.Once

// InitMetrics exports the stats variables of the process to reg under the
// configured namespace. Only the first call has an effect.
func InitMetrics(cfg *Config, reg prometheus.Registerer) {
	metricsOnce.Do(func() {
		prometheusbackend.Init(cfg.MetricsNamespace, reg)
		log.V(1).Infof("exporting metrics with namespace %q", cfg.MetricsNamespace)
	})
}

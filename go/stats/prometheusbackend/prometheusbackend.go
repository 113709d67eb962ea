/*
Copyright 2026 The Vitess Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package prometheusbackend exports the variables of the stats package as
// prometheus collectors.
package prometheusbackend

import (
	"strings"
	"unicode"

	"github.com/prometheus/client_golang/prometheus"

	"vitess.io/polystore/go/stats"
	"vitess.io/polystore/go/vt/log"
)

// PromBackend registers a prometheus collector for every published stats
// variable.
type PromBackend struct {
	namespace string
	reg       prometheus.Registerer
}

// Init subscribes a new backend to the stats registry. Collectors are
// registered on reg, or on the default registerer when reg is nil.
func Init(namespace string, reg prometheus.Registerer) *PromBackend {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	be := &PromBackend{namespace: namespace, reg: reg}
	stats.Register(be.publishPrometheusMetric)
	return be
}

func (be *PromBackend) publishPrometheusMetric(name string, v stats.Variable) {
	var collector prometheus.Collector
	switch st := v.(type) {
	case *stats.Counter:
		collector = &metricFuncCollector{
			f:    func() float64 { return float64(st.Get()) },
			desc: prometheus.NewDesc(be.buildPromName(name), st.Help(), nil, nil),
			vt:   prometheus.CounterValue,
		}
	case *stats.CountersWithSingleLabel:
		collector = &countersWithSingleLabelCollector{
			counters: st,
			desc:     prometheus.NewDesc(be.buildPromName(name), st.Help(), []string{normalizeMetric(st.Label())}, nil),
		}
	case *stats.Timings:
		collector = &timingsCollector{
			t:         st,
			countDesc: prometheus.NewDesc(be.buildPromName(name)+"_count", st.Help(), []string{normalizeMetric(st.Label())}, nil),
			timeDesc:  prometheus.NewDesc(be.buildPromName(name)+"_seconds_total", st.Help(), []string{normalizeMetric(st.Label())}, nil),
		}
	default:
		log.Infof("Not exporting to Prometheus an unsupported metric type of %T: %s", st, name)
		return
	}
	if err := be.reg.Register(collector); err != nil {
		log.Warningf("prometheus: cannot register %s: %v", name, err)
	}
}

// buildPromName specifies the namespace as a prefix to the metric name
func (be *PromBackend) buildPromName(name string) string {
	s := strings.TrimPrefix(normalizeMetric(name), be.namespace+"_")
	return prometheus.BuildFQName("", be.namespace, s)
}

// normalizeMetric converts a CamelCase name to snake_case.
func normalizeMetric(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type metricFuncCollector struct {
	f    func() float64
	desc *prometheus.Desc
	vt   prometheus.ValueType
}

func (mc *metricFuncCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- mc.desc
}

func (mc *metricFuncCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(mc.desc, mc.vt, mc.f())
}

type countersWithSingleLabelCollector struct {
	counters *stats.CountersWithSingleLabel
	desc     *prometheus.Desc
}

func (c *countersWithSingleLabelCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *countersWithSingleLabelCollector) Collect(ch chan<- prometheus.Metric) {
	for tag, val := range c.counters.Counts() {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.CounterValue, float64(val), tag)
	}
}

type timingsCollector struct {
	t         *stats.Timings
	countDesc *prometheus.Desc
	timeDesc  *prometheus.Desc
}

func (c *timingsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.countDesc
	ch <- c.timeDesc
}

func (c *timingsCollector) Collect(ch chan<- prometheus.Metric) {
	for cat, tm := range c.t.Timings() {
		ch <- prometheus.MustNewConstMetric(c.countDesc, prometheus.CounterValue, float64(tm.Count), cat)
		ch <- prometheus.MustNewConstMetric(c.timeDesc, prometheus.CounterValue, tm.Time.Seconds(), cat)
	}
}

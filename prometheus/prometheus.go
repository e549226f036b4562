// Package prometheus exports the flags of a toggle.Registry as Prometheus
// metrics.
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-kit/toggle"
)

// Collector is a prometheus.Collector reporting one gauge per flag, 1 when
// enabled and 0 when disabled. Values are read at scrape time, one snapshot
// per group.
type Collector struct {
	reg  *toggle.Registry
	desc *prometheus.Desc
}

// NewCollector returns a Collector for reg. The metric is named
// <namespace>_feature_enabled and labelled with group and flag. Register it
// with prometheus.MustRegister or a custom prometheus.Registerer.
func NewCollector(reg *toggle.Registry, namespace string) *Collector {
	return &Collector{
		reg: reg,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "feature_enabled"),
			"Whether a feature flag is enabled (1) or disabled (0).",
			[]string{"group", "flag"},
			nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, g := range c.reg.Groups() {
		for _, st := range g.States() {
			var value float64
			if st.Enabled {
				value = 1
			}
			ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, value, st.Group, st.Name)
		}
	}
}

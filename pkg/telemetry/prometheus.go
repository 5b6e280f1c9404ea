package telemetry

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var invalidMetricChars = regexp.MustCompile(`[^a-zA-Z0-9_:]`)

// MetricName turns a dotted or dashed name into a valid Prometheus metric name.
func MetricName(name string) string {
	name = invalidMetricChars.ReplaceAllString(name, "_")
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return strings.ToLower(name)
}

// PrometheusClient accumulates metrics in a private registry and writes them
// in the text exposition format on Close, for node_exporter's textfile collector.
type PrometheusClient struct {
	path     string
	registry *prometheus.Registry

	mu     sync.Mutex
	gauges map[string]*prometheus.GaugeVec
	labels map[string][]string
}

func NewPrometheusClient(path string) *PrometheusClient {
	return &PrometheusClient{
		path:     path,
		registry: prometheus.NewRegistry(),
		gauges:   make(map[string]*prometheus.GaugeVec),
		labels:   make(map[string][]string),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (c *PrometheusClient) Registry() *prometheus.Registry {
	return c.registry
}

// AddMetric adds metric.Value to the series named by metric.Name and its
// dimensions. All series of one name must use the same dimension keys.
func (c *PrometheusClient) AddMetric(_ context.Context, metric Metric) error {
	name := MetricName(metric.Name)
	keys := make([]string, 0, len(metric.Dimensions))
	labels := make(prometheus.Labels, len(metric.Dimensions))
	for k, v := range metric.Dimensions {
		key := MetricName(k)
		keys = append(keys, key)
		labels[key] = v
	}
	sort.Strings(keys)

	c.mu.Lock()
	defer c.mu.Unlock()

	vec, ok := c.gauges[name]
	if !ok {
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: name,
			Help: "supplierkit metric " + name,
		}, keys)
		if err := c.registry.Register(vec); err != nil {
			return fmt.Errorf("register metric %s: %w", name, err)
		}
		c.gauges[name] = vec
		c.labels[name] = keys
	} else if strings.Join(c.labels[name], ",") != strings.Join(keys, ",") {
		return fmt.Errorf("metric %s: dimensions %v, registered with %v", name, keys, c.labels[name])
	}

	g, err := vec.GetMetricWith(labels)
	if err != nil {
		return fmt.Errorf("metric %s: %w", name, err)
	}
	g.Add(metric.Value)
	return nil
}

// Close writes the collected metrics to the configured file.
func (c *PrometheusClient) Close() error {
	if c.path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(c.path, c.registry); err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}
	return nil
}

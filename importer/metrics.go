// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package importer

import "github.com/prometheus/client_golang/prometheus"

const metricsNamespace = "rf2boot"

// metrics holds the import collectors. A nil *metrics records nothing.
type metrics struct {
	rowsRead     *prometheus.CounterVec
	rowsAccepted *prometheus.CounterVec
	taskFailures *prometheus.CounterVec
	taskDuration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		rowsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "import",
			Name:      "rows_read_total",
			Help:      "Release file rows read, excluding headers.",
		}, []string{"component"}),
		rowsAccepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "import",
			Name:      "rows_accepted_total",
			Help:      "Release file rows accepted by the loading profile.",
		}, []string{"component"}),
		taskFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "import",
			Name:      "task_failures_total",
			Help:      "File loading tasks that failed.",
		}, []string{"component"}),
		taskDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "import",
			Name:      "task_duration_seconds",
			Help:      "Time spent reading one release file.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"component"}),
	}

	for _, c := range []prometheus.Collector{m.rowsRead, m.rowsAccepted, m.taskFailures, m.taskDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *metrics) observe(r TaskResult) {
	if m == nil {
		return
	}
	component := string(r.Component)
	m.rowsRead.WithLabelValues(component).Add(float64(r.Rows))
	m.rowsAccepted.WithLabelValues(component).Add(float64(r.Accepted))
	m.taskDuration.WithLabelValues(component).Observe(r.Duration.Seconds())
	if r.Err != nil {
		m.taskFailures.WithLabelValues(component).Inc()
	}
}

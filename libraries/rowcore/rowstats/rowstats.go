// Copyright 2026 Dolthub, Inc.
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

package rowstats

import (
	"io"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Stats counts rows and bytes moving through one codec. Counters are safe for concurrent use, so several streams of
// the same format may share a Stats. A nil *Stats ignores all updates.
type Stats struct {
	labels prometheus.Labels

	cntRowsRead    prometheus.Counter
	cntRowsWritten prometheus.Counter
	cntBadRows     prometheus.Counter
	cntBytesRead   prometheus.Counter
	cntBytesWrite  prometheus.Counter
	cntSoftDiags   prometheus.Counter
}

var _ prometheus.Collector = (*Stats)(nil)

// New creates counters labeled with the codec |format|.
func New(format string) *Stats {
	labels := prometheus.Labels{"format": format}
	return &Stats{
		labels: labels,
		cntRowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "rowbridge_rows_read",
			Help:        "Count of rows successfully decoded",
			ConstLabels: labels,
		}),
		cntRowsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "rowbridge_rows_written",
			Help:        "Count of rows encoded",
			ConstLabels: labels,
		}),
		cntBadRows: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "rowbridge_bad_rows",
			Help:        "Count of rows rejected while decoding",
			ConstLabels: labels,
		}),
		cntBytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "rowbridge_bytes_read",
			Help:        "Bytes consumed by decoded and rejected rows",
			ConstLabels: labels,
		}),
		cntBytesWrite: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "rowbridge_bytes_written",
			Help:        "Bytes produced by encoded rows",
			ConstLabels: labels,
		}),
		cntSoftDiags: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "rowbridge_soft_diagnostics",
			Help:        "Count of non fatal anomalies, such as text payloads with embedded NUL bytes",
			ConstLabels: labels,
		}),
	}
}

func (s *Stats) collectors() []prometheus.Collector {
	return []prometheus.Collector{s.cntRowsRead, s.cntRowsWritten, s.cntBadRows, s.cntBytesRead, s.cntBytesWrite, s.cntSoftDiags}
}

// Describe implements prometheus.Collector.
func (s *Stats) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range s.collectors() {
		c.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (s *Stats) Collect(ch chan<- prometheus.Metric) {
	for _, c := range s.collectors() {
		c.Collect(ch)
	}
}

// RowRead records a decoded row of |n| bytes.
func (s *Stats) RowRead(n int) {
	if s == nil {
		return
	}
	s.cntRowsRead.Inc()
	s.cntBytesRead.Add(float64(n))
}

// BadRow records a rejected row spanning |n| bytes.
func (s *Stats) BadRow(n int) {
	if s == nil {
		return
	}
	s.cntBadRows.Inc()
	s.cntBytesRead.Add(float64(n))
}

// RowWritten records an encoded row of |n| bytes.
func (s *Stats) RowWritten(n int) {
	if s == nil {
		return
	}
	s.cntRowsWritten.Inc()
	s.cntBytesWrite.Add(float64(n))
}

// SoftDiagnostic records a non fatal anomaly.
func (s *Stats) SoftDiagnostic() {
	if s == nil {
		return
	}
	s.cntSoftDiags.Inc()
}

// Snapshot holds point in time counter values.
type Snapshot struct {
	RowsRead        uint64
	RowsWritten     uint64
	BadRows         uint64
	BytesRead       uint64
	BytesWritten    uint64
	SoftDiagnostics uint64
}

// Snapshot reads the current counter values.
func (s *Stats) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	return Snapshot{
		RowsRead:        counterValue(s.cntRowsRead),
		RowsWritten:     counterValue(s.cntRowsWritten),
		BadRows:         counterValue(s.cntBadRows),
		BytesRead:       counterValue(s.cntBytesRead),
		BytesWritten:    counterValue(s.cntBytesWrite),
		SoftDiagnostics: counterValue(s.cntSoftDiags),
	}
}

func counterValue(c prometheus.Counter) uint64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return uint64(m.GetCounter().GetValue())
}

// WriteText gathers every metric from |g| and writes it in the text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return errors.Wrap(err, "gathering metrics")
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrapf(err, "writing metric %s", mf.GetName())
		}
	}

	return nil
}

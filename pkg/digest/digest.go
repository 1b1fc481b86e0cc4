package digest

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/benchviz/pkg/table"
)

// Digest keys.
const (
	KeyLatencyMin    = "latency_min_ms"
	KeyLatencyP25    = "latency_p25_ms"
	KeyLatencyMedian = "latency_median_ms"
	KeyLatencyP75    = "latency_p75_ms"
	KeyLatencyMax    = "latency_max_ms"
	KeyLatencyCount  = "latency_count"
	KeyTaskType      = "most_common_task_type"
)

// Source columns.
const (
	ColumnLatency  = "latency_ms"
	ColumnTaskType = "task_type"
)

// missingText is how a missing categorical cell is counted.
const missingText = "nan"

// Digest is an ordered set of metric name/value pairs. The zero value is an
// empty digest.
type Digest struct {
	keys   []string
	values map[string]string
}

// Set adds or replaces a pair. New keys keep insertion order.
func (d *Digest) Set(key, value string) {
	if d.values == nil {
		d.values = make(map[string]string)
	}
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Get returns the value stored under key.
func (d *Digest) Get(key string) (string, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (d *Digest) Keys() []string {
	return append([]string(nil), d.keys...)
}

// Len returns the number of pairs.
func (d *Digest) Len() int { return len(d.keys) }

// MarshalJSON encodes the digest as a flat JSON object in insertion order.
func (d *Digest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(d.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Build computes the digest of t. Absent source columns simply leave their
// keys out.
func Build(st OrderStats, t *table.Table) (*Digest, error) {
	d := &Digest{}

	if t.Has(ColumnLatency) {
		s, ok, err := Summarize(st, t.Floats(ColumnLatency))
		if err != nil {
			return nil, err
		}
		if ok {
			d.Set(KeyLatencyMin, FormatFloat(s.Min))
			d.Set(KeyLatencyP25, FormatFloat(s.P25))
			d.Set(KeyLatencyMedian, FormatFloat(s.Median))
			d.Set(KeyLatencyP75, FormatFloat(s.P75))
			d.Set(KeyLatencyMax, FormatFloat(s.Max))
			d.Set(KeyLatencyCount, strconv.Itoa(s.Count))
		}
	}

	if col, ok := t.Column(ColumnTaskType); ok {
		values := make([]string, col.Len())
		for i := range values {
			if col.Missing(i) {
				values[i] = missingText
				continue
			}
			values[i] = col.Raw(i)
		}
		if mode, ok := Mode(values); ok {
			d.Set(KeyTaskType, mode)
		}
	}
	return d, nil
}

// FormatFloat renders v the way the reporting pipeline always has: shortest
// round-trip digits, a trailing ".0" for integral values, and exponent
// notation outside [1e-4, 1e16).
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	if a := math.Abs(v); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

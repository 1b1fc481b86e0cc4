// Package chartspec decodes and validates declarative chart specifications.
//
// A specification names a chart type, the columns bound to its axes, an
// optional grouping column, display strings and a bag of options. The bag is
// decoded into the typed [Options] structure: every recognized option has an
// explicit default, and keys that are not recognized are reported through
// [Spec.UnknownOptions] instead of being passed through.
//
// Documents are JSON by default. Files ending in .toml are decoded as TOML
// into the same shape.
package chartspec

import (
	"encoding/json"
	"slices"

	"github.com/matzehuels/benchviz/pkg/errors"
	"github.com/matzehuels/benchviz/pkg/table"
)

// Type selects the rendering algorithm.
type Type string

// Supported chart types.
const (
	TimeSeries Type = "time_series"
	Histogram  Type = "histogram"
	Boxplot    Type = "boxplot"
)

// Types lists every supported chart type.
var Types = []Type{TimeSeries, Histogram, Boxplot}

// Supported reports whether t is one of [Types].
func (t Type) Supported() bool {
	return slices.Contains(Types, t)
}

// DefaultFormat is the output format used when a spec names none.
const DefaultFormat = "png"

// Formats lists the output image formats a spec may request.
var Formats = []string{"png", "svg", "pdf", "jpg", "jpeg", "tif", "tiff", "eps"}

// Spec is a decoded chart specification. It is immutable once decoded.
type Spec struct {
	Type    Type    `json:"type"`
	X       string  `json:"x"`
	Y       string  `json:"y,omitempty"`
	GroupBy string  `json:"groupby,omitempty"`
	Title   string  `json:"title,omitempty"`
	Format  string  `json:"format"`
	Options Options `json:"opts"`

	// UnknownOptions lists option keys that were present but not recognized,
	// in sorted order.
	UnknownOptions []string `json:"-"`
}

// Grouped reports whether the spec splits series by a grouping column.
func (s *Spec) Grouped() bool { return s.GroupBy != "" }

// Validate checks the spec for structural errors that do not depend on the
// input table. An unsupported type yields [errors.ErrCodeUnsupportedChart];
// every other failure yields [errors.ErrCodeInvalidSpec].
func (s *Spec) Validate() error {
	if !s.Type.Supported() {
		return errors.New(errors.ErrCodeUnsupportedChart, "unsupported plot type: %s", s.Type)
	}
	if err := errors.ValidateColumnName("x", s.X); err != nil {
		return err
	}
	if s.Type != Histogram {
		if err := errors.ValidateColumnName("y", s.Y); err != nil {
			return err
		}
	}
	if s.GroupBy != "" {
		if err := errors.ValidateColumnName("groupby", s.GroupBy); err != nil {
			return err
		}
	}
	if !slices.Contains(Formats, s.Format) {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported output format: %s", s.Format)
	}
	return s.Options.Validate()
}

// ValidateColumns checks that every column the spec references exists in t.
func (s *Spec) ValidateColumns(t *table.Table) error {
	refs := []struct{ field, name string }{
		{"x", s.X},
		{"y", s.Y},
		{"groupby", s.GroupBy},
	}
	for _, r := range refs {
		if r.name == "" {
			continue
		}
		if r.field == "y" && s.Type == Histogram {
			continue
		}
		if !t.Has(r.name) {
			return errors.New(errors.ErrCodeMissingColumn, "%s column %q not found in input", r.field, r.name)
		}
	}
	return nil
}

// Canonical returns a stable encoding of the spec, suitable for cache keys.
func (s *Spec) Canonical() []byte {
	data, _ := json.Marshal(s)
	return data
}

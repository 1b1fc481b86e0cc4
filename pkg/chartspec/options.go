package chartspec

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/benchviz/pkg/errors"
)

// Option defaults.
const (
	DefaultStyle       = "whitegrid"
	DefaultDPI         = 150
	DefaultWidthPx     = 1200
	DefaultHeightPx    = 600
	DefaultBins        = 16
	DefaultSampling    = SamplingStride
	DefaultHistElement = HistStep
	DefaultLegendLoc   = "best"
)

// Sampling strategies for time series downsampling.
const (
	SamplingStride = "stride"
	SamplingRandom = "random"
)

// Histogram draw styles for grouped histograms.
const (
	HistStep = "step"
	HistBars = "bars"
	HistPoly = "poly"
)

// Styles lists the recognized visual themes.
var Styles = []string{"whitegrid", "darkgrid", "white", "dark", "ticks"}

// LegendLocations lists the recognized legend placements.
var LegendLocations = []string{
	"best",
	"upper right", "upper left", "lower left", "lower right",
	"right", "center left", "center right",
	"lower center", "upper center", "center",
}

// Options is the typed option bag of a [Spec]. The zero value is not useful;
// start from [DefaultOptions].
type Options struct {
	Style    string `json:"style"`
	DPI      int    `json:"dpi"`
	WidthPx  int    `json:"width_px"`
	HeightPx int    `json:"height_px"`

	XTimeFormat      string  `json:"x_time_format,omitempty"`
	XTimeUnit        string  `json:"x_time_unit,omitempty"`
	XTimestampFormat string  `json:"x_timestamp_format,omitempty"`
	XLabelAngle      float64 `json:"x_label_angle,omitempty"`

	MaxPoints   int     `json:"max_points,omitempty"`
	Sampling    string  `json:"sampling"`
	RandomState *uint64 `json:"random_state,omitempty"`
	MaxRows     int     `json:"max_rows,omitempty"`

	Bins           int    `json:"bins"`
	HistElement    string `json:"hist_element"`
	HistCommonNorm bool   `json:"hist_common_norm"`

	Legend    *bool  `json:"legend,omitempty"`
	LegendLoc string `json:"legend_loc"`
}

// DefaultOptions returns the options used for keys a spec leaves out.
func DefaultOptions() Options {
	return Options{
		Style:       DefaultStyle,
		DPI:         DefaultDPI,
		WidthPx:     DefaultWidthPx,
		HeightPx:    DefaultHeightPx,
		Sampling:    DefaultSampling,
		Bins:        DefaultBins,
		HistElement: DefaultHistElement,
		LegendLoc:   DefaultLegendLoc,
	}
}

// WidthInches returns the canvas width in inches. Pixel sizing is
// authoritative; inches only exist to hand the backend a physical size.
func (o Options) WidthInches() float64 { return float64(o.WidthPx) / float64(o.DPI) }

// HeightInches returns the canvas height in inches.
func (o Options) HeightInches() float64 { return float64(o.HeightPx) / float64(o.DPI) }

// Validate checks option ranges and enumerations.
func (o Options) Validate() error {
	switch {
	case !slices.Contains(Styles, o.Style):
		return errors.New(errors.ErrCodeInvalidSpec, "unknown style %q", o.Style)
	case o.DPI <= 0:
		return errors.New(errors.ErrCodeInvalidSpec, "dpi must be positive, got %d", o.DPI)
	case o.WidthPx <= 0 || o.HeightPx <= 0:
		return errors.New(errors.ErrCodeInvalidSpec, "width_px and height_px must be positive, got %dx%d", o.WidthPx, o.HeightPx)
	case o.Bins <= 0:
		return errors.New(errors.ErrCodeInvalidSpec, "bins must be positive, got %d", o.Bins)
	case o.MaxPoints < 0:
		return errors.New(errors.ErrCodeInvalidSpec, "max_points must not be negative, got %d", o.MaxPoints)
	case o.MaxRows < 0:
		return errors.New(errors.ErrCodeInvalidSpec, "max_rows must not be negative, got %d", o.MaxRows)
	case o.Sampling != SamplingStride && o.Sampling != SamplingRandom:
		return errors.New(errors.ErrCodeInvalidSpec, "unknown sampling strategy %q", o.Sampling)
	case o.HistElement != HistStep && o.HistElement != HistBars && o.HistElement != HistPoly:
		return errors.New(errors.ErrCodeInvalidSpec, "unknown hist_element %q", o.HistElement)
	case !slices.Contains(LegendLocations, o.LegendLoc):
		return errors.New(errors.ErrCodeInvalidSpec, "unknown legend_loc %q", o.LegendLoc)
	}
	return nil
}

// setter applies one decoded option value.
type setter func(o *Options, v any) error

var setters = map[string]setter{
	"style":              enumSetter(func(o *Options) *string { return &o.Style }),
	"dpi":                intSetter(func(o *Options) *int { return &o.DPI }),
	"width_px":           intSetter(func(o *Options) *int { return &o.WidthPx }),
	"height_px":          intSetter(func(o *Options) *int { return &o.HeightPx }),
	"x_time_format":      enumSetter(func(o *Options) *string { return &o.XTimeFormat }),
	"x_time_unit":        enumSetter(func(o *Options) *string { return &o.XTimeUnit }),
	"x_timestamp_format": enumSetter(func(o *Options) *string { return &o.XTimestampFormat }),
	"max_points":         intSetter(func(o *Options) *int { return &o.MaxPoints }),
	"sampling":           enumSetter(func(o *Options) *string { return &o.Sampling }),
	"max_rows":           intSetter(func(o *Options) *int { return &o.MaxRows }),
	"bins":               intSetter(func(o *Options) *int { return &o.Bins }),
	"hist_element":       enumSetter(func(o *Options) *string { return &o.HistElement }),
	"legend_loc":         enumSetter(func(o *Options) *string { return &o.LegendLoc }),

	"x_label_angle": func(o *Options, v any) error {
		f, err := toFloat(v)
		if err != nil {
			return err
		}
		o.XLabelAngle = f
		return nil
	},
	"hist_common_norm": func(o *Options, v any) error {
		b, err := toBool(v)
		if err != nil {
			return err
		}
		o.HistCommonNorm = b
		return nil
	},
	"legend": func(o *Options, v any) error {
		b, err := toBool(v)
		if err != nil {
			return err
		}
		o.Legend = &b
		return nil
	},
	"random_state": func(o *Options, v any) error {
		f, err := toFloat(v)
		if err != nil {
			return err
		}
		if f < 0 || f != math.Trunc(f) {
			return fmt.Errorf("want a non-negative integer, got %v", v)
		}
		seed, err := toUint(v)
		if err != nil {
			return err
		}
		o.RandomState = &seed
		return nil
	},
}

// IsOption reports whether key is a recognized option name.
func IsOption(key string) bool {
	_, ok := setters[key]
	return ok
}

// applyOptions decodes a raw option map onto o and returns unrecognized keys.
// A nil value leaves the option at its current setting.
func applyOptions(o *Options, raw map[string]any) (unknown []string, err error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		set, ok := setters[k]
		if !ok {
			unknown = append(unknown, k)
			continue
		}
		v := raw[k]
		if v == nil {
			continue
		}
		if err := set(o, v); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "option %s", k)
		}
	}
	return unknown, nil
}

func enumSetter(field func(*Options) *string) setter {
	return func(o *Options, v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("want a string, got %T", v)
		}
		*field(o) = strings.ToLower(strings.TrimSpace(s))
		return nil
	}
}

func intSetter(field func(*Options) *int) setter {
	return func(o *Options, v any) error {
		f, err := toFloat(v)
		if err != nil {
			return err
		}
		*field(o) = int(f)
		return nil
	}
}

// toFloat accepts JSON and TOML numbers as well as numeric strings.
func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("want a number, got %q", n)
		}
		return f, nil
	}
	return 0, fmt.Errorf("want a number, got %T", v)
}

// toUint decodes a seed without losing precision for large integers.
func toUint(v any) (uint64, error) {
	switch n := v.(type) {
	case json.Number:
		if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
			return u, nil
		}
	case string:
		if u, err := strconv.ParseUint(strings.TrimSpace(n), 10, 64); err == nil {
			return u, nil
		}
	case int64:
		return uint64(n), nil
	case int:
		return uint64(n), nil
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, err
	}
	return uint64(f), nil
}

func toBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes", "1":
			return true, nil
		case "false", "no", "0":
			return false, nil
		}
		return false, fmt.Errorf("want a boolean, got %q", b)
	}
	return false, fmt.Errorf("want a boolean, got %T", v)
}

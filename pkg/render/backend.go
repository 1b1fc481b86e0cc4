package render

import (
	"context"
	"fmt"

	"github.com/matzehuels/benchviz/pkg/chart"
)

// Backend rasterizes chart descriptions.
type Backend interface {
	// Name identifies the backend in logs.
	Name() string
	// Available reports whether the backend can render at all. It is checked
	// once at startup, before any file is read or written.
	Available() error
	// Render draws fig and returns the encoded image.
	Render(ctx context.Context, fig *chart.Figure) ([]byte, error)
}

// Fitter is implemented by backends that can adjust a figure's layout to
// the space available before drawing it.
type Fitter interface {
	Fit(fig *chart.Figure) error
}

// BestEffort runs fn and converts a panic into an error. It is used for
// cosmetic steps whose failure must never abort rendering.
func BestEffort(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered: %v", r)
		}
	}()
	return fn()
}

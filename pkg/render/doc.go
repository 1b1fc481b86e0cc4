// Package render turns a table and a chart specification into image bytes.
//
// # Overview
//
// Rendering happens in two steps:
//
//   - [Build] interprets the specification against the table and produces a
//     fully resolved [chart.Figure]: time-axis inference, downsampling,
//     grouping, histogram binning and legend behaviour are all decided here.
//   - A [Backend] rasterizes the figure to bytes in the requested format.
//
// Keeping every decision in [Build] means the interesting logic is testable
// without drawing anything; backends only draw.
//
// # Backends
//
// [Gonum] draws with gonum.org/v1/plot. Raster formats (png, jpg, tif) are
// produced at the figure's DPI; vector formats (svg, pdf, eps) use the same
// physical canvas size. Pixel dimensions are authoritative: the canvas is
// WidthPx/DPI by HeightPx/DPI inches.
//
//	fig, stats, err := render.Build(tbl, spec)
//	data, err := render.NewGonum().Render(ctx, fig)
//
// # Layout fit
//
// Backends implementing [Fitter] get a chance to adjust a figure before it
// is drawn. Fitting is cosmetic: callers treat its failure as non-fatal.
package render

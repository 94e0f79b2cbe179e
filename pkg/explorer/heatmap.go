package explorer

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/HisDaoMaterials/data-engine/pkg/frame"
	"github.com/HisDaoMaterials/data-engine/pkg/stats"
)

var (
	ErrInvalidRange  = errors.New("vmin must be less than vmax")
	ErrInvalidFormat = errors.New("invalid value format")
)

// HeatmapOptions controls how a correlation heatmap is computed and drawn.
type HeatmapOptions struct {
	Title       string
	Method      stats.Method
	Annotate    bool   // print each cell's value
	ValueFormat string // ".2f" or "%.2f"
	Colormap    string
	Square      bool // square canvas, so cells are square
	VMin, VMax  float64
	AutoRange   bool // take VMin and VMax from the observed coefficients

	Width, Height vg.Length
	Format        string // image format for WriteTo: png, svg, pdf, jpg, tiff, eps
}

// DefaultHeatmapOptions mirrors the usual seaborn look: annotated, coolwarm, [-1, 1].
func DefaultHeatmapOptions() HeatmapOptions {
	return HeatmapOptions{
		Title:       "Correlation Heatmap",
		Method:      stats.Pearson,
		Annotate:    true,
		ValueFormat: ".2f",
		Colormap:    "coolwarm",
		Square:      true,
		VMin:        -1,
		VMax:        1,
		Width:       10 * vg.Inch,
		Height:      8 * vg.Inch,
		Format:      "png",
	}
}

// Heatmap is a rendered-on-demand correlation figure. Each call to
// NewCorrelationHeatmap builds a fresh plot.
type Heatmap struct {
	Matrix *CorrelationMatrix
	Plot   *plot.Plot

	opts HeatmapOptions
}

// NewCorrelationHeatmap computes the correlation matrix of t's numeric
// columns and lays it out as an annotated heatmap. Tables with fewer than two
// numeric columns still produce a (degenerate) figure.
func NewCorrelationHeatmap(t *frame.Table, opts HeatmapOptions) (*Heatmap, error) {
	if !opts.AutoRange && !(opts.VMin < opts.VMax) {
		return nil, fmt.Errorf("%w: vmin=%v vmax=%v", ErrInvalidRange, opts.VMin, opts.VMax)
	}
	if _, err := formatValue(opts.ValueFormat, 0); err != nil {
		return nil, err
	}
	pal, err := ResolvePalette(opts.Colormap)
	if err != nil {
		return nil, err
	}
	cm, err := NewCorrelationMatrix(t, opts.Method)
	if err != nil {
		return nil, err
	}
	if opts.AutoRange {
		opts.VMin, opts.VMax = observedRange(cm)
	}

	p := plot.New()
	p.Title.Text = opts.Title
	n := cm.Len()
	if n == 0 {
		p.HideAxes()
		return &Heatmap{Matrix: cm, Plot: p, opts: opts}, nil
	}

	g := grid{cm: cm}
	hm := plotter.NewHeatMap(g, pal)
	hm.Min, hm.Max = opts.VMin, opts.VMax
	cols := pal.Colors()
	hm.Underflow, hm.Overflow = cols[0], cols[len(cols)-1]
	p.Add(hm)

	if opts.Annotate {
		labels, err := annotations(g, opts.ValueFormat)
		if err != nil {
			return nil, err
		}
		if labels != nil {
			p.Add(labels)
		}
	}

	names := cm.Names()
	xticks := make([]plot.Tick, n)
	yticks := make([]plot.Tick, n)
	for i, name := range names {
		xticks[i] = plot.Tick{Value: g.X(i), Label: name}
		yticks[i] = plot.Tick{Value: g.Y(n - 1 - i), Label: name}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xticks)
	p.Y.Tick.Marker = plot.ConstantTicks(yticks)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	return &Heatmap{Matrix: cm, Plot: p, opts: opts}, nil
}

func (h *Heatmap) size() (vg.Length, vg.Length) {
	w, ht := h.opts.Width, h.opts.Height
	if w <= 0 {
		w = 10 * vg.Inch
	}
	if ht <= 0 {
		ht = 8 * vg.Inch
	}
	if h.opts.Square {
		side := min(w, ht)
		return side, side
	}
	return w, ht
}

// WriteTo encodes the figure in the configured image format.
func (h *Heatmap) WriteTo(w io.Writer) (int64, error) {
	format := h.opts.Format
	if format == "" {
		format = "png"
	}
	width, height := h.size()
	wt, err := h.Plot.WriterTo(width, height, format)
	if err != nil {
		return 0, err
	}
	return wt.WriteTo(w)
}

// Save writes the figure to path; the format follows the file extension.
func (h *Heatmap) Save(path string) error {
	width, height := h.size()
	return h.Plot.Save(width, height, path)
}

// RenderCorrelationHeatmap draws the correlation heatmap of t onto w.
func RenderCorrelationHeatmap(w io.Writer, t *frame.Table, opts HeatmapOptions) error {
	h, err := NewCorrelationHeatmap(t, opts)
	if err != nil {
		return err
	}
	_, err = h.WriteTo(w)
	return err
}

// SaveCorrelationHeatmap draws the correlation heatmap of t into an image file.
func SaveCorrelationHeatmap(path string, t *frame.Table, opts HeatmapOptions) error {
	h, err := NewCorrelationHeatmap(t, opts)
	if err != nil {
		return err
	}
	return h.Save(path)
}

// observedRange spans the finite coefficients of cm. A single distinct value
// (or none) is widened by one on each side so the colour scale stays valid.
func observedRange(cm *CorrelationMatrix) (float64, float64) {
	n := cm.Len()
	vals := make([]float64, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			vals = append(vals, cm.At(i, j))
		}
	}
	lo, hi := stats.MinMax(vals)
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	return lo, hi
}

// grid exposes a correlation matrix as plotter.GridXYZ, first column on the
// left and first row at the top.
type grid struct {
	cm *CorrelationMatrix
}

func (g grid) Dims() (c, r int) { return g.cm.Len(), g.cm.Len() }

func (g grid) Z(c, r int) float64 { return g.cm.At(g.cm.Len()-1-r, c) }

func (g grid) X(c int) float64 { return float64(c) }

func (g grid) Y(r int) float64 { return float64(r) }

func annotations(g grid, format string) (*plotter.Labels, error) {
	c, r := g.Dims()
	var xys plotter.XYs
	var text []string
	for i := 0; i < c; i++ {
		for j := 0; j < r; j++ {
			v := g.Z(i, j)
			if math.IsNaN(v) {
				continue
			}
			s, err := formatValue(format, v)
			if err != nil {
				return nil, err
			}
			xys = append(xys, plotter.XY{X: g.X(i), Y: g.Y(j)})
			text = append(text, s)
		}
	}
	if len(xys) == 0 {
		return nil, nil
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: text})
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
	}
	return labels, nil
}

// formatValue accepts Python-style (".2f") or Go-style ("%.2f") verbs.
func formatValue(format string, v float64) (string, error) {
	if format == "" {
		format = ".2f"
	}
	if !strings.HasPrefix(format, "%") {
		format = "%" + format
	}
	s := fmt.Sprintf(format, v)
	if strings.Contains(s, "%!") {
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
	return s, nil
}

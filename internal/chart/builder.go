package chart

import (
	"stockchart/internal/model"

	"github.com/guregu/null/v6"
)

const (
	DefaultTitle  = "Interactive Stock Chart"
	DefaultHeight = 800
	DefaultWidth  = 1200

	candlestickName = "Candlesticks"
	volumeName      = "Volume"
	fallbackColor   = "gray"
)

// Colors maps indicator names to their fixed line colors.
var Colors = map[string]string{
	"SMA20":  "blue",
	"SMA50":  "orange",
	"SMA200": "red",
	"EMA9":   "purple",
}

// rowHeights and verticalSpacing lay out the price panel above the volume panel.
var (
	rowHeights      = []float64{0.7, 0.3}
	verticalSpacing = 0.1
)

// Options configures a Builder.
type Options struct {
	Title  string
	Height int
	Width  int
}

// Builder turns augmented series into figures.
type Builder struct {
	opts Options
}

// NewBuilder creates a Builder; zero option fields fall back to the defaults.
func NewBuilder(opts Options) *Builder {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	return &Builder{opts: opts}
}

// Build assembles a figure with the default options.
func Build(series *model.AugmentedSeries) *Figure {
	return NewBuilder(Options{}).Build(series)
}

// Build assembles the two-panel figure: candlesticks plus one line per
// indicator on top, volume bars below, sharing a weekend-free date axis.
func (b *Builder) Build(series *model.AugmentedSeries) *Figure {
	var (
		bars       []model.PriceBar
		indicators []model.IndicatorSeries
	)
	if series != nil {
		bars = series.Bars
		indicators = series.Indicators
	}

	n := len(bars)
	x := make([]string, n)
	candle := Candlestick{
		Type:  "candlestick",
		Name:  candlestickName,
		X:     x,
		Open:  make([]float64, n),
		High:  make([]float64, n),
		Low:   make([]float64, n),
		Close: make([]float64, n),
		XAxis: "x",
		YAxis: "y",
	}
	volume := Bar{
		Type:  "bar",
		Name:  volumeName,
		X:     x,
		Y:     make([]int64, n),
		XAxis: "x2",
		YAxis: "y2",
	}
	for i, bar := range bars {
		x[i] = bar.Date.Format(model.DateLayout)
		candle.Open[i] = bar.Open
		candle.High[i] = bar.High
		candle.Low[i] = bar.Low
		candle.Close[i] = bar.Close
		volume.Y[i] = bar.Volume
	}

	fig := &Figure{
		Data:   make([]Trace, 0, 2+len(indicators)),
		Layout: b.layout(),
	}
	fig.Data = append(fig.Data, candle)
	for _, ind := range indicators {
		fig.Data = append(fig.Data, lineTrace(ind, x))
	}
	fig.Data = append(fig.Data, volume)
	return fig
}

func lineTrace(ind model.IndicatorSeries, x []string) Scatter {
	color, ok := Colors[ind.Name]
	if !ok {
		color = fallbackColor
	}
	y := make([]null.Float, len(x))
	copy(y, ind.Values)
	return Scatter{
		Type:  "scatter",
		Mode:  "lines",
		Name:  ind.Name,
		X:     x,
		Y:     y,
		Line:  Line{Color: color},
		XAxis: "x",
		YAxis: "y",
	}
}

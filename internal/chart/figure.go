// Package chart assembles render-ready Plotly figures from augmented price series.
//
// The JSON encoding of Figure follows the Plotly figure schema, so a display
// layer only needs to call Plotly.newPlot(el, fig.data, fig.layout).
package chart

import (
	"github.com/guregu/null/v6"
)

// Trace is one Plotly trace.
type Trace interface {
	TraceType() string
}

// Candlestick draws open/high/low/close per bar.
type Candlestick struct {
	Type  string    `json:"type"`
	Name  string    `json:"name"`
	X     []string  `json:"x"`
	Open  []float64 `json:"open"`
	High  []float64 `json:"high"`
	Low   []float64 `json:"low"`
	Close []float64 `json:"close"`
	XAxis string    `json:"xaxis"`
	YAxis string    `json:"yaxis"`
}

func (Candlestick) TraceType() string { return "candlestick" }

// Line is a scatter trace drawn in lines mode. Undefined points encode as null
// and leave a gap.
type Line struct {
	Color string `json:"color"`
}

type Scatter struct {
	Type        string       `json:"type"`
	Mode        string       `json:"mode"`
	Name        string       `json:"name"`
	X           []string     `json:"x"`
	Y           []null.Float `json:"y"`
	Line        Line         `json:"line"`
	ConnectGaps bool         `json:"connectgaps"`
	XAxis       string       `json:"xaxis"`
	YAxis       string       `json:"yaxis"`
}

func (Scatter) TraceType() string { return "scatter" }

// Bar is a vertical bar trace.
type Bar struct {
	Type  string   `json:"type"`
	Name  string   `json:"name"`
	X     []string `json:"x"`
	Y     []int64  `json:"y"`
	XAxis string   `json:"xaxis"`
	YAxis string   `json:"yaxis"`
}

func (Bar) TraceType() string { return "bar" }

type Title struct {
	Text string `json:"text"`
}

type RangeSlider struct {
	Visible bool `json:"visible"`
}

// RangeBreak removes a span from a date axis. Bounds ["sat", "mon"] hides weekends.
type RangeBreak struct {
	Bounds []string `json:"bounds"`
}

type Axis struct {
	Type           string       `json:"type,omitempty"`
	Domain         []float64    `json:"domain,omitempty"`
	Anchor         string       `json:"anchor,omitempty"`
	Matches        string       `json:"matches,omitempty"`
	ShowTickLabels *bool        `json:"showticklabels,omitempty"`
	RangeSlider    *RangeSlider `json:"rangeslider,omitempty"`
	RangeBreaks    []RangeBreak `json:"rangebreaks,omitempty"`
	Title          *Title       `json:"title,omitempty"`
}

type Layout struct {
	Title      Title `json:"title"`
	Height     int   `json:"height"`
	Width      int   `json:"width"`
	ShowLegend bool  `json:"showlegend"`
	XAxis      Axis  `json:"xaxis"`
	YAxis      Axis  `json:"yaxis"`
	XAxis2     Axis  `json:"xaxis2"`
	YAxis2     Axis  `json:"yaxis2"`
}

// Figure is the render-ready chart handed to the display layer.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Traces returns the traces of type T in figure order.
func Traces[T Trace](f *Figure) []T {
	var out []T
	for _, tr := range f.Data {
		if t, ok := tr.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

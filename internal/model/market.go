package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// DateLayout is the calendar date format used on the wire and in forms.
const DateLayout = "2006-01-02"

// PriceBar represents a single daily candlestick bar.
type PriceBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// PriceSeries holds the daily bars of one symbol in ascending date order.
type PriceSeries struct {
	Symbol string
	Bars   []PriceBar
}

// Len returns the number of bars.
func (s PriceSeries) Len() int { return len(s.Bars) }

// Closes returns the close prices in bar order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Date truncates t to its calendar date at midnight UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IndicatorKind names the smoothing method of an indicator.
type IndicatorKind string

const (
	KindSMA IndicatorKind = "SMA"
	KindEMA IndicatorKind = "EMA"
)

// IndicatorSeries is one derived column. Values[i] belongs to the i-th bar of
// the series it was computed from; an invalid value means "not enough history".
type IndicatorSeries struct {
	Name   string
	Kind   IndicatorKind
	Window int
	Values []null.Float
}

// Defined reports how many values are defined.
func (s IndicatorSeries) Defined() int {
	n := 0
	for _, v := range s.Values {
		if v.Valid {
			n++
		}
	}
	return n
}

// AugmentedSeries is a PriceSeries plus indicator columns on the same date axis.
type AugmentedSeries struct {
	Symbol     string
	Bars       []PriceBar
	Indicators []IndicatorSeries
}

// Len returns the number of bars.
func (a *AugmentedSeries) Len() int { return len(a.Bars) }

// Indicator returns the indicator column with the given name.
func (a *AugmentedSeries) Indicator(name string) (IndicatorSeries, bool) {
	for _, ind := range a.Indicators {
		if ind.Name == name {
			return ind, true
		}
	}
	return IndicatorSeries{}, false
}

// ValueAt returns the named indicator value on the given date.
func (a *AugmentedSeries) ValueAt(name string, date time.Time) null.Float {
	ind, ok := a.Indicator(name)
	if !ok {
		return null.Float{}
	}
	date = Date(date)
	for i, b := range a.Bars {
		if b.Date.Equal(date) && i < len(ind.Values) {
			return ind.Values[i]
		}
	}
	return null.Float{}
}

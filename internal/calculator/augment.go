package calculator

import (
	"fmt"

	"stockchart/internal/model"

	"github.com/guregu/null/v6"
)

// Spec describes one indicator column.
type Spec struct {
	Name   string
	Kind   model.IndicatorKind
	Window int
}

// Indicators is the fixed set of columns attached by Augment, in display order.
var Indicators = []Spec{
	{Name: "SMA20", Kind: model.KindSMA, Window: 20},
	{Name: "SMA50", Kind: model.KindSMA, Window: 50},
	{Name: "SMA200", Kind: model.KindSMA, Window: 200},
	{Name: "EMA9", Kind: model.KindEMA, Window: 9},
}

// Augment validates series and returns a copy of its bars with every indicator
// in Indicators attached. The input is not modified.
func Augment(series model.PriceSeries) (*model.AugmentedSeries, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}

	bars := make([]model.PriceBar, len(series.Bars))
	copy(bars, series.Bars)

	closes := series.Closes()
	out := &model.AugmentedSeries{
		Symbol:     series.Symbol,
		Bars:       bars,
		Indicators: make([]model.IndicatorSeries, 0, len(Indicators)),
	}
	for _, spec := range Indicators {
		values, err := compute(spec, closes)
		if err != nil {
			return nil, err
		}
		out.Indicators = append(out.Indicators, model.IndicatorSeries{
			Name:   spec.Name,
			Kind:   spec.Kind,
			Window: spec.Window,
			Values: values,
		})
	}
	return out, nil
}

func compute(spec Spec, closes []float64) ([]null.Float, error) {
	switch spec.Kind {
	case model.KindSMA:
		return SMA(closes, spec.Window), nil
	case model.KindEMA:
		return EMA(closes, spec.Window), nil
	default:
		return nil, fmt.Errorf("unknown indicator kind %q for %s", spec.Kind, spec.Name)
	}
}

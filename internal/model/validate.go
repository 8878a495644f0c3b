package model

import (
	"fmt"
	"math"
)

// MalformedSeriesError reports a price series that violates ordering or shape rules.
type MalformedSeriesError struct {
	Symbol string
	Index  int
	Reason string
}

func (e *MalformedSeriesError) Error() string {
	return fmt.Sprintf("malformed series %q at bar %d: %s", e.Symbol, e.Index, e.Reason)
}

// Validate checks that dates strictly increase and that every bar carries a
// usable close and a non-negative volume.
func (s PriceSeries) Validate() error {
	for i, b := range s.Bars {
		if b.Date.IsZero() {
			return &MalformedSeriesError{Symbol: s.Symbol, Index: i, Reason: "missing date"}
		}
		if math.IsNaN(b.Close) || math.IsInf(b.Close, 0) || b.Close <= 0 {
			return &MalformedSeriesError{Symbol: s.Symbol, Index: i, Reason: fmt.Sprintf("invalid close %v", b.Close)}
		}
		if b.Volume < 0 {
			return &MalformedSeriesError{Symbol: s.Symbol, Index: i, Reason: fmt.Sprintf("negative volume %d", b.Volume)}
		}
		if i > 0 && !b.Date.After(s.Bars[i-1].Date) {
			return &MalformedSeriesError{
				Symbol: s.Symbol,
				Index:  i,
				Reason: fmt.Sprintf("date %s not after %s", b.Date.Format(DateLayout), s.Bars[i-1].Date.Format(DateLayout)),
			}
		}
	}
	return nil
}

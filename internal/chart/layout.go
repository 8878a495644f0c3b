package chart

func (b *Builder) layout() Layout {
	domains := rowDomains(rowHeights, verticalSpacing)
	hide := false

	return Layout{
		Title:      Title{Text: b.opts.Title},
		Height:     b.opts.Height,
		Width:      b.opts.Width,
		ShowLegend: true,
		XAxis: Axis{
			Type:           "date",
			Domain:         []float64{0, 1},
			Anchor:         "y",
			Matches:        "x2",
			ShowTickLabels: &hide,
			RangeSlider:    &RangeSlider{Visible: false},
			RangeBreaks:    weekendBreaks(),
		},
		YAxis: Axis{
			Domain: domains[0],
			Anchor: "x",
			Title:  &Title{Text: "Price"},
		},
		XAxis2: Axis{
			Type:        "date",
			Domain:      []float64{0, 1},
			Anchor:      "y2",
			RangeBreaks: weekendBreaks(),
		},
		YAxis2: Axis{
			Domain: domains[1],
			Anchor: "x2",
			Title:  &Title{Text: "Volume"},
		},
	}
}

func weekendBreaks() []RangeBreak {
	return []RangeBreak{{Bounds: []string{"sat", "mon"}}}
}

// rowDomains returns the vertical [lo, hi] domain of each row, top row first.
// Heights are relative and share what remains after the spacing between rows.
func rowDomains(heights []float64, spacing float64) [][]float64 {
	if len(heights) == 0 {
		return nil
	}
	total := 0.0
	for _, h := range heights {
		total += h
	}
	usable := 1 - spacing*float64(len(heights)-1)

	domains := make([][]float64, len(heights))
	top := 1.0
	for i, h := range heights {
		size := usable * h / total
		lo := top - size
		if i == len(heights)-1 {
			lo = 0
		}
		domains[i] = []float64{lo, top}
		top = lo - spacing
	}
	return domains
}

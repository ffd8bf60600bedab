package style

import (
	"math"
	"strings"
)

// Match maps a free-text description to edit parameters.
//
// Every template with a keyword occurring in the lower-cased description
// contributes, and each value is the mean across contributing templates.
// Descriptions that match nothing, including the empty string, yield Default.
func Match(description string) Parameters {
	matched := matchTemplates(description)
	if len(matched) == 0 {
		return Default()
	}
	return average(matched)
}

// MatchedStyles returns the names of the templates Match would average,
// in table order.
func MatchedStyles(description string) []string {
	matched := matchTemplates(description)
	names := make([]string, len(matched))
	for i, t := range matched {
		names[i] = t.Name
	}
	return names
}

func matchTemplates(description string) []Template {
	text := strings.ToLower(description)
	var matched []Template
	for _, t := range templates {
		for _, kw := range t.Keywords {
			if strings.Contains(text, kw) {
				matched = append(matched, t)
				break
			}
		}
	}
	return matched
}

func average(ts []Template) Parameters {
	var sum Parameters
	var split SplitToning
	for _, t := range ts {
		p := t.Parameters
		sum.Exposure += p.Exposure
		sum.Contrast += p.Contrast
		sum.Highlights += p.Highlights
		sum.Shadows += p.Shadows
		sum.Whites += p.Whites
		sum.Blacks += p.Blacks
		sum.Clarity += p.Clarity
		sum.Vibrance += p.Vibrance
		sum.Saturation += p.Saturation
		sum.Temperature += p.Temperature
		sum.Tint += p.Tint

		split.HighlightHue += p.SplitToning.HighlightHue
		split.HighlightSaturation += p.SplitToning.HighlightSaturation
		split.ShadowHue += p.SplitToning.ShadowHue
		split.ShadowSaturation += p.SplitToning.ShadowSaturation
		split.Balance += p.SplitToning.Balance
	}

	n := float64(len(ts))
	return Parameters{
		Exposure:    sum.Exposure / n,
		Contrast:    sum.Contrast / n,
		Highlights:  sum.Highlights / n,
		Shadows:     sum.Shadows / n,
		Whites:      sum.Whites / n,
		Blacks:      sum.Blacks / n,
		Clarity:     sum.Clarity / n,
		Vibrance:    sum.Vibrance / n,
		Saturation:  sum.Saturation / n,
		Temperature: sum.Temperature / n,
		Tint:        sum.Tint / n,
		ToneCurve:   averageCurves(ts),
		SplitToning: SplitToning{
			HighlightHue:        split.HighlightHue / n,
			HighlightSaturation: split.HighlightSaturation / n,
			ShadowHue:           split.ShadowHue / n,
			ShadowSaturation:    split.ShadowSaturation / n,
			Balance:             split.Balance / n,
		},
	}
}

// averageCurves averages index-wise when all curves have the same length and
// falls back to the first template's curve otherwise.
func averageCurves(ts []Template) []CurvePoint {
	first := ts[0].Parameters.ToneCurve
	if len(first) == 0 {
		return IdentityCurve()
	}
	for _, t := range ts[1:] {
		if len(t.Parameters.ToneCurve) != len(first) {
			return append([]CurvePoint(nil), first...)
		}
	}

	n := float64(len(ts))
	out := make([]CurvePoint, len(first))
	for i := range first {
		var in, outv float64
		for _, t := range ts {
			in += float64(t.Parameters.ToneCurve[i].Input)
			outv += float64(t.Parameters.ToneCurve[i].Output)
		}
		out[i] = CurvePoint{
			Input:  int(math.Round(in / n)),
			Output: int(math.Round(outv / n)),
		}
	}
	return out
}

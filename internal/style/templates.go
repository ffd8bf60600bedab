package style

// Template is a built-in named look recognised by one or more keywords.
type Template struct {
	Name       string     `json:"name"`
	Keywords   []string   `json:"keywords"`
	Parameters Parameters `json:"parameters"`
}

// templates is ordered; matching walks it front to back.
var templates = []Template{
	{
		Name:     "cinematic",
		Keywords: []string{"cinematic"},
		Parameters: Parameters{
			Exposure:    0.1,
			Contrast:    0.4,
			Highlights:  -0.3,
			Shadows:     0.2,
			Whites:      0.1,
			Blacks:      -0.1,
			Clarity:     0.2,
			Vibrance:    0.1,
			Saturation:  0.0,
			Temperature: -0.1,
			Tint:        0.0,
			ToneCurve:   []CurvePoint{{0, 0}, {64, 60}, {192, 200}, {255, 255}},
			SplitToning: SplitToning{
				HighlightHue:        45,
				HighlightSaturation: 10,
				ShadowHue:           215,
				ShadowSaturation:    15,
			},
		},
	},
	{
		Name:     "vintage",
		Keywords: []string{"vintage"},
		Parameters: Parameters{
			Exposure:    0.2,
			Contrast:    0.4,
			Highlights:  -0.3,
			Shadows:     0.2,
			Whites:      0.1,
			Blacks:      0.0,
			Clarity:     0.3,
			Vibrance:    -0.2,
			Saturation:  -0.1,
			Temperature: 0.3,
			Tint:        0.1,
			ToneCurve:   []CurvePoint{{0, 0}, {85, 90}, {170, 160}, {255, 255}},
			SplitToning: SplitToning{
				HighlightHue:        40,
				HighlightSaturation: 20,
				ShadowHue:           200,
				ShadowSaturation:    10,
			},
		},
	},
	{
		Name:     "dramatic",
		Keywords: []string{"dramatic"},
		Parameters: Parameters{
			Exposure:    0.1,
			Contrast:    0.6,
			Highlights:  -0.4,
			Shadows:     -0.4,
			Whites:      0.2,
			Blacks:      -0.2,
			Clarity:     0.4,
			Vibrance:    0.2,
			Saturation:  0.1,
			Temperature: 0.0,
			Tint:        0.0,
			ToneCurve:   []CurvePoint{{0, 0}, {64, 50}, {192, 210}, {255, 255}},
			SplitToning: SplitToning{
				HighlightHue:        30,
				HighlightSaturation: 15,
				ShadowHue:           210,
				ShadowSaturation:    20,
			},
		},
	},
	{
		Name:     "moody",
		Keywords: []string{"moody", "dark"},
		Parameters: Parameters{
			Exposure:    -0.5,
			Contrast:    0.3,
			Highlights:  -0.4,
			Shadows:     -0.2,
			Whites:      0.0,
			Blacks:      -0.3,
			Clarity:     0.2,
			Vibrance:    -0.1,
			Saturation:  -0.1,
			Temperature: -0.2,
			Tint:        0.0,
			ToneCurve:   []CurvePoint{{0, 0}, {70, 56}, {180, 172}, {255, 255}},
			SplitToning: SplitToning{
				HighlightHue:        35,
				HighlightSaturation: 10,
				ShadowHue:           220,
				ShadowSaturation:    25,
			},
		},
	},
	{
		Name:     "soft",
		Keywords: []string{"soft", "dreamy"},
		Parameters: Parameters{
			Exposure:    0.3,
			Contrast:    -0.2,
			Highlights:  -0.3,
			Shadows:     0.3,
			Whites:      0.0,
			Blacks:      0.0,
			Clarity:     -0.2,
			Vibrance:    0.1,
			Saturation:  0.0,
			Temperature: 0.1,
			Tint:        0.0,
			ToneCurve:   []CurvePoint{{0, 0}, {85, 95}, {170, 165}, {255, 255}},
			SplitToning: SplitToning{
				HighlightHue:        45,
				HighlightSaturation: 15,
				ShadowHue:           220,
				ShadowSaturation:    10,
			},
		},
	},
}

// Templates returns a copy of the built-in table in matching order.
func Templates() []Template {
	out := make([]Template, len(templates))
	for i, t := range templates {
		out[i] = Template{
			Name:       t.Name,
			Keywords:   append([]string(nil), t.Keywords...),
			Parameters: t.Parameters.Clone(),
		}
	}
	return out
}

// Lookup returns the template with the given name.
func Lookup(name string) (Template, bool) {
	for _, t := range Templates() {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}

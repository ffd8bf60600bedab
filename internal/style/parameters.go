package style

// CurvePoint is a single tone curve control point on the 0-255 scale.
type CurvePoint struct {
	Input  int `json:"input"`
	Output int `json:"output"`
}

// SplitToning tints highlights and shadows independently.
type SplitToning struct {
	HighlightHue        float64 `json:"highlight_hue"`
	HighlightSaturation float64 `json:"highlight_saturation"`
	ShadowHue           float64 `json:"shadow_hue"`
	ShadowSaturation    float64 `json:"shadow_saturation"`
	Balance             float64 `json:"balance"`
}

// Parameters is the canonical set of edit values produced for a style
// description. The zero value with an identity tone curve is the neutral
// preset; use Default to obtain it.
type Parameters struct {
	Exposure    float64 `json:"exposure"`
	Contrast    float64 `json:"contrast"`
	Highlights  float64 `json:"highlights"`
	Shadows     float64 `json:"shadows"`
	Whites      float64 `json:"whites"`
	Blacks      float64 `json:"blacks"`
	Clarity     float64 `json:"clarity"`
	Vibrance    float64 `json:"vibrance"`
	Saturation  float64 `json:"saturation"`
	Temperature float64 `json:"temperature"`
	Tint        float64 `json:"tint"`

	ToneCurve   []CurvePoint `json:"tone_curve"`
	SplitToning SplitToning  `json:"split_toning"`
}

// IdentityCurve returns the two-point curve that leaves tones unchanged.
func IdentityCurve() []CurvePoint {
	return []CurvePoint{{0, 0}, {255, 255}}
}

// Default returns the neutral parameter set.
func Default() Parameters {
	return Parameters{ToneCurve: IdentityCurve()}
}

// Clone returns a deep copy so callers never share the tone curve slice.
func (p Parameters) Clone() Parameters {
	out := p
	out.ToneCurve = append([]CurvePoint(nil), p.ToneCurve...)
	return out
}

// Field is a named scalar parameter.
type Field struct {
	Name  string
	Value float64
}

// Scalars lists the eleven basic adjustments in a stable order.
func (p Parameters) Scalars() []Field {
	return []Field{
		{"Exposure", p.Exposure},
		{"Contrast", p.Contrast},
		{"Highlights", p.Highlights},
		{"Shadows", p.Shadows},
		{"Whites", p.Whites},
		{"Blacks", p.Blacks},
		{"Clarity", p.Clarity},
		{"Vibrance", p.Vibrance},
		{"Saturation", p.Saturation},
		{"Temperature", p.Temperature},
		{"Tint", p.Tint},
	}
}

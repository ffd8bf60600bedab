// Package xmp serialises style parameters as Camera Raw / Lightroom presets.
package xmp

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"style-preset-backend/internal/style"
)

const (
	NamespaceMeta = "adobe:ns:meta/"
	NamespaceRDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NamespaceCRS  = "http://ns.adobe.com/camera-raw-settings/1.0/"

	DefaultToolkit = "Adobe XMP Core 5.6-c140 79.160451, 2017/05/06-01:08:21"
	DefaultGroup   = "User Presets"

	// ToneCurvePrefix is followed by the point index, e.g. crs:ToneCurvePoints0.
	ToneCurvePrefix = "crs:ToneCurvePoints"
)

// attributeNames maps parameter names to the attribute the editor expects.
var attributeNames = map[string]string{
	"Exposure":    "crs:Exposure2012",
	"Contrast":    "crs:Contrast2012",
	"Highlights":  "crs:Highlights2012",
	"Shadows":     "crs:Shadows2012",
	"Whites":      "crs:Whites2012",
	"Blacks":      "crs:Blacks2012",
	"Clarity":     "crs:Clarity2012",
	"Vibrance":    "crs:Vibrance",
	"Saturation":  "crs:Saturation",
	"Temperature": "crs:Temperature",
	"Tint":        "crs:Tint",
}

// AttributeName returns the crs attribute used for a scalar parameter.
func AttributeName(param string) (string, bool) {
	name, ok := attributeNames[param]
	return name, ok
}

// EncodingError reports the attribute that could not be serialised.
type EncodingError struct {
	Attribute string
	Reason    string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("xmp: cannot encode %s: %s", e.Attribute, e.Reason)
}

// Encoder builds preset documents. The zero value is not usable; call
// NewEncoder. An Encoder is safe for concurrent use as long as NewID is.
type Encoder struct {
	Toolkit string
	Group   string
	// NewID returns the value written to crs:UUID.
	NewID func() string
}

func NewEncoder(toolkit string) *Encoder {
	if toolkit == "" {
		toolkit = DefaultToolkit
	}
	return &Encoder{
		Toolkit: toolkit,
		Group:   DefaultGroup,
		NewID:   newPresetID,
	}
}

var defaultEncoder = NewEncoder(DefaultToolkit)

// Encode serialises params with the default toolkit identifier.
func Encode(params style.Parameters, displayName string) ([]byte, error) {
	return defaultEncoder.Encode(params, displayName)
}

type xmpMeta struct {
	XMLName xml.Name   `xml:"x:xmpmeta"`
	Attrs   []xml.Attr `xml:",any,attr"`
	RDF     rdfRoot
}

type rdfRoot struct {
	XMLName     xml.Name   `xml:"rdf:RDF"`
	Attrs       []xml.Attr `xml:",any,attr"`
	Description description
}

type description struct {
	XMLName xml.Name   `xml:"rdf:Description"`
	Attrs   []xml.Attr `xml:",any,attr"`
}

// Encode returns a complete XMP document or an *EncodingError. No partial
// document is returned on failure.
func (e *Encoder) Encode(params style.Parameters, displayName string) ([]byte, error) {
	if err := validateName(displayName); err != nil {
		return nil, err
	}

	attrs := []xml.Attr{
		attr("rdf:about", ""),
		attr("crs:PresetType", "Normal"),
		attr("crs:Cluster", ""),
		attr("crs:UUID", e.NewID()),
		attr("crs:SupportsAmount", "False"),
		attr("crs:RequiresRGBTables", "False"),
		attr("crs:HasSettings", "True"),
		attr("crs:Group", e.Group),
		attr("crs:Name", displayName),
	}

	for _, f := range params.Scalars() {
		name, ok := attributeNames[f.Name]
		if !ok {
			return nil, &EncodingError{Attribute: f.Name, Reason: "no attribute mapping"}
		}
		v, err := formatNumber(name, f.Value)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, attr(name, v))
	}

	split := []style.Field{
		{Name: "crs:SplitToningHighlightHue", Value: params.SplitToning.HighlightHue},
		{Name: "crs:SplitToningHighlightSaturation", Value: params.SplitToning.HighlightSaturation},
		{Name: "crs:SplitToningShadowHue", Value: params.SplitToning.ShadowHue},
		{Name: "crs:SplitToningShadowSaturation", Value: params.SplitToning.ShadowSaturation},
		{Name: "crs:SplitToningBalance", Value: params.SplitToning.Balance},
	}
	for _, f := range split {
		v, err := formatNumber(f.Name, f.Value)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, attr(f.Name, v))
	}

	curve, err := curveAttrs(params.ToneCurve)
	if err != nil {
		return nil, err
	}
	attrs = append(attrs, curve...)

	doc := xmpMeta{
		Attrs: []xml.Attr{
			attr("xmlns:x", NamespaceMeta),
			attr("x:xmptk", e.Toolkit),
		},
		RDF: rdfRoot{
			Attrs: []xml.Attr{
				attr("xmlns:rdf", NamespaceRDF),
				attr("xmlns:crs", NamespaceCRS),
			},
			Description: description{Attrs: attrs},
		},
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("xmp: marshal document: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(xml.Header) + len(body) + 1)
	buf.WriteString(xml.Header)
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func curveAttrs(points []style.CurvePoint) ([]xml.Attr, error) {
	if len(points) < 2 {
		return nil, &EncodingError{Attribute: ToneCurvePrefix, Reason: "tone curve needs at least two points"}
	}
	out := make([]xml.Attr, len(points))
	for i, p := range points {
		name := ToneCurvePrefix + strconv.Itoa(i)
		if p.Input < 0 || p.Input > 255 || p.Output < 0 || p.Output > 255 {
			return nil, &EncodingError{Attribute: name, Reason: fmt.Sprintf("point (%d,%d) outside 0-255", p.Input, p.Output)}
		}
		out[i] = attr(name, strconv.Itoa(p.Input)+","+strconv.Itoa(p.Output))
	}
	return out, nil
}

// formatNumber writes the shortest plain decimal that parses back to v.
func formatNumber(attribute string, v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", &EncodingError{Attribute: attribute, Reason: fmt.Sprintf("value %v is not a finite number", v)}
	}
	if v == 0 {
		v = 0 // drops the sign of -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64), nil
}

func validateName(name string) error {
	if !utf8.ValidString(name) {
		return &EncodingError{Attribute: "crs:Name", Reason: "display name is not valid UTF-8"}
	}
	for i, r := range name {
		if unicode.IsControl(r) {
			return &EncodingError{Attribute: "crs:Name", Reason: fmt.Sprintf("control character %U at byte %d", r, i)}
		}
	}
	return nil
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func newPresetID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
}

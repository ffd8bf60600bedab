package xmp_test

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"style-preset-backend/internal/style"
	"style-preset-backend/internal/xmp"
)

type parsedDoc struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	RDF     struct {
		XMLName     xml.Name
		Description struct {
			XMLName xml.Name
			Attrs   []xml.Attr `xml:",any,attr"`
		} `xml:"Description"`
	} `xml:"RDF"`
}

func parse(t *testing.T, doc []byte) parsedDoc {
	t.Helper()
	var p parsedDoc
	require.NoError(t, xml.Unmarshal(doc, &p))
	return p
}

func crsAttrs(p parsedDoc) map[string]string {
	out := make(map[string]string)
	for _, a := range p.RDF.Description.Attrs {
		if a.Name.Space == xmp.NamespaceCRS {
			out[a.Name.Local] = a.Value
		}
	}
	return out
}

func assertWellFormed(t *testing.T, doc []byte) {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(doc))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		require.NoError(t, err)
	}
}

func fixedEncoder() *xmp.Encoder {
	enc := xmp.NewEncoder("")
	enc.NewID = func() string { return "0123456789ABCDEF0123456789ABCDEF" }
	return enc
}

func TestEncode_DefaultParameters(t *testing.T) {
	doc, err := fixedEncoder().Encode(style.Match(""), "Test")
	require.NoError(t, err)
	assertWellFormed(t, doc)

	text := string(doc)
	assert.True(t, strings.HasPrefix(text, "<?xml"))
	assert.Contains(t, text, `xmlns:x="adobe:ns:meta/"`)
	assert.Contains(t, text, `xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"`)
	assert.Contains(t, text, `xmlns:crs="http://ns.adobe.com/camera-raw-settings/1.0/"`)
	assert.Contains(t, text, `x:xmptk="`+xmp.DefaultToolkit+`"`)
	assert.Contains(t, text, `crs:Exposure2012="0"`)
	assert.Contains(t, text, `crs:Vibrance="0"`)

	p := parse(t, doc)
	assert.Equal(t, "xmpmeta", p.XMLName.Local)
	assert.Equal(t, xmp.NamespaceMeta, p.XMLName.Space)
	assert.Equal(t, xmp.NamespaceRDF, p.RDF.XMLName.Space)
	assert.Equal(t, xmp.NamespaceRDF, p.RDF.Description.XMLName.Space)

	attrs := crsAttrs(p)
	assert.Equal(t, "Normal", attrs["PresetType"])
	assert.Equal(t, "User Presets", attrs["Group"])
	assert.Equal(t, "Test", attrs["Name"])
	assert.Equal(t, "0123456789ABCDEF0123456789ABCDEF", attrs["UUID"])
	assert.Equal(t, "0,0", attrs["ToneCurvePoints0"])
	assert.Equal(t, "255,255", attrs["ToneCurvePoints1"])
	assert.NotContains(t, attrs, "ToneCurvePoints2")
}

func TestEncode_AllCoreAttributesPresent(t *testing.T) {
	inputs := []style.Parameters{style.Default()}
	for _, tmpl := range style.Templates() {
		inputs = append(inputs, tmpl.Parameters)
	}
	inputs = append(inputs, style.Match("cinematic moody vintage"))

	want := []string{
		"Exposure2012", "Contrast2012", "Highlights2012", "Shadows2012",
		"Whites2012", "Blacks2012", "Clarity2012",
		"Vibrance", "Saturation", "Temperature", "Tint",
	}
	for _, params := range inputs {
		doc, err := fixedEncoder().Encode(params, "Preset")
		require.NoError(t, err)
		assertWellFormed(t, doc)

		attrs := crsAttrs(parse(t, doc))
		for _, name := range want {
			assert.Contains(t, attrs, name)
		}
	}
}

func TestEncode_RoundTripValues(t *testing.T) {
	params := style.Match("a cinematic and moody portrait")
	doc, err := fixedEncoder().Encode(params, "Cinematic Moody")
	require.NoError(t, err)

	attrs := crsAttrs(parse(t, doc))
	for _, f := range params.Scalars() {
		name, ok := xmp.AttributeName(f.Name)
		require.True(t, ok, f.Name)

		raw := attrs[strings.TrimPrefix(name, "crs:")]
		assert.NotContains(t, raw, "e", "no scientific notation for %s", name)

		got, err := strconv.ParseFloat(raw, 64)
		require.NoError(t, err, name)
		assert.InDelta(t, f.Value, got, 1e-12, name)
	}

	hue, err := strconv.ParseFloat(attrs["SplitToningShadowHue"], 64)
	require.NoError(t, err)
	assert.InDelta(t, 217.5, hue, 1e-12)

	for i, pt := range params.ToneCurve {
		assert.Equal(t, strconv.Itoa(pt.Input)+","+strconv.Itoa(pt.Output), attrs["ToneCurvePoints"+strconv.Itoa(i)])
	}
}

func TestEncode_SmallValuesStayPlainDecimal(t *testing.T) {
	params := style.Default()
	params.Tint = 1e-7
	params.Temperature = -1e21

	doc, err := fixedEncoder().Encode(params, "Tiny")
	require.NoError(t, err)

	attrs := crsAttrs(parse(t, doc))
	assert.Equal(t, "0.0000001", attrs["Tint"])
	assert.Equal(t, "-1000000000000000000000", attrs["Temperature"])
}

func TestEncode_NegativeZero(t *testing.T) {
	params := style.Default()
	params.Exposure = math.Copysign(0, -1)

	doc, err := fixedEncoder().Encode(params, "Zero")
	require.NoError(t, err)
	assert.Contains(t, string(doc), `crs:Exposure2012="0"`)
}

func TestEncode_EscapesDisplayName(t *testing.T) {
	name := `Tom & Jerry's "<Look>"`
	doc, err := fixedEncoder().Encode(style.Default(), name)
	require.NoError(t, err)
	assertWellFormed(t, doc)

	assert.Equal(t, name, crsAttrs(parse(t, doc))["Name"])
}

func TestEncode_RejectsControlCharacters(t *testing.T) {
	for _, name := range []string{"bad\x00name", "line\nbreak", "bell\a", "del\x7f"} {
		doc, err := fixedEncoder().Encode(style.Default(), name)
		assert.Nil(t, doc)

		var encErr *xmp.EncodingError
		require.ErrorAs(t, err, &encErr, "name %q", name)
		assert.Equal(t, "crs:Name", encErr.Attribute)
	}
}

func TestEncode_RejectsInvalidUTF8(t *testing.T) {
	_, err := fixedEncoder().Encode(style.Default(), "bad\xffname")

	var encErr *xmp.EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, "crs:Name", encErr.Attribute)
}

func TestEncode_RejectsNonFiniteValues(t *testing.T) {
	params := style.Default()
	params.Contrast = math.NaN()

	doc, err := fixedEncoder().Encode(params, "NaN")
	assert.Nil(t, doc)

	var encErr *xmp.EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, "crs:Contrast2012", encErr.Attribute)
	assert.Contains(t, err.Error(), "crs:Contrast2012")

	params = style.Default()
	params.SplitToning.Balance = math.Inf(1)
	_, err = fixedEncoder().Encode(params, "Inf")
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, "crs:SplitToningBalance", encErr.Attribute)
}

func TestEncode_RejectsBadToneCurve(t *testing.T) {
	params := style.Default()
	params.ToneCurve = []style.CurvePoint{{Input: 0, Output: 0}}

	_, err := fixedEncoder().Encode(params, "Short")
	var encErr *xmp.EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, xmp.ToneCurvePrefix, encErr.Attribute)

	params.ToneCurve = []style.CurvePoint{{Input: 0, Output: 0}, {Input: 128, Output: 300}, {Input: 255, Output: 255}}
	_, err = fixedEncoder().Encode(params, "Range")
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, xmp.ToneCurvePrefix+"1", encErr.Attribute)
}

func TestEncode_FreshUUIDPerDocument(t *testing.T) {
	a, err := xmp.Encode(style.Default(), "A")
	require.NoError(t, err)
	b, err := xmp.Encode(style.Default(), "A")
	require.NoError(t, err)

	idA := crsAttrs(parse(t, a))["UUID"]
	idB := crsAttrs(parse(t, b))["UUID"]
	assert.Len(t, idA, 32)
	assert.Equal(t, strings.ToUpper(idA), idA)
	assert.NotEqual(t, idA, idB)
}

func TestNewEncoder_CustomToolkit(t *testing.T) {
	enc := xmp.NewEncoder("Style Preset Backend 1.0")
	doc, err := enc.Encode(style.Default(), "Toolkit")
	require.NoError(t, err)

	p := parse(t, doc)
	var toolkit string
	for _, a := range p.Attrs {
		if a.Name.Space == xmp.NamespaceMeta && a.Name.Local == "xmptk" {
			toolkit = a.Value
		}
	}
	assert.Equal(t, "Style Preset Backend 1.0", toolkit)
}

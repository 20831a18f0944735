package filters

import (
	"sort"
	"strconv"
	"strings"
)

// Neutral values. A filter set to its neutral value is skipped entirely
// rather than applied as an identity transform.
const (
	NeutralSaturation = 1.0
	NeutralWarmth     = 1.0
	NeutralBrightness = 1.0
	NeutralContrast   = 1.0
	NeutralSharpen    = 0.0
)

// Parameter keys recognized by Apply. Unknown keys are preserved in the
// canonical form (and therefore affect cache keys) but are never applied.
const (
	KeySaturation = "saturation"
	KeyWarmth     = "warmth"
	KeyBrightness = "brightness"
	KeyContrast   = "contrast"
	KeySharpen    = "sharpen"
)

// Params holds the filter parameters for one processing request, keyed by
// filter name. A nil or empty map means every filter sits at its neutral
// value.
type Params map[string]float64

// DefaultPreview returns the preset used when a preview request carries no
// parameters.
func DefaultPreview() Params {
	return Params{
		KeySaturation: 1.15,
		KeyWarmth:     1.02,
		KeyBrightness: 1.00,
		KeyContrast:   1.02,
		KeySharpen:    0.0,
	}
}

// DefaultFull returns the preset used when a full-resolution request
// carries no parameters. It matches the preview preset except for a mild
// sharpen, which only makes sense at full scale.
func DefaultFull() Params {
	return Params{
		KeySaturation: 1.15,
		KeyWarmth:     1.02,
		KeyBrightness: 1.00,
		KeyContrast:   1.02,
		KeySharpen:    0.5,
	}
}

func (p Params) get(key string, neutral float64) float64 {
	if p == nil {
		return neutral
	}
	if v, ok := p[key]; ok {
		return v
	}
	return neutral
}

// Saturation returns the saturation factor, or its neutral value when unset.
func (p Params) Saturation() float64 { return p.get(KeySaturation, NeutralSaturation) }

// Warmth returns the warmth strength, or its neutral value when unset.
func (p Params) Warmth() float64 { return p.get(KeyWarmth, NeutralWarmth) }

// Brightness returns the brightness factor, or its neutral value when unset.
func (p Params) Brightness() float64 { return p.get(KeyBrightness, NeutralBrightness) }

// Contrast returns the contrast factor, or its neutral value when unset.
func (p Params) Contrast() float64 { return p.get(KeyContrast, NeutralContrast) }

// Sharpen returns the sharpen strength, or its neutral value when unset.
func (p Params) Sharpen() float64 { return p.get(KeySharpen, NeutralSharpen) }

// Clone returns an independent copy of the parameter map.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Canonical serializes the parameters into a stable textual form for cache
// key derivation: keys sorted lexicographically, each rendered as "k=v",
// joined with semicolons. Two maps with equal contents always canonicalize
// identically regardless of construction order. Unknown keys participate.
func (p Params) Canonical() string {
	if len(p) == 0 {
		return ""
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(p[k], 'g', -1, 64))
	}
	return b.String()
}

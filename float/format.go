package float

import (
	"fmt"
	"strings"
)

// Format describes a binary floating point layout: a sign bit, an exponent
// field, and a mantissa field, plus the traits that distinguish the
// interchange formats from the 8-bit ML formats and the x87 lineage.
//
// The zero traits give an IEEE 754 style format: implicit leading
// significand bit, subnormal support, the top exponent code reserved for
// NaN and the infinities.
type Format struct {
	ExponentWidth int `yaml:"exponentWidth" json:"expWidth"`
	MantissaWidth int `yaml:"mantissaWidth" json:"mantWidth"`

	// ExplicitJBit marks formats that store the leading significand bit
	// instead of implying it, as the x87 extended format does. The stored
	// mantissa is then the full significand: integer bit first, fraction
	// below it.
	ExplicitJBit bool `yaml:"explicitJBit,omitempty" json:"explicitJBit,omitempty"`

	// SubnormalAsZero marks formats that treat every subnormal encoding as
	// zero.
	SubnormalAsZero bool `yaml:"subnormalAsZero,omitempty" json:"subnormalAsZero,omitempty"`
}

// The standard layouts.
var (
	FP64 = Format{ExponentWidth: 11, MantissaWidth: 52}
	FP32 = Format{ExponentWidth: 8, MantissaWidth: 23}
	FP16 = Format{ExponentWidth: 5, MantissaWidth: 10}

	// BF16 is the bfloat16 format: FP32 range at 8 mantissa bits.
	BF16 = Format{ExponentWidth: 8, MantissaWidth: 7}

	// TF32 is the 19-bit TensorFloat layout: FP32 range, FP16 precision.
	TF32 = Format{ExponentWidth: 8, MantissaWidth: 10}

	// E4M3 is the OCP 8-bit format without infinities: the top exponent
	// code is finite except for the all-ones mantissa, which is NaN.
	E4M3 = Format{ExponentWidth: 4, MantissaWidth: 3}

	// E5M2 is the OCP 8-bit format with the IEEE style reserved top code.
	E5M2 = Format{ExponentWidth: 5, MantissaWidth: 2}

	// X87Extended is the 80-bit x87 layout with an explicit integer bit at
	// the top of its 64-bit significand.
	X87Extended = Format{ExponentWidth: 15, MantissaWidth: 64, ExplicitJBit: true}
)

// Bias returns the exponent bias, 2^(ExponentWidth-1) - 1.
func (f Format) Bias() int { return 1<<uint(f.ExponentWidth-1) - 1 }

// MaxExponent returns the largest unbiased exponent of a finite normal
// value under the reserved top code, which equals the bias.
func (f Format) MaxExponent() int { return f.Bias() }

// MinExponent returns the unbiased exponent of the smallest normal value,
// 1 - Bias. Subnormals share this scale.
func (f Format) MinExponent() int { return 1 - f.Bias() }

// TotalWidth returns the packed encoding width: sign, exponent, mantissa.
func (f Format) TotalWidth() int { return 1 + f.ExponentWidth + f.MantissaWidth }

// FractionWidth returns the number of stored fraction bits below the
// leading significand bit: the mantissa width for implicit formats, one
// less for explicit-J-bit formats.
func (f Format) FractionWidth() int {
	if f.ExplicitJBit {
		return f.MantissaWidth - 1
	}
	return f.MantissaWidth
}

// WithSubnormalAsZero returns a copy of the format that flushes subnormal
// encodings to zero.
func (f Format) WithSubnormalAsZero() Format {
	f.SubnormalAsZero = true
	return f
}

// WithExplicitJBit returns the explicit-J-bit counterpart of the format:
// the same fraction width with the leading significand bit stored, so the
// mantissa field grows by one. Explicit formats come back unchanged.
func (f Format) WithExplicitJBit() Format {
	if f.ExplicitJBit {
		return f
	}
	f.MantissaWidth++
	f.ExplicitJBit = true
	return f
}

// implicitTwin returns the implicit-leading-bit format, one mantissa bit
// narrower, that computed constructions of an explicit-J-bit format run
// through.
func (f Format) implicitTwin() Format {
	return Format{
		ExponentWidth:   f.ExponentWidth,
		MantissaWidth:   f.MantissaWidth - 1,
		SubnormalAsZero: f.SubnormalAsZero,
	}
}

// Validate checks the field widths: the exponent must fit [2, 62] and the
// mantissa needs at least one fraction bit. Construction paths run this
// check themselves; it is exported for callers that build formats from
// configuration.
func (f Format) Validate() error {
	if f.ExponentWidth < 2 || f.ExponentWidth > 62 {
		return fmt.Errorf("%w: exponent width %d outside [2, 62]", ErrWidthMismatch, f.ExponentWidth)
	}
	minMantissa := 1
	if f.ExplicitJBit {
		minMantissa = 2
	}
	if f.MantissaWidth < minMantissa {
		return fmt.Errorf("%w: mantissa width %d, need at least %d", ErrWidthMismatch, f.MantissaWidth, minMantissa)
	}
	return nil
}

// String returns the conventional name for the known layouts and an eXmY
// descriptor otherwise, with a -saz suffix for subnormal-as-zero variants.
func (f Format) String() string {
	name := f.profile().name
	if f.SubnormalAsZero {
		name += "-saz"
	}
	return name
}

// ParseFormat resolves a format name: one of fp64, fp32, fp16, bf16, tf32,
// e4m3, e5m2, x87, or a generic eXmY descriptor, optionally with a -saz
// suffix.
func ParseFormat(name string) (Format, error) {
	base := strings.TrimSuffix(name, "-saz")
	saz := base != name
	var f Format
	switch base {
	case "fp64":
		f = FP64
	case "fp32":
		f = FP32
	case "fp16":
		f = FP16
	case "bf16":
		f = BF16
	case "tf32":
		f = TF32
	case "e4m3":
		f = E4M3
	case "e5m2":
		f = E5M2
	case "x87":
		f = X87Extended
	default:
		core := strings.TrimSuffix(base, "j")
		var e, m int
		if n, err := fmt.Sscanf(core, "e%dm%d", &e, &m); n != 2 || err != nil || fmt.Sprintf("e%dm%d", e, m) != core {
			return Format{}, fmt.Errorf("float: unknown format %q", name)
		}
		f = Format{ExponentWidth: e, MantissaWidth: m, ExplicitJBit: core != base}
	}
	if saz {
		f = f.WithSubnormalAsZero()
	}
	if err := f.Validate(); err != nil {
		return Format{}, err
	}
	return f, nil
}

// profile captures the behavior that the named layouts implement
// differently: whether the top exponent code is reserved for NaN and the
// infinities, and which construction range checks apply. Formats outside
// the table get the plain IEEE behavior under a generated name.
type profile struct {
	name string

	// noInfinity repurposes the top exponent code for finite values; only
	// the all-ones mantissa beside it stays NaN.
	noInfinity bool

	// rangeCheck rejects doubles whose magnitude falls outside
	// [minFinite, maxFinite] at construction time.
	rangeCheck bool
	maxFinite  float64
	minFinite  float64
}

var profiles = map[Format]profile{
	FP64:        {name: "fp64"},
	FP32:        {name: "fp32"},
	FP16:        {name: "fp16"},
	BF16:        {name: "bf16"},
	TF32:        {name: "tf32"},
	X87Extended: {name: "x87"},
	E4M3: {
		name:       "e4m3",
		noInfinity: true,
		rangeCheck: true,
		maxFinite:  448,
		minFinite:  0x1p-9,
	},
	E5M2: {
		name:       "e5m2",
		rangeCheck: true,
		maxFinite:  57344,
		minFinite:  0x1p-16,
	},
}

func (f Format) profile() profile {
	base := f
	base.SubnormalAsZero = false
	if p, ok := profiles[base]; ok {
		return p
	}
	p := profile{name: fmt.Sprintf("e%dm%d", f.ExponentWidth, f.MantissaWidth)}
	if f.ExplicitJBit {
		p.name += "j"
	}
	return p
}

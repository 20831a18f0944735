package filters

import (
	"image"

	"github.com/disintegration/imaging"

	"raw-viewer/internal/accel"
	"raw-viewer/internal/logging"
)

// clampU8 clamps v to the 8-bit range and truncates the fraction. The
// float pipeline quantizes by truncation, not rounding.
func clampU8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// Saturation scales the saturation channel of each pixel in HSV space by
// factor, clamping to the 8-bit range. Hue and value are preserved.
// The accelerated hint is accepted but the HSV math always runs on the CPU.
func Saturation(img *image.NRGBA, factor float64, accelerated bool) *image.NRGBA {
	_ = accelerated
	out := imaging.Clone(img)
	pix := out.Pix
	for i := 0; i < len(pix); i += 4 {
		r := float64(pix[i])
		g := float64(pix[i+1])
		b := float64(pix[i+2])

		maxc := r
		if g > maxc {
			maxc = g
		}
		if b > maxc {
			maxc = b
		}
		minc := r
		if g < minc {
			minc = g
		}
		if b < minc {
			minc = b
		}
		// Black and gray pixels carry no saturation to scale.
		if maxc == 0 || maxc == minc {
			continue
		}

		s := (maxc - minc) / maxc * 255
		ns := s * factor
		if ns > 255 {
			ns = 255
		}
		if ns < 0 {
			ns = 0
		}
		// Scaling S with H and V fixed moves every channel toward (or away
		// from) the value channel by the same ratio.
		q := ns / s
		pix[i] = clampU8(maxc - (maxc-r)*q)
		pix[i+1] = clampU8(maxc - (maxc-g)*q)
		pix[i+2] = clampU8(maxc - (maxc-b)*q)
	}
	return out
}

// Warmth multiplies the red channel by strength and the blue channel by
// the coupled inverse 2.0 - strength, clamping both. Green and alpha are
// untouched. strength above 1.0 warms the image, below 1.0 cools it.
func Warmth(img *image.NRGBA, strength float64, accelerated bool) *image.NRGBA {
	cool := 2.0 - strength
	if accelerated && accel.Available() {
		out, err := accel.Linear(img,
			[3]float64{strength, 1.0, cool},
			[3]float64{0, 0, 0})
		if err == nil {
			return out
		}
		logging.Debug("accelerated warmth failed, falling back to CPU: %v", err)
	}

	out := imaging.Clone(img)
	pix := out.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i] = clampU8(float64(pix[i]) * strength)
		pix[i+2] = clampU8(float64(pix[i+2]) * cool)
	}
	return out
}

// BrightnessContrast applies v*contrast + (brightness-1.0)*128 to every
// color channel, clamped to the 8-bit range. Brightness 1.0 and contrast
// 1.0 are the identity.
func BrightnessContrast(img *image.NRGBA, brightness, contrast float64, accelerated bool) *image.NRGBA {
	offset := (brightness - 1.0) * 128
	if accelerated && accel.Available() {
		out, err := accel.Linear(img,
			[3]float64{contrast, contrast, contrast},
			[3]float64{offset, offset, offset})
		if err == nil {
			return out
		}
		logging.Debug("accelerated brightness/contrast failed, falling back to CPU: %v", err)
	}

	out := imaging.Clone(img)
	pix := out.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i] = clampU8(float64(pix[i])*contrast + offset)
		pix[i+1] = clampU8(float64(pix[i+1])*contrast + offset)
		pix[i+2] = clampU8(float64(pix[i+2])*contrast + offset)
	}
	return out
}

// Sharpen convolves the image with a 3x3 kernel whose center is
// 5 + strength, axis neighbors -1 and corners 0. A strength of zero or
// below returns the image unchanged.
// The accelerated hint is accepted but the convolution always runs on the
// CPU.
func Sharpen(img *image.NRGBA, strength float64, accelerated bool) *image.NRGBA {
	_ = accelerated
	if strength <= 0 {
		return img
	}
	return imaging.Convolve3x3(img, [9]float64{
		0, -1, 0,
		-1, 5 + strength, -1,
		0, -1, 0,
	}, nil)
}

// Apply runs the active filters over img in a fixed order: saturation,
// warmth, brightness/contrast, sharpen. A filter at its neutral value is
// skipped entirely; when every filter is neutral the input image is
// returned as-is. The input is never mutated.
//
// accelerated is a performance hint: filters with an accelerated path use
// it when the acceleration runtime is up, and fall back to the CPU path on
// any failure. Output is the same either way.
func Apply(img *image.NRGBA, p Params, accelerated bool) *image.NRGBA {
	out := img
	if f := p.Saturation(); f != NeutralSaturation {
		out = Saturation(out, f, accelerated)
	}
	if s := p.Warmth(); s != NeutralWarmth {
		out = Warmth(out, s, accelerated)
	}
	if b, c := p.Brightness(), p.Contrast(); b != NeutralBrightness || c != NeutralContrast {
		out = BrightnessContrast(out, b, c, accelerated)
	}
	if s := p.Sharpen(); s > NeutralSharpen {
		out = Sharpen(out, s, accelerated)
	}
	return out
}

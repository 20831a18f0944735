package raw

import (
	"context"
	"image"
)

// Demosaic selects the demosaicing algorithm used during decode.
type Demosaic int

const (
	// DemosaicDefault lets the decoder pick its own algorithm.
	DemosaicDefault Demosaic = iota
	// DemosaicFast is cheap linear interpolation, used for previews.
	DemosaicFast
	// DemosaicHigh is the high-quality adaptive algorithm, used for full
	// renders.
	DemosaicHigh
)

// Options controls a single decode invocation.
type Options struct {
	// HalfSize decodes at half resolution, roughly quartering the work.
	HalfSize bool
	// Demosaic selects the interpolation quality.
	Demosaic Demosaic
	// AutoBright enables the decoder's automatic brightness adjustment.
	AutoBright bool
	// CameraWB applies the white balance recorded by the camera.
	CameraWB bool
}

// PreviewOptions is the preferred decode refinement for the preview tier:
// half size, fast demosaic, no auto-brightening, camera white balance.
func PreviewOptions() Options {
	return Options{
		HalfSize:   true,
		Demosaic:   DemosaicFast,
		AutoBright: false,
		CameraWB:   true,
	}
}

// PreviewFallback is the reduced option set retried when the preferred
// preview decode is rejected: half size and no auto-brightening only,
// everything else at decoder defaults.
func PreviewFallback() Options {
	return Options{
		HalfSize:   true,
		Demosaic:   DemosaicDefault,
		AutoBright: false,
		CameraWB:   false,
	}
}

// FullOptions is the preferred decode refinement for the full tier:
// full size, high-quality demosaic, auto-brightening, camera white
// balance.
func FullOptions() Options {
	return Options{
		HalfSize:   false,
		Demosaic:   DemosaicHigh,
		AutoBright: true,
		CameraWB:   true,
	}
}

// FullFallback is plain decoder defaults, retried when the preferred full
// decode is rejected.
func FullFallback() Options {
	return Options{
		HalfSize:   false,
		Demosaic:   DemosaicDefault,
		AutoBright: true,
		CameraWB:   false,
	}
}

// Decoder turns a camera RAW file into an 8-bit raster.
type Decoder interface {
	Decode(ctx context.Context, path string, opts Options) (*image.NRGBA, error)
}

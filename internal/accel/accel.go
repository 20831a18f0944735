package accel

import (
	"fmt"
	"image"
	"sync"

	"github.com/davidbyttow/govips/v2/vips"

	"raw-viewer/internal/logging"
)

var (
	mu          sync.Mutex
	initialized bool
	available   bool
)

// vipsLogThreshold maps the application log level to the most verbose
// libvips level worth forwarding.
func vipsLogThreshold() vips.LogLevel {
	switch logging.GetLevel() {
	case logging.LevelDebug:
		return vips.LogLevelInfo
	case logging.LevelInfo:
		return vips.LogLevelWarning
	case logging.LevelWarn:
		return vips.LogLevelError
	default:
		return vips.LogLevelCritical
	}
}

func forwardVipsLog(domain string, level vips.LogLevel, msg string) {
	switch level {
	case vips.LogLevelError, vips.LogLevelCritical:
		logging.Error("[%s] %s", domain, msg)
	case vips.LogLevelWarning:
		logging.Warn("[%s] %s", domain, msg)
	default:
		logging.Debug("[%s] %s", domain, msg)
	}
}

func startRuntime() (err error) {
	// Startup aborts the process on some misconfigurations instead of
	// returning; acceleration must never take the process down.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("vips startup failed: %v", r)
		}
	}()

	// Configure vips logging before Startup so LOG_LEVEL is respected.
	vips.LoggingSettings(forwardVipsLog, vipsLogThreshold())

	// Conservative memory settings: one image at a time, small operation
	// cache. Full-resolution RAW rasters are large.
	vips.Startup(&vips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
		ReportLeaks:      false,
		CacheTrace:       false,
		CollectStats:     false,
	})
	return nil
}

// Init attempts to bring up the libvips runtime. This should be called
// once at startup. A failed attempt leaves acceleration unavailable and
// returns the cause; callers log it and continue, because every
// accelerated call site has a CPU fallback.
func Init() error {
	mu.Lock()
	defer mu.Unlock()

	if initialized {
		return nil
	}
	initialized = true

	if err := startRuntime(); err != nil {
		available = false
		return err
	}
	available = true
	logging.Info("libvips initialized successfully (version: %s)", vips.Version)
	return nil
}

// Shutdown cleans up libvips resources.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()

	if initialized && available {
		vips.Shutdown()
		logging.Info("libvips shutdown complete")
	}
	initialized = false
	available = false
}

// Available reports whether the acceleration runtime is up. It is true
// only after Init has both found the library and enabled it successfully.
func Available() bool {
	mu.Lock()
	defer mu.Unlock()
	return available
}

// rgbBytes repacks an NRGBA image into tightly packed 3-band RGB data for
// vips. Alpha is dropped; callers restore it from the source image.
func rgbBytes(img *image.NRGBA) ([]byte, int, int) {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	out := make([]byte, w*h*3)
	di := 0
	for y := 0; y < h; y++ {
		si := y * img.Stride
		for x := 0; x < w; x++ {
			out[di] = img.Pix[si]
			out[di+1] = img.Pix[si+1]
			out[di+2] = img.Pix[si+2]
			di += 3
			si += 4
		}
	}
	return out, w, h
}

// nrgbaFromRGB rebuilds an NRGBA image from tightly packed 3-band RGB
// data, carrying alpha over from src.
func nrgbaFromRGB(data []byte, src *image.NRGBA) (*image.NRGBA, error) {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	if len(data) != w*h*3 {
		return nil, fmt.Errorf("unexpected buffer size %d for %dx%d image", len(data), w, h)
	}
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	si := 0
	for y := 0; y < h; y++ {
		so := y * src.Stride
		do := y * out.Stride
		for x := 0; x < w; x++ {
			out.Pix[do] = data[si]
			out.Pix[do+1] = data[si+1]
			out.Pix[do+2] = data[si+2]
			out.Pix[do+3] = src.Pix[so+3]
			si += 3
			do += 4
			so += 4
		}
	}
	return out, nil
}

// Linear computes a*pixel + b per color channel on the acceleration
// runtime, with the result clipped to the 8-bit range. a and b hold the
// per-channel coefficients in R, G, B order.
func Linear(img *image.NRGBA, a, b [3]float64) (*image.NRGBA, error) {
	if !Available() {
		return nil, fmt.Errorf("acceleration runtime not available")
	}

	rgb, w, h := rgbBytes(img)
	ref, err := vips.NewImageFromMemory(rgb, w, h, 3)
	if err != nil {
		return nil, fmt.Errorf("vips import failed: %w", err)
	}
	defer ref.Close()

	if err := ref.Linear(a[:], b[:]); err != nil {
		return nil, fmt.Errorf("vips linear failed: %w", err)
	}
	if err := ref.Cast(vips.BandFormatUchar); err != nil {
		return nil, fmt.Errorf("vips cast failed: %w", err)
	}

	data, err := ref.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("vips export failed: %w", err)
	}
	return nrgbaFromRGB(data, img)
}

// EncodeJPEG encodes img as a JPEG at the given quality using libvips.
func EncodeJPEG(img *image.NRGBA, quality int) ([]byte, error) {
	if !Available() {
		return nil, fmt.Errorf("acceleration runtime not available")
	}

	rgb, w, h := rgbBytes(img)
	ref, err := vips.NewImageFromMemory(rgb, w, h, 3)
	if err != nil {
		return nil, fmt.Errorf("vips import failed: %w", err)
	}
	defer ref.Close()

	buf, _, err := ref.ExportJpeg(&vips.JpegExportParams{
		Quality:        quality,
		StripMetadata:  true,
		OptimizeCoding: true,
	})
	if err != nil {
		return nil, fmt.Errorf("vips jpeg export failed: %w", err)
	}
	return buf, nil
}

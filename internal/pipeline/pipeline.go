package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	// The imaging package registers the common formats; WebP sources
	// for re-filtering need the decoder registered separately.
	_ "golang.org/x/image/webp"

	"raw-viewer/internal/accel"
	"raw-viewer/internal/cache"
	"raw-viewer/internal/filters"
	"raw-viewer/internal/hardware"
	"raw-viewer/internal/logging"
	"raw-viewer/internal/metrics"
	"raw-viewer/internal/raw"
)

// Default JPEG qualities per artifact kind. The full tier starts from
// the highest setting because the hardware policy may lower it on
// battery power.
const (
	DefaultPreviewQuality = 80
	DefaultFullQuality    = 92
	DefaultEditQuality    = 90
)

// Config carries the processor's encode settings.
type Config struct {
	PreviewQuality int
	FullQuality    int
	EditQuality    int
}

// Processor renders RAW files into cached JPEG artifacts. It owns the
// cache lookup, the decode-with-fallback sequence, filtering, and
// encoding for both tiers; concurrency is the caller's concern.
type Processor struct {
	store   *cache.Store
	decoder raw.Decoder
	policy  func() hardware.Policy
	cfg     Config
}

// New creates a processor over the given artifact store and decoder.
// Zero quality settings fall back to the package defaults.
func New(store *cache.Store, decoder raw.Decoder, cfg Config) *Processor {
	if cfg.PreviewQuality <= 0 {
		cfg.PreviewQuality = DefaultPreviewQuality
	}
	if cfg.FullQuality <= 0 {
		cfg.FullQuality = DefaultFullQuality
	}
	if cfg.EditQuality <= 0 {
		cfg.EditQuality = DefaultEditQuality
	}
	return &Processor{
		store:   store,
		decoder: decoder,
		policy:  hardware.Compute,
		cfg:     cfg,
	}
}

// FastPreview renders the preview-tier artifact for a RAW file and
// returns its path in the cache. It is the interactive tier: half-size
// decode, fast demosaic, a bounded output dimension, and CPU-only
// filtering regardless of acceleration state. A cache hit returns
// immediately without touching the decoder.
func (p *Processor) FastPreview(ctx context.Context, rawPath string, params filters.Params) (string, error) {
	if params == nil {
		params = filters.DefaultPreview()
	}
	tier := string(cache.TierPreview)

	desc, err := cache.DescribeSource(rawPath)
	if err != nil {
		return "", classifySourceErr(err, rawPath)
	}
	key := cache.Key(desc, params.Canonical())

	if path, ok := p.store.Lookup(cache.TierPreview, key); ok {
		metrics.PipelineCacheHits.WithLabelValues(tier).Inc()
		logging.Debug("Preview cache hit for %s (key %s)", filepath.Base(rawPath), key)
		return path, nil
	}
	metrics.PipelineCacheMisses.WithLabelValues(tier).Inc()

	start := time.Now()
	img, err := p.decodeWithFallback(ctx, rawPath, raw.PreviewOptions(), raw.PreviewFallback(), tier)
	if err != nil {
		recordFailure(tier)
		return "", err
	}

	img = boundDimensions(img, hardware.PreviewMaxDim)
	img = filters.Apply(img, params, false)

	data, err := encodeJPEG(img, p.cfg.PreviewQuality)
	if err != nil {
		recordFailure(tier)
		return "", err
	}

	path, err := p.store.Put(cache.TierPreview, key, data)
	if err != nil {
		recordFailure(tier)
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}

	recordSuccess(tier, start)
	logging.Debug("Preview rendered for %s in %v", filepath.Base(rawPath), time.Since(start).Round(time.Millisecond))
	return path, nil
}

// FullProcess renders the full-resolution artifact for a RAW file and
// returns its path in the cache. It is the expensive tier: full-size
// decode with the high-quality demosaic, filter acceleration when the
// hardware policy grants it, and an encode quality that drops on low
// battery.
func (p *Processor) FullProcess(ctx context.Context, rawPath string, params filters.Params) (string, error) {
	if params == nil {
		params = filters.DefaultFull()
	}
	tier := string(cache.TierFull)

	desc, err := cache.DescribeSource(rawPath)
	if err != nil {
		return "", classifySourceErr(err, rawPath)
	}
	key := cache.Key(desc, params.Canonical())

	if path, ok := p.store.Lookup(cache.TierFull, key); ok {
		metrics.PipelineCacheHits.WithLabelValues(tier).Inc()
		logging.Debug("Full cache hit for %s (key %s)", filepath.Base(rawPath), key)
		return path, nil
	}
	metrics.PipelineCacheMisses.WithLabelValues(tier).Inc()

	start := time.Now()
	img, err := p.decodeWithFallback(ctx, rawPath, raw.FullOptions(), raw.FullFallback(), tier)
	if err != nil {
		recordFailure(tier)
		return "", err
	}

	pol := p.policy()
	img = filters.Apply(img, params, pol.Accelerated)

	quality := pol.EncodeQuality(p.cfg.FullQuality)
	data, err := encodeJPEG(img, quality)
	if err != nil {
		recordFailure(tier)
		return "", err
	}

	path, err := p.store.Put(cache.TierFull, key, data)
	if err != nil {
		recordFailure(tier)
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}

	recordSuccess(tier, start)
	logging.Info("Full render for %s done in %v (accelerated=%t, quality=%d)",
		filepath.Base(rawPath), time.Since(start).Round(time.Millisecond), pol.Accelerated, quality)
	return path, nil
}

// ApplyToCached re-filters an already rendered JPEG and stores the
// result as a freshly named edit artifact. The source image is read
// from disk as-is; filtering runs on the CPU path.
func (p *Processor) ApplyToCached(imagePath string, params filters.Params) (string, error) {
	src, err := imaging.Open(imagePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrSourceNotFound, imagePath)
		}
		return "", fmt.Errorf("%w: reading %s: %v", ErrDecode, filepath.Base(imagePath), err)
	}

	img := filters.Apply(imaging.Clone(src), params, false)

	data, err := encodeJPEG(img, p.cfg.EditQuality)
	if err != nil {
		return "", err
	}

	path, err := p.store.PutEdit(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}

	metrics.EditsTotal.Inc()
	logging.Debug("Edit artifact written for %s -> %s", filepath.Base(imagePath), filepath.Base(path))
	return path, nil
}

// decodeWithFallback runs the preferred decode and retries once with
// the fallback options when the decoder rejects the file. Rejection of
// the fallback, and any non-rejection failure, surface as ErrDecode.
func (p *Processor) decodeWithFallback(ctx context.Context, path string, preferred, fallback raw.Options, tier string) (*image.NRGBA, error) {
	img, err := p.decoder.Decode(ctx, path, preferred)
	if err == nil {
		return img, nil
	}
	if !errors.Is(err, raw.ErrRejected) {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	metrics.PipelineDecodeFallbacks.WithLabelValues(tier).Inc()
	logging.Warn("Decode rejected for %s, retrying with fallback options: %v", filepath.Base(path), err)

	img, err = p.decoder.Decode(ctx, path, fallback)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// boundDimensions scales the image down so neither edge exceeds maxDim,
// preserving aspect ratio. Images already within bounds pass through
// untouched; nothing is ever upscaled.
func boundDimensions(img *image.NRGBA, maxDim int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= maxDim && b.Dy() <= maxDim {
		return img
	}
	return imaging.Fit(img, maxDim, maxDim, imaging.Box)
}

// encodeJPEG renders the image at the given quality, preferring the
// accelerated encoder and falling back to the pure-Go one when it is
// unavailable or fails.
func encodeJPEG(img *image.NRGBA, quality int) ([]byte, error) {
	if accel.Available() {
		data, err := accel.EncodeJPEG(img, quality)
		if err == nil {
			return data, nil
		}
		logging.Warn("Accelerated encode failed, using fallback encoder: %v", err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return buf.Bytes(), nil
}

// classifySourceErr maps stat failures on the RAW source to the
// processor's error kinds.
func classifySourceErr(err error, path string) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}
	return fmt.Errorf("%w: %v", ErrSourceNotFound, err)
}

func recordFailure(tier string) {
	metrics.PipelineGenerationsTotal.WithLabelValues(tier, "error").Inc()
}

func recordSuccess(tier string, start time.Time) {
	metrics.PipelineGenerationsTotal.WithLabelValues(tier, "success").Inc()
	metrics.PipelineGenerationDuration.WithLabelValues(tier).Observe(time.Since(start).Seconds())
}

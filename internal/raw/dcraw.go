package raw

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/tiff"

	"raw-viewer/internal/logging"
)

// DefaultBinary is the decoder executable used when none is configured.
const DefaultBinary = "dcraw"

// ErrRejected marks a decode the tool itself refused, typically an input
// it cannot process with the requested options. Callers distinguish it
// from infrastructure failures (missing binary, cancelled context) because
// only rejections are worth retrying with default options.
var ErrRejected = errors.New("raw decode rejected")

// Dcraw decodes RAW files by running the dcraw command-line tool and
// parsing the TIFF it streams to stdout.
type Dcraw struct {
	binary string
}

// NewDcraw returns a decoder driving the given executable. An empty name
// selects DefaultBinary.
func NewDcraw(binary string) *Dcraw {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Dcraw{binary: binary}
}

// Binary returns the configured executable name.
func (d *Dcraw) Binary() string {
	return d.binary
}

// Check resolves the decoder executable on PATH, returning its location.
func (d *Dcraw) Check() (string, error) {
	path, err := exec.LookPath(d.binary)
	if err != nil {
		return "", fmt.Errorf("raw decoder %s not found: %w", d.binary, err)
	}
	return path, nil
}

// buildArgs maps Options onto dcraw's flag set. -c streams the result to
// stdout and -T selects 8-bit TIFF output; the source path always comes
// last.
func buildArgs(path string, opts Options) []string {
	args := []string{"-c", "-T"}
	if opts.HalfSize {
		args = append(args, "-h")
	}
	switch opts.Demosaic {
	case DemosaicFast:
		args = append(args, "-q", "0")
	case DemosaicHigh:
		args = append(args, "-q", "3")
	}
	if !opts.AutoBright {
		args = append(args, "-W")
	}
	if opts.CameraWB {
		args = append(args, "-w")
	}
	return append(args, path)
}

// Decode runs the decoder for one file and returns the raster. A nonzero
// exit from the tool and unparseable output both come back wrapped in
// ErrRejected; everything else (binary missing, context cancelled) is
// returned as-is for the caller to treat as fatal.
func (d *Dcraw) Decode(ctx context.Context, path string, opts Options) (*image.NRGBA, error) {
	args := buildArgs(path, opts)
	logging.Debug("Decoding %s: %s %s", filepath.Base(path), d.binary, strings.Join(args[:len(args)-1], " "))

	cmd := exec.CommandContext(ctx, d.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %s: %s", ErrRejected,
				filepath.Base(path), strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("running %s: %w", d.binary, err)
	}

	img, err := tiff.Decode(&stdout)
	if err != nil {
		// The tool exited cleanly but its output is unreadable; give the
		// caller's fallback options a chance.
		return nil, fmt.Errorf("%w: %s produced unreadable output: %v", ErrRejected,
			d.binary, err)
	}
	return imaging.Clone(img), nil
}

// Package pipeline orchestrates the two-tier rendering flow from RAW
// source to cached JPEG artifact.
//
// The preview tier is tuned for interactivity: it decodes at half size
// with the fast demosaic, bounds the output dimension, and filters on
// the CPU so results stay consistent while a user drags sliders. The
// full tier decodes at full resolution with the high-quality demosaic
// and lets the hardware policy decide filter acceleration and final
// encode quality.
//
// Both tiers share the same shape: describe the source, derive the
// cache key, return on a hit, otherwise decode (with a one-shot
// fallback when the decoder rejects the preferred options), filter,
// encode, and publish atomically. Failures are classified into the
// package's error kinds so callers can tell a missing source from a
// broken decode.
package pipeline

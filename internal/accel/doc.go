// Package accel wraps the optional libvips runtime behind availability
// gating.
//
// Init probes and enables the library once at startup; when that fails the
// process keeps running and Available reports false forever after. Callers
// treat acceleration strictly as a hint: every operation here has a CPU
// equivalent at the call site and any error from this package selects it.
//
// The operations are the two the processing pipeline can offload: Linear
// (per-channel a*x+b with 8-bit clipping, backing the warmth and
// brightness/contrast filters) and EncodeJPEG (the primary JPEG encoder).
package accel

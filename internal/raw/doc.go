// Package raw decodes camera RAW files through an external decoder
// binary.
//
// The Decoder interface exists so the pipeline can be tested with a fake;
// the one real implementation, Dcraw, shells out to dcraw with -c -T and
// parses the 8-bit TIFF that comes back on stdout. Options express the two
// refinement presets the pipeline uses (a fast half-size preview decode
// and a high-quality full decode) plus the reduced fallbacks retried when
// the tool rejects the preferred flags.
//
// Error classification matters here: ErrRejected wraps failures the tool
// reported about the input itself, which are the only ones a caller should
// retry with different options. Infrastructure problems, like the binary
// missing from PATH or a cancelled context, surface unwrapped.
package raw

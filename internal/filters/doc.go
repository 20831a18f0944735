// Package filters implements the color and detail adjustments applied to
// decoded RAW images, and the parameter model that drives them.
//
// Four adjustments are supported: saturation (HSV S-channel scaling),
// warmth (coupled red/blue gain), brightness/contrast (linear transform
// with a 128-centered brightness offset), and sharpen (3x3 unsharp
// kernel). Apply runs them in that fixed order, skipping any filter that
// sits at its neutral value, so a fully-neutral parameter set is a no-op
// that returns the input image untouched.
//
// Params is an open map: unknown keys never reach a filter but still
// participate in Canonical, the stable serialization the cache layer hashes
// into its keys. This keeps distinct requests from colliding even when the
// unknown parts are not understood.
//
// Filters accept an accelerated hint. Where an accelerated implementation
// exists (warmth, brightness/contrast) it is used when the runtime is up
// and silently replaced by the CPU path on any failure; the two paths
// produce the same pixels.
package filters

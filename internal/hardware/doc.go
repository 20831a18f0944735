// Package hardware samples machine state and turns it into an advisory
// processing policy.
//
// The policy answers three questions for the pipeline: how many background
// workers the machine can reasonably feed, whether filter acceleration
// should be attempted, and what JPEG quality a full-resolution encode
// should use right now. It is advisory in the strict sense that nothing
// resizes a running worker pool when the answer changes; new decisions
// simply see the new policy.
//
// Battery state is optional. Desktops report no battery at all, and any
// sampling failure degrades to "unknown", which behaves like mains power.
package hardware

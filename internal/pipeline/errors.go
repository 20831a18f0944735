package pipeline

import "errors"

// Failure kinds returned by the processor. Callers classify with
// errors.Is to pick a transport status or a retry decision; the
// wrapped detail is for logs only.
var (
	ErrSourceNotFound = errors.New("source not found")
	ErrDecode         = errors.New("decode failed")
	ErrEncode         = errors.New("encode failed")
	ErrStorage        = errors.New("storing artifact failed")
)

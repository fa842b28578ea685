package band

import "errors"

// ErrInvalidParams reports band corners, sample rate or order that cannot
// be realised.
var ErrInvalidParams = errors.New("band: invalid parameters")

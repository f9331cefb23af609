package transcript

import "errors"

// ErrUnavailable indicates the video has no usable transcript: captions
// disabled, no track in any language, or the video itself is
// unavailable, private, or restricted. Terminal; never retried.
var ErrUnavailable = errors.New("transcript unavailable")

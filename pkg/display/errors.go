package display

import "errors"

var (
	// ErrBufferUnavailable indicates the frame buffer was not allocated.
	ErrBufferUnavailable = errors.New("frame buffer unavailable")
	// ErrInvalidGeometry indicates unusable frame buffer dimensions or rotation.
	ErrInvalidGeometry = errors.New("invalid frame buffer geometry")
)

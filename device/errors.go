package device

import "errors"

var (
	ErrStreamClosed     = errors.New("device: stream is closed")
	ErrMissingKernelFn  = errors.New("device: kernel descriptor is missing a body")
	ErrInvalidBlockSize = errors.New("device: kernel block size components must be positive")
	ErrInvalidGrid      = errors.New("device: dispatch grid components must be positive")
	ErrBufferReleased   = errors.New("device: buffer has been released")
	ErrBufferTooSmall   = errors.New("device: destination buffer is too small")
)

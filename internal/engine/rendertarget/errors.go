package rendertarget

import "errors"

var (
	// ErrNoColorAttachment is returned when reading color from a target
	// that carries no color attachment.
	ErrNoColorAttachment = errors.New("render target has no color attachment")

	// ErrNoDepthAttachment is returned when reading depth from a target
	// that carries no depth attachment.
	ErrNoDepthAttachment = errors.New("render target has no depth attachment")

	// ErrSizeMismatch is returned when color and depth attachments differ
	// in size.
	ErrSizeMismatch = errors.New("color and depth attachments differ in size")
)

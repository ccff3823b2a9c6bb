//go:build !linux

package framebuffer

// Open is only supported on Linux.
func Open(_ string) (*Framebuffer, error) {
	return nil, ErrNotSupported
}

// Show is only supported on Linux.
func (fb *Framebuffer) Show(_ bool) error {
	return ErrNotSupported
}

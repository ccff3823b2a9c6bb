package surface

// Lock the surface for direct pixel access. Locks are shared by every
// surface of a handle and do not nest.
func (s *Surface) Lock() error {
	h, err := s.handle()
	if err != nil {
		return opError("lock", err)
	}
	if h.locked > 0 {
		return opError("lock", ErrLocked)
	}
	h.locked++
	return nil
}

// Unlock releases a lock taken with Lock. Unlocking an unlocked surface does
// nothing.
func (s *Surface) Unlock() {
	if s.h.locked > 0 {
		s.h.locked--
	}
}

// Locked reports whether the surface is locked.
func (s *Surface) Locked() bool {
	return s.h.locked > 0
}

// MustLock reports whether the pixels may only be accessed while locked.
func (s *Surface) MustLock() bool {
	return s.h.flags.Has(RLEAccel)
}

// WithPixels locks the surface and calls fn with its pixel rows. The surface
// is unlocked when fn returns, also when it panics.
func (s *Surface) WithPixels(fn func(pix []byte) error) error {
	if err := s.Lock(); err != nil {
		return err
	}
	defer s.Unlock()

	buf := &s.h.buf
	return fn(buf.Pix[:buf.Len()])
}

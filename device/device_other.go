//go:build !linux || !(amd64 || 386)

package device

// Open always fails: port I/O needs Linux on x86.
func Open(selector string, opts ...Option) (*Device, error) {
	if _, err := ParseSlot(selector); err != nil {
		return nil, err
	}
	return nil, ErrUnsupported
}

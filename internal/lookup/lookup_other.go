//go:build !linux && !windows && !darwin

package lookup

// New returns a stub that reports ErrUnsupported. The watcher treats the
// failure like an undetectable process, so sampling still runs and every
// sample is classified as idle.
func New() Func {
	return func() (*Window, error) {
		return nil, ErrUnsupported
	}
}

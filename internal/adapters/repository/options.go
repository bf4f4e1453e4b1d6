package repository

// Option applies a configuration option to the WindowStore.
type Option func(*WindowStore)

// WithWindow sets the number of recent samples kept per entity.
func WithWindow(n int) Option {
	return func(s *WindowStore) {
		if n > 0 {
			s.window = n
		}
	}
}

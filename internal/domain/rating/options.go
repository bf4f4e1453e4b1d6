package rating

// Option applies a configuration option to the System.
type Option func(*System)

// WithKFactor sets the update sensitivity.
func WithKFactor(k float64) Option {
	return func(s *System) {
		if k > 0 {
			s.k = k
		}
	}
}

// WithInitialRating sets the rating assigned on first reference.
func WithInitialRating(r float64) Option {
	return func(s *System) {
		if r > 0 {
			s.initial = r
		}
	}
}

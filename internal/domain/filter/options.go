package filter

// Option applies a configuration option to a Filter.
type Option func(*Filter)

// WithInitialState sets the starting estimate and covariance.
func WithInitialState(estimate, covariance float64) Option {
	return func(f *Filter) {
		f.estimate = estimate
		if covariance >= 0 {
			f.covariance = covariance
		}
	}
}

// WithProcessNoise sets the process noise variance; higher values make the
// filter track measurements more aggressively.
func WithProcessNoise(q float64) Option {
	return func(f *Filter) {
		if q > 0 {
			f.processNoise = q
		}
	}
}

// WithMeasurementNoise sets the measurement noise variance; higher values
// trust measurements less.
func WithMeasurementNoise(r float64) Option {
	return func(f *Filter) {
		if r > 0 {
			f.measurementNoise = r
		}
	}
}

package repository

import (
	"github.com/okian/olympics/pkg/logger"
)

const defaultProgressEvery = 50_000

type settings struct {
	logger        logger.Logger
	progressEvery int
}

func newSettings(opts []Option) settings {
	s := settings{logger: logger.Nop(), progressEvery: defaultProgressEvery}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option applies a configuration option to a store.
type Option func(*settings)

// WithLogger sets the logger used for load progress.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithProgressEvery logs a progress line every n parsed or imported rows.
func WithProgressEvery(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.progressEvery = n
		}
	}
}

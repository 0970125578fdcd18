// Package repository defines the arena store interfaces and errors.
package repository

import (
	"time"

	model "github.com/chemarena/arena/internal/domain/model"
)

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithCatalog seeds the model catalog. Seed order is preserved for listing.
func WithCatalog(models []model.Model) Option {
	return func(s *MemoryStore) {
		for _, m := range models {
			if _, ok := s.models[m.ID]; !ok {
				s.order = append(s.order, m.ID)
			}
			s.models[m.ID] = m
		}
	}
}

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}

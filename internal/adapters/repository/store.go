// Package repository loads the raw Olympic tables from CSV files or SQLite.
package repository

import (
	"context"

	"github.com/okian/olympics/internal/domain/model"
)

// Store provides the raw source tables. Implementations are read once at
// startup; Load may be called again to reload.
type Store interface {
	// Load returns every athlete-event row and the NOC region lookup.
	Load(ctx context.Context) (model.Raw, error)

	// Backend names the storage kind for logs and metrics.
	Backend() string

	// Close releases held resources.
	Close() error
}

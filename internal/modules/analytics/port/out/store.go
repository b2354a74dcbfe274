package out

import (
	"context"

	"rsoc/internal/modules/analytics/domain"
)

// Store persists analytics events.
type Store interface {
	Append(ctx context.Context, event domain.Event) error
	List(ctx context.Context, limit int) ([]domain.Event, error)
}

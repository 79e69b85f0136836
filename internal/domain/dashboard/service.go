package dashboard

import (
	"context"
	"time"
)

// Source fetches the live data behind a dashboard
type Source interface {
	Fetch(ctx context.Context) (interface{}, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func(ctx context.Context) (interface{}, error)

func (f SourceFunc) Fetch(ctx context.Context) (interface{}, error) {
	return f(ctx)
}

// Registry answers read-only questions about the static dashboard list
type Registry interface {
	All() []Dashboard
	GetByID(id string) (Dashboard, bool)
	GetByCategory(category string) []Dashboard
	GetActive() []Dashboard
	GetWithAPI() []Dashboard
	Categories() []Category
}

type DashboardService interface {
	List(filter Filter) []Dashboard
	Get(id string) (Dashboard, error)
	Categories() []Category

	// GetData returns a dashboard's data, from the cache when it is younger
	// than maxAge
	GetData(ctx context.Context, id string, maxAge time.Duration) (*DataResponse, error)

	// GetOverview fetches every API-backed dashboard concurrently. A failing
	// dashboard is reported in its item, not as an error.
	GetOverview(ctx context.Context, maxAge time.Duration) (*OverviewResponse, error)

	// ClearCache drops the cached data of one dashboard, or of all when id is empty
	ClearCache(id string) error
}

package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/anyemp/global-dashboard-go/internal/domain/dashboard"
	"golang.org/x/sync/errgroup"
)

// overviewConcurrency bounds the number of upstream calls an overview makes at once
const overviewConcurrency = 4

// Cache is the part of the preference store used for dashboard data
type Cache interface {
	SetDashboardCache(id string, data interface{})
	GetDashboardCache(id string, maxAge time.Duration) (interface{}, bool)
	ClearDashboardCache(id string)
}

type DashboardServiceImpl struct {
	registry dashboard.Registry
	cache    Cache
	sources  map[string]dashboard.Source
	logger   *slog.Logger
	now      func() time.Time
}

func NewDashboardService(registry dashboard.Registry, cache Cache, sources map[string]dashboard.Source, logger *slog.Logger) dashboard.DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardServiceImpl{
		registry: registry,
		cache:    cache,
		sources:  sources,
		logger:   logger.With("component", "dashboard-service"),
		now:      time.Now,
	}
}

func (s *DashboardServiceImpl) List(filter dashboard.Filter) []dashboard.Dashboard {
	candidates := s.registry.GetByCategory(filter.Category)

	out := make([]dashboard.Dashboard, 0, len(candidates))
	for _, d := range candidates {
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		if filter.HasAPI != nil && d.HasAPI != *filter.HasAPI {
			continue
		}
		out = append(out, d)
	}
	return out
}

func (s *DashboardServiceImpl) Get(id string) (dashboard.Dashboard, error) {
	d, ok := s.registry.GetByID(id)
	if !ok {
		return dashboard.Dashboard{}, dashboard.ErrDashboardNotFound
	}
	return d, nil
}

func (s *DashboardServiceImpl) Categories() []dashboard.Category {
	return s.registry.Categories()
}

// source resolves the adapter behind a dashboard
func (s *DashboardServiceImpl) source(id string) (dashboard.Dashboard, dashboard.Source, error) {
	d, err := s.Get(id)
	if err != nil {
		return d, nil, err
	}
	src, ok := s.sources[id]
	if !d.HasAPI || !ok {
		return d, nil, dashboard.ErrNoAPI
	}
	return d, src, nil
}

func (s *DashboardServiceImpl) GetData(ctx context.Context, id string, maxAge time.Duration) (*dashboard.DataResponse, error) {
	_, src, err := s.source(id)
	if err != nil {
		return nil, err
	}
	return s.fetch(ctx, id, src, maxAge)
}

func (s *DashboardServiceImpl) fetch(ctx context.Context, id string, src dashboard.Source, maxAge time.Duration) (*dashboard.DataResponse, error) {
	if data, ok := s.cache.GetDashboardCache(id, maxAge); ok {
		s.logger.DebugContext(ctx, "Dashboard cache hit", "dashboard_id", id)
		return &dashboard.DataResponse{DashboardID: id, Data: data, Cached: true, FetchedAt: s.now()}, nil
	}

	data, err := src.Fetch(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Dashboard fetch failed", "dashboard_id", id, "error", err)
		return nil, err
	}

	s.cache.SetDashboardCache(id, data)
	return &dashboard.DataResponse{DashboardID: id, Data: data, FetchedAt: s.now()}, nil
}

// GetOverview returns an item per API-backed dashboard in registry order
func (s *DashboardServiceImpl) GetOverview(ctx context.Context, maxAge time.Duration) (*dashboard.OverviewResponse, error) {
	targets := s.registry.GetWithAPI()
	items := make([]dashboard.OverviewItem, len(targets))

	var g errgroup.Group
	g.SetLimit(overviewConcurrency)

	for i, d := range targets {
		i, d := i, d
		items[i] = dashboard.OverviewItem{DashboardID: d.ID, Name: d.Name}

		src, ok := s.sources[d.ID]
		if !ok {
			items[i].Error = dashboard.ErrNoAPI.Error()
			continue
		}

		g.Go(func() error {
			res, err := s.fetch(ctx, d.ID, src, maxAge)
			if err != nil {
				items[i].Error = err.Error()
				return nil
			}
			items[i].Data = res.Data
			items[i].Cached = res.Cached
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dashboard.OverviewResponse{Dashboards: items, GeneratedAt: s.now()}, nil
}

func (s *DashboardServiceImpl) ClearCache(id string) error {
	if id != "" {
		if _, err := s.Get(id); err != nil {
			return err
		}
	}
	s.cache.ClearDashboardCache(id)
	return nil
}

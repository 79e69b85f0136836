package dashboard

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anyemp/global-dashboard-go/internal/domain/dashboard"
	"github.com/anyemp/global-dashboard-go/internal/fixtures"
	"github.com/anyemp/global-dashboard-go/internal/pkg/apiclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]interface{}
	maxAges []time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]interface{}{}}
}

func (c *memoryCache) SetDashboardCache(id string, data interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = data
}

func (c *memoryCache) GetDashboardCache(id string, maxAge time.Duration) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxAges = append(c.maxAges, maxAge)
	v, ok := c.entries[id]
	return v, ok
}

func (c *memoryCache) ClearDashboardCache(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id == "" {
		c.entries = map[string]interface{}{}
		return
	}
	delete(c.entries, id)
}

type countingSource struct {
	calls atomic.Int32
	data  interface{}
	err   error
}

func (s *countingSource) Fetch(ctx context.Context) (interface{}, error) {
	s.calls.Add(1)
	return s.data, s.err
}

type serviceDeps struct {
	svc        dashboard.DashboardService
	cache      *memoryCache
	yellowCard *countingSource
	attendance *countingSource
}

func setupService(t *testing.T) *serviceDeps {
	t.Helper()
	deps := &serviceDeps{
		cache:      newMemoryCache(),
		yellowCard: &countingSource{data: map[string]int{"totalEmployees": 3}},
		attendance: &countingSource{data: map[string]int{"onTime": 10}},
	}
	deps.svc = NewDashboardService(fixtures.NewDefaultRegistry(), deps.cache, map[string]dashboard.Source{
		fixtures.YellowCardID:   deps.yellowCard,
		fixtures.HRAttendanceID: deps.attendance,
	}, nil)
	return deps
}

func TestList_Filters(t *testing.T) {
	deps := setupService(t)
	yes, no := true, false

	assert.Len(t, deps.svc.List(dashboard.Filter{}), 5)
	assert.Len(t, deps.svc.List(dashboard.Filter{Category: "hr"}), 2)
	assert.Len(t, deps.svc.List(dashboard.Filter{Category: "hr", HasAPI: &yes}), 1)
	assert.Len(t, deps.svc.List(dashboard.Filter{HasAPI: &no}), 3)
	assert.Empty(t, deps.svc.List(dashboard.Filter{Status: dashboard.StatusMaintenance}))
}

func TestGet(t *testing.T) {
	deps := setupService(t)

	d, err := deps.svc.Get(fixtures.OnboardingID)
	require.NoError(t, err)
	assert.Equal(t, "Onboarding Dashboard", d.Name)

	_, err = deps.svc.Get("missing")
	assert.ErrorIs(t, err, dashboard.ErrDashboardNotFound)
}

func TestGetData_Routing(t *testing.T) {
	deps := setupService(t)
	ctx := context.Background()

	_, err := deps.svc.GetData(ctx, "missing", 0)
	assert.ErrorIs(t, err, dashboard.ErrDashboardNotFound)

	_, err = deps.svc.GetData(ctx, fixtures.SyncDashboardID, 0)
	assert.ErrorIs(t, err, dashboard.ErrNoAPI)

	assert.Equal(t, int32(0), deps.yellowCard.calls.Load())
}

func TestGetData_CachesAfterFetch(t *testing.T) {
	deps := setupService(t)
	ctx := context.Background()

	first, err := deps.svc.GetData(ctx, fixtures.YellowCardID, time.Minute)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, map[string]int{"totalEmployees": 3}, first.Data)

	second, err := deps.svc.GetData(ctx, fixtures.YellowCardID, time.Minute)
	require.NoError(t, err)
	assert.True(t, second.Cached)

	assert.Equal(t, int32(1), deps.yellowCard.calls.Load())
	assert.Equal(t, []time.Duration{time.Minute, time.Minute}, deps.cache.maxAges)
}

func TestGetData_ErrorIsNotCached(t *testing.T) {
	deps := setupService(t)
	deps.attendance.err = &apiclient.TimeoutError{Timeout: 15 * time.Second}

	_, err := deps.svc.GetData(context.Background(), fixtures.HRAttendanceID, 0)

	assert.Equal(t, apiclient.KindTimeout, apiclient.Kind(err))
	assert.Equal(t, "Request timeout after 15000ms", err.Error())
	assert.Empty(t, deps.cache.entries)
}

func TestGetOverview_ReportsPerDashboardErrors(t *testing.T) {
	deps := setupService(t)
	deps.attendance.err = &apiclient.UpstreamError{Message: "Sheet unavailable"}

	res, err := deps.svc.GetOverview(context.Background(), 0)

	require.NoError(t, err)
	require.Len(t, res.Dashboards, 2)

	assert.Equal(t, fixtures.YellowCardID, res.Dashboards[0].DashboardID)
	assert.Empty(t, res.Dashboards[0].Error)
	assert.Equal(t, map[string]int{"totalEmployees": 3}, res.Dashboards[0].Data)

	assert.Equal(t, fixtures.HRAttendanceID, res.Dashboards[1].DashboardID)
	assert.Equal(t, "Sheet unavailable", res.Dashboards[1].Error)
	assert.Nil(t, res.Dashboards[1].Data)
}

func TestGetOverview_MissingSource(t *testing.T) {
	svc := NewDashboardService(fixtures.NewDefaultRegistry(), newMemoryCache(), map[string]dashboard.Source{}, nil)

	res, err := svc.GetOverview(context.Background(), 0)

	require.NoError(t, err)
	for _, item := range res.Dashboards {
		assert.Equal(t, dashboard.ErrNoAPI.Error(), item.Error)
	}
}

func TestClearCache(t *testing.T) {
	deps := setupService(t)
	ctx := context.Background()
	_, err := deps.svc.GetData(ctx, fixtures.YellowCardID, 0)
	require.NoError(t, err)
	_, err = deps.svc.GetData(ctx, fixtures.HRAttendanceID, 0)
	require.NoError(t, err)

	assert.ErrorIs(t, deps.svc.ClearCache("missing"), dashboard.ErrDashboardNotFound)

	require.NoError(t, deps.svc.ClearCache(fixtures.YellowCardID))
	assert.NotContains(t, deps.cache.entries, fixtures.YellowCardID)
	assert.Contains(t, deps.cache.entries, fixtures.HRAttendanceID)

	require.NoError(t, deps.svc.ClearCache(""))
	assert.Empty(t, deps.cache.entries)
}

func TestSourceFunc(t *testing.T) {
	src := dashboard.SourceFunc(func(ctx context.Context) (interface{}, error) { return "ok", nil })

	v, err := src.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestSourceOf(t *testing.T) {
	type payload struct{ N int }

	src := SourceOf(func(ctx context.Context) (*payload, error) { return &payload{N: 3}, nil })
	v, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &payload{N: 3}, v)

	src = SourceOf(func(ctx context.Context) (*payload, error) { return nil, nil })
	v, err = src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Nil(t, v)
}

package fixtures

import "github.com/anyemp/global-dashboard-go/internal/domain/dashboard"

// ==========================================
// DASHBOARD IDS
// ==========================================

const (
	YellowCardID    = "yellow-card"
	HRAttendanceID  = "hr-attendance"
	AnyEmpMainID    = "anyemp-main"
	SyncDashboardID = "sync-dashboard"
	OnboardingID    = "onboarding"
)

// ==========================================
// DEFAULT DASHBOARDS
// ==========================================

// GetDefaultDashboards returns the registry of known dashboards. Each call
// returns fresh slices, so callers may modify the result.
func GetDefaultDashboards() []dashboard.Dashboard {
	return []dashboard.Dashboard{
		{
			ID:           YellowCardID,
			Name:         "Yellow Card Dashboard",
			Description:  "Team performance tracking with violations and achievements",
			URL:          "https://yc.anyemp.com",
			Icon:         "🟡",
			Color:        "#FFC107",
			Category:     "operations",
			Status:       dashboard.StatusActive,
			HasAPI:       true,
			APIEndpoint:  "/api/get-employees",
			RequiresAuth: true,
			AuthType:     "pin",
			Features:     []string{"violations", "green-cards", "employee-stats"},
			Tags:         []string{"performance", "compliance", "tracking"},
		},
		{
			ID:           HRAttendanceID,
			Name:         "HR Attendance",
			Description:  "Employee attendance and time management",
			URL:          "https://attendance.anyemp.com",
			Icon:         "👥",
			Color:        "#2196F3",
			Category:     "hr",
			Status:       dashboard.StatusActive,
			HasAPI:       true,
			APIEndpoint:  "/api/attendance",
			RequiresAuth: false,
			AuthType:     "none",
			Features:     []string{"punctuality-tracking", "daily-stats", "department-stats"},
			Tags:         []string{"hr", "attendance", "time"},
		},
		{
			ID:           AnyEmpMainID,
			Name:         "AnyEmp Portal",
			Description:  "Main company portal and operations dashboard",
			URL:          "https://anyemp.com",
			Icon:         "🏢",
			Color:        "#4CAF50",
			Category:     "operations",
			Status:       dashboard.StatusActive,
			HasAPI:       false,
			RequiresAuth: true,
			AuthType:     "unknown",
			Features:     []string{"portal", "operations"},
			Tags:         []string{"main", "portal", "operations"},
		},
		{
			ID:           SyncDashboardID,
			Name:         "Sync Dashboard",
			Description:  "Development synchronization and build tracking",
			URL:          "https://sync.anyemp.com",
			Icon:         "🔄",
			Color:        "#9C27B0",
			Category:     "development",
			Status:       dashboard.StatusActive,
			HasAPI:       false,
			RequiresAuth: true,
			AuthType:     "unknown",
			Features:     []string{"sync", "builds", "deployment"},
			Tags:         []string{"development", "sync", "ci-cd"},
		},
		{
			ID:           OnboardingID,
			Name:         "Onboarding Dashboard",
			Description:  "New employee onboarding process and documentation",
			URL:          "https://onb.anyemp.com",
			Icon:         "🚀",
			Color:        "#FF5722",
			Category:     "hr",
			Status:       dashboard.StatusActive,
			HasAPI:       false,
			RequiresAuth: false,
			AuthType:     "none",
			Features:     []string{"onboarding", "documentation"},
			Tags:         []string{"hr", "onboarding", "training"},
		},
	}
}

// ==========================================
// CATEGORIES
// ==========================================

func GetDefaultCategories() []dashboard.Category {
	return []dashboard.Category{
		{ID: dashboard.CategoryAll, Name: "All Dashboards", Icon: "📊"},
		{ID: "operations", Name: "Operations", Icon: "⚙️"},
		{ID: "hr", Name: "Human Resources", Icon: "👥"},
		{ID: "development", Name: "Development", Icon: "💻"},
		{ID: "tools", Name: "Tools", Icon: "🛠️"},
	}
}

// ==========================================
// REGISTRY
// ==========================================

// Registry is an in-memory, read-only dashboard.Registry
type Registry struct {
	dashboards []dashboard.Dashboard
	categories []dashboard.Category
	byID       map[string]int
}

func NewRegistry(dashboards []dashboard.Dashboard, categories []dashboard.Category) *Registry {
	byID := make(map[string]int, len(dashboards))
	for i, d := range dashboards {
		byID[d.ID] = i
	}
	return &Registry{dashboards: dashboards, categories: categories, byID: byID}
}

// NewDefaultRegistry builds the registry from the default dashboards
func NewDefaultRegistry() *Registry {
	return NewRegistry(GetDefaultDashboards(), GetDefaultCategories())
}

func (r *Registry) All() []dashboard.Dashboard {
	return r.filter(func(dashboard.Dashboard) bool { return true })
}

func (r *Registry) GetByID(id string) (dashboard.Dashboard, bool) {
	i, ok := r.byID[id]
	if !ok {
		return dashboard.Dashboard{}, false
	}
	return r.dashboards[i], true
}

func (r *Registry) GetByCategory(category string) []dashboard.Dashboard {
	if category == "" || category == dashboard.CategoryAll {
		return r.All()
	}
	return r.filter(func(d dashboard.Dashboard) bool { return d.Category == category })
}

func (r *Registry) GetActive() []dashboard.Dashboard {
	return r.filter(func(d dashboard.Dashboard) bool { return d.Status == dashboard.StatusActive })
}

func (r *Registry) GetWithAPI() []dashboard.Dashboard {
	return r.filter(func(d dashboard.Dashboard) bool { return d.HasAPI })
}

func (r *Registry) Categories() []dashboard.Category {
	out := make([]dashboard.Category, len(r.categories))
	copy(out, r.categories)
	return out
}

func (r *Registry) filter(keep func(dashboard.Dashboard) bool) []dashboard.Dashboard {
	out := make([]dashboard.Dashboard, 0, len(r.dashboards))
	for _, d := range r.dashboards {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

package dashboard

import "time"

// Filter narrows a dashboard listing. Zero values match everything.
type Filter struct {
	Category string
	Status   Status
	HasAPI   *bool
}

type DataResponse struct {
	DashboardID string      `json:"dashboardId"`
	Data        interface{} `json:"data"`
	Cached      bool        `json:"cached"`
	FetchedAt   time.Time   `json:"fetchedAt"`
}

type OverviewItem struct {
	DashboardID string      `json:"dashboardId"`
	Name        string      `json:"name"`
	Data        interface{} `json:"data,omitempty"`
	Cached      bool        `json:"cached"`
	Error       string      `json:"error,omitempty"`
}

type OverviewResponse struct {
	Dashboards  []OverviewItem `json:"dashboards"`
	GeneratedAt time.Time      `json:"generatedAt"`
}

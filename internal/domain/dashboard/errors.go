package dashboard

import "errors"

var (
	ErrDashboardNotFound = errors.New("Dashboard not found")
	ErrNoAPI             = errors.New("Dashboard has no API")
)

package attendance

import "encoding/json"

type Employee struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position,omitempty"`
}

// DailyStat is one day's aggregate. The upstream orders them oldest first.
type DailyStat struct {
	Date            string  `json:"date"`
	OnTime          int     `json:"onTime"`
	Late1to15       int     `json:"late1to15"`
	Late16to30      int     `json:"late16to30"`
	LateOver30      int     `json:"lateOver30"`
	Absent          int     `json:"absent"`
	PunctualityRate float64 `json:"punctualityRate"`
}

// Late sums the three lateness buckets
func (d DailyStat) Late() int {
	return d.Late1to15 + d.Late16to30 + d.LateOver30
}

type EmployeeStat struct {
	Name            string  `json:"name"`
	Department      string  `json:"department"`
	OnTime          int     `json:"onTime"`
	Late            int     `json:"late"`
	Absent          int     `json:"absent"`
	PunctualityRate float64 `json:"punctualityRate"`
}

type SnapshotKind string

const (
	SnapshotDaily    SnapshotKind = "daily"
	SnapshotEmployee SnapshotKind = "employee"
	SnapshotNone     SnapshotKind = "none"
)

// Snapshot is the attendance payload. Kind is decided when the payload is
// decoded or built with NewSnapshot: daily stats win over employee stats when
// both are present. A nil Employees slice means the upstream sent no employee
// list at all.
type Snapshot struct {
	Kind          SnapshotKind   `json:"kind"`
	Employees     []Employee     `json:"employees"`
	DailyStats    []DailyStat    `json:"dailyStats,omitempty"`
	EmployeeStats []EmployeeStat `json:"employeeStats,omitempty"`
}

func (s *Snapshot) UnmarshalJSON(b []byte) error {
	var raw struct {
		Employees     []Employee     `json:"employees"`
		DailyStats    []DailyStat    `json:"dailyStats"`
		EmployeeStats []EmployeeStat `json:"employeeStats"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*s = *NewSnapshot(raw.Employees, raw.DailyStats, raw.EmployeeStats)
	return nil
}

func NewSnapshot(employees []Employee, daily []DailyStat, employeeStats []EmployeeStat) *Snapshot {
	return &Snapshot{
		Kind:          kindOf(daily, employeeStats),
		Employees:     employees,
		DailyStats:    daily,
		EmployeeStats: employeeStats,
	}
}

// ResolvedKind returns Kind, deriving it from the stats when a snapshot was
// assembled without one
func (s *Snapshot) ResolvedKind() SnapshotKind {
	if s.Kind != "" {
		return s.Kind
	}
	return kindOf(s.DailyStats, s.EmployeeStats)
}

func kindOf(daily []DailyStat, employeeStats []EmployeeStat) SnapshotKind {
	switch {
	case len(daily) > 0:
		return SnapshotDaily
	case len(employeeStats) > 0:
		return SnapshotEmployee
	default:
		return SnapshotNone
	}
}

// LatestDay returns the most recent daily aggregate
func (s *Snapshot) LatestDay() (DailyStat, bool) {
	if s == nil || len(s.DailyStats) == 0 {
		return DailyStat{}, false
	}
	return s.DailyStats[len(s.DailyStats)-1], true
}

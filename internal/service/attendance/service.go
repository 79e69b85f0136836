package attendance

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/anyemp/global-dashboard-go/internal/domain/attendance"
	"github.com/anyemp/global-dashboard-go/internal/pkg/apiclient"
	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL = "https://attendance.anyemp.com/api"
	DefaultTimeout = 15 * time.Second

	fetchFailedMessage = "Failed to fetch attendance data"
	isoMillis          = "2006-01-02T15:04:05.000Z07:00"
)

type AttendanceServiceImpl struct {
	client *apiclient.Client
	logger *slog.Logger
	now    func() time.Time
}

func NewAttendanceService(client *apiclient.Client, logger *slog.Logger) attendance.AttendanceService {
	return newAttendanceService(client, logger)
}

func newAttendanceService(client *apiclient.Client, logger *slog.Logger) *AttendanceServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &AttendanceServiceImpl{
		client: client,
		logger: logger.With("adapter", "hr-attendance"),
		now:    time.Now,
	}
}

// GetAttendanceData returns the unwrapped snapshot. A successful envelope
// without data yields a nil snapshot.
func (s *AttendanceServiceImpl) GetAttendanceData(ctx context.Context) (*attendance.Snapshot, error) {
	raw, err := s.client.Get(ctx, "/attendance", nil)
	if err != nil {
		s.logger.Error("Failed to fetch attendance data", "error", err)
		return nil, err
	}

	var env apiclient.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &apiclient.MalformedResponseError{Err: err}
	}
	// the attendance API always wraps its payload; a missing flag is a failure
	if env.Success == nil || !*env.Success {
		err := &apiclient.UpstreamError{Message: env.FailureMessage(fetchFailedMessage)}
		s.logger.Error("Attendance API reported failure", "error", err)
		return nil, err
	}

	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	var snapshot attendance.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, &apiclient.MalformedResponseError{Err: err}
	}
	return &snapshot, nil
}

func (s *AttendanceServiceImpl) CalculateStats(snapshot *attendance.Snapshot) attendance.Stats {
	if snapshot == nil || snapshot.Employees == nil {
		return attendance.Stats{}
	}

	departments := make(map[string]struct{}, len(snapshot.Employees))
	for _, emp := range snapshot.Employees {
		departments[emp.Department] = struct{}{}
	}

	stats := attendance.Stats{
		TotalEmployees:   len(snapshot.Employees),
		TotalDepartments: len(departments),
	}

	switch snapshot.ResolvedKind() {
	case attendance.SnapshotDaily:
		latest, _ := snapshot.LatestDay()
		stats.OnTime = latest.OnTime
		stats.Late = latest.Late()
		stats.Absent = latest.Absent
		stats.AveragePunctualityRate = latest.PunctualityRate
		stats.LatestDate = latest.Date
	case attendance.SnapshotEmployee:
		stats.AveragePunctualityRate = meanPunctuality(snapshot.EmployeeStats)
	}

	return stats
}

// meanPunctuality averages punctuality rates to one decimal place
func meanPunctuality(rows []attendance.EmployeeStat) float64 {
	if len(rows) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(decimal.NewFromFloat(r.PunctualityRate))
	}
	return sum.Div(decimal.NewFromInt(int64(len(rows)))).Round(1).InexactFloat64()
}

func (s *AttendanceServiceImpl) GetAttendanceWithStats(ctx context.Context) (*attendance.AttendanceWithStats, error) {
	snapshot, err := s.GetAttendanceData(ctx)
	if err != nil {
		return nil, err
	}

	return &attendance.AttendanceWithStats{
		Data:        snapshot,
		Stats:       s.CalculateStats(snapshot),
		LastUpdated: s.now().UTC().Format(isoMillis),
	}, nil
}

package attendance

import "context"

type AttendanceService interface {
	GetAttendanceData(ctx context.Context) (*Snapshot, error)
	CalculateStats(snapshot *Snapshot) Stats
	GetAttendanceWithStats(ctx context.Context) (*AttendanceWithStats, error)
}

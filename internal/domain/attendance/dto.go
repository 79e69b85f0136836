package attendance

type Stats struct {
	TotalEmployees         int     `json:"totalEmployees"`
	OnTime                 int     `json:"onTime"`
	Late                   int     `json:"late"`
	Absent                 int     `json:"absent"`
	AveragePunctualityRate float64 `json:"averagePunctualityRate"`
	TotalDepartments       int     `json:"totalDepartments"`
	LatestDate             string  `json:"latestDate,omitempty"`
}

type AttendanceWithStats struct {
	Data        *Snapshot `json:"data"`
	Stats       Stats     `json:"stats"`
	LastUpdated string    `json:"lastUpdated"`
}

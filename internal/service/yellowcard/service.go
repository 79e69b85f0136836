package yellowcard

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/anyemp/global-dashboard-go/internal/domain/yellowcard"
	"github.com/anyemp/global-dashboard-go/internal/pkg/apiclient"
	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL = "https://yc.anyemp.com/api"
	DefaultTimeout = 15 * time.Second

	isoMillis = "2006-01-02T15:04:05.000Z07:00"
)

type YellowCardServiceImpl struct {
	client *apiclient.Client
	logger *slog.Logger
	now    func() time.Time
}

func NewYellowCardService(client *apiclient.Client, logger *slog.Logger) yellowcard.YellowCardService {
	return newYellowCardService(client, logger)
}

func newYellowCardService(client *apiclient.Client, logger *slog.Logger) *YellowCardServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &YellowCardServiceImpl{
		client: client,
		logger: logger.With("adapter", "yellow-card"),
		now:    time.Now,
	}
}

// GetEmployees accepts a bare array, null, or an enveloped array
func (s *YellowCardServiceImpl) GetEmployees(ctx context.Context) ([]yellowcard.Employee, error) {
	raw, err := s.client.Get(ctx, "/get-employees", nil)
	if err != nil {
		s.logger.Error("Failed to fetch employees", "error", err)
		return nil, err
	}

	payload, err := apiclient.Unwrap(raw, "Failed to fetch employees")
	if err != nil {
		s.logger.Error("Failed to fetch employees", "error", err)
		return nil, err
	}

	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return []yellowcard.Employee{}, nil
	}

	var employees []yellowcard.Employee
	if err := json.Unmarshal(payload, &employees); err != nil {
		return nil, &apiclient.MalformedResponseError{Err: err}
	}
	return employees, nil
}

func (s *YellowCardServiceImpl) CalculateStats(employees []yellowcard.Employee) yellowcard.Stats {
	stats := yellowcard.Stats{
		ViolationsByType: map[string]int{},
		GreenCardsByType: map[string]int{},
	}
	if len(employees) == 0 {
		return stats
	}

	departments := make(map[string]struct{})
	for _, emp := range employees {
		stats.TotalViolations += len(emp.Violations)
		stats.TotalGreenCards += len(emp.GreenCards)
		if len(emp.Violations) > 0 {
			stats.EmployeesWithViolations++
		}
		if len(emp.GreenCards) > 0 {
			stats.EmployeesWithGreenCards++
		}
		for _, v := range emp.Violations {
			stats.ViolationsByType[strings.ToLower(v.Type)]++
		}
		for _, g := range emp.GreenCards {
			stats.GreenCardsByType[strings.ToLower(g.Type)]++
		}
		if emp.Department != "" {
			departments[emp.Department] = struct{}{}
		}
	}

	stats.TotalEmployees = len(employees)
	stats.TotalDepartments = len(departments)
	stats.AverageViolationsPerEmployee = average(stats.TotalViolations, stats.TotalEmployees)
	stats.AverageGreenCardsPerEmployee = average(stats.TotalGreenCards, stats.TotalEmployees)
	return stats
}

// average is total/count rounded half away from zero to 2 decimal places
func average(total, count int) float64 {
	if count == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(total)).
		Div(decimal.NewFromInt(int64(count))).
		Round(2).
		InexactFloat64()
}

func (s *YellowCardServiceImpl) GetEmployeesWithStats(ctx context.Context) (*yellowcard.EmployeesWithStats, error) {
	employees, err := s.GetEmployees(ctx)
	if err != nil {
		return nil, err
	}

	return &yellowcard.EmployeesWithStats{
		Employees:   employees,
		Stats:       s.CalculateStats(employees),
		LastUpdated: s.now().UTC().Format(isoMillis),
	}, nil
}

func (s *YellowCardServiceImpl) AddViolation(ctx context.Context, req yellowcard.AddViolationRequest) (yellowcard.Acknowledgement, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.write("add violation", func() (json.RawMessage, error) {
		return s.client.Post(ctx, "/add-violation", req)
	})
}

func (s *YellowCardServiceImpl) AddGreenCard(ctx context.Context, req yellowcard.AddGreenCardRequest) (yellowcard.Acknowledgement, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.write("add green card", func() (json.RawMessage, error) {
		return s.client.Post(ctx, "/add-green-card", req)
	})
}

func (s *YellowCardServiceImpl) DeleteViolation(ctx context.Context, req yellowcard.DeleteViolationRequest) (yellowcard.Acknowledgement, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.write("delete violation", func() (json.RawMessage, error) {
		return s.client.Delete(ctx, "/delete-violation", req)
	})
}

func (s *YellowCardServiceImpl) DeleteGreenCard(ctx context.Context, req yellowcard.DeleteGreenCardRequest) (yellowcard.Acknowledgement, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.write("delete green card", func() (json.RawMessage, error) {
		return s.client.Delete(ctx, "/delete-green-card", req)
	})
}

// write performs a single upstream call and hands back the raw reply. An
// envelope reporting failure still becomes an *apiclient.UpstreamError.
func (s *YellowCardServiceImpl) write(action string, call func() (json.RawMessage, error)) (yellowcard.Acknowledgement, error) {
	raw, err := call()
	if err != nil {
		s.logger.Error("Upstream write failed", "action", action, "error", err)
		return nil, err
	}
	if _, err := apiclient.Unwrap(raw, "Failed to "+action); err != nil {
		s.logger.Error("Upstream write rejected", "action", action, "error", err)
		return nil, err
	}

	s.logger.Info("Upstream write accepted", "action", action)
	return raw, nil
}

package yellowcard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anyemp/global-dashboard-go/internal/domain/yellowcard"
	"github.com/anyemp/global-dashboard-go/internal/pkg/apiclient"
	"github.com/anyemp/global-dashboard-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const employeesJSON = `[
	{"id": "EMP-37226", "name": "Ana", "department": "Ops",
	 "violations": [{"id": 1, "type": "Documentation", "description": "missing report", "date": "2024-01-10"},
	                {"id": 2, "type": "workflow", "description": "skipped review", "date": "2024-01-11"}],
	 "greenCards": [{"id": "g-1", "type": "Achievement", "description": "shipped", "date": "2024-01-12"}]},
	{"id": "EMP-10001", "name": "Budi", "department": "Ops", "violations": [], "greenCards": []},
	{"id": "EMP-10002", "name": "Citra", "department": "Dev",
	 "violations": [{"id": 3, "type": "Communication", "description": "late reply", "date": "2024-01-13"}]}
]`

func newTestService(t *testing.T, handler http.HandlerFunc) *YellowCardServiceImpl {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return newYellowCardService(apiclient.New(srv.URL, apiclient.WithTimeout(2*time.Second)), nil)
}

func TestGetEmployees_Shapes(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantLen int
		wantErr string
	}{
		{name: "raw array", body: employeesJSON, wantLen: 3},
		{name: "null", body: `null`, wantLen: 0},
		{name: "envelope", body: `{"success": true, "data": ` + employeesJSON + `}`, wantLen: 3},
		{name: "envelope without data", body: `{"success": true}`, wantLen: 0},
		{name: "envelope failure", body: `{"success": false, "error": "sheet locked"}`, wantErr: "sheet locked"},
		{name: "envelope failure fallback", body: `{"success": false}`, wantErr: "Failed to fetch employees"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/get-employees", r.URL.Path)
				assert.Equal(t, http.MethodGet, r.Method)
				_, _ = io.WriteString(w, tt.body)
			})

			employees, err := svc.GetEmployees(context.Background())
			if tt.wantErr != "" {
				var upstream *apiclient.UpstreamError
				require.ErrorAs(t, err, &upstream)
				assert.Equal(t, tt.wantErr, upstream.Message)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, employees)
			assert.Len(t, employees, tt.wantLen)
		})
	}
}

func TestGetEmployees_DecodesMixedIDs(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, employeesJSON)
	})

	employees, err := svc.GetEmployees(context.Background())
	require.NoError(t, err)

	assert.Equal(t, yellowcard.ID("EMP-37226"), employees[0].ID)
	assert.Equal(t, yellowcard.ID("1"), employees[0].Violations[0].ID)
	assert.Equal(t, yellowcard.ID("g-1"), employees[0].GreenCards[0].ID)
	assert.Nil(t, employees[2].GreenCards)
}

func TestGetEmployees_PassesTransportErrorsThrough(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := svc.GetEmployees(context.Background())

	var httpErr *apiclient.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "HTTP 502: Bad Gateway", err.Error())
}

func TestGetEmployees_ObjectPayloadIsMalformed(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"employees": []}`)
	})

	_, err := svc.GetEmployees(context.Background())

	assert.Equal(t, apiclient.KindMalformed, apiclient.Kind(err))
}

func TestCalculateStats_Empty(t *testing.T) {
	svc := newYellowCardService(nil, nil)

	for _, input := range [][]yellowcard.Employee{nil, {}} {
		stats := svc.CalculateStats(input)
		assert.Equal(t, 0, stats.TotalEmployees)
		assert.Equal(t, 0, stats.TotalViolations)
		assert.Equal(t, 0, stats.TotalGreenCards)
		assert.Equal(t, 0, stats.EmployeesWithViolations)
		assert.Equal(t, 0, stats.EmployeesWithGreenCards)
		assert.Equal(t, 0.0, stats.AverageViolationsPerEmployee)
		assert.Equal(t, 0.0, stats.AverageGreenCardsPerEmployee)
		assert.Equal(t, 0, stats.TotalDepartments)
		assert.Empty(t, stats.ViolationsByType)
	}
}

func TestCalculateStats_Populated(t *testing.T) {
	var employees []yellowcard.Employee
	require.NoError(t, json.Unmarshal([]byte(employeesJSON), &employees))

	stats := newYellowCardService(nil, nil).CalculateStats(employees)

	assert.Equal(t, 3, stats.TotalEmployees)
	assert.Equal(t, 3, stats.TotalViolations)
	assert.Equal(t, 1, stats.TotalGreenCards)
	assert.Equal(t, 2, stats.EmployeesWithViolations)
	assert.Equal(t, 1, stats.EmployeesWithGreenCards)
	assert.Equal(t, 1.0, stats.AverageViolationsPerEmployee)
	assert.Equal(t, 0.33, stats.AverageGreenCardsPerEmployee)
	assert.Equal(t, 2, stats.TotalDepartments)
	assert.Equal(t, map[string]int{"documentation": 1, "workflow": 1, "communication": 1}, stats.ViolationsByType)
	assert.Equal(t, map[string]int{"achievement": 1}, stats.GreenCardsByType)
}

func TestAverage_RoundsToTwoPlaces(t *testing.T) {
	assert.Equal(t, 1.67, average(5, 3))
	assert.Equal(t, 0.67, average(2, 3))
	assert.Equal(t, 2.5, average(5, 2))
	assert.Equal(t, 0.0, average(4, 0))
}

func TestGetEmployeesWithStats_StampsTimestamp(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, employeesJSON)
	})
	svc.now = func() time.Time { return time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC) }

	res, err := svc.GetEmployeesWithStats(context.Background())

	require.NoError(t, err)
	assert.Len(t, res.Employees, 3)
	assert.Equal(t, 3, res.Stats.TotalEmployees)
	assert.Equal(t, "2024-01-15T10:30:00.000Z", res.LastUpdated)
}

func TestAddViolation(t *testing.T) {
	var got map[string]interface{}
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/add-violation", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"success": true, "id": 99}`)
	})

	ack, err := svc.AddViolation(context.Background(), yellowcard.AddViolationRequest{
		EmployeeID:  "EMP-37226",
		Type:        "Documentation",
		Description: "missing report",
		Date:        "2024-01-15",
	})

	require.NoError(t, err)
	assert.JSONEq(t, `{"success": true, "id": 99}`, string(ack))
	assert.Equal(t, "EMP-37226", got["employeeId"])
	assert.Equal(t, "Documentation", got["type"])
}

func TestAddGreenCard_Validation(t *testing.T) {
	called := false
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := svc.AddGreenCard(context.Background(), yellowcard.AddGreenCardRequest{
		EmployeeID: " ",
		Type:       "bonus",
		Date:       "15/01/2024",
	})

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := verrs.ToMap()
	assert.Contains(t, fields, "employeeId")
	assert.Contains(t, fields, "type")
	assert.Contains(t, fields, "description")
	assert.Contains(t, fields, "date")
	assert.False(t, called)
}

func TestAddGreenCard_AcceptsRecognitionTypes(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/add-green-card", r.URL.Path)
		_, _ = io.WriteString(w, `{"success": true}`)
	})

	_, err := svc.AddGreenCard(context.Background(), yellowcard.AddGreenCardRequest{
		EmployeeID:  "EMP-37226",
		Type:        "Recognition",
		Description: "helped onboarding",
		Date:        "2024-01-15T08:00:00Z",
	})

	require.NoError(t, err)
}

func TestAddViolation_RejectsGreenCardOnlyType(t *testing.T) {
	svc := newYellowCardService(nil, nil)

	_, err := svc.AddViolation(context.Background(), yellowcard.AddViolationRequest{
		EmployeeID:  "EMP-37226",
		Type:        "achievement",
		Description: "x",
		Date:        "2024-01-15",
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "type")
}

func TestDeleteViolation_SendsBody(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/delete-violation", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"violationId": 12}`, string(body))
		_, _ = io.WriteString(w, `{"success": true}`)
	})

	_, err := svc.DeleteViolation(context.Background(), yellowcard.DeleteViolationRequest{ViolationID: 12})

	require.NoError(t, err)
}

func TestDeleteGreenCard_UpstreamRejects(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"greenCardId": 7}`, string(body))
		_, _ = io.WriteString(w, `{"success": false, "message": "Green card not found"}`)
	})

	_, err := svc.DeleteGreenCard(context.Background(), yellowcard.DeleteGreenCardRequest{GreenCardID: 7})

	var upstream *apiclient.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "Green card not found", upstream.Message)
}

func TestDeleteGreenCard_RejectsNonPositiveID(t *testing.T) {
	_, err := newYellowCardService(nil, nil).DeleteGreenCard(context.Background(), yellowcard.DeleteGreenCardRequest{})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
}

package yellowcard

import (
	"encoding/json"
	"strings"

	"github.com/anyemp/global-dashboard-go/internal/pkg/validator"
)

var (
	ViolationTypes = []string{"documentation", "workflow", "communication"}
	GreenCardTypes = []string{"documentation", "workflow", "communication", "achievement", "recognition"}
)

type Stats struct {
	TotalEmployees               int            `json:"totalEmployees"`
	TotalViolations              int            `json:"totalViolations"`
	TotalGreenCards              int            `json:"totalGreenCards"`
	EmployeesWithViolations      int            `json:"employeesWithViolations"`
	EmployeesWithGreenCards      int            `json:"employeesWithGreenCards"`
	AverageViolationsPerEmployee float64        `json:"averageViolationsPerEmployee"`
	AverageGreenCardsPerEmployee float64        `json:"averageGreenCardsPerEmployee"`
	TotalDepartments             int            `json:"totalDepartments"`
	ViolationsByType             map[string]int `json:"violationsByType"`
	GreenCardsByType             map[string]int `json:"greenCardsByType"`
}

type EmployeesWithStats struct {
	Employees   []Employee `json:"employees"`
	Stats       Stats      `json:"stats"`
	LastUpdated string     `json:"lastUpdated"`
}

// Acknowledgement is the upstream's raw reply to a write
type Acknowledgement = json.RawMessage

type AddViolationRequest struct {
	EmployeeID  string `json:"employeeId"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

func (r *AddViolationRequest) Validate() error {
	return validateEntry(r.EmployeeID, r.Type, r.Description, r.Date, ViolationTypes)
}

type AddGreenCardRequest struct {
	EmployeeID  string `json:"employeeId"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

func (r *AddGreenCardRequest) Validate() error {
	return validateEntry(r.EmployeeID, r.Type, r.Description, r.Date, GreenCardTypes)
}

func validateEntry(employeeID, entryType, description, date string, allowed []string) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(employeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employeeId",
			Message: "employeeId is required",
		})
	}

	if validator.IsEmpty(entryType) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type is required",
		})
	} else if !validator.IsOneOf(entryType, allowed) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: " + strings.Join(allowed, ", "),
		})
	}

	if validator.IsEmpty(description) {
		errs = append(errs, validator.ValidationError{
			Field:   "description",
			Message: "description is required",
		})
	}

	if validator.IsEmpty(date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if !validator.IsValidISODate(date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD or RFC3339 format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DeleteViolationRequest struct {
	ViolationID int64 `json:"violationId"`
}

func (r *DeleteViolationRequest) Validate() error {
	if r.ViolationID <= 0 {
		return validator.ValidationErrors{{
			Field:   "violationId",
			Message: "violationId must be a positive integer",
		}}
	}
	return nil
}

type DeleteGreenCardRequest struct {
	GreenCardID int64 `json:"greenCardId"`
}

func (r *DeleteGreenCardRequest) Validate() error {
	if r.GreenCardID <= 0 {
		return validator.ValidationErrors{{
			Field:   "greenCardId",
			Message: "greenCardId must be a positive integer",
		}}
	}
	return nil
}

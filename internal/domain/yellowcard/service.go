package yellowcard

import "context"

// YellowCardService is the adapter for the violation/recognition tracker
type YellowCardService interface {
	// GetEmployees returns every employee with their violations and green cards
	GetEmployees(ctx context.Context) ([]Employee, error)

	// CalculateStats derives summary statistics. It performs no I/O.
	CalculateStats(employees []Employee) Stats

	GetEmployeesWithStats(ctx context.Context) (*EmployeesWithStats, error)

	AddViolation(ctx context.Context, req AddViolationRequest) (Acknowledgement, error)
	AddGreenCard(ctx context.Context, req AddGreenCardRequest) (Acknowledgement, error)
	DeleteViolation(ctx context.Context, req DeleteViolationRequest) (Acknowledgement, error)
	DeleteGreenCard(ctx context.Context, req DeleteGreenCardRequest) (Acknowledgement, error)
}

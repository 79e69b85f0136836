package dashboard

import (
	"context"

	"github.com/anyemp/global-dashboard-go/internal/domain/dashboard"
)

// SourceOf adapts an adapter method such as GetEmployeesWithStats to a
// dashboard.Source. A nil result is reported as nil data, never as a typed nil.
func SourceOf[T any](fn func(ctx context.Context) (*T, error)) dashboard.Source {
	return dashboard.SourceFunc(func(ctx context.Context) (interface{}, error) {
		v, err := fn(ctx)
		if err != nil || v == nil {
			return nil, err
		}
		return v, nil
	})
}

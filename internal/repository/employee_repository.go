package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/spec-kit/employee-service/internal/domain"
)

var (
	// ErrNotFound is returned when a record id addresses nothing.
	ErrNotFound = errors.New("employee record not found")
	// ErrDuplicateEmployeeID is returned when a write would break employee_id uniqueness.
	ErrDuplicateEmployeeID = errors.New("employee id already exists")
)

// DuplicateError names the employee id that collided. It matches
// ErrDuplicateEmployeeID under errors.Is.
type DuplicateError struct {
	EmployeeID string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("employee id %s already exists", e.EmployeeID)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicateEmployeeID
}

func duplicateOf(employeeID string) error {
	return &DuplicateError{EmployeeID: employeeID}
}

// NextIDFunc computes the employee id to assign given the current maximum.
// found is false when the store is empty.
type NextIDFunc func(max string, found bool) (string, error)

// EmployeeRepository handles persistence for employee records.
type EmployeeRepository interface {
	// List returns every record in insertion order.
	List(ctx context.Context) ([]domain.Employee, error)
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*domain.Employee, error)
	// MaxEmployeeID returns the numerically highest employee id.
	MaxEmployeeID(ctx context.Context) (string, bool, error)
	// CreateNext reads the maximum employee id, asks next for the successor
	// and inserts emp with it as one serialized unit. On success emp carries
	// its record id, employee id and timestamps.
	CreateNext(ctx context.Context, emp *domain.Employee, next NextIDFunc) error
	Update(ctx context.Context, emp *domain.Employee) error
	// Delete removes the record and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

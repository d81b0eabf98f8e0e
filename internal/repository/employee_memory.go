package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/employee-service/internal/allocator"
	"github.com/spec-kit/employee-service/internal/domain"
)

type memoryEmployeeRepository struct {
	mu      sync.RWMutex
	records map[string]domain.Employee
	order   []string
	now     func() time.Time
}

// NewMemoryEmployeeRepository builds a process-local store. State is lost on restart.
func NewMemoryEmployeeRepository() EmployeeRepository {
	return &memoryEmployeeRepository{
		records: make(map[string]domain.Employee),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *memoryEmployeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Employee, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.records[id])
	}
	return result, nil
}

func (r *memoryEmployeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	emp, ok := r.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &emp, nil
}

func (r *memoryEmployeeRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if emp, ok := r.findByEmployeeID(employeeID); ok {
		return &emp, nil
	}
	return nil, ErrNotFound
}

func (r *memoryEmployeeRepository) MaxEmployeeID(ctx context.Context) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	max, found := r.maxEmployeeID()
	return max, found, nil
}

func (r *memoryEmployeeRepository) CreateNext(ctx context.Context, emp *domain.Employee, next NextIDFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	max, found := r.maxEmployeeID()
	employeeID, err := next(max, found)
	if err != nil {
		return err
	}
	if _, taken := r.findByEmployeeID(employeeID); taken {
		return duplicateOf(employeeID)
	}

	now := r.now()
	emp.ID = uuid.NewString()
	emp.EmployeeID = employeeID
	emp.CreatedAt = now
	emp.UpdatedAt = now

	r.records[emp.ID] = *emp
	r.order = append(r.order, emp.ID)
	return nil
}

func (r *memoryEmployeeRepository) Update(ctx context.Context, emp *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.records[emp.ID]
	if !ok {
		return ErrNotFound
	}
	if other, taken := r.findByEmployeeID(emp.EmployeeID); taken && other.ID != emp.ID {
		return duplicateOf(emp.EmployeeID)
	}

	emp.CreatedAt = current.CreatedAt
	emp.UpdatedAt = r.now()
	r.records[emp.ID] = *emp
	return nil
}

func (r *memoryEmployeeRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return false, nil
	}
	delete(r.records, id)
	for i, candidate := range r.order {
		if candidate == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (r *memoryEmployeeRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records), nil
}

func (r *memoryEmployeeRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

// callers must hold r.mu.
func (r *memoryEmployeeRepository) findByEmployeeID(employeeID string) (domain.Employee, bool) {
	for _, emp := range r.records {
		if emp.EmployeeID == employeeID {
			return emp, true
		}
	}
	return domain.Employee{}, false
}

// callers must hold r.mu.
func (r *memoryEmployeeRepository) maxEmployeeID() (string, bool) {
	var (
		max    string
		maxVal = -1
	)
	for _, emp := range r.records {
		n, err := allocator.Parse(emp.EmployeeID)
		if err != nil {
			continue
		}
		if n > maxVal {
			maxVal = n
			max = emp.EmployeeID
		}
	}
	return max, maxVal >= 0
}

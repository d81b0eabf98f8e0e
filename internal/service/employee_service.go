package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/allocator"
	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/events"
	"github.com/spec-kit/employee-service/internal/repository"
	apperrors "github.com/spec-kit/employee-service/pkg/util"
)

// EmployeeService mediates all employee mutations through allocation and uniqueness rules.
type EmployeeService struct {
	employees  repository.EmployeeRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// EmployeeDependencies bundles collaborators for the employee service.
type EmployeeDependencies struct {
	EmployeeRepo repository.EmployeeRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewEmployeeService constructs the service.
func NewEmployeeService(deps EmployeeDependencies) *EmployeeService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{
		employees:  deps.EmployeeRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// List returns every employee record in store order.
func (s *EmployeeService) List(ctx context.Context) ([]domain.Employee, error) {
	list, err := s.employees.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return list, nil
}

// Create validates fields, allocates the next employee id and persists the record.
func (s *EmployeeService) Create(ctx context.Context, fields domain.EmployeeFields) (*domain.Employee, error) {
	emp := &domain.Employee{
		FirstName:  strings.TrimSpace(fields.FirstName),
		LastName:   strings.TrimSpace(fields.LastName),
		Company:    strings.TrimSpace(fields.Company),
		Department: strings.TrimSpace(fields.Department),
	}
	if missing := missingFields(emp); len(missing) > 0 {
		return nil, apperrors.NewValidationError("required fields missing", map[string]any{"missing": missing})
	}

	if err := s.employees.CreateNext(ctx, emp, allocator.Next); err != nil {
		return nil, mapRepositoryError(err, "")
	}

	s.logger.Info("employee created", zap.String("record_id", emp.ID), zap.String("employee_id", emp.EmployeeID))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventEmployeeCreated,
		RecordID: emp.ID,
		Payload:  snapshot(emp),
	})
	return emp, nil
}

// PreviewNextID reports the id the next Create would receive. Nothing is
// reserved, so a concurrent Create may claim it first.
func (s *EmployeeService) PreviewNextID(ctx context.Context) (string, error) {
	max, found, err := s.employees.MaxEmployeeID(ctx)
	if err != nil {
		return "", apperrors.NewStoreError(err)
	}
	next, err := allocator.Next(max, found)
	if err != nil {
		return "", mapRepositoryError(err, "")
	}
	return next, nil
}

// Update applies patch to the record addressed by recordID. A supplied
// employee id must not belong to any other record.
func (s *EmployeeService) Update(ctx context.Context, recordID string, patch domain.EmployeePatch) (*domain.Employee, error) {
	patch = trimPatch(patch)
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	emp, err := s.employees.GetByID(ctx, recordID)
	if err != nil {
		return nil, mapRepositoryError(err, "")
	}
	previousEmployeeID := emp.EmployeeID

	if patch.EmployeeID != nil && *patch.EmployeeID != emp.EmployeeID {
		holder, err := s.employees.GetByEmployeeID(ctx, *patch.EmployeeID)
		switch {
		case err == nil && holder.ID != emp.ID:
			return nil, apperrors.NewDuplicateID(*patch.EmployeeID)
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NewStoreError(err)
		}
	}

	patch.Apply(emp)
	if err := s.employees.Update(ctx, emp); err != nil {
		return nil, mapRepositoryError(err, emp.EmployeeID)
	}

	s.logger.Info("employee updated", zap.String("record_id", emp.ID), zap.String("employee_id", emp.EmployeeID))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventEmployeeUpdated,
		RecordID: emp.ID,
		Payload: events.EmployeeUpdatedPayload{
			PreviousEmployeeID: previousEmployeeID,
			Current:            snapshot(emp),
		},
	})
	return emp, nil
}

// Delete removes the record addressed by recordID. Deleting an absent record
// succeeds without changing the store.
func (s *EmployeeService) Delete(ctx context.Context, recordID string) error {
	existing, err := s.employees.GetByID(ctx, recordID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewStoreError(err)
	}

	deleted, err := s.employees.Delete(ctx, recordID)
	if err != nil {
		return apperrors.NewStoreError(err)
	}
	if !deleted {
		s.logger.Debug("delete of absent employee ignored", zap.String("record_id", recordID))
		return nil
	}

	payload := events.EmployeeDeletedPayload{}
	if existing != nil {
		payload.EmployeeID = existing.EmployeeID
	}
	s.logger.Info("employee deleted", zap.String("record_id", recordID))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventEmployeeDeleted,
		RecordID: recordID,
		Payload:  payload,
	})
	return nil
}

func (s *EmployeeService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

// mapRepositoryError translates store errors. employeeID is used for a
// duplicate unless the store reported the colliding id itself.
func mapRepositoryError(err error, employeeID string) error {
	var (
		domainErr *apperrors.DomainError
		dupErr    *repository.DuplicateError
	)
	if errors.As(err, &dupErr) && dupErr.EmployeeID != "" {
		employeeID = dupErr.EmployeeID
	}
	switch {
	case errors.As(err, &domainErr):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound("employee", nil)
	case errors.Is(err, repository.ErrDuplicateEmployeeID):
		return apperrors.NewDuplicateID(employeeID)
	case errors.Is(err, allocator.ErrAllocationOverflow):
		return apperrors.NewAllocationOverflow(err)
	default:
		return apperrors.NewStoreError(err)
	}
}

func missingFields(emp *domain.Employee) []string {
	var missing []string
	if emp.FirstName == "" {
		missing = append(missing, "firstName")
	}
	if emp.LastName == "" {
		missing = append(missing, "lastName")
	}
	if emp.Company == "" {
		missing = append(missing, "company")
	}
	if emp.Department == "" {
		missing = append(missing, "department")
	}
	return missing
}

func trimPatch(p domain.EmployeePatch) domain.EmployeePatch {
	trim := func(v *string) *string {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)
		return &t
	}
	return domain.EmployeePatch{
		EmployeeID: trim(p.EmployeeID),
		FirstName:  trim(p.FirstName),
		LastName:   trim(p.LastName),
		Company:    trim(p.Company),
		Department: trim(p.Department),
	}
}

func validatePatch(p domain.EmployeePatch) error {
	var empty []string
	for name, v := range map[string]*string{
		"firstName":  p.FirstName,
		"lastName":   p.LastName,
		"company":    p.Company,
		"department": p.Department,
	} {
		if v != nil && *v == "" {
			empty = append(empty, name)
		}
	}
	if len(empty) > 0 {
		sort.Strings(empty)
		return apperrors.NewValidationError("fields must not be empty", map[string]any{"empty": empty})
	}
	if p.EmployeeID != nil && !allocator.Valid(*p.EmployeeID) {
		return apperrors.NewValidationError("employeeId must be exactly 5 digits", map[string]any{"employeeId": *p.EmployeeID})
	}
	return nil
}

func snapshot(emp *domain.Employee) events.EmployeeSnapshotPayload {
	return events.EmployeeSnapshotPayload{
		EmployeeID: emp.EmployeeID,
		FirstName:  emp.FirstName,
		LastName:   emp.LastName,
		Company:    emp.Company,
		Department: emp.Department,
	}
}

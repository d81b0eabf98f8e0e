package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/employee-service/internal/allocator"
	"github.com/spec-kit/employee-service/internal/domain"
)

var employeeRowColumns = []string{
	"id", "employee_id", "first_name", "last_name", "company", "department", "created_at", "updated_at",
}

const (
	lockSQL   = `SELECT pg_advisory_xact_lock($1)`
	maxSQL    = `SELECT employee_id FROM employees ORDER BY employee_id::int DESC LIMIT 1`
	insertSQL = `INSERT INTO employees (employee_id, first_name, last_name, company, department)`
	updateSQL = `UPDATE employees`
)

func newPostgresMock(t *testing.T) (pgxmock.PgxPoolIface, EmployeeRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewPostgresEmployeeRepository(mock)
}

func pgEmployee() *domain.Employee {
	return &domain.Employee{FirstName: "Ada", LastName: "Lovelace", Company: "Jitech", Department: "R&D"}
}

func TestPostgresCreateNextAllocatesUnderLock(t *testing.T) {
	mock, repo := newPostgresMock(t)
	recordID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockSQL)).
		WithArgs(employeeAllocLockKey).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(regexp.QuoteMeta(maxSQL)).
		WillReturnRows(pgxmock.NewRows([]string{"employee_id"}).AddRow("00003"))
	mock.ExpectQuery(regexp.QuoteMeta(insertSQL)).
		WithArgs("00004", "Ada", "Lovelace", "Jitech", "R&D").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(recordID, now, now))
	mock.ExpectCommit()

	emp := pgEmployee()
	require.NoError(t, repo.CreateNext(context.Background(), emp, allocator.Next))
	assert.Equal(t, "00004", emp.EmployeeID)
	assert.Equal(t, recordID.String(), emp.ID)
	assert.Equal(t, now, emp.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateNextEmptyTableStartsAtOne(t *testing.T) {
	mock, repo := newPostgresMock(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockSQL)).
		WithArgs(employeeAllocLockKey).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(regexp.QuoteMeta(maxSQL)).WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(insertSQL)).
		WithArgs("00001", "Ada", "Lovelace", "Jitech", "R&D").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(uuid.New(), now, now))
	mock.ExpectCommit()

	emp := pgEmployee()
	require.NoError(t, repo.CreateNext(context.Background(), emp, allocator.Next))
	assert.Equal(t, "00001", emp.EmployeeID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateNextUniqueViolation(t *testing.T) {
	mock, repo := newPostgresMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockSQL)).
		WithArgs(employeeAllocLockKey).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(regexp.QuoteMeta(maxSQL)).
		WillReturnRows(pgxmock.NewRows([]string{"employee_id"}).AddRow("00001"))
	mock.ExpectQuery(regexp.QuoteMeta(insertSQL)).
		WithArgs("00002", "Ada", "Lovelace", "Jitech", "R&D").
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "employees_employee_id_key"})
	mock.ExpectRollback()

	emp := pgEmployee()
	err := repo.CreateNext(context.Background(), emp, allocator.Next)
	require.ErrorIs(t, err, ErrDuplicateEmployeeID)

	var dupErr *DuplicateError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "00002", dupErr.EmployeeID)
	assert.Empty(t, emp.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateNextOverflowInsertsNothing(t *testing.T) {
	mock, repo := newPostgresMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockSQL)).
		WithArgs(employeeAllocLockKey).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(regexp.QuoteMeta(maxSQL)).
		WillReturnRows(pgxmock.NewRows([]string{"employee_id"}).AddRow("99999"))
	mock.ExpectRollback()

	err := repo.CreateNext(context.Background(), pgEmployee(), allocator.Next)
	assert.ErrorIs(t, err, allocator.ErrAllocationOverflow)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateNextLockFailure(t *testing.T) {
	mock, repo := newPostgresMock(t)
	cause := errors.New("canceling statement due to lock timeout")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockSQL)).
		WithArgs(employeeAllocLockKey).
		WillReturnError(cause)
	mock.ExpectRollback()

	err := repo.CreateNext(context.Background(), pgEmployee(), allocator.Next)
	assert.ErrorIs(t, err, cause)
	assert.ErrorContains(t, err, "acquire allocation lock")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetByID(t *testing.T) {
	mock, repo := newPostgresMock(t)
	ctx := context.Background()
	recordID := uuid.New()
	now := time.Now().UTC()

	_, err := repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM employees WHERE id=$1`)).
		WithArgs(recordID).
		WillReturnRows(pgxmock.NewRows(employeeRowColumns).
			AddRow(recordID, "00002", "Ada", "Lovelace", "Jitech", "R&D", now, now))
	emp, err := repo.GetByID(ctx, recordID.String())
	require.NoError(t, err)
	assert.Equal(t, "00002", emp.EmployeeID)
	assert.Equal(t, recordID.String(), emp.ID)

	missing := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM employees WHERE id=$1`)).
		WithArgs(missing).
		WillReturnError(pgx.ErrNoRows)
	_, err = repo.GetByID(ctx, missing.String())
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdate(t *testing.T) {
	mock, repo := newPostgresMock(t)
	ctx := context.Background()
	recordID := uuid.New()
	now := time.Now().UTC()

	bad := pgEmployee()
	bad.ID = "not-a-uuid"
	assert.ErrorIs(t, repo.Update(ctx, bad), ErrNotFound)

	emp := pgEmployee()
	emp.ID = recordID.String()
	emp.EmployeeID = "00005"

	mock.ExpectQuery(updateSQL).
		WithArgs("00005", "Ada", "Lovelace", "Jitech", "R&D", recordID).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	require.NoError(t, repo.Update(ctx, emp))
	assert.Equal(t, now, emp.UpdatedAt)

	mock.ExpectQuery(updateSQL).
		WithArgs("00005", "Ada", "Lovelace", "Jitech", "R&D", recordID).
		WillReturnError(pgx.ErrNoRows)
	assert.ErrorIs(t, repo.Update(ctx, emp), ErrNotFound)

	mock.ExpectQuery(updateSQL).
		WithArgs("00005", "Ada", "Lovelace", "Jitech", "R&D", recordID).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})
	err := repo.Update(ctx, emp)
	var dupErr *DuplicateError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "00005", dupErr.EmployeeID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDelete(t *testing.T) {
	mock, repo := newPostgresMock(t)
	ctx := context.Background()
	recordID := uuid.New()

	deleted, err := repo.Delete(ctx, "not-a-uuid")
	require.NoError(t, err)
	assert.False(t, deleted)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM employees WHERE id=$1`)).
		WithArgs(recordID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	deleted, err = repo.Delete(ctx, recordID.String())
	require.NoError(t, err)
	assert.True(t, deleted)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM employees WHERE id=$1`)).
		WithArgs(recordID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	deleted, err = repo.Delete(ctx, recordID.String())
	require.NoError(t, err)
	assert.False(t, deleted)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListAndMax(t *testing.T) {
	mock, repo := newPostgresMock(t)
	ctx := context.Background()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM employees ORDER BY created_at, employee_id`)).
		WillReturnRows(pgxmock.NewRows(employeeRowColumns).
			AddRow(uuid.New(), "00001", "Ada", "Lovelace", "Jitech", "R&D", now, now).
			AddRow(uuid.New(), "00002", "Grace", "Hopper", "Navy", "Compilers", now, now))
	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Hopper", list[1].LastName)

	mock.ExpectQuery(regexp.QuoteMeta(maxSQL)).WillReturnError(pgx.ErrNoRows)
	max, found, err := repo.MaxEmployeeID(ctx)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, max)

	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/employee-service/internal/domain"
)

// employeeAllocLockKey serializes allocate+insert across every connection to the database.
const employeeAllocLockKey int64 = 0x656d706c6f796565

const pgUniqueViolation = "23505"

const employeeColumns = `id, employee_id, first_name, last_name, company, department, created_at, updated_at`

// PgxPool is the subset of *pgxpool.Pool the employee store uses.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

type postgresEmployeeRepository struct {
	pool PgxPool
}

// NewPostgresEmployeeRepository instantiates the repository.
func NewPostgresEmployeeRepository(pool PgxPool) EmployeeRepository {
	return &postgresEmployeeRepository{pool: pool}
}

func (r *postgresEmployeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY created_at, employee_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *emp)
	}
	return result, rows.Err()
}

func (r *postgresEmployeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	recordID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id=$1`
	return notFoundOnNoRows(scanEmployee(r.pool.QueryRow(ctx, query, recordID)))
}

func (r *postgresEmployeeRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employee_id=$1`
	return notFoundOnNoRows(scanEmployee(r.pool.QueryRow(ctx, query, employeeID)))
}

func (r *postgresEmployeeRepository) MaxEmployeeID(ctx context.Context) (string, bool, error) {
	return maxEmployeeID(ctx, r.pool)
}

func (r *postgresEmployeeRepository) CreateNext(ctx context.Context, emp *domain.Employee, next NextIDFunc) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, employeeAllocLockKey); err != nil {
		return fmt.Errorf("acquire allocation lock: %w", err)
	}

	max, found, err := maxEmployeeID(ctx, tx)
	if err != nil {
		return err
	}
	employeeID, err := next(max, found)
	if err != nil {
		return err
	}

	const query = `
        INSERT INTO employees (employee_id, first_name, last_name, company, department)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`

	var recordID uuid.UUID
	if err := tx.QueryRow(ctx, query,
		employeeID,
		emp.FirstName,
		emp.LastName,
		emp.Company,
		emp.Department,
	).Scan(&recordID, &emp.CreatedAt, &emp.UpdatedAt); err != nil {
		return mapUniqueViolation(err, employeeID)
	}

	if err := tx.Commit(ctx); err != nil {
		return mapUniqueViolation(err, employeeID)
	}
	emp.ID = recordID.String()
	emp.EmployeeID = employeeID
	return nil
}

func (r *postgresEmployeeRepository) Update(ctx context.Context, emp *domain.Employee) error {
	recordID, err := uuid.Parse(emp.ID)
	if err != nil {
		return ErrNotFound
	}

	const query = `
        UPDATE employees
        SET employee_id=$1, first_name=$2, last_name=$3, company=$4, department=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING created_at, updated_at`

	err = r.pool.QueryRow(ctx, query,
		emp.EmployeeID,
		emp.FirstName,
		emp.LastName,
		emp.Company,
		emp.Department,
		recordID,
	).Scan(&emp.CreatedAt, &emp.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return mapUniqueViolation(err, emp.EmployeeID)
}

func (r *postgresEmployeeRepository) Delete(ctx context.Context, id string) (bool, error) {
	recordID, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM employees WHERE id=$1`, recordID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *postgresEmployeeRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&n)
	return n, err
}

func (r *postgresEmployeeRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

type pgQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func maxEmployeeID(ctx context.Context, q pgQuerier) (string, bool, error) {
	const query = `SELECT employee_id FROM employees ORDER BY employee_id::int DESC LIMIT 1`

	var employeeID string
	if err := q.QueryRow(ctx, query).Scan(&employeeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return employeeID, true, nil
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var (
		emp      domain.Employee
		recordID uuid.UUID
	)
	if err := row.Scan(
		&recordID,
		&emp.EmployeeID,
		&emp.FirstName,
		&emp.LastName,
		&emp.Company,
		&emp.Department,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	); err != nil {
		return nil, err
	}
	emp.ID = recordID.String()
	return &emp, nil
}

func notFoundOnNoRows(emp *domain.Employee, err error) (*domain.Employee, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return emp, err
}

func mapUniqueViolation(err error, employeeID string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return duplicateOf(employeeID)
	}
	return err
}

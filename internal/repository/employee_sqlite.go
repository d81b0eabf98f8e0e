package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/spec-kit/employee-service/internal/domain"
)

const sqliteEmployeeColumns = `id, employee_id, first_name, last_name, company, department, created_at, updated_at`

type sqliteEmployeeRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteEmployeeRepository builds a repository over an open SQLite handle.
// Allocation relies on the handle opening write transactions immediately.
func NewSQLiteEmployeeRepository(db *sql.DB) EmployeeRepository {
	return &sqliteEmployeeRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *sqliteEmployeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+sqliteEmployeeColumns+` FROM employees ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Employee{}
	for rows.Next() {
		emp, err := scanSQLiteEmployee(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *emp)
	}
	return result, rows.Err()
}

func (r *sqliteEmployeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sqliteEmployeeColumns+` FROM employees WHERE id = ?`, id)
	return sqliteNotFound(scanSQLiteEmployee(row))
}

func (r *sqliteEmployeeRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sqliteEmployeeColumns+` FROM employees WHERE employee_id = ?`, employeeID)
	return sqliteNotFound(scanSQLiteEmployee(row))
}

func (r *sqliteEmployeeRepository) MaxEmployeeID(ctx context.Context) (string, bool, error) {
	return sqliteMaxEmployeeID(ctx, r.db)
}

func (r *sqliteEmployeeRepository) CreateNext(ctx context.Context, emp *domain.Employee, next NextIDFunc) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	max, found, err := sqliteMaxEmployeeID(ctx, tx)
	if err != nil {
		return err
	}
	employeeID, err := next(max, found)
	if err != nil {
		return err
	}

	now := r.now()
	recordID := uuid.NewString()
	if _, err := tx.ExecContext(ctx, `
        INSERT INTO employees (id, employee_id, first_name, last_name, company, department, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		recordID,
		employeeID,
		emp.FirstName,
		emp.LastName,
		emp.Company,
		emp.Department,
		now,
		now,
	); err != nil {
		return mapSQLiteUnique(err, employeeID)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	emp.ID = recordID
	emp.EmployeeID = employeeID
	emp.CreatedAt = now
	emp.UpdatedAt = now
	return nil
}

func (r *sqliteEmployeeRepository) Update(ctx context.Context, emp *domain.Employee) error {
	now := r.now()
	res, err := r.db.ExecContext(ctx, `
        UPDATE employees
        SET employee_id = ?, first_name = ?, last_name = ?, company = ?, department = ?, updated_at = ?
        WHERE id = ?`,
		emp.EmployeeID,
		emp.FirstName,
		emp.LastName,
		emp.Company,
		emp.Department,
		now,
		emp.ID,
	)
	if err != nil {
		return mapSQLiteUnique(err, emp.EmployeeID)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	emp.UpdatedAt = now
	return nil
}

func (r *sqliteEmployeeRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *sqliteEmployeeRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&n)
	return n, err
}

func (r *sqliteEmployeeRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type sqlQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sqlScanner interface {
	Scan(dest ...any) error
}

func sqliteMaxEmployeeID(ctx context.Context, q sqlQuerier) (string, bool, error) {
	var employeeID string
	err := q.QueryRowContext(ctx,
		`SELECT employee_id FROM employees ORDER BY CAST(employee_id AS INTEGER) DESC LIMIT 1`,
	).Scan(&employeeID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return employeeID, true, nil
}

func scanSQLiteEmployee(row sqlScanner) (*domain.Employee, error) {
	var emp domain.Employee
	if err := row.Scan(
		&emp.ID,
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
	return &emp, nil
}

func sqliteNotFound(emp *domain.Employee, err error) (*domain.Employee, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return emp, err
}

func mapSQLiteUnique(err error, employeeID string) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return duplicateOf(employeeID)
	}
	return err
}

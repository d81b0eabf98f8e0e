package domain

import "time"

// Employee is a single persisted employee record.
type Employee struct {
	ID         string
	EmployeeID string
	FirstName  string
	LastName   string
	Company    string
	Department string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// EmployeeFields carries the caller-supplied attributes of a new employee.
type EmployeeFields struct {
	FirstName  string
	LastName   string
	Company    string
	Department string
}

// EmployeePatch carries optional attribute changes. Nil means "leave as is".
type EmployeePatch struct {
	EmployeeID *string
	FirstName  *string
	LastName   *string
	Company    *string
	Department *string
}

// Apply copies every set field of p onto e.
func (p EmployeePatch) Apply(e *Employee) {
	if p.EmployeeID != nil {
		e.EmployeeID = *p.EmployeeID
	}
	if p.FirstName != nil {
		e.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		e.LastName = *p.LastName
	}
	if p.Company != nil {
		e.Company = *p.Company
	}
	if p.Department != nil {
		e.Department = *p.Department
	}
}

package dto

import "time"

// EmployeeCreateRequest payload. A client-supplied employeeId is ignored.
type EmployeeCreateRequest struct {
	FirstName  string `json:"firstName" form:"firstName"`
	LastName   string `json:"lastName" form:"lastName"`
	Company    string `json:"company" form:"company"`
	Department string `json:"department" form:"department"`
}

// EmployeeUpdateRequest payload. Omitted fields are left unchanged.
type EmployeeUpdateRequest struct {
	EmployeeID *string `json:"employeeId" form:"employeeId"`
	FirstName  *string `json:"firstName" form:"firstName"`
	LastName   *string `json:"lastName" form:"lastName"`
	Company    *string `json:"company" form:"company"`
	Department *string `json:"department" form:"department"`
}

// EmployeeResponse is the wire form of an employee record.
type EmployeeResponse struct {
	ID         string    `json:"_id"`
	EmployeeID string    `json:"employeeId"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Company    string    `json:"company"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// MessageResponse carries a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/employee-service/internal/api/dto"
	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/service"
	apperrors "github.com/spec-kit/employee-service/pkg/util"
)

// EmployeesHandler exposes employee CRUD endpoints.
type EmployeesHandler struct {
	employees *service.EmployeeService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(employees *service.EmployeeService) *EmployeesHandler {
	return &EmployeesHandler{employees: employees}
}

// List handles GET /employees.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	list, err := h.employees.List(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.EmployeeResponse, 0, len(list))
	for i := range list {
		resp = append(resp, employeeResponse(&list[i]))
	}
	return c.JSON(resp)
}

// Create handles POST /employees.
func (h *EmployeesHandler) Create(c *fiber.Ctx) error {
	var req dto.EmployeeCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	emp, err := h.employees.Create(c.UserContext(), domain.EmployeeFields{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Company:    req.Company,
		Department: req.Department,
	})
	if err != nil {
		return apperrors.WithStoreStatus(err, http.StatusBadRequest)
	}
	return c.Status(http.StatusCreated).JSON(employeeResponse(emp))
}

// NextID handles GET /employees/next-id.
func (h *EmployeesHandler) NextID(c *fiber.Ctx) error {
	next, err := h.employees.PreviewNextID(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(next)
}

// Update handles PUT /employees/:id.
func (h *EmployeesHandler) Update(c *fiber.Ctx) error {
	var req dto.EmployeeUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	emp, err := h.employees.Update(c.UserContext(), c.Params("id"), domain.EmployeePatch{
		EmployeeID: req.EmployeeID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Company:    req.Company,
		Department: req.Department,
	})
	if err != nil {
		return apperrors.WithStoreStatus(err, http.StatusBadRequest)
	}
	return c.JSON(employeeResponse(emp))
}

// Delete handles DELETE /employees/:id.
func (h *EmployeesHandler) Delete(c *fiber.Ctx) error {
	if err := h.employees.Delete(c.UserContext(), c.Params("id")); err != nil {
		return apperrors.WithStoreStatus(err, http.StatusBadRequest)
	}
	return c.JSON(dto.MessageResponse{Message: "Employee deleted"})
}

func employeeResponse(emp *domain.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:         emp.ID,
		EmployeeID: emp.EmployeeID,
		FirstName:  emp.FirstName,
		LastName:   emp.LastName,
		Company:    emp.Company,
		Department: emp.Department,
		CreatedAt:  emp.CreatedAt,
		UpdatedAt:  emp.UpdatedAt,
	}
}

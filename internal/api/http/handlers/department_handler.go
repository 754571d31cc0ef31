package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/department-service/internal/api/dto"
	"github.com/spec-kit/department-service/internal/service"
	apperrors "github.com/spec-kit/department-service/pkg/util/errorutil"
)

const departmentDeletedMessage = "Department deleted successfully!"

// DepartmentHandler exposes department CRUD endpoints.
type DepartmentHandler struct {
	service *service.DepartmentService
}

// NewDepartmentHandler constructs handler.
func NewDepartmentHandler(departmentService *service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{service: departmentService}
}

// Create POST /api/departments.
func (h *DepartmentHandler) Create(c *fiber.Ctx) error {
	var req dto.DepartmentDto
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	created, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": created})
}

// GetByID GET /api/departments/:id.
func (h *DepartmentHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseDepartmentID(c)
	if err != nil {
		return err
	}
	dept, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dept})
}

// GetAll GET /api/departments.
func (h *DepartmentHandler) GetAll(c *fiber.Ctx) error {
	departments, err := h.service.GetAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": departments})
}

// Update PUT /api/departments/:id.
func (h *DepartmentHandler) Update(c *fiber.Ctx) error {
	id, err := parseDepartmentID(c)
	if err != nil {
		return err
	}
	var req dto.DepartmentDto
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	updated, err := h.service.Update(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": updated})
}

// Delete DELETE /api/departments/:id.
func (h *DepartmentHandler) Delete(c *fiber.Ctx) error {
	id, err := parseDepartmentID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DeleteResponse{Message: departmentDeletedMessage}})
}

func parseDepartmentID(c *fiber.Ctx) (int64, error) {
	raw := c.Params("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid department id", map[string]any{"id": raw})
	}
	return id, nil
}

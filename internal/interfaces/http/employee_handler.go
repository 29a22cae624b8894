package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Carnet-api/internal/application/dto"
	"github.com/jhoicas/Carnet-api/internal/application/employee"
	"github.com/jhoicas/Carnet-api/internal/domain/entity"
)

// EmployeeHandler maneja el CRUD de empleados.
type EmployeeHandler struct {
	uc *employee.UseCase
}

// NewEmployeeHandler construye el handler de empleados.
func NewEmployeeHandler(uc *employee.UseCase) *EmployeeHandler {
	return &EmployeeHandler{uc: uc}
}

// Create godoc
// @Summary      Crear empleado (solo admin)
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EmployeeRequest  true  "datos del empleado"
// @Success      201   {object}  dto.EmployeeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/employees [post]
func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	var in dto.EmployeeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	emp, err := h.uc.Create(c.Context(), Actor(c), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toEmployeeResponse(emp))
}

// Update godoc
// @Summary      Actualizar empleado (solo admin)
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del empleado"
// @Param        body  body  dto.EmployeeRequest  true  "datos del empleado"
// @Success      200   {object}  dto.EmployeeResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/employees/{id} [put]
func (h *EmployeeHandler) Update(c *fiber.Ctx) error {
	var in dto.EmployeeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	emp, err := h.uc.Update(c.Context(), Actor(c), c.Params("id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toEmployeeResponse(emp))
}

// Delete godoc
// @Summary      Eliminar empleado (solo admin)
// @Tags         employees
// @Produce      json
// @Param        id  path  string  true  "ID del empleado"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), Actor(c), c.Params("id")); err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.MessageResponse{Success: true})
}

// GetByID godoc
// @Summary      Obtener empleado
// @Tags         employees
// @Produce      json
// @Param        id  path  string  true  "ID del empleado"
// @Success      200  {object}  dto.EmployeeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/employees/{id} [get]
func (h *EmployeeHandler) GetByID(c *fiber.Ctx) error {
	emp, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toEmployeeResponse(emp))
}

// List godoc
// @Summary      Listar empleados
// @Tags         employees
// @Produce      json
// @Param        limit   query  int  false  "máximo de filas"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.EmployeeResponse
// @Router       /api/employees [get]
func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		page = dto.PageRequest{}
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.EmployeeResponse, 0, len(list))
	for _, emp := range list {
		out = append(out, toEmployeeResponse(emp))
	}
	return c.JSON(out)
}

func toEmployeeResponse(e *entity.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:          e.ID,
		FullName:    e.FullName,
		Designation: e.Designation,
		Department:  e.Department,
		Email:       e.Email,
		Phone:       e.Phone,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

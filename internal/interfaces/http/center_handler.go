package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cafetrace-api/internal/application/dto"
	"github.com/jhoicas/Cafetrace-api/internal/application/usecase"
)

// CenterHandler maneja las peticiones HTTP del registro de centros (protegido).
type CenterHandler struct {
	uc *usecase.CenterUseCase
}

// NewCenterHandler construye el handler.
func NewCenterHandler(uc *usecase.CenterUseCase) *CenterHandler {
	return &CenterHandler{uc: uc}
}

// Create godoc
// @Summary      Crear centro
// @Tags         centers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCenterRequest  true  "name, type (Washing Station | Temporary Warehouse | Main Warehouse), address"
// @Success      201   {object}  dto.CenterResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/centers [post]
func (h *CenterHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCenterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" || in.Type == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name y type son requeridos"})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener centro por ID
// @Tags         centers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del centro"
// @Success      200  {object}  dto.CenterResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/centers/{id} [get]
func (h *CenterHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(id)
	if err != nil {
		return respondDomainError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "centro no encontrado"})
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar centro
// @Tags         centers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del centro"
// @Param        body  body  dto.UpdateCenterRequest  true  "name, type, address"
// @Success      200   {object}  dto.CenterResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/centers/{id} [put]
func (h *CenterHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdateCenterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(id, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar centros
// @Tags         centers
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.CenterListResponse
// @Router       /api/centers [get]
func (h *CenterHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar centro
// @Description  Solo se puede eliminar un centro sin stock registrado.
// @Tags         centers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del centro"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/centers/{id} [delete]
func (h *CenterHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.Delete(id); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "centro eliminado"})
}

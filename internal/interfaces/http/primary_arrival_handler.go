package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cafetrace-api/internal/application/dto"
	"github.com/jhoicas/Cafetrace-api/internal/application/supplychain"
	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
)

// PrimaryArrivalHandler maneja el ciclo de vida de las llegadas primarias (protegido).
type PrimaryArrivalHandler struct {
	uc *supplychain.PrimaryArrivalUseCase
}

// NewPrimaryArrivalHandler construye el handler.
func NewPrimaryArrivalHandler(uc *supplychain.PrimaryArrivalUseCase) *PrimaryArrivalHandler {
	return &PrimaryArrivalHandler{uc: uc}
}

// Create godoc
// @Summary      Crear llegada primaria (borrador)
// @Tags         primary-arrivals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SavePrimaryArrivalRequest  true  "center, supplier_ref, collected_weight_kg"
// @Success      201   {object}  dto.PrimaryArrivalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/primary-arrivals [post]
func (h *PrimaryArrivalHandler) Create(c *fiber.Ctx) error {
	var in dto.SavePrimaryArrivalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.Create(c.Context(), GetUserID(c), toPrimaryArrivalInput(in))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPrimaryArrivalResponse(doc))
}

// Save godoc
// @Summary      Guardar llegada primaria (solo borrador)
// @Tags         primary-arrivals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID del documento"
// @Param        body  body  dto.SavePrimaryArrivalRequest  true  "Campos del documento"
// @Success      200   {object}  dto.PrimaryArrivalResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/primary-arrivals/{id} [put]
func (h *PrimaryArrivalHandler) Save(c *fiber.Ctx) error {
	var in dto.SavePrimaryArrivalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.Save(c.Context(), c.Params("id"), toPrimaryArrivalInput(in))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toPrimaryArrivalResponse(doc))
}

// Submit godoc
// @Summary      Enviar llegada primaria
// @Tags         primary-arrivals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.PrimaryArrivalResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/primary-arrivals/{id}/submit [post]
func (h *PrimaryArrivalHandler) Submit(c *fiber.Ctx) error {
	doc, err := h.uc.Submit(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toPrimaryArrivalResponse(doc))
}

// Cancel godoc
// @Summary      Cancelar llegada primaria enviada
// @Tags         primary-arrivals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.PrimaryArrivalResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/primary-arrivals/{id}/cancel [post]
func (h *PrimaryArrivalHandler) Cancel(c *fiber.Ctx) error {
	doc, err := h.uc.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toPrimaryArrivalResponse(doc))
}

// Trash godoc
// @Summary      Eliminar borrador de llegada primaria
// @Tags         primary-arrivals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/primary-arrivals/{id} [delete]
func (h *PrimaryArrivalHandler) Trash(c *fiber.Ctx) error {
	if err := h.uc.Trash(c.Context(), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "borrador eliminado"})
}

// GetByID godoc
// @Summary      Obtener llegada primaria por ID
// @Tags         primary-arrivals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.PrimaryArrivalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/primary-arrivals/{id} [get]
func (h *PrimaryArrivalHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	if doc == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "documento no encontrado"})
	}
	return c.JSON(toPrimaryArrivalResponse(doc))
}

// List godoc
// @Summary      Listar llegadas primarias
// @Tags         primary-arrivals
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.PrimaryArrivalResponse
// @Router       /api/primary-arrivals [get]
func (h *PrimaryArrivalHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	docs, err := h.uc.List(c.Context(), limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.PrimaryArrivalResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toPrimaryArrivalResponse(d))
	}
	return c.JSON(out)
}

func toPrimaryArrivalInput(in dto.SavePrimaryArrivalRequest) supplychain.PrimaryArrivalInput {
	return supplychain.PrimaryArrivalInput{
		Center:            in.Center,
		SupplierRef:       in.SupplierRef,
		CollectedWeightKg: in.CollectedWeightKg,
		ArrivalDate:       in.ArrivalDate,
		Remarks:           in.Remarks,
	}
}

func toPrimaryArrivalResponse(d *entity.PrimaryArrival) dto.PrimaryArrivalResponse {
	return dto.PrimaryArrivalResponse{
		ID:                d.ID,
		Center:            d.Center,
		SupplierRef:       d.SupplierRef,
		CollectedWeightKg: d.CollectedWeightKg,
		ArrivalDate:       d.ArrivalDate,
		State:             string(d.State),
		Remarks:           d.Remarks,
		CreatedBy:         d.CreatedBy,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cafetrace-api/internal/application/dto"
	"github.com/jhoicas/Cafetrace-api/internal/application/supplychain"
	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
)

// SecondaryArrivalHandler maneja el ciclo de vida de las llegadas de despacho (protegido).
type SecondaryArrivalHandler struct {
	uc *supplychain.SecondaryArrivalUseCase
}

// NewSecondaryArrivalHandler construye el handler.
func NewSecondaryArrivalHandler(uc *supplychain.SecondaryArrivalUseCase) *SecondaryArrivalHandler {
	return &SecondaryArrivalHandler{uc: uc}
}

// Create godoc
// @Summary      Crear llegada de despacho (borrador)
// @Tags         secondary-arrivals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaveSecondaryArrivalRequest  true  "dispatch_ref, arrival_center, delivery_status"
// @Success      201   {object}  dto.SecondaryArrivalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/secondary-arrivals [post]
func (h *SecondaryArrivalHandler) Create(c *fiber.Ctx) error {
	var in dto.SaveSecondaryArrivalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.Create(c.Context(), GetUserID(c), toSecondaryArrivalInput(in))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSecondaryArrivalResponse(doc))
}

// Save godoc
// @Summary      Guardar llegada de despacho (solo borrador; no postea)
// @Tags         secondary-arrivals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                           true  "ID del documento"
// @Param        body  body  dto.SaveSecondaryArrivalRequest  true  "Campos del documento"
// @Success      200   {object}  dto.SecondaryArrivalResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/secondary-arrivals/{id} [put]
func (h *SecondaryArrivalHandler) Save(c *fiber.Ctx) error {
	var in dto.SaveSecondaryArrivalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.Save(c.Context(), c.Params("id"), toSecondaryArrivalInput(in))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toSecondaryArrivalResponse(doc))
}

// Submit godoc
// @Summary      Enviar llegada de despacho (postea el reparto proporcional)
// @Tags         secondary-arrivals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.SecondaryArrivalResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/secondary-arrivals/{id}/submit [post]
func (h *SecondaryArrivalHandler) Submit(c *fiber.Ctx) error {
	doc, err := h.uc.Submit(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toSecondaryArrivalResponse(doc))
}

// Cancel godoc
// @Summary      Cancelar llegada de despacho enviada
// @Tags         secondary-arrivals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.SecondaryArrivalResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/secondary-arrivals/{id}/cancel [post]
func (h *SecondaryArrivalHandler) Cancel(c *fiber.Ctx) error {
	doc, err := h.uc.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toSecondaryArrivalResponse(doc))
}

// Trash godoc
// @Summary      Eliminar borrador de llegada de despacho
// @Tags         secondary-arrivals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/secondary-arrivals/{id} [delete]
func (h *SecondaryArrivalHandler) Trash(c *fiber.Ctx) error {
	if err := h.uc.Trash(c.Context(), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "borrador eliminado"})
}

// GetByID godoc
// @Summary      Obtener llegada de despacho por ID
// @Tags         secondary-arrivals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.SecondaryArrivalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/secondary-arrivals/{id} [get]
func (h *SecondaryArrivalHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	if doc == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "documento no encontrado"})
	}
	return c.JSON(toSecondaryArrivalResponse(doc))
}

// List godoc
// @Summary      Listar llegadas de despacho
// @Tags         secondary-arrivals
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.SecondaryArrivalResponse
// @Router       /api/secondary-arrivals [get]
func (h *SecondaryArrivalHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	docs, err := h.uc.List(c.Context(), limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.SecondaryArrivalResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toSecondaryArrivalResponse(d))
	}
	return c.JSON(out)
}

func toSecondaryArrivalInput(in dto.SaveSecondaryArrivalRequest) supplychain.SecondaryArrivalInput {
	return supplychain.SecondaryArrivalInput{
		DispatchRef:        in.DispatchRef,
		ArrivalCenter:      in.ArrivalCenter,
		DeliveryStatus:     in.DeliveryStatus,
		DispatchedWeightKg: in.DispatchedWeightKg,
		MissingWeightKg:    in.MissingWeightKg,
		ArrivalDate:        in.ArrivalDate,
		Remarks:            in.Remarks,
	}
}

func toSecondaryArrivalResponse(d *entity.SecondaryArrival) dto.SecondaryArrivalResponse {
	return dto.SecondaryArrivalResponse{
		ID:                 d.ID,
		DispatchRef:        d.DispatchRef,
		ArrivalCenter:      d.ArrivalCenter,
		SourceCenter:       d.SourceCenter,
		DeliveryStatus:     d.DeliveryStatus,
		DispatchedWeightKg: d.DispatchedWeightKg,
		MissingWeightKg:    d.MissingWeightKg,
		ArrivalDate:        d.ArrivalDate,
		State:              string(d.State),
		Remarks:            d.Remarks,
		CreatedBy:          d.CreatedBy,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

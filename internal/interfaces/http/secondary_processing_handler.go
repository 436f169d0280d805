package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cafetrace-api/internal/application/dto"
	"github.com/jhoicas/Cafetrace-api/internal/application/supplychain"
	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
)

// SecondaryProcessingHandler maneja el ciclo de vida de las trillas (protegido).
type SecondaryProcessingHandler struct {
	uc *supplychain.SecondaryProcessingUseCase
}

// NewSecondaryProcessingHandler construye el handler.
func NewSecondaryProcessingHandler(uc *supplychain.SecondaryProcessingUseCase) *SecondaryProcessingHandler {
	return &SecondaryProcessingHandler{uc: uc}
}

// Create godoc
// @Summary      Crear trilla (borrador)
// @Tags         secondary-processings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaveSecondaryProcessingRequest  true  "processing_center, weight_in_kg"
// @Success      201   {object}  dto.SecondaryProcessingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/secondary-processings [post]
func (h *SecondaryProcessingHandler) Create(c *fiber.Ctx) error {
	var in dto.SaveSecondaryProcessingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.Create(c.Context(), GetUserID(c), toSecondaryProcessingInput(in))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSecondaryProcessingResponse(doc))
}

// Save godoc
// @Summary      Guardar trilla (solo borrador)
// @Description  Cada guardado reconcilia el WIP contra el acopio pooled de
//
//	cereza seca y, si queda Completed, postea el café verde producido.
//
// @Tags         secondary-processings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                              true  "ID del documento"
// @Param        body  body  dto.SaveSecondaryProcessingRequest  true  "Campos del documento"
// @Success      200   {object}  dto.SecondaryProcessingResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/secondary-processings/{id} [put]
func (h *SecondaryProcessingHandler) Save(c *fiber.Ctx) error {
	var in dto.SaveSecondaryProcessingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.Save(c.Context(), c.Params("id"), toSecondaryProcessingInput(in))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toSecondaryProcessingResponse(doc))
}

// Submit godoc
// @Summary      Enviar trilla (requiere status Completed)
// @Tags         secondary-processings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.SecondaryProcessingResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/secondary-processings/{id}/submit [post]
func (h *SecondaryProcessingHandler) Submit(c *fiber.Ctx) error {
	doc, err := h.uc.Submit(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toSecondaryProcessingResponse(doc))
}

// Cancel godoc
// @Summary      Cancelar trilla enviada
// @Tags         secondary-processings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.SecondaryProcessingResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/secondary-processings/{id}/cancel [post]
func (h *SecondaryProcessingHandler) Cancel(c *fiber.Ctx) error {
	doc, err := h.uc.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toSecondaryProcessingResponse(doc))
}

// Trash godoc
// @Summary      Eliminar borrador de trilla
// @Tags         secondary-processings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/secondary-processings/{id} [delete]
func (h *SecondaryProcessingHandler) Trash(c *fiber.Ctx) error {
	if err := h.uc.Trash(c.Context(), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "borrador eliminado"})
}

// GetByID godoc
// @Summary      Obtener trilla por ID
// @Tags         secondary-processings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.SecondaryProcessingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/secondary-processings/{id} [get]
func (h *SecondaryProcessingHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	if doc == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "documento no encontrado"})
	}
	return c.JSON(toSecondaryProcessingResponse(doc))
}

// List godoc
// @Summary      Listar trillas
// @Tags         secondary-processings
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.SecondaryProcessingResponse
// @Router       /api/secondary-processings [get]
func (h *SecondaryProcessingHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	docs, err := h.uc.List(c.Context(), limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.SecondaryProcessingResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toSecondaryProcessingResponse(d))
	}
	return c.JSON(out)
}

func toSecondaryProcessingInput(in dto.SaveSecondaryProcessingRequest) supplychain.SecondaryProcessingInput {
	return supplychain.SecondaryProcessingInput{
		ProcessingCenter:    in.ProcessingCenter,
		ProcessedCenter:     in.ProcessedCenter,
		Status:              in.Status,
		WeightInKg:          in.WeightInKg,
		FinalOutputWeightKg: in.FinalOutputWeightKg,
		Remarks:             in.Remarks,
	}
}

func toSecondaryProcessingResponse(d *entity.SecondaryProcessing) dto.SecondaryProcessingResponse {
	return dto.SecondaryProcessingResponse{
		ID:                  d.ID,
		ProcessingCenter:    d.ProcessingCenter,
		ProcessedCenter:     d.ProcessedCenter,
		Status:              d.Status,
		WeightInKg:          d.WeightInKg,
		FinalOutputWeightKg: d.FinalOutputWeightKg,
		State:               string(d.State),
		Remarks:             d.Remarks,
		CreatedBy:           d.CreatedBy,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}

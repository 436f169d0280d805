package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cafetrace-api/internal/application/dto"
	"github.com/jhoicas/Cafetrace-api/internal/application/supplychain"
	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
)

// PrimaryDispatchHandler maneja el ciclo de vida de los despachos primarios (protegido).
type PrimaryDispatchHandler struct {
	uc   *supplychain.PrimaryDispatchUseCase
	note *supplychain.DispatchNoteUseCase
}

// NewPrimaryDispatchHandler construye el handler.
func NewPrimaryDispatchHandler(uc *supplychain.PrimaryDispatchUseCase, note *supplychain.DispatchNoteUseCase) *PrimaryDispatchHandler {
	return &PrimaryDispatchHandler{uc: uc, note: note}
}

// Create godoc
// @Summary      Crear despacho primario (borrador)
// @Tags         primary-dispatches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SavePrimaryDispatchRequest  true  "dispatched_from, destination, coffee_form, batches"
// @Success      201   {object}  dto.PrimaryDispatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/primary-dispatches [post]
func (h *PrimaryDispatchHandler) Create(c *fiber.Ctx) error {
	var in dto.SavePrimaryDispatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.Create(c.Context(), GetUserID(c), toPrimaryDispatchInput(in))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPrimaryDispatchResponse(doc))
}

// Save godoc
// @Summary      Guardar despacho primario (solo borrador)
// @Tags         primary-dispatches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID del documento"
// @Param        body  body  dto.SavePrimaryDispatchRequest  true  "Campos del documento"
// @Success      200   {object}  dto.PrimaryDispatchResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/primary-dispatches/{id} [put]
func (h *PrimaryDispatchHandler) Save(c *fiber.Ctx) error {
	var in dto.SavePrimaryDispatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.Save(c.Context(), c.Params("id"), toPrimaryDispatchInput(in))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toPrimaryDispatchResponse(doc))
}

// Submit godoc
// @Summary      Enviar despacho primario
// @Tags         primary-dispatches
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.PrimaryDispatchResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/primary-dispatches/{id}/submit [post]
func (h *PrimaryDispatchHandler) Submit(c *fiber.Ctx) error {
	doc, err := h.uc.Submit(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toPrimaryDispatchResponse(doc))
}

// Cancel godoc
// @Summary      Cancelar despacho primario enviado
// @Tags         primary-dispatches
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.PrimaryDispatchResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/primary-dispatches/{id}/cancel [post]
func (h *PrimaryDispatchHandler) Cancel(c *fiber.Ctx) error {
	doc, err := h.uc.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toPrimaryDispatchResponse(doc))
}

// Trash godoc
// @Summary      Eliminar borrador de despacho primario
// @Tags         primary-dispatches
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/primary-dispatches/{id} [delete]
func (h *PrimaryDispatchHandler) Trash(c *fiber.Ctx) error {
	if err := h.uc.Trash(c.Context(), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "borrador eliminado"})
}

// GetByID godoc
// @Summary      Obtener despacho primario por ID
// @Tags         primary-dispatches
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.PrimaryDispatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/primary-dispatches/{id} [get]
func (h *PrimaryDispatchHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	if doc == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "documento no encontrado"})
	}
	return c.JSON(toPrimaryDispatchResponse(doc))
}

// List godoc
// @Summary      Listar despachos primarios
// @Tags         primary-dispatches
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.PrimaryDispatchResponse
// @Router       /api/primary-dispatches [get]
func (h *PrimaryDispatchHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	docs, err := h.uc.List(c.Context(), limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.PrimaryDispatchResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toPrimaryDispatchResponse(d))
	}
	return c.JSON(out)
}

// DownloadNote godoc
// @Summary      Descargar la guía de remisión (PDF) de un despacho enviado
// @Tags         primary-dispatches
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/primary-dispatches/{id}/note.pdf [get]
func (h *PrimaryDispatchHandler) DownloadNote(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.note.DownloadDispatchNote(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

func toPrimaryDispatchInput(in dto.SavePrimaryDispatchRequest) supplychain.PrimaryDispatchInput {
	batches := make([]entity.DispatchBatch, 0, len(in.Batches))
	for _, b := range in.Batches {
		batches = append(batches, entity.DispatchBatch{BatchRef: b.BatchRef, QtyKg: b.QtyKg})
	}
	return supplychain.PrimaryDispatchInput{
		DispatchedFrom: in.DispatchedFrom,
		Destination:    in.Destination,
		CoffeeForm:     entity.CoffeeForm(in.CoffeeForm),
		CoffeeGrade:    in.CoffeeGrade,
		WeightInKg:     in.WeightInKg,
		Batches:        batches,
		DispatchDate:   in.DispatchDate,
		Remarks:        in.Remarks,
	}
}

func toPrimaryDispatchResponse(d *entity.PrimaryDispatch) dto.PrimaryDispatchResponse {
	batches := make([]dto.DispatchBatchDTO, 0, len(d.Batches))
	for _, b := range d.Batches {
		batches = append(batches, dto.DispatchBatchDTO{BatchRef: b.BatchRef, QtyKg: b.QtyKg})
	}
	return dto.PrimaryDispatchResponse{
		ID:             d.ID,
		DispatchedFrom: d.DispatchedFrom,
		Destination:    d.Destination,
		CoffeeForm:     string(d.CoffeeForm),
		CoffeeGrade:    d.CoffeeGrade,
		Status:         d.Status,
		WeightInKg:     d.WeightInKg,
		Batches:        batches,
		DispatchDate:   d.DispatchDate,
		State:          string(d.State),
		Remarks:        d.Remarks,
		CreatedBy:      d.CreatedBy,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

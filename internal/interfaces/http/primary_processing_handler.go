package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cafetrace-api/internal/application/dto"
	"github.com/jhoicas/Cafetrace-api/internal/application/supplychain"
	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
)

// PrimaryProcessingHandler maneja el ciclo de vida de los procesamientos primarios (protegido).
type PrimaryProcessingHandler struct {
	uc *supplychain.PrimaryProcessingUseCase
}

// NewPrimaryProcessingHandler construye el handler.
func NewPrimaryProcessingHandler(uc *supplychain.PrimaryProcessingUseCase) *PrimaryProcessingHandler {
	return &PrimaryProcessingHandler{uc: uc}
}

// Create godoc
// @Summary      Crear procesamiento primario (borrador)
// @Tags         primary-processings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SavePrimaryProcessingRequest  true  "processing_center, processing_type, weight_in_kg"
// @Success      201   {object}  dto.PrimaryProcessingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/primary-processings [post]
func (h *PrimaryProcessingHandler) Create(c *fiber.Ctx) error {
	var in dto.SavePrimaryProcessingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.Create(c.Context(), GetUserID(c), toPrimaryProcessingInput(in))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPrimaryProcessingResponse(doc))
}

// Save godoc
// @Summary      Guardar procesamiento primario (solo borrador)
// @Description  Cada guardado reconcilia el WIP contra el peso asignado y, si el
//
//	documento queda Completed, postea la conversión a café terminado.
//
// @Tags         primary-processings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                            true  "ID del documento"
// @Param        body  body  dto.SavePrimaryProcessingRequest  true  "Campos del documento"
// @Success      200   {object}  dto.PrimaryProcessingResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/primary-processings/{id} [put]
func (h *PrimaryProcessingHandler) Save(c *fiber.Ctx) error {
	var in dto.SavePrimaryProcessingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.Save(c.Context(), c.Params("id"), toPrimaryProcessingInput(in))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toPrimaryProcessingResponse(doc))
}

// Submit godoc
// @Summary      Enviar procesamiento primario (requiere status Completed)
// @Tags         primary-processings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.PrimaryProcessingResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/primary-processings/{id}/submit [post]
func (h *PrimaryProcessingHandler) Submit(c *fiber.Ctx) error {
	doc, err := h.uc.Submit(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toPrimaryProcessingResponse(doc))
}

// Cancel godoc
// @Summary      Cancelar procesamiento primario enviado
// @Tags         primary-processings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.PrimaryProcessingResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/primary-processings/{id}/cancel [post]
func (h *PrimaryProcessingHandler) Cancel(c *fiber.Ctx) error {
	doc, err := h.uc.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toPrimaryProcessingResponse(doc))
}

// Trash godoc
// @Summary      Eliminar borrador de procesamiento primario
// @Tags         primary-processings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/primary-processings/{id} [delete]
func (h *PrimaryProcessingHandler) Trash(c *fiber.Ctx) error {
	if err := h.uc.Trash(c.Context(), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "borrador eliminado"})
}

// GetByID godoc
// @Summary      Obtener procesamiento primario por ID
// @Tags         primary-processings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.PrimaryProcessingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/primary-processings/{id} [get]
func (h *PrimaryProcessingHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	if doc == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "documento no encontrado"})
	}
	return c.JSON(toPrimaryProcessingResponse(doc))
}

// List godoc
// @Summary      Listar procesamientos primarios
// @Tags         primary-processings
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.PrimaryProcessingResponse
// @Router       /api/primary-processings [get]
func (h *PrimaryProcessingHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	docs, err := h.uc.List(c.Context(), limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.PrimaryProcessingResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toPrimaryProcessingResponse(d))
	}
	return c.JSON(out)
}

func toProcessingStages(in []dto.ProcessingStageDTO) []entity.ProcessingStage {
	out := make([]entity.ProcessingStage, 0, len(in))
	for _, s := range in {
		out = append(out, entity.ProcessingStage{
			Seq:              s.Seq,
			Stage:            s.Stage,
			Status:           s.Status,
			FermentationMode: s.FermentationMode,
			StartTime:        s.StartTime,
			EndTime:          s.EndTime,
			ElapsedHours:     s.ElapsedHours,
			MoisturePct:      s.MoisturePct,
			MeasuredWeightKg: s.MeasuredWeightKg,
		})
	}
	return out
}

func toResourceUsages(in []dto.ResourceUsageDTO) []entity.ResourceUsage {
	out := make([]entity.ResourceUsage, 0, len(in))
	for _, r := range in {
		out = append(out, entity.ResourceUsage{
			ResourceID: r.ResourceID,
			StageSeq:   r.StageSeq,
			Hours:      r.Hours,
			Notes:      r.Notes,
		})
	}
	return out
}

func toProcessingStageDTOs(in []entity.ProcessingStage) []dto.ProcessingStageDTO {
	out := make([]dto.ProcessingStageDTO, 0, len(in))
	for _, s := range in {
		out = append(out, dto.ProcessingStageDTO{
			Seq:              s.Seq,
			Stage:            s.Stage,
			Status:           s.Status,
			FermentationMode: s.FermentationMode,
			StartTime:        s.StartTime,
			EndTime:          s.EndTime,
			ElapsedHours:     s.ElapsedHours,
			MoisturePct:      s.MoisturePct,
			MeasuredWeightKg: s.MeasuredWeightKg,
		})
	}
	return out
}

func toResourceUsageDTOs(in []entity.ResourceUsage) []dto.ResourceUsageDTO {
	out := make([]dto.ResourceUsageDTO, 0, len(in))
	for _, r := range in {
		out = append(out, dto.ResourceUsageDTO{
			ResourceID: r.ResourceID,
			StageSeq:   r.StageSeq,
			Hours:      r.Hours,
			Notes:      r.Notes,
		})
	}
	return out
}

func toPrimaryProcessingInput(in dto.SavePrimaryProcessingRequest) supplychain.PrimaryProcessingInput {
	return supplychain.PrimaryProcessingInput{
		ProcessingCenter:    in.ProcessingCenter,
		ProcessedCenter:     in.ProcessedCenter,
		ProcessingType:      entity.ProcessingType(in.ProcessingType),
		Status:              in.Status,
		WeightInKg:          in.WeightInKg,
		FinalOutputWeightKg: in.FinalOutputWeightKg,
		StageLogs:           toProcessingStages(in.StageLogs),
		WashingTanksUsed:    toResourceUsages(in.WashingTanksUsed),
		DryingBedsUsed:      toResourceUsages(in.DryingBedsUsed),
		Remarks:             in.Remarks,
	}
}

func toPrimaryProcessingResponse(d *entity.PrimaryProcessing) dto.PrimaryProcessingResponse {
	return dto.PrimaryProcessingResponse{
		ID:                  d.ID,
		ProcessingCenter:    d.ProcessingCenter,
		ProcessedCenter:     d.ProcessedCenter,
		ProcessingType:      string(d.ProcessingType),
		Status:              d.Status,
		WeightInKg:          d.WeightInKg,
		FinalOutputWeightKg: d.FinalOutputWeightKg,
		StageLogs:           toProcessingStageDTOs(d.StageLogs),
		WashingTanksUsed:    toResourceUsageDTOs(d.WashingTanksUsed),
		DryingBedsUsed:      toResourceUsageDTOs(d.DryingBedsUsed),
		State:               string(d.State),
		Remarks:             d.Remarks,
		CreatedBy:           d.CreatedBy,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}

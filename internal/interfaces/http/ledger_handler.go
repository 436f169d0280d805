package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cafetrace-api/internal/application/dto"
	"github.com/jhoicas/Cafetrace-api/internal/application/ledger"
)

// LedgerHandler maneja las consultas de balance y auditoría del ledger (protegido).
type LedgerHandler struct {
	uc *ledger.QueryUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *ledger.QueryUseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// Balance godoc
// @Summary      Saldo de un bucket o total cruzado
// @Description  Suma con signo de las entradas no canceladas. center y form son
//
//	obligatorios; status, batch_ref y coffee_grade acotan la suma.
//
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        center        query  string  true   "Centro"
// @Param        form          query  string  true   "Forma (Cherry | Parchment | Dried Cherry | Green Bean)"
// @Param        status        query  string  false  "Bucket status"
// @Param        batch_ref     query  string  false  "Lote"
// @Param        coffee_grade  query  string  false  "Grado"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/balance [get]
func (h *LedgerHandler) Balance(c *fiber.Ctx) error {
	var in dto.BalanceRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	if in.Center == "" || in.Form == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "center y form son requeridos"})
	}
	out, err := h.uc.Balance(in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// CenterStock godoc
// @Summary      Stock de un centro por bucket
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del centro"
// @Success      200  {object}  dto.CenterStockOverviewResponse
// @Router       /api/centers/{id}/stock [get]
func (h *LedgerHandler) CenterStock(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.CenterStock(id)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// EntriesByReference godoc
// @Summary      Entradas del ledger de un documento
// @Description  Incluye las canceladas, para auditoría.
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        doctype  query  string  true  "Doctype del documento (p. ej. Primary Dispatch)"
// @Param        name     query  string  true  "ID del documento"
// @Success      200  {array}   dto.MovementEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/entries [get]
func (h *LedgerHandler) EntriesByReference(c *fiber.Ctx) error {
	doctype := c.Query("doctype")
	name := c.Query("name")
	if doctype == "" || name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "doctype y name son requeridos"})
	}
	out, err := h.uc.EntriesByReference(doctype, name)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

package ledger

import (
	"github.com/jhoicas/Cafetrace-api/internal/application/dto"
	"github.com/jhoicas/Cafetrace-api/internal/domain"
	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
	"github.com/jhoicas/Cafetrace-api/internal/domain/repository"
)

// QueryUseCase lecturas del ledger para la API. Trabaja sobre un repositorio
// atado al pool: las consultas no abren transacción.
type QueryUseCase struct {
	engine *Engine
}

// NewQueryUseCase construye el caso de uso sobre un repositorio de solo lectura.
func NewQueryUseCase(repo repository.LedgerRepository) *QueryUseCase {
	return &QueryUseCase{engine: NewEngine(repo)}
}

func parseForm(s string) (entity.CoffeeForm, error) {
	switch entity.CoffeeForm(s) {
	case entity.FormCherry, entity.FormParchment, entity.FormDriedCherry, entity.FormGreenBean:
		return entity.CoffeeForm(s), nil
	}
	return "", domain.ErrInvalidInput
}

func parseStatus(s string) (entity.BucketStatus, error) {
	switch entity.BucketStatus(s) {
	case entity.StatusPrimaryArrival, entity.StatusInProcessing, entity.StatusSecondaryArrival,
		entity.StatusDispatchedToMain, entity.StatusDispatchedToSecondary, entity.StatusMainArrival:
		return entity.BucketStatus(s), nil
	}
	return "", domain.ErrInvalidInput
}

// Balance saldo del selector pedido. Center y Form son obligatorios; Status,
// BatchRef y CoffeeGrade acotan cuando vienen.
func (uc *QueryUseCase) Balance(in dto.BalanceRequest) (*dto.BalanceResponse, error) {
	if in.Center == "" {
		return nil, domain.ErrInvalidInput
	}
	form, err := parseForm(in.Form)
	if err != nil {
		return nil, err
	}
	q := BalanceQuery{Center: in.Center, Form: form}
	if in.Status != "" {
		status, err := parseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		q.Status = &status
	}
	if in.BatchRef != "" {
		q.BatchRef = &in.BatchRef
	}
	if in.CoffeeGrade != "" {
		q.CoffeeGrade = &in.CoffeeGrade
	}
	qty, err := uc.engine.Balance(q)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceResponse{
		Center:      in.Center,
		Form:        in.Form,
		Status:      in.Status,
		BatchRef:    in.BatchRef,
		CoffeeGrade: in.CoffeeGrade,
		QtyKg:       qty,
	}, nil
}

// CenterStock netos por bucket de todo el stock de un centro.
func (uc *QueryUseCase) CenterStock(center string) (*dto.CenterStockOverviewResponse, error) {
	if center == "" {
		return nil, domain.ErrInvalidInput
	}
	summaries, err := uc.engine.CenterSummaries(center)
	if err != nil {
		return nil, err
	}
	out := &dto.CenterStockOverviewResponse{
		Center:  center,
		Buckets: make([]dto.StockBucketDTO, 0, len(summaries)),
	}
	for _, s := range summaries {
		out.Buckets = append(out.Buckets, dto.StockBucketDTO{
			Status:   string(s.Status),
			Form:     string(s.Form),
			BatchRef: s.BatchRef,
			QtyKg:    s.NetQty,
		})
	}
	return out, nil
}

// EntriesByReference todas las entradas de un documento, canceladas incluidas.
func (uc *QueryUseCase) EntriesByReference(doctype, name string) ([]dto.MovementEntryResponse, error) {
	if doctype == "" || name == "" {
		return nil, domain.ErrInvalidInput
	}
	entries, err := uc.engine.Entries(entity.Reference{Doctype: doctype, Name: name})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toMovementEntryResponse(e))
	}
	return out, nil
}

func toMovementEntryResponse(e *entity.MovementEntry) dto.MovementEntryResponse {
	return dto.MovementEntryResponse{
		ID:               e.ID,
		Center:           e.Center,
		FromCenter:       e.FromCenter,
		ToCenter:         e.ToCenter,
		Status:           string(e.Status),
		CoffeeForm:       string(e.CoffeeForm),
		CoffeeGrade:      e.CoffeeGrade,
		QtyKg:            e.QtyKg,
		EntryType:        string(e.EntryType),
		BatchRef:         e.BatchRef,
		ReferenceDoctype: e.Reference.Doctype,
		ReferenceName:    e.Reference.Name,
		EntryRef:         e.EntryRef,
		IsCancelled:      e.IsCancelled,
		IsReversal:       e.IsReversal,
		Remarks:          e.Remarks,
		PostingTime:      e.PostingTime,
	}
}

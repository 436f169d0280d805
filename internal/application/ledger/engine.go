package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cafetrace-api/internal/domain"
	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
	"github.com/jhoicas/Cafetrace-api/internal/domain/repository"
)

// Engine motor de posteo y consulta del Coffee Stock Ledger. Se construye
// sobre un LedgerRepository (atado a pool para lecturas, o a una tx dentro de
// TxRunner.Run para escrituras): los controladores de etapa nunca escriben
// entradas directamente.
type Engine struct {
	repo repository.LedgerRepository
}

// NewEngine construye el motor sobre el repositorio dado.
func NewEngine(repo repository.LedgerRepository) *Engine {
	return &Engine{repo: repo}
}

// TransferInput parámetros de un posteo idempotente.
type TransferInput struct {
	Center      string
	Status      entity.BucketStatus
	Form        entity.CoffeeForm
	Qty         decimal.Decimal
	EntryType   entity.EntryType
	Reference   entity.Reference
	EntryRef    string // llave de idempotencia dentro de (Reference, EntryType)
	BatchRef    string // vacío = pooled
	CoffeeGrade string
	FromCenter  string
	ToCenter    string
	Remarks     string
	IsReversal  bool // fila de reversa de una cancelación (auditoría)
}

// RecordTransfer crea o actualiza la entrada del ledger para (Reference,
// EntryType, EntryRef).
//
//   - Qty <= 0 se trata como "nada que postear": cancela cualquier posteo
//     previo con la misma llave y devuelve "". Así, re-guardar un documento
//     cuya cantidad calculada bajó a cero se autocorrige.
//   - EntryType OUT valida Qty <= balance(center, form[, batch][, grade])
//     antes de insertar; si no alcanza falla con InsufficientStockError y no
//     se postea nada. La validación y la inserción quedan serializadas por
//     bucket vía LockBucket.
//
// Devuelve el ID de la entrada.
func (e *Engine) RecordTransfer(in TransferInput) (string, error) {
	if !in.EntryType.Valid() {
		return "", domain.ErrInvalidInput
	}

	if in.Qty.LessThanOrEqual(decimal.Zero) {
		// Nada que postear; retirar posteos previos de esta llave.
		if _, err := e.ReverseEntries(in.Reference, &in.EntryRef, &in.EntryType); err != nil {
			return "", err
		}
		return "", nil
	}

	if in.EntryType == entity.EntryOUT {
		if err := e.repo.LockBucket(in.Center, in.Form); err != nil {
			return "", err
		}
		available, err := e.availableFor(in)
		if err != nil {
			return "", err
		}
		if in.Qty.GreaterThan(available) {
			return "", &domain.InsufficientStockError{
				Center:    in.Center,
				Form:      in.Form,
				Available: available,
				Requested: in.Qty,
			}
		}
	}

	existing, err := e.repo.FindActive(in.Reference, in.EntryType, in.EntryRef)
	if err != nil {
		return "", err
	}
	if existing != nil {
		applyInput(existing, in)
		if err := e.repo.Update(existing); err != nil {
			return "", err
		}
		return existing.ID, nil
	}

	entry := &entity.MovementEntry{ID: uuid.New().String()}
	applyInput(entry, in)
	if err := e.repo.Insert(entry); err != nil {
		return "", err
	}
	return entry.ID, nil
}

// availableFor balance contra el que se valida una salida: center + form,
// acotado por lote y grado cuando vienen, sin filtro de status (el neto del
// centro para esa forma es el límite conservador).
func (e *Engine) availableFor(in TransferInput) (decimal.Decimal, error) {
	f := repository.LedgerFilter{Center: in.Center, Form: &in.Form}
	if in.BatchRef != "" {
		f.BatchRef = &in.BatchRef
	}
	if in.CoffeeGrade != "" {
		f.CoffeeGrade = &in.CoffeeGrade
	}
	return e.repo.NetSum(f)
}

func applyInput(entry *entity.MovementEntry, in TransferInput) {
	entry.Center = in.Center
	entry.FromCenter = in.FromCenter
	entry.ToCenter = in.ToCenter
	entry.Status = in.Status
	entry.CoffeeForm = in.Form
	entry.CoffeeGrade = in.CoffeeGrade
	entry.QtyKg = in.Qty
	entry.EntryType = in.EntryType
	entry.BatchRef = in.BatchRef
	entry.Reference = in.Reference
	entry.EntryRef = in.EntryRef
	entry.IsCancelled = false
	entry.IsReversal = in.IsReversal
	entry.Remarks = in.Remarks
	entry.PostingTime = time.Now()
}

// ReverseEntries marca como canceladas las entradas no canceladas del
// documento, opcionalmente acotadas por entryRef y entryType (nil = sin
// acotar). La cancelación es monótona: una entrada cancelada nunca vuelve a
// contar en los balances. Devuelve los IDs cancelados.
func (e *Engine) ReverseEntries(ref entity.Reference, entryRef *string, entryType *entity.EntryType) ([]string, error) {
	return e.repo.Cancel(ref, entryRef, entryType)
}

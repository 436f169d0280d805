package supplychain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cafetrace-api/internal/application/ledger"
	"github.com/jhoicas/Cafetrace-api/internal/domain"
	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
)

// ensureSafeRemoval simula retirar del ledger todas las entradas no canceladas
// del documento: para cada bucket que tocó, el total del bucket menos el neto
// del documento no puede quedar negativo. Si queda, un documento aguas abajo
// ya consumió lo que este produjo y el borrado se rechaza nombrando el bucket.
func ensureSafeRemoval(eng *ledger.Engine, ref entity.Reference) error {
	summaries, err := eng.BucketSummaries(ref)
	if err != nil {
		return err
	}
	for _, b := range summaries {
		total, err := eng.BucketTotal(b.Center, b.Status, b.Form)
		if err != nil {
			return err
		}
		without := total.Sub(b.NetQty)
		if without.IsNegative() {
			return &domain.UnsafeDeleteError{
				Doctype:   ref.Doctype,
				Name:      ref.Name,
				Center:    b.Center,
				Status:    b.Status,
				Form:      b.Form,
				Resulting: without,
			}
		}
	}
	return nil
}

// reversePostedGroups postea la reversa exacta de lo que el documento tiene
// neto en cada bucket, descubierto consultando sus entradas (no recalculando
// proporciones ni deltas: la reversa es correcta aunque los datos de origen
// hayan cambiado después).
func reversePostedGroups(eng *ledger.Engine, ref entity.Reference, remarks string) error {
	summaries, err := eng.BucketSummaries(ref)
	if err != nil {
		return err
	}
	for i, b := range summaries {
		if b.NetQty.IsZero() {
			continue
		}
		entryType := entity.EntryOUT
		qty := b.NetQty
		if b.NetQty.IsNegative() {
			entryType = entity.EntryIN
			qty = b.NetQty.Neg()
		}
		_, err := eng.RecordTransfer(ledger.TransferInput{
			Center:     b.Center,
			Status:     b.Status,
			Form:       b.Form,
			Qty:        qty,
			EntryType:  entryType,
			Reference:  ref,
			EntryRef:   fmt.Sprintf("cancel_%d", i+1),
			BatchRef:   b.BatchRef,
			Remarks:    remarks,
			IsReversal: true,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// positiveOrZero acota por abajo en cero (llegadas parciales).
func positiveOrZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

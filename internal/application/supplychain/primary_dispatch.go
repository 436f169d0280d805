package supplychain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cafetrace-api/internal/application/ledger"
	"github.com/jhoicas/Cafetrace-api/internal/domain"
	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
)

// PrimaryDispatchUseCase controlador del despacho de café terminado desde una
// bodega temporal. Cada línea de lote postea su propio par OUT/IN: sale del
// on-hand del origen y entra al bucket de tránsito del mismo centro, con el
// destino anotado en la entrada. El guardado en borrador reutiliza los slots
// por línea vía el upsert idempotente y cancela los que quedaron huérfanos,
// así una corrección en borrador no borra filas del rastro de auditoría.
type PrimaryDispatchUseCase struct {
	txRunner ledger.TxRunner
}

// NewPrimaryDispatchUseCase construye el caso de uso.
func NewPrimaryDispatchUseCase(txRunner ledger.TxRunner) *PrimaryDispatchUseCase {
	return &PrimaryDispatchUseCase{txRunner: txRunner}
}

// PrimaryDispatchInput campos editables del documento.
type PrimaryDispatchInput struct {
	DispatchedFrom string
	Destination    string
	CoffeeForm     entity.CoffeeForm
	CoffeeGrade    string
	WeightInKg     decimal.Decimal
	Batches        []entity.DispatchBatch
	DispatchDate   time.Time
	Remarks        string
}

// Create crea el documento en borrador y postea sus líneas.
func (uc *PrimaryDispatchUseCase) Create(ctx context.Context, userID string, in PrimaryDispatchInput) (*entity.PrimaryDispatch, error) {
	now := time.Now()
	doc := &entity.PrimaryDispatch{
		ID:        uuid.New().String(),
		Status:    entity.DispatchStatusPreparing,
		State:     entity.StateDraft,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyPrimaryDispatchInput(doc, in)

	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		if err := uc.validateAndPost(repos, doc); err != nil {
			return err
		}
		return repos.PrimaryDispatches.Create(doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Save guardado en borrador: reaplica campos y repostea las líneas sobre sus
// slots existentes.
func (uc *PrimaryDispatchUseCase) Save(ctx context.Context, id string, in PrimaryDispatchInput) (*entity.PrimaryDispatch, error) {
	var doc *entity.PrimaryDispatch
	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		var err error
		doc, err = repos.PrimaryDispatches.GetByID(id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.State != entity.StateDraft {
			return &domain.InvalidStateError{
				Doctype: entity.DoctypePrimaryDispatch, Name: id,
				State: string(doc.State), Required: string(entity.StateDraft), Op: "guardar",
			}
		}
		applyPrimaryDispatchInput(doc, in)
		doc.UpdatedAt = time.Now()
		if err := uc.validateAndPost(repos, doc); err != nil {
			return err
		}
		return repos.PrimaryDispatches.Update(doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func applyPrimaryDispatchInput(doc *entity.PrimaryDispatch, in PrimaryDispatchInput) {
	doc.DispatchedFrom = in.DispatchedFrom
	doc.Destination = in.Destination
	doc.CoffeeForm = in.CoffeeForm
	doc.CoffeeGrade = in.CoffeeGrade
	doc.WeightInKg = in.WeightInKg
	doc.Batches = in.Batches
	doc.DispatchDate = in.DispatchDate
	doc.Remarks = in.Remarks
}

// validateAndPost validaciones de ruteo y totales, y posteo de las líneas
// sobre slots estables por índice. Las líneas que desaparecieron de la edición
// se cancelan al final.
func (uc *PrimaryDispatchUseCase) validateAndPost(repos ledger.TxRepos, doc *entity.PrimaryDispatch) error {
	if len(doc.Batches) == 0 || doc.DispatchedFrom == "" || doc.Destination == "" {
		return domain.ErrInvalidInput
	}
	for _, b := range doc.Batches {
		if b.BatchRef == "" || b.QtyKg.LessThanOrEqual(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	}
	linesTotal := doc.LinesTotal()
	if doc.WeightInKg.IsZero() {
		doc.WeightInKg = linesTotal
	} else if !doc.WeightInKg.Equal(linesTotal) {
		return domain.ErrInvalidInput
	}

	if err := requireCenterType(repos.Centers, doc.DispatchedFrom, entity.CenterTemporaryWarehouse,
		"los despachos salen de una bodega temporal"); err != nil {
		return err
	}
	destType, err := dispatchDestinationType(doc.CoffeeForm)
	if err != nil {
		return err
	}
	if err := requireCenterType(repos.Centers, doc.Destination, destType,
		"destino incompatible con la forma despachada"); err != nil {
		return err
	}
	transitStatus, err := transitStatusFor(doc.CoffeeForm)
	if err != nil {
		return err
	}

	eng := ledger.NewEngine(repos.Ledger)
	ref := doc.Reference()
	if err := uc.checkLineAvailability(eng, doc); err != nil {
		return err
	}

	keep := make(map[string]struct{}, len(doc.Batches)*2)
	for i, b := range doc.Batches {
		keep[fmt.Sprintf("dispatch_out_%d", i+1)] = struct{}{}
		keep[fmt.Sprintf("dispatch_in_%d", i+1)] = struct{}{}
		if _, err := eng.RecordTransfer(ledger.TransferInput{
			Center: doc.DispatchedFrom, Status: entity.StatusPrimaryArrival, Form: doc.CoffeeForm,
			Qty: b.QtyKg, EntryType: entity.EntryOUT, Reference: ref,
			EntryRef: fmt.Sprintf("dispatch_out_%d", i+1),
			BatchRef: b.BatchRef, CoffeeGrade: doc.CoffeeGrade,
			FromCenter: doc.DispatchedFrom, ToCenter: doc.Destination,
			Remarks: "Dispatch line out",
		}); err != nil {
			return err
		}
		if _, err := eng.RecordTransfer(ledger.TransferInput{
			Center: doc.DispatchedFrom, Status: transitStatus, Form: doc.CoffeeForm,
			Qty: b.QtyKg, EntryType: entity.EntryIN, Reference: ref,
			EntryRef: fmt.Sprintf("dispatch_in_%d", i+1),
			BatchRef: b.BatchRef, CoffeeGrade: doc.CoffeeGrade,
			FromCenter: doc.DispatchedFrom, ToCenter: doc.Destination,
			Remarks: "Dispatch line in transit",
		}); err != nil {
			return err
		}
	}
	return uc.cancelOrphanedLines(eng, ref, keep)
}

// checkLineAvailability valida cada línea contra el bucket on-hand del lote en
// el origen, descontando lo que este mismo documento ya tiene girado. El chequeo
// de RecordTransfer no basta aquí: el neto cruzado de statuses del lote no se
// reduce cuando la pareja OUT/IN de otro despacho vive en el mismo centro, y un
// segundo despacho del mismo lote dejaría el on-hand en negativo.
func (uc *PrimaryDispatchUseCase) checkLineAvailability(eng *ledger.Engine, doc *entity.PrimaryDispatch) error {
	onHandStatus := entity.StatusPrimaryArrival
	ref := doc.Reference()

	requested := make(map[string]decimal.Decimal, len(doc.Batches))
	for _, b := range doc.Batches {
		requested[b.BatchRef] = requested[b.BatchRef].Add(b.QtyKg)
	}
	for batch, qty := range requested {
		batchRef := batch
		q := ledger.BalanceQuery{
			Center:   doc.DispatchedFrom,
			Form:     doc.CoffeeForm,
			Status:   &onHandStatus,
			BatchRef: &batchRef,
		}
		if doc.CoffeeGrade != "" {
			grade := doc.CoffeeGrade
			q.CoffeeGrade = &grade
		}
		onHand, err := eng.Balance(q)
		if err != nil {
			return err
		}
		q.Reference = &ref
		prior, err := eng.Balance(q)
		if err != nil {
			return err
		}
		// prior es negativo cuando el borrador ya giró este lote; quitarlo
		// libera la disponibilidad para validar la cantidad reeditada.
		available := onHand.Sub(prior)
		if qty.GreaterThan(available) {
			return &domain.InsufficientStockError{
				Center:    doc.DispatchedFrom,
				Form:      doc.CoffeeForm,
				Available: available,
				Requested: qty,
			}
		}
	}
	return nil
}

// cancelOrphanedLines cancela los slots de líneas que la edición dejó fuera.
// Un borrador solo tiene slots de línea, así que todo lo activo que no esté en
// keep sobra.
func (uc *PrimaryDispatchUseCase) cancelOrphanedLines(eng *ledger.Engine, ref entity.Reference, keep map[string]struct{}) error {
	entries, err := eng.Entries(ref)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsCancelled {
			continue
		}
		if _, ok := keep[e.EntryRef]; ok {
			continue
		}
		entryRef, entryType := e.EntryRef, e.EntryType
		if _, err := eng.ReverseEntries(ref, &entryRef, &entryType); err != nil {
			return err
		}
	}
	return nil
}

// Submit envía el despacho y lo marca Dispatched. Las cantidades ya están en
// tránsito desde el último guardado.
func (uc *PrimaryDispatchUseCase) Submit(ctx context.Context, id string) (*entity.PrimaryDispatch, error) {
	var doc *entity.PrimaryDispatch
	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		var err error
		doc, err = repos.PrimaryDispatches.GetByID(id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.State != entity.StateDraft {
			return &domain.InvalidStateError{
				Doctype: entity.DoctypePrimaryDispatch, Name: id,
				State: string(doc.State), Required: string(entity.StateDraft), Op: "enviar",
			}
		}
		doc.Status = entity.DispatchStatusDispatched
		doc.State = entity.StateSubmitted
		doc.UpdatedAt = time.Now()
		return repos.PrimaryDispatches.Update(doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Cancel reversa post-submit: devuelve el tránsito al on-hand posteando el
// opuesto del neto de cada bucket. Falla si la llegada ya consumió el tránsito.
func (uc *PrimaryDispatchUseCase) Cancel(ctx context.Context, id string) (*entity.PrimaryDispatch, error) {
	var doc *entity.PrimaryDispatch
	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		var err error
		doc, err = repos.PrimaryDispatches.GetByID(id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.State != entity.StateSubmitted {
			return &domain.InvalidStateError{
				Doctype: entity.DoctypePrimaryDispatch, Name: id,
				State: string(doc.State), Required: string(entity.StateSubmitted), Op: "cancelar",
			}
		}
		eng := ledger.NewEngine(repos.Ledger)
		if err := reversePostedGroups(eng, doc.Reference(), "Cancel: reverse dispatch"); err != nil {
			return err
		}
		doc.State = entity.StateCancelled
		doc.UpdatedAt = time.Now()
		return repos.PrimaryDispatches.Update(doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Trash elimina un borrador si retirar sus entradas no deja buckets negativos.
func (uc *PrimaryDispatchUseCase) Trash(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		doc, err := repos.PrimaryDispatches.GetByID(id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.State != entity.StateDraft {
			return &domain.InvalidStateError{
				Doctype: entity.DoctypePrimaryDispatch, Name: id,
				State: string(doc.State), Required: string(entity.StateDraft), Op: "eliminar",
			}
		}
		eng := ledger.NewEngine(repos.Ledger)
		if err := ensureSafeRemoval(eng, doc.Reference()); err != nil {
			return err
		}
		if err := repos.Ledger.DeleteByReference(doc.Reference()); err != nil {
			return err
		}
		return repos.PrimaryDispatches.Delete(id)
	})
}

// GetByID carga un documento.
func (uc *PrimaryDispatchUseCase) GetByID(ctx context.Context, id string) (*entity.PrimaryDispatch, error) {
	var doc *entity.PrimaryDispatch
	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		var err error
		doc, err = repos.PrimaryDispatches.GetByID(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// List pagina los documentos.
func (uc *PrimaryDispatchUseCase) List(ctx context.Context, limit, offset int) ([]*entity.PrimaryDispatch, error) {
	var docs []*entity.PrimaryDispatch
	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		var err error
		docs, err = repos.PrimaryDispatches.List(limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

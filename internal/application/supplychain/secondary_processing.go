package supplychain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cafetrace-api/internal/application/ledger"
	"github.com/jhoicas/Cafetrace-api/internal/domain"
	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
	"github.com/jhoicas/Cafetrace-api/pkg/logger"
)

// SecondaryProcessingUseCase controlador de la trilla: convierte cereza seca
// acopiada en café verde. El insumo es pooled (se consume del bucket de
// llegada secundaria sin filtro de lote); el WIP y el terminado quedan
// etiquetados con el ID del documento, que es la identidad de lote del verde.
type SecondaryProcessingUseCase struct {
	txRunner ledger.TxRunner
	log      *logger.Logger
}

// NewSecondaryProcessingUseCase construye el caso de uso.
func NewSecondaryProcessingUseCase(txRunner ledger.TxRunner, log *logger.Logger) *SecondaryProcessingUseCase {
	return &SecondaryProcessingUseCase{txRunner: txRunner, log: log}
}

// SecondaryProcessingInput campos editables del documento.
type SecondaryProcessingInput struct {
	ProcessingCenter    string
	ProcessedCenter     string
	Status              string
	WeightInKg          decimal.Decimal
	FinalOutputWeightKg decimal.Decimal
	Remarks             string
}

// Create crea el documento en borrador y ejecuta la primera conciliación.
func (uc *SecondaryProcessingUseCase) Create(ctx context.Context, userID string, in SecondaryProcessingInput) (*entity.SecondaryProcessing, error) {
	now := time.Now()
	doc := &entity.SecondaryProcessing{
		ID:        uuid.New().String(),
		Status:    entity.ProcStatusPending,
		State:     entity.StateDraft,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applySecondaryProcessingInput(doc, in)

	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		if err := uc.validateAndReconcile(repos, doc); err != nil {
			return err
		}
		return repos.SecondaryProcessings.Create(doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Save guardado en borrador: aplica campos y reconcilia el ledger por delta.
func (uc *SecondaryProcessingUseCase) Save(ctx context.Context, id string, in SecondaryProcessingInput) (*entity.SecondaryProcessing, error) {
	var doc *entity.SecondaryProcessing
	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		var err error
		doc, err = repos.SecondaryProcessings.GetByID(id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.State != entity.StateDraft {
			return &domain.InvalidStateError{
				Doctype: entity.DoctypeSecondaryProcessing, Name: id,
				State: string(doc.State), Required: string(entity.StateDraft), Op: "guardar",
			}
		}
		applySecondaryProcessingInput(doc, in)
		doc.UpdatedAt = time.Now()
		if err := uc.validateAndReconcile(repos, doc); err != nil {
			return err
		}
		return repos.SecondaryProcessings.Update(doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func applySecondaryProcessingInput(doc *entity.SecondaryProcessing, in SecondaryProcessingInput) {
	doc.ProcessingCenter = in.ProcessingCenter
	doc.ProcessedCenter = in.ProcessedCenter
	if in.Status != "" {
		doc.Status = in.Status
	}
	doc.WeightInKg = in.WeightInKg
	doc.FinalOutputWeightKg = in.FinalOutputWeightKg
	doc.Remarks = in.Remarks
}

func (uc *SecondaryProcessingUseCase) validateAndReconcile(repos ledger.TxRepos, doc *entity.SecondaryProcessing) error {
	if doc.WeightInKg.LessThanOrEqual(decimal.Zero) || doc.ProcessingCenter == "" {
		return domain.ErrInvalidInput
	}
	if err := requireCenterType(repos.Centers, doc.ProcessingCenter, entity.CenterWashingStation,
		"la trilla ocurre en un sitio de procesamiento secundario"); err != nil {
		return err
	}
	if doc.Status == entity.ProcStatusCompleted {
		if doc.ProcessedCenter == "" {
			return domain.ErrInvalidInput
		}
		if err := requireCenterType(repos.Centers, doc.ProcessedCenter, entity.CenterTemporaryWarehouse,
			"el café verde se almacena en una bodega temporal"); err != nil {
			return err
		}
	}

	eng := ledger.NewEngine(repos.Ledger)
	if err := uc.reconcileWIP(eng, doc); err != nil {
		return err
	}
	return uc.postConversionIfCompleted(eng, doc)
}

// reconcileWIP mantiene WIP = peso de entrada por delta. El OUT del acopio va
// sin lote (consume el pool de cereza seca llegada); el IN al WIP ya lleva el
// ID del documento como lote.
func (uc *SecondaryProcessingUseCase) reconcileWIP(eng *ledger.Engine, doc *entity.SecondaryProcessing) error {
	ref := doc.Reference()
	posted, err := eng.PostedByDoc(ref, doc.ProcessingCenter, entity.StatusInProcessing, entity.FormDriedCherry)
	if err != nil {
		return err
	}
	delta := doc.WeightInKg.Sub(posted)
	if delta.IsZero() {
		return nil
	}

	if delta.IsPositive() {
		onhand, err := eng.BucketTotal(doc.ProcessingCenter, entity.StatusSecondaryArrival, entity.FormDriedCherry)
		if err != nil {
			return err
		}
		if delta.GreaterThan(onhand) {
			return &domain.InsufficientStockError{
				Center:    doc.ProcessingCenter,
				Form:      entity.FormDriedCherry,
				Available: onhand,
				Requested: delta,
			}
		}
		if _, err := eng.RecordTransfer(ledger.TransferInput{
			Center: doc.ProcessingCenter, Status: entity.StatusSecondaryArrival, Form: entity.FormDriedCherry,
			Qty: delta, EntryType: entity.EntryOUT, Reference: ref,
			EntryRef: "wip_out_" + uuid.New().String(),
			Remarks:  "Move pooled input to WIP (delta)",
		}); err != nil {
			return err
		}
		_, err = eng.RecordTransfer(ledger.TransferInput{
			Center: doc.ProcessingCenter, Status: entity.StatusInProcessing, Form: entity.FormDriedCherry,
			Qty: delta, EntryType: entity.EntryIN, Reference: ref,
			EntryRef: "wip_in_" + uuid.New().String(), BatchRef: doc.ID,
			Remarks: "WIP allocation (delta)",
		})
		return err
	}

	excess := delta.Neg()
	if _, err := eng.RecordTransfer(ledger.TransferInput{
		Center: doc.ProcessingCenter, Status: entity.StatusInProcessing, Form: entity.FormDriedCherry,
		Qty: excess, EntryType: entity.EntryOUT, Reference: ref,
		EntryRef: "wip_reduce_" + uuid.New().String(), BatchRef: doc.ID,
		Remarks: "Reduce WIP (delta)",
	}); err != nil {
		return err
	}
	_, err = eng.RecordTransfer(ledger.TransferInput{
		Center: doc.ProcessingCenter, Status: entity.StatusSecondaryArrival, Form: entity.FormDriedCherry,
		Qty: excess, EntryType: entity.EntryIN, Reference: ref,
		EntryRef: "wip_return_" + uuid.New().String(),
		Remarks:  "Return to pooled input (delta)",
	})
	return err
}

// postConversionIfCompleted consume el WIP restante y postea café verde en el
// Processed Center, por delta contra lo ya posteado.
func (uc *SecondaryProcessingUseCase) postConversionIfCompleted(eng *ledger.Engine, doc *entity.SecondaryProcessing) error {
	if doc.Status != entity.ProcStatusCompleted {
		return nil
	}
	ref := doc.Reference()

	wipNet, err := eng.PostedByDoc(ref, doc.ProcessingCenter, entity.StatusInProcessing, entity.FormDriedCherry)
	if err != nil {
		return err
	}
	if wipNet.IsPositive() {
		if _, err := eng.RecordTransfer(ledger.TransferInput{
			Center: doc.ProcessingCenter, Status: entity.StatusInProcessing, Form: entity.FormDriedCherry,
			Qty: wipNet, EntryType: entity.EntryOUT, Reference: ref,
			EntryRef: "wip_consume_" + uuid.New().String(), BatchRef: doc.ID,
			Remarks: "WIP consumed (Completed)",
		}); err != nil {
			return err
		}
	}

	finalWeight := doc.FinalOutputWeightKg
	remarks := "Hulling completed → Processed Center"
	if finalWeight.LessThanOrEqual(decimal.Zero) {
		finalWeight = doc.WeightInKg
		uc.log.Warn().
			Str("doc", doc.ID).
			Str("peso_asumido", finalWeight.String()).
			Msg("trilla completada sin peso final medido; se asume el peso de entrada")
		remarks += " [peso asumido = entrada, sin medición]"
	}

	postedFinished, err := eng.PostedByDoc(ref, doc.ProcessedCenter, entity.StatusPrimaryArrival, entity.FormGreenBean)
	if err != nil {
		return err
	}
	deltaFin := finalWeight.Sub(postedFinished)
	if deltaFin.IsZero() {
		return nil
	}
	entryType := entity.EntryIN
	qty := deltaFin
	if deltaFin.IsNegative() {
		entryType = entity.EntryOUT
		qty = deltaFin.Neg()
	}
	_, err = eng.RecordTransfer(ledger.TransferInput{
		Center: doc.ProcessedCenter, Status: entity.StatusPrimaryArrival, Form: entity.FormGreenBean,
		Qty: qty, EntryType: entryType, Reference: ref,
		EntryRef: "finished_" + uuid.New().String(), BatchRef: doc.ID, Remarks: remarks,
	})
	return err
}

// Submit envía el documento; exige Status = Completed.
func (uc *SecondaryProcessingUseCase) Submit(ctx context.Context, id string) (*entity.SecondaryProcessing, error) {
	var doc *entity.SecondaryProcessing
	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		var err error
		doc, err = repos.SecondaryProcessings.GetByID(id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.State != entity.StateDraft {
			return &domain.InvalidStateError{
				Doctype: entity.DoctypeSecondaryProcessing, Name: id,
				State: string(doc.State), Required: string(entity.StateDraft), Op: "enviar",
			}
		}
		if doc.Status != entity.ProcStatusCompleted {
			return &domain.InvalidStateError{
				Doctype: entity.DoctypeSecondaryProcessing, Name: id,
				State: doc.Status, Required: entity.ProcStatusCompleted, Op: "enviar",
			}
		}
		doc.State = entity.StateSubmitted
		doc.UpdatedAt = time.Now()
		return repos.SecondaryProcessings.Update(doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Cancel reversa post-submit: WIP restante, café verde posteado y cereza seca
// neta tomada del pool, en ese orden.
func (uc *SecondaryProcessingUseCase) Cancel(ctx context.Context, id string) (*entity.SecondaryProcessing, error) {
	var doc *entity.SecondaryProcessing
	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		var err error
		doc, err = repos.SecondaryProcessings.GetByID(id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.State != entity.StateSubmitted {
			return &domain.InvalidStateError{
				Doctype: entity.DoctypeSecondaryProcessing, Name: id,
				State: string(doc.State), Required: string(entity.StateSubmitted), Op: "cancelar",
			}
		}

		eng := ledger.NewEngine(repos.Ledger)
		ref := doc.Reference()

		wipNet, err := eng.PostedByDoc(ref, doc.ProcessingCenter, entity.StatusInProcessing, entity.FormDriedCherry)
		if err != nil {
			return err
		}
		if err := postOpposite(eng, ref, doc.ProcessingCenter, entity.StatusInProcessing, entity.FormDriedCherry,
			doc.ID, wipNet, "cancel_wip", "Cancel: reverse WIP"); err != nil {
			return err
		}

		greenNet, err := eng.PostedByDoc(ref, doc.ProcessedCenter, entity.StatusPrimaryArrival, entity.FormGreenBean)
		if err != nil {
			return err
		}
		if err := postOpposite(eng, ref, doc.ProcessedCenter, entity.StatusPrimaryArrival, entity.FormGreenBean,
			doc.ID, greenNet, "cancel_finished", "Cancel: reverse finished"); err != nil {
			return err
		}

		pooledNet, err := eng.PostedByDoc(ref, doc.ProcessingCenter, entity.StatusSecondaryArrival, entity.FormDriedCherry)
		if err != nil {
			return err
		}
		if pooledNet.IsNegative() {
			if _, err := eng.RecordTransfer(ledger.TransferInput{
				Center: doc.ProcessingCenter, Status: entity.StatusSecondaryArrival, Form: entity.FormDriedCherry,
				Qty: pooledNet.Neg(), EntryType: entity.EntryIN, Reference: ref,
				EntryRef: "cancel_pooled_return",
				Remarks:  "Cancel: return pooled input", IsReversal: true,
			}); err != nil {
				return err
			}
		}

		doc.State = entity.StateCancelled
		doc.UpdatedAt = time.Now()
		return repos.SecondaryProcessings.Update(doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Trash elimina un borrador si retirar sus entradas no deja buckets negativos.
func (uc *SecondaryProcessingUseCase) Trash(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		doc, err := repos.SecondaryProcessings.GetByID(id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.State != entity.StateDraft {
			return &domain.InvalidStateError{
				Doctype: entity.DoctypeSecondaryProcessing, Name: id,
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
		return repos.SecondaryProcessings.Delete(id)
	})
}

// GetByID carga un documento.
func (uc *SecondaryProcessingUseCase) GetByID(ctx context.Context, id string) (*entity.SecondaryProcessing, error) {
	var doc *entity.SecondaryProcessing
	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		var err error
		doc, err = repos.SecondaryProcessings.GetByID(id)
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
func (uc *SecondaryProcessingUseCase) List(ctx context.Context, limit, offset int) ([]*entity.SecondaryProcessing, error) {
	var docs []*entity.SecondaryProcessing
	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		var err error
		docs, err = repos.SecondaryProcessings.List(limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

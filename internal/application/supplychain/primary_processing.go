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

// PrimaryProcessingUseCase controlador del procesamiento primario: convierte
// cereza en pergamino o cereza seca en una estación de lavado, lote a lote.
// En cada guardado en borrador concilia el WIP del ledger contra el peso de
// entrada por delta, de modo que guardar dos veces sin cambios no postea nada.
type PrimaryProcessingUseCase struct {
	txRunner ledger.TxRunner
	log      *logger.Logger
}

// NewPrimaryProcessingUseCase construye el caso de uso.
func NewPrimaryProcessingUseCase(txRunner ledger.TxRunner, log *logger.Logger) *PrimaryProcessingUseCase {
	return &PrimaryProcessingUseCase{txRunner: txRunner, log: log}
}

// PrimaryProcessingInput campos editables del documento.
type PrimaryProcessingInput struct {
	ProcessingCenter    string
	ProcessedCenter     string
	ProcessingType      entity.ProcessingType
	Status              string
	WeightInKg          decimal.Decimal
	FinalOutputWeightKg decimal.Decimal
	StageLogs           []entity.ProcessingStage
	WashingTanksUsed    []entity.ResourceUsage
	DryingBedsUsed      []entity.ResourceUsage
	Remarks             string
}

// Create crea el documento en borrador y ejecuta la primera conciliación.
func (uc *PrimaryProcessingUseCase) Create(ctx context.Context, userID string, in PrimaryProcessingInput) (*entity.PrimaryProcessing, error) {
	now := time.Now()
	doc := &entity.PrimaryProcessing{
		ID:        uuid.New().String(),
		Status:    entity.ProcStatusPending,
		State:     entity.StateDraft,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyPrimaryProcessingInput(doc, in)

	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		if err := uc.validateAndReconcile(repos, doc); err != nil {
			return err
		}
		return repos.PrimaryProcessings.Create(doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Save guardado en borrador: aplica los campos y reconcilia los posteos del
// ledger contra los valores actuales del documento.
func (uc *PrimaryProcessingUseCase) Save(ctx context.Context, id string, in PrimaryProcessingInput) (*entity.PrimaryProcessing, error) {
	var doc *entity.PrimaryProcessing
	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		var err error
		doc, err = repos.PrimaryProcessings.GetByID(id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.State != entity.StateDraft {
			return &domain.InvalidStateError{
				Doctype: entity.DoctypePrimaryProcessing, Name: id,
				State: string(doc.State), Required: string(entity.StateDraft), Op: "guardar",
			}
		}
		applyPrimaryProcessingInput(doc, in)
		doc.UpdatedAt = time.Now()
		if err := uc.validateAndReconcile(repos, doc); err != nil {
			return err
		}
		return repos.PrimaryProcessings.Update(doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func applyPrimaryProcessingInput(doc *entity.PrimaryProcessing, in PrimaryProcessingInput) {
	doc.ProcessingCenter = in.ProcessingCenter
	doc.ProcessedCenter = in.ProcessedCenter
	doc.ProcessingType = in.ProcessingType
	if in.Status != "" {
		doc.Status = in.Status
	}
	doc.WeightInKg = in.WeightInKg
	doc.FinalOutputWeightKg = in.FinalOutputWeightKg
	if in.StageLogs != nil {
		doc.StageLogs = in.StageLogs
	}
	doc.WashingTanksUsed = in.WashingTanksUsed
	doc.DryingBedsUsed = in.DryingBedsUsed
	doc.Remarks = in.Remarks
}

// validateAndReconcile validaciones de campos y ruteo, checklist de etapas y
// conciliación de posteos. Corre dentro de la transacción del guardado.
func (uc *PrimaryProcessingUseCase) validateAndReconcile(repos ledger.TxRepos, doc *entity.PrimaryProcessing) error {
	if doc.WeightInKg.LessThanOrEqual(decimal.Zero) || doc.ProcessingCenter == "" {
		return domain.ErrInvalidInput
	}
	if err := requireCenterType(repos.Centers, doc.ProcessingCenter, entity.CenterWashingStation,
		"el procesamiento primario ocurre en una estación de lavado"); err != nil {
		return err
	}
	if doc.Status == entity.ProcStatusCompleted {
		if doc.ProcessedCenter == "" {
			return domain.ErrInvalidInput
		}
		if err := requireCenterType(repos.Centers, doc.ProcessedCenter, entity.CenterTemporaryWarehouse,
			"el terminado se almacena en una bodega temporal"); err != nil {
			return err
		}
	}

	applyStageTemplate(doc)
	updateFermentationElapsed(doc)
	if err := requireResourcesForDoneStages(doc); err != nil {
		return err
	}

	eng := ledger.NewEngine(repos.Ledger)
	if err := uc.reconcileWIP(eng, doc); err != nil {
		return err
	}
	return uc.postConversionIfCompleted(eng, doc)
}

// reconcileWIP mantiene WIP = peso de entrada mientras el documento está en
// borrador, moviendo el delta entre el on-hand de cereza y el bucket WIP del
// centro de procesamiento. Delta cero no postea nada.
func (uc *PrimaryProcessingUseCase) reconcileWIP(eng *ledger.Engine, doc *entity.PrimaryProcessing) error {
	ref := doc.Reference()
	target := doc.WeightInKg
	posted, err := eng.PostedByDoc(ref, doc.ProcessingCenter, entity.StatusInProcessing, entity.FormCherry)
	if err != nil {
		return err
	}
	delta := target.Sub(posted)
	if delta.IsZero() {
		return nil
	}

	if delta.IsPositive() {
		// Asignar más WIP exige cereza on-hand en el centro de procesamiento.
		onhand, err := eng.BucketTotal(doc.ProcessingCenter, entity.StatusPrimaryArrival, entity.FormCherry)
		if err != nil {
			return err
		}
		if delta.GreaterThan(onhand) {
			return &domain.InsufficientStockError{
				Center:    doc.ProcessingCenter,
				Form:      entity.FormCherry,
				Available: onhand,
				Requested: delta,
			}
		}
		return uc.postWIPPair(eng, doc, delta,
			pairSpec{outStatus: entity.StatusPrimaryArrival, inStatus: entity.StatusInProcessing,
				outRemarks: "Move to WIP (delta)", inRemarks: "WIP allocation (delta)"})
	}

	// WIP sobreasignado: devolver el exceso al on-hand.
	excess := delta.Neg()
	return uc.postWIPPair(eng, doc, excess,
		pairSpec{outStatus: entity.StatusInProcessing, inStatus: entity.StatusPrimaryArrival,
			outRemarks: "Reduce WIP (delta)", inRemarks: "Return from WIP (delta)"})
}

type pairSpec struct {
	outStatus  entity.BucketStatus
	inStatus   entity.BucketStatus
	outRemarks string
	inRemarks  string
}

// postWIPPair par OUT/IN dentro del mismo centro. Cada delta es incremental,
// así que lleva entry_ref nuevo (se apila, no se upserta). La etiqueta de lote
// sigue al bucket: la cereza on-hand es pooled, el WIP pertenece a este lote.
func (uc *PrimaryProcessingUseCase) postWIPPair(eng *ledger.Engine, doc *entity.PrimaryProcessing, qty decimal.Decimal, pair pairSpec) error {
	ref := doc.Reference()
	batchFor := func(status entity.BucketStatus) string {
		if status == entity.StatusInProcessing {
			return doc.ID
		}
		return ""
	}
	if _, err := eng.RecordTransfer(ledger.TransferInput{
		Center: doc.ProcessingCenter, Status: pair.outStatus, Form: entity.FormCherry,
		Qty: qty, EntryType: entity.EntryOUT, Reference: ref,
		EntryRef: "wip_out_" + uuid.New().String(), BatchRef: batchFor(pair.outStatus), Remarks: pair.outRemarks,
	}); err != nil {
		return err
	}
	_, err := eng.RecordTransfer(ledger.TransferInput{
		Center: doc.ProcessingCenter, Status: pair.inStatus, Form: entity.FormCherry,
		Qty: qty, EntryType: entity.EntryIN, Reference: ref,
		EntryRef: "wip_in_" + uuid.New().String(), BatchRef: batchFor(pair.inStatus), Remarks: pair.inRemarks,
	})
	return err
}

// postConversionIfCompleted al llegar a Completed consume el WIP restante y
// postea el terminado en el Processed Center, por delta contra lo ya posteado
// para que re-guardar tras editar el peso final produzca solo la corrección.
func (uc *PrimaryProcessingUseCase) postConversionIfCompleted(eng *ledger.Engine, doc *entity.PrimaryProcessing) error {
	if doc.Status != entity.ProcStatusCompleted {
		return nil
	}
	ref := doc.Reference()

	wipNet, err := eng.PostedByDoc(ref, doc.ProcessingCenter, entity.StatusInProcessing, entity.FormCherry)
	if err != nil {
		return err
	}
	if wipNet.IsPositive() {
		if _, err := eng.RecordTransfer(ledger.TransferInput{
			Center: doc.ProcessingCenter, Status: entity.StatusInProcessing, Form: entity.FormCherry,
			Qty: wipNet, EntryType: entity.EntryOUT, Reference: ref,
			EntryRef: "wip_consume_" + uuid.New().String(), BatchRef: doc.ID,
			Remarks: "WIP consumed (Completed)",
		}); err != nil {
			return err
		}
	}

	finalWeight, source := resolveFinalWeight(doc)
	remarks := "Processing completed → Processed Center"
	if source == weightFromFallback {
		// Política explícita: sin peso medido en ningún lado se asume el peso
		// de entrada, lo que fabrica conservación perfecta. Queda en el log y
		// en el remark para que sea visible en auditoría.
		uc.log.Warn().
			Str("doc", doc.ID).
			Str("peso_asumido", finalWeight.String()).
			Msg("procesamiento completado sin peso final medido; se asume el peso de entrada")
		remarks += " [peso asumido = entrada, sin medición]"
	}

	finishedForm := doc.ProcessingType.OutputForm()
	postedFinished, err := eng.PostedByDoc(ref, doc.ProcessedCenter, entity.StatusPrimaryArrival, finishedForm)
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
		Center: doc.ProcessedCenter, Status: entity.StatusPrimaryArrival, Form: finishedForm,
		Qty: qty, EntryType: entryType, Reference: ref,
		EntryRef: "finished_" + uuid.New().String(), BatchRef: doc.ID, Remarks: remarks,
	})
	return err
}

// Submit envía el documento. No postea nada nuevo (los posteos ya quedaron
// correctos en el último guardado) pero exige Status = Completed.
func (uc *PrimaryProcessingUseCase) Submit(ctx context.Context, id string) (*entity.PrimaryProcessing, error) {
	var doc *entity.PrimaryProcessing
	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		var err error
		doc, err = repos.PrimaryProcessings.GetByID(id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.State != entity.StateDraft {
			return &domain.InvalidStateError{
				Doctype: entity.DoctypePrimaryProcessing, Name: id,
				State: string(doc.State), Required: string(entity.StateDraft), Op: "enviar",
			}
		}
		if doc.Status != entity.ProcStatusCompleted {
			return &domain.InvalidStateError{
				Doctype: entity.DoctypePrimaryProcessing, Name: id,
				State: doc.Status, Required: entity.ProcStatusCompleted, Op: "enviar",
			}
		}
		doc.State = entity.StateSubmitted
		doc.UpdatedAt = time.Now()
		return repos.PrimaryProcessings.Update(doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Cancel reversa post-submit: deshace en orden el WIP restante, el terminado
// posteado en el Processed Center y la cereza neta tomada del on-hand, cada
// uno calculado de los balances actuales del documento (no de un replay).
func (uc *PrimaryProcessingUseCase) Cancel(ctx context.Context, id string) (*entity.PrimaryProcessing, error) {
	var doc *entity.PrimaryProcessing
	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		var err error
		doc, err = repos.PrimaryProcessings.GetByID(id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.State != entity.StateSubmitted {
			return &domain.InvalidStateError{
				Doctype: entity.DoctypePrimaryProcessing, Name: id,
				State: string(doc.State), Required: string(entity.StateSubmitted), Op: "cancelar",
			}
		}

		eng := ledger.NewEngine(repos.Ledger)
		ref := doc.Reference()

		// 1) Reversar WIP restante en el centro de procesamiento.
		wipNet, err := eng.PostedByDoc(ref, doc.ProcessingCenter, entity.StatusInProcessing, entity.FormCherry)
		if err != nil {
			return err
		}
		if err := postOpposite(eng, ref, doc.ProcessingCenter, entity.StatusInProcessing, entity.FormCherry,
			doc.ID, wipNet, "cancel_wip", "Cancel: reverse WIP"); err != nil {
			return err
		}

		// 2) Reversar terminado posteado en el Processed Center.
		for _, form := range []entity.CoffeeForm{entity.FormParchment, entity.FormDriedCherry} {
			finNet, err := eng.PostedByDoc(ref, doc.ProcessedCenter, entity.StatusPrimaryArrival, form)
			if err != nil {
				return err
			}
			if err := postOpposite(eng, ref, doc.ProcessedCenter, entity.StatusPrimaryArrival, form,
				doc.ID, finNet, "cancel_finished_"+string(form), "Cancel: reverse finished"); err != nil {
				return err
			}
		}

		// 3) Devolver la cereza neta tomada del on-hand.
		cherryNet, err := eng.PostedByDoc(ref, doc.ProcessingCenter, entity.StatusPrimaryArrival, entity.FormCherry)
		if err != nil {
			return err
		}
		if cherryNet.IsNegative() {
			if _, err := eng.RecordTransfer(ledger.TransferInput{
				Center: doc.ProcessingCenter, Status: entity.StatusPrimaryArrival, Form: entity.FormCherry,
				Qty: cherryNet.Neg(), EntryType: entity.EntryIN, Reference: ref,
				EntryRef: "cancel_onhand_return",
				Remarks: "Cancel: return on-hand", IsReversal: true,
			}); err != nil {
				return err
			}
		}

		doc.State = entity.StateCancelled
		doc.UpdatedAt = time.Now()
		return repos.PrimaryProcessings.Update(doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// postOpposite postea la reversa exacta de un neto (cero no postea).
func postOpposite(eng *ledger.Engine, ref entity.Reference, center string, status entity.BucketStatus,
	form entity.CoffeeForm, batchRef string, net decimal.Decimal, entryRef, remarks string) error {
	if net.IsZero() {
		return nil
	}
	entryType := entity.EntryOUT
	qty := net
	if net.IsNegative() {
		entryType = entity.EntryIN
		qty = net.Neg()
	}
	_, err := eng.RecordTransfer(ledger.TransferInput{
		Center: center, Status: status, Form: form,
		Qty: qty, EntryType: entryType, Reference: ref,
		EntryRef: entryRef, BatchRef: batchRef, Remarks: remarks, IsReversal: true,
	})
	return err
}

// Trash elimina un borrador: primero simula retirar todas sus entradas del
// ledger y rechaza si algún bucket quedaría negativo (un despacho aguas abajo
// ya consumió el terminado); si es seguro, borra entradas y documento.
func (uc *PrimaryProcessingUseCase) Trash(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		doc, err := repos.PrimaryProcessings.GetByID(id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.State != entity.StateDraft {
			return &domain.InvalidStateError{
				Doctype: entity.DoctypePrimaryProcessing, Name: id,
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
		return repos.PrimaryProcessings.Delete(id)
	})
}

// GetByID carga un documento.
func (uc *PrimaryProcessingUseCase) GetByID(ctx context.Context, id string) (*entity.PrimaryProcessing, error) {
	var doc *entity.PrimaryProcessing
	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		var err error
		doc, err = repos.PrimaryProcessings.GetByID(id)
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
func (uc *PrimaryProcessingUseCase) List(ctx context.Context, limit, offset int) ([]*entity.PrimaryProcessing, error) {
	var docs []*entity.PrimaryProcessing
	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		var err error
		docs, err = repos.PrimaryProcessings.List(limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

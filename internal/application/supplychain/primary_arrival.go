package supplychain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cafetrace-api/internal/application/ledger"
	"github.com/jhoicas/Cafetrace-api/internal/domain"
	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
)

// PrimaryArrivalUseCase controlador de la llegada de cereza a un centro de
// acopio. La entrada del ledger vive en un slot fijo por documento, así que
// guardar varias veces solo corrige la cantidad en sitio.
type PrimaryArrivalUseCase struct {
	txRunner ledger.TxRunner
}

// NewPrimaryArrivalUseCase construye el caso de uso.
func NewPrimaryArrivalUseCase(txRunner ledger.TxRunner) *PrimaryArrivalUseCase {
	return &PrimaryArrivalUseCase{txRunner: txRunner}
}

// PrimaryArrivalInput campos editables del documento.
type PrimaryArrivalInput struct {
	Center            string
	SupplierRef       string
	CollectedWeightKg decimal.Decimal
	ArrivalDate       time.Time
	Remarks           string
}

// entryRefArrivalIn slot idempotente de la entrada de llegada.
const entryRefArrivalIn = "primary_arrival_in"

// Create crea el documento en borrador y postea la entrada inicial.
func (uc *PrimaryArrivalUseCase) Create(ctx context.Context, userID string, in PrimaryArrivalInput) (*entity.PrimaryArrival, error) {
	now := time.Now()
	doc := &entity.PrimaryArrival{
		ID:        uuid.New().String(),
		State:     entity.StateDraft,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyPrimaryArrivalInput(doc, in)

	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		if err := uc.validateAndPost(repos, doc); err != nil {
			return err
		}
		return repos.PrimaryArrivals.Create(doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Save guardado en borrador: reescribe la entrada del slot con el peso actual.
func (uc *PrimaryArrivalUseCase) Save(ctx context.Context, id string, in PrimaryArrivalInput) (*entity.PrimaryArrival, error) {
	var doc *entity.PrimaryArrival
	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		var err error
		doc, err = repos.PrimaryArrivals.GetByID(id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.State != entity.StateDraft {
			return &domain.InvalidStateError{
				Doctype: entity.DoctypePrimaryArrival, Name: id,
				State: string(doc.State), Required: string(entity.StateDraft), Op: "guardar",
			}
		}
		applyPrimaryArrivalInput(doc, in)
		doc.UpdatedAt = time.Now()
		if err := uc.validateAndPost(repos, doc); err != nil {
			return err
		}
		return repos.PrimaryArrivals.Update(doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func applyPrimaryArrivalInput(doc *entity.PrimaryArrival, in PrimaryArrivalInput) {
	doc.Center = in.Center
	doc.SupplierRef = in.SupplierRef
	doc.CollectedWeightKg = in.CollectedWeightKg
	doc.ArrivalDate = in.ArrivalDate
	doc.Remarks = in.Remarks
}

func (uc *PrimaryArrivalUseCase) validateAndPost(repos ledger.TxRepos, doc *entity.PrimaryArrival) error {
	if doc.CollectedWeightKg.LessThanOrEqual(decimal.Zero) || doc.Center == "" || doc.SupplierRef == "" {
		return domain.ErrInvalidInput
	}
	if err := requireCenterType(repos.Centers, doc.Center, entity.CenterWashingStation,
		"la cereza llega a un centro de acopio (estación de lavado)"); err != nil {
		return err
	}
	eng := ledger.NewEngine(repos.Ledger)
	_, err := eng.RecordTransfer(ledger.TransferInput{
		Center:    doc.Center,
		Status:    entity.StatusPrimaryArrival,
		Form:      entity.FormCherry,
		Qty:       doc.CollectedWeightKg,
		EntryType: entity.EntryIN,
		Reference: doc.Reference(),
		EntryRef:  entryRefArrivalIn,
		Remarks:   "Cherry arrival from " + doc.SupplierRef,
	})
	return err
}

// Submit envía el documento; la cantidad ya está posteada desde el guardado.
func (uc *PrimaryArrivalUseCase) Submit(ctx context.Context, id string) (*entity.PrimaryArrival, error) {
	var doc *entity.PrimaryArrival
	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		var err error
		doc, err = repos.PrimaryArrivals.GetByID(id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.State != entity.StateDraft {
			return &domain.InvalidStateError{
				Doctype: entity.DoctypePrimaryArrival, Name: id,
				State: string(doc.State), Required: string(entity.StateDraft), Op: "enviar",
			}
		}
		doc.State = entity.StateSubmitted
		doc.UpdatedAt = time.Now()
		return repos.PrimaryArrivals.Update(doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Cancel reversa post-submit: postea el opuesto del neto del documento en cada
// bucket que tocó. Falla con InsufficientStockError si la cereza ya fue
// consumida por un procesamiento.
func (uc *PrimaryArrivalUseCase) Cancel(ctx context.Context, id string) (*entity.PrimaryArrival, error) {
	var doc *entity.PrimaryArrival
	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		var err error
		doc, err = repos.PrimaryArrivals.GetByID(id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.State != entity.StateSubmitted {
			return &domain.InvalidStateError{
				Doctype: entity.DoctypePrimaryArrival, Name: id,
				State: string(doc.State), Required: string(entity.StateSubmitted), Op: "cancelar",
			}
		}
		eng := ledger.NewEngine(repos.Ledger)
		if err := reversePostedGroups(eng, doc.Reference(), "Cancel: reverse arrival"); err != nil {
			return err
		}
		doc.State = entity.StateCancelled
		doc.UpdatedAt = time.Now()
		return repos.PrimaryArrivals.Update(doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Trash elimina un borrador si retirar sus entradas no deja buckets negativos.
func (uc *PrimaryArrivalUseCase) Trash(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		doc, err := repos.PrimaryArrivals.GetByID(id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.State != entity.StateDraft {
			return &domain.InvalidStateError{
				Doctype: entity.DoctypePrimaryArrival, Name: id,
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
		return repos.PrimaryArrivals.Delete(id)
	})
}

// GetByID carga un documento.
func (uc *PrimaryArrivalUseCase) GetByID(ctx context.Context, id string) (*entity.PrimaryArrival, error) {
	var doc *entity.PrimaryArrival
	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		var err error
		doc, err = repos.PrimaryArrivals.GetByID(id)
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
func (uc *PrimaryArrivalUseCase) List(ctx context.Context, limit, offset int) ([]*entity.PrimaryArrival, error) {
	var docs []*entity.PrimaryArrival
	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		var err error
		docs, err = repos.PrimaryArrivals.List(limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

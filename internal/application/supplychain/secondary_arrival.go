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

// SecondaryArrivalUseCase controlador de la recepción de un despacho. A
// diferencia de las demás etapas no postea en borrador: el movimiento
// tránsito → llegada se postea al enviar, repartiendo el total llegado entre
// las líneas de lote del despacho de origen en proporción a lo despachado.
type SecondaryArrivalUseCase struct {
	txRunner ledger.TxRunner
}

// NewSecondaryArrivalUseCase construye el caso de uso.
func NewSecondaryArrivalUseCase(txRunner ledger.TxRunner) *SecondaryArrivalUseCase {
	return &SecondaryArrivalUseCase{txRunner: txRunner}
}

// SecondaryArrivalInput campos editables del documento.
type SecondaryArrivalInput struct {
	DispatchRef        string
	ArrivalCenter      string
	DeliveryStatus     string
	DispatchedWeightKg decimal.Decimal
	MissingWeightKg    decimal.Decimal
	ArrivalDate        time.Time
	Remarks            string
}

// Create crea el documento en borrador contra un despacho ya enviado.
func (uc *SecondaryArrivalUseCase) Create(ctx context.Context, userID string, in SecondaryArrivalInput) (*entity.SecondaryArrival, error) {
	now := time.Now()
	doc := &entity.SecondaryArrival{
		ID:        uuid.New().String(),
		State:     entity.StateDraft,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		if err := uc.applyAndValidate(repos, doc, in); err != nil {
			return err
		}
		return repos.SecondaryArrivals.Create(doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Save guardado en borrador; solo edita campos, sin posteos.
func (uc *SecondaryArrivalUseCase) Save(ctx context.Context, id string, in SecondaryArrivalInput) (*entity.SecondaryArrival, error) {
	var doc *entity.SecondaryArrival
	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		var err error
		doc, err = repos.SecondaryArrivals.GetByID(id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.State != entity.StateDraft {
			return &domain.InvalidStateError{
				Doctype: entity.DoctypeSecondaryArrival, Name: id,
				State: string(doc.State), Required: string(entity.StateDraft), Op: "guardar",
			}
		}
		if err := uc.applyAndValidate(repos, doc, in); err != nil {
			return err
		}
		doc.UpdatedAt = time.Now()
		return repos.SecondaryArrivals.Update(doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// applyAndValidate aplica campos, resuelve valores derivados del despacho de
// origen y valida el ruteo de la llegada.
func (uc *SecondaryArrivalUseCase) applyAndValidate(repos ledger.TxRepos, doc *entity.SecondaryArrival, in SecondaryArrivalInput) error {
	if in.DispatchRef == "" || in.ArrivalCenter == "" {
		return domain.ErrInvalidInput
	}
	switch in.DeliveryStatus {
	case entity.DeliveryFullyArrived, entity.DeliveryPartiallyArrived, entity.DeliveryWrongDelivery:
	default:
		return domain.ErrInvalidInput
	}

	dispatch, err := repos.PrimaryDispatches.GetByID(in.DispatchRef)
	if err != nil {
		return err
	}
	if dispatch == nil {
		return domain.ErrNotFound
	}
	if dispatch.State != entity.StateSubmitted {
		return &domain.InvalidStateError{
			Doctype: entity.DoctypePrimaryDispatch, Name: dispatch.ID,
			State: string(dispatch.State), Required: string(entity.StateSubmitted), Op: "recibir",
		}
	}

	doc.DispatchRef = in.DispatchRef
	doc.ArrivalCenter = in.ArrivalCenter
	doc.SourceCenter = dispatch.DispatchedFrom
	doc.DeliveryStatus = in.DeliveryStatus
	// El peso despachado se lee del despacho, no del input: aceptar un valor
	// mayor dejaría salir del tránsito más de lo que alguna vez entró.
	dispatched := dispatch.LinesTotal()
	if !in.DispatchedWeightKg.IsZero() && !in.DispatchedWeightKg.Equal(dispatched) {
		return domain.ErrInvalidInput
	}
	doc.DispatchedWeightKg = dispatched
	doc.MissingWeightKg = decimal.Zero
	if in.DeliveryStatus == entity.DeliveryPartiallyArrived {
		if in.MissingWeightKg.LessThanOrEqual(decimal.Zero) ||
			in.MissingWeightKg.GreaterThanOrEqual(doc.DispatchedWeightKg) {
			return domain.ErrInvalidInput
		}
		doc.MissingWeightKg = in.MissingWeightKg
	}
	doc.ArrivalDate = in.ArrivalDate
	doc.Remarks = in.Remarks

	_, centerWant, err := arrivalRouteFor(dispatch.CoffeeForm)
	if err != nil {
		return err
	}
	return requireCenterType(repos.Centers, doc.ArrivalCenter, centerWant,
		"centro de llegada incompatible con la forma despachada")
}

// Submit postea la llegada. El total llegado se reparte entre las líneas del
// despacho en proporción a lo despachado, redondeando a tres decimales con la
// última línea como remanente para que la suma cierre exacta. Wrong Delivery
// no postea nada: el tránsito queda intacto y el documento registra el hecho.
func (uc *SecondaryArrivalUseCase) Submit(ctx context.Context, id string) (*entity.SecondaryArrival, error) {
	var doc *entity.SecondaryArrival
	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		var err error
		doc, err = repos.SecondaryArrivals.GetByID(id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.State != entity.StateDraft {
			return &domain.InvalidStateError{
				Doctype: entity.DoctypeSecondaryArrival, Name: id,
				State: string(doc.State), Required: string(entity.StateDraft), Op: "enviar",
			}
		}

		if doc.DeliveryStatus != entity.DeliveryWrongDelivery {
			if err := uc.postArrival(repos, doc); err != nil {
				return err
			}
		}
		doc.State = entity.StateSubmitted
		doc.UpdatedAt = time.Now()
		return repos.SecondaryArrivals.Update(doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (uc *SecondaryArrivalUseCase) postArrival(repos ledger.TxRepos, doc *entity.SecondaryArrival) error {
	dispatch, err := repos.PrimaryDispatches.GetByID(doc.DispatchRef)
	if err != nil {
		return err
	}
	if dispatch == nil {
		return domain.ErrNotFound
	}

	arrivalStatus, _, err := arrivalRouteFor(dispatch.CoffeeForm)
	if err != nil {
		return err
	}
	transitStatus, err := transitStatusFor(dispatch.CoffeeForm)
	if err != nil {
		return err
	}

	total := dispatch.LinesTotal()
	arrived := positiveOrZero(doc.DispatchedWeightKg.Sub(doc.MissingWeightKg))
	if arrived.IsZero() || total.IsZero() {
		return nil
	}

	eng := ledger.NewEngine(repos.Ledger)
	ref := doc.Reference()
	allocated := decimal.Zero
	for i, line := range dispatch.Batches {
		var share decimal.Decimal
		if i == len(dispatch.Batches)-1 {
			share = arrived.Sub(allocated)
		} else {
			share = arrived.Mul(line.QtyKg).Div(total).Round(3)
			allocated = allocated.Add(share)
		}
		if share.LessThanOrEqual(decimal.Zero) {
			continue
		}
		if _, err := eng.RecordTransfer(ledger.TransferInput{
			Center: doc.SourceCenter, Status: transitStatus, Form: dispatch.CoffeeForm,
			Qty: share, EntryType: entity.EntryOUT, Reference: ref,
			EntryRef: fmt.Sprintf("arrival_out_%d", i+1),
			BatchRef: line.BatchRef, CoffeeGrade: dispatch.CoffeeGrade,
			FromCenter: doc.SourceCenter, ToCenter: doc.ArrivalCenter,
			Remarks: "Arrival line out of transit",
		}); err != nil {
			return err
		}
		if _, err := eng.RecordTransfer(ledger.TransferInput{
			Center: doc.ArrivalCenter, Status: arrivalStatus, Form: dispatch.CoffeeForm,
			Qty: share, EntryType: entity.EntryIN, Reference: ref,
			EntryRef: fmt.Sprintf("arrival_in_%d", i+1),
			BatchRef: line.BatchRef, CoffeeGrade: dispatch.CoffeeGrade,
			FromCenter: doc.SourceCenter, ToCenter: doc.ArrivalCenter,
			Remarks: "Arrival line received",
		}); err != nil {
			return err
		}
	}
	return nil
}

// Cancel reversa post-submit por grupos de bucket; devuelve lo llegado al
// tránsito del centro de origen.
func (uc *SecondaryArrivalUseCase) Cancel(ctx context.Context, id string) (*entity.SecondaryArrival, error) {
	var doc *entity.SecondaryArrival
	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		var err error
		doc, err = repos.SecondaryArrivals.GetByID(id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.State != entity.StateSubmitted {
			return &domain.InvalidStateError{
				Doctype: entity.DoctypeSecondaryArrival, Name: id,
				State: string(doc.State), Required: string(entity.StateSubmitted), Op: "cancelar",
			}
		}
		eng := ledger.NewEngine(repos.Ledger)
		if err := reversePostedGroups(eng, doc.Reference(), "Cancel: reverse arrival"); err != nil {
			return err
		}
		doc.State = entity.StateCancelled
		doc.UpdatedAt = time.Now()
		return repos.SecondaryArrivals.Update(doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Trash elimina un borrador. Un borrador de llegada nunca ha posteado, pero la
// simulación corre igual por si quedaron entradas de versiones anteriores.
func (uc *SecondaryArrivalUseCase) Trash(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		doc, err := repos.SecondaryArrivals.GetByID(id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.State != entity.StateDraft {
			return &domain.InvalidStateError{
				Doctype: entity.DoctypeSecondaryArrival, Name: id,
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
		return repos.SecondaryArrivals.Delete(id)
	})
}

// GetByID carga un documento.
func (uc *SecondaryArrivalUseCase) GetByID(ctx context.Context, id string) (*entity.SecondaryArrival, error) {
	var doc *entity.SecondaryArrival
	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		var err error
		doc, err = repos.SecondaryArrivals.GetByID(id)
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
func (uc *SecondaryArrivalUseCase) List(ctx context.Context, limit, offset int) ([]*entity.SecondaryArrival, error) {
	var docs []*entity.SecondaryArrival
	err := uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
		var err error
		docs, err = repos.SecondaryArrivals.List(limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

package supplychain

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cafetrace-api/internal/application/ledger"
	"github.com/jhoicas/Cafetrace-api/internal/domain"
	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
)

// DispatchNotePDFGenerator puerto de generación de la remisión de despacho.
type DispatchNotePDFGenerator interface {
	GenerateDispatchNote(ctx context.Context, doc *entity.PrimaryDispatch, from, to *entity.Center) ([]byte, error)
}

// DispatchNoteUseCase genera la remisión (PDF) de un despacho ya enviado: el
// documento que viaja con el camión y contra el que se verifica la llegada.
type DispatchNoteUseCase struct {
	txRunner  ledger.TxRunner
	generator DispatchNotePDFGenerator
}

// NewDispatchNoteUseCase construye el caso de uso.
func NewDispatchNoteUseCase(txRunner ledger.TxRunner, generator DispatchNotePDFGenerator) *DispatchNoteUseCase {
	return &DispatchNoteUseCase{txRunner: txRunner, generator: generator}
}

// DownloadDispatchNote carga el despacho y sus centros y genera el PDF.
// Solo hay remisión para despachos enviados: un borrador todavía puede cambiar.
func (uc *DispatchNoteUseCase) DownloadDispatchNote(ctx context.Context, id string) (pdfBytes []byte, filename string, err error) {
	var doc *entity.PrimaryDispatch
	var from, to *entity.Center
	err = uc.txRunner.Run(ctx, func(repos ledger.TxRepos) error {
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
				State: string(doc.State), Required: string(entity.StateSubmitted), Op: "remisión",
			}
		}
		if from, err = repos.Centers.GetByID(doc.DispatchedFrom); err != nil {
			return err
		}
		if to, err = repos.Centers.GetByID(doc.Destination); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	pdfBytes, err = uc.generator.GenerateDispatchNote(ctx, doc, from, to)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("remision_%s.pdf", doc.ID), nil
}

package ledger

import (
	"context"

	"github.com/jhoicas/Cafetrace-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Ledger               repository.LedgerRepository
	Centers              repository.CenterRepository
	PrimaryArrivals      repository.PrimaryArrivalRepository
	PrimaryProcessings   repository.PrimaryProcessingRepository
	PrimaryDispatches    repository.PrimaryDispatchRepository
	SecondaryArrivals    repository.SecondaryArrivalRepository
	SecondaryProcessings repository.SecondaryProcessingRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Cada invocación de ciclo de vida de un
// documento de etapa (save/submit/cancel/trash) corre completa dentro de un
// Run: o se postea todo o no se postea nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}

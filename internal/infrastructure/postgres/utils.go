package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE que los repositorios traducen a errores de dominio.
const (
	codeUniqueViolation = "23505"
)

// isUniqueViolation detecta choques de constraint único: email de usuario,
// nombre de centro y la llave de idempotencia del ledger (índice parcial
// sobre entradas no canceladas).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	codeCheckViolation = "23514"
	codeUndefinedTable = "42P01"
)

// pgCode código SQLSTATE del error o "" si no viene de PostgreSQL.
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

package postgres

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// pgCode devuelve el SQLSTATE del error o "" si no viene de PostgreSQL.
func pgCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
// Con constraint != "" además exige que sea esa restricción.
func isUniqueViolation(err error, constraint string) bool {
	return isViolation(err, codeUniqueViolation, constraint)
}

func isForeignKeyViolation(err error, constraint string) bool {
	return isViolation(err, codeForeignKeyViolation, constraint)
}

func isCheckViolation(err error, constraint string) bool {
	return isViolation(err, codeCheckViolation, constraint)
}

func isViolation(err error, code, constraint string) bool {
	if err == nil {
		return false
	}
	got, name := pgCode(err)
	if got == "" {
		return strings.Contains(err.Error(), "SQLSTATE "+code)
	}
	return got == code && (constraint == "" || name == constraint)
}

// validUUID evita que un id mal formado llegue a PostgreSQL como error de cast (22P02).
func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

package employee

import (
	"errors"
	"strings"

	employeeerrors "go-hr-payroll/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var uniqueConstraintErrors = map[string]error{
	"uq_employee_number": employeeerrors.ErrEmployeeNumberAlreadyExists,
	"uq_employee_email":  employeeerrors.ErrEmployeeAlreadyExists,
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if mapped, ok := uniqueConstraintErrors[pgErr.ConstraintName]; ok && pgErr.Code == "23505" {
			return mapped
		}
		return err
	}

	// some drivers surface only the message
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate key value") {
		for constraint, mapped := range uniqueConstraintErrors {
			if strings.Contains(msg, constraint) {
				return mapped
			}
		}
	}
	return err
}

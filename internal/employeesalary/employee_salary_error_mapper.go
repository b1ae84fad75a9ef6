package employeesalary

import (
	"errors"
	"strings"

	employeesalaryerrors "go-hr-payroll/internal/employeesalary/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueEffectiveConstraint = "uq_employee_salary_effective"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeesalaryerrors.ErrSalaryNotFound
	}
	if isUniqueSalaryViolation(err) {
		return employeesalaryerrors.ErrSalaryEffectiveDateAlreadyExists
	}
	return err
}

func isUniqueSalaryViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == uniqueEffectiveConstraint
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, uniqueEffectiveConstraint)
}

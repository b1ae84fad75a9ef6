package employee

import (
	"slices"
	"strings"
)

const defaultPageSize = 10

func (q ListEmployeesQuery) withDefaults() ListEmployeesQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}
	if q.SortBy == "" {
		q.SortBy = "name"
	}
	return q
}

func (q ListEmployeesQuery) matches(e EmployeeResponse) bool {
	if q.Active != nil && e.IsActive != *q.Active {
		return false
	}
	needle := strings.ToLower(strings.TrimSpace(q.Q))
	if needle == "" {
		return true
	}
	for _, field := range []string{e.FullName, e.Email, e.EmployeeNumber} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func (q ListEmployeesQuery) compare(a, b EmployeeResponse) int {
	var c int
	switch q.SortBy {
	case "number":
		c = strings.Compare(a.EmployeeNumber, b.EmployeeNumber)
	case "email":
		c = strings.Compare(strings.ToLower(a.Email), strings.ToLower(b.Email))
	case "hire_date":
		c = strings.Compare(a.HireDate, b.HireDate)
	default:
		c = strings.Compare(strings.ToLower(a.FullName), strings.ToLower(b.FullName))
	}
	if q.SortDir == "desc" {
		return -c
	}
	return c
}

// apply returns the requested page and the number of matching employees.
func (q ListEmployeesQuery) apply(all []EmployeeResponse) ([]EmployeeResponse, int64) {
	q = q.withDefaults()

	matched := make([]EmployeeResponse, 0, len(all))
	for _, e := range all {
		if q.matches(e) {
			matched = append(matched, e)
		}
	}
	slices.SortStableFunc(matched, q.compare)

	start := min((q.Page-1)*q.PageSize, len(matched))
	end := min(start+q.PageSize, len(matched))
	return matched[start:end], int64(len(matched))
}

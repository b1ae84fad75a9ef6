package employee

type CreateEmployeeRequest struct {
	EmployeeNumber string `json:"employee_number" binding:"omitempty,max=30"`
	FullName       string `json:"full_name" binding:"required,max=150"`
	Email          string `json:"email" binding:"required,email"`
	DutyStart      string `json:"duty_start" binding:"required,clock"`
	DutyEnd        string `json:"duty_end" binding:"required,clock"`
	HireDate       string `json:"hire_date" binding:"omitempty,datetime=2006-01-02"`
}

type UpdateEmployeeRequest struct {
	FullName  string `json:"full_name" binding:"required,max=150"`
	Email     string `json:"email" binding:"required,email"`
	DutyStart string `json:"duty_start" binding:"required,clock"`
	DutyEnd   string `json:"duty_end" binding:"required,clock"`
	HireDate  string `json:"hire_date" binding:"omitempty,datetime=2006-01-02"`
	IsActive  *bool  `json:"is_active"`
}

type EmployeeResponse struct {
	ID             string `json:"id"`
	CompanyID      string `json:"company_id"`
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	DutyStart      string `json:"duty_start"`
	DutyEnd        string `json:"duty_end"`
	HireDate       string `json:"hire_date,omitempty"`
	IsActive       bool   `json:"is_active"`
}

// ListEmployeesQuery filters, orders and pages the roster in memory. The
// roster of one company is small and cached, so the database is not involved.
type ListEmployeesQuery struct {
	Q        string `form:"q" binding:"omitempty,max=100"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=name number email hire_date"`
	SortDir  string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

package attendance

type PunchInRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Source    string   `json:"source" binding:"omitempty,oneof=MANUAL WEB MOBILE WFH"`
	Notes     *string  `json:"notes"`
}

type PunchOutRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Notes     *string  `json:"notes"`
}

// UpdateStatusRequest is the admin edit of a day's raw status.
type UpdateStatusRequest struct {
	Status        string  `json:"status" binding:"required"`
	LeaveMasterID *string `json:"leave_master_id"`
	PunchIn       string  `json:"punch_in" binding:"omitempty,clock"`
	PunchOut      string  `json:"punch_out" binding:"omitempty,clock"`
	Notes         *string `json:"notes"`
}

type VerifyRequest struct {
	Note string `json:"note" binding:"required,max=500"`
}

// ImportRequest carries rows from older clients; field names vary per row.
type ImportRequest struct {
	Rows []map[string]any `json:"rows" binding:"required,min=1,max=1000"`
}

type ImportResult struct {
	Created int           `json:"created"`
	Updated int           `json:"updated"`
	Skipped []ImportError `json:"skipped,omitempty"`
}

type ImportError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type PeriodQuery struct {
	EmployeeID string `form:"employee_id" binding:"required,uuid"`
	Period     string `form:"period" binding:"required,period"`
}

type AttendanceResponse struct {
	ID               string   `json:"id"`
	CompanyID        string   `json:"company_id"`
	EmployeeID       string   `json:"employee_id"`
	AttendanceDate   string   `json:"attendance_date"`
	Status           string   `json:"status"`
	ResolvedStatus   string   `json:"resolved_status"`
	PunchIn          *string  `json:"punch_in,omitempty"`
	PunchOut         *string  `json:"punch_out,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	Source           string   `json:"source"`
	Verification     string   `json:"verification"`
	VerificationNote *string  `json:"verification_note,omitempty"`
	VerifiedBy       *string  `json:"verified_by,omitempty"`
	VerifiedAt       *string  `json:"verified_at,omitempty"`
	LeaveMasterID    *string  `json:"leave_master_id,omitempty"`
	Notes            *string  `json:"notes,omitempty"`
}

type CalendarResponse struct {
	EmployeeID string        `json:"employee_id"`
	Period     string        `json:"period"`
	Days       []CalendarDay `json:"days"`
}

type CalendarDay struct {
	ResolvedDay
	AttendanceID string  `json:"attendance_id,omitempty"`
	PunchIn      *string `json:"punch_in,omitempty"`
	PunchOut     *string `json:"punch_out,omitempty"`
	HolidayName  string  `json:"holiday_name,omitempty"`
}

package leavemaster

type CreateLeaveMasterRequest struct {
	Name            string `json:"name" binding:"required,max=120"`
	Category        string `json:"category" binding:"required,oneof=casual sick special mandatory_holiday unpaid"`
	PaymentStatus   string `json:"payment_status" binding:"required,oneof=paid unpaid"`
	AnnualAllowance int    `json:"annual_allowance" binding:"min=0"`
	FixedDate       string `json:"fixed_date"`
}

type UpdateLeaveMasterRequest struct {
	Name            string `json:"name" binding:"required,max=120"`
	Category        string `json:"category" binding:"required,oneof=casual sick special mandatory_holiday unpaid"`
	PaymentStatus   string `json:"payment_status" binding:"required,oneof=paid unpaid"`
	AnnualAllowance int    `json:"annual_allowance" binding:"min=0"`
	FixedDate       string `json:"fixed_date"`
	IsActive        *bool  `json:"is_active"`
}

type LeaveMasterResponse struct {
	ID              string `json:"id"`
	CompanyID       string `json:"company_id"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	PaymentStatus   string `json:"payment_status"`
	IsPaid          bool   `json:"is_paid"`
	AnnualAllowance int    `json:"annual_allowance"`
	FixedDate       string `json:"fixed_date,omitempty"`
	IsActive        bool   `json:"is_active"`
}

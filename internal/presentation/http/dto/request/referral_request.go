package request

// CreateReferralProviderRequest represents a referral provider registration
// request. Commission rate is optional to support the quick-add flow at the
// front desk.
type CreateReferralProviderRequest struct {
	Name              string  `json:"name" binding:"required,min=2,max=255"`
	Phone             *string `json:"phone" binding:"omitempty,max=50"`
	Email             *string `json:"email" binding:"omitempty,email"`
	CommissionRateBps *int    `json:"commission_rate_bps" binding:"omitempty,min=0,max=10000"`
}

// SetCommissionRequest represents a commission rate update request
type SetCommissionRequest struct {
	CommissionRateBps int `json:"commission_rate_bps" binding:"min=0,max=10000"`
}

package request

// CreatePatientRequest represents a patient registration request
type CreatePatientRequest struct {
	FirstName   string  `json:"first_name" binding:"required,min=1,max=255"`
	LastName    string  `json:"last_name" binding:"omitempty,max=255"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	DateOfBirth *string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
}

// UpdatePatientRequest represents a patient update request
type UpdatePatientRequest struct {
	FirstName   *string `json:"first_name" binding:"omitempty,min=1,max=255"`
	LastName    *string `json:"last_name" binding:"omitempty,max=255"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	DateOfBirth *string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
}

package validators

type RegisterRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=100"`
	Email        string `json:"email" validate:"required,email"`
	MobileNumber string `json:"mobile_number" validate:"omitempty,indian_phone"`
	Password     string `json:"password" validate:"required,min=6,max=128"`
	Role         string `json:"role" validate:"omitempty,user_role"`
	BusinessName string `json:"business_name" validate:"omitempty,max=200"`
	City         string `json:"city" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func ValidateRegister(req *RegisterRequest) ValidationErrors {
	req.Name = SanitizeInput(req.Name)
	req.BusinessName = SanitizeInput(req.BusinessName)
	req.City = SanitizeInput(req.City)
	return ValidateStruct(req)
}

func ValidateLogin(req *LoginRequest) ValidationErrors {
	return ValidateStruct(req)
}

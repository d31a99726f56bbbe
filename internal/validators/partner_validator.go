package validators

type PartnerCreateRequest struct {
	Name     string                 `json:"name" validate:"required,min=2,max=200"`
	Type     string                 `json:"type" validate:"required,partner_type"`
	Email    string                 `json:"email" validate:"omitempty,email"`
	Phone    string                 `json:"phone" validate:"omitempty,indian_phone"`
	Address  string                 `json:"address" validate:"omitempty,max=500"`
	City     string                 `json:"city" validate:"omitempty,max=100"`
	FormData map[string]interface{} `json:"form_data"`
}

type PartnerStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected active"`
}

func ValidatePartnerCreate(req *PartnerCreateRequest) ValidationErrors {
	req.Name = SanitizeInput(req.Name)
	req.Address = SanitizeInput(req.Address)
	return ValidateStruct(req)
}

func ValidatePartnerStatus(req *PartnerStatusRequest) ValidationErrors {
	return ValidateStruct(req)
}

package validators

import "time"

type DonationCreateRequest struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	DonorName     string  `json:"donor_name" validate:"omitempty,max=100"`
	DonorEmail    string  `json:"donor_email" validate:"omitempty,email"`
	DonorPhone    string  `json:"donor_phone" validate:"omitempty,indian_phone"`
	CampaignID    string  `json:"campaign_id"`
	PartnerID     string  `json:"partner_id" validate:"omitempty,object_id"`
	PaymentMethod string  `json:"payment_method" validate:"omitempty,oneof=razorpay stripe other demo"`
	PaymentID     string  `json:"payment_id" validate:"omitempty,max=100"`
	OrderID       string  `json:"order_id" validate:"omitempty,max=100"`
	Message       string  `json:"message" validate:"omitempty,max=1000"`
	IsAnonymous   bool    `json:"is_anonymous"`
}

type CampaignCreateRequest struct {
	Title       string     `json:"title" validate:"required,min=3,max=200"`
	Description string     `json:"description" validate:"required,max=5000"`
	Category    string     `json:"category" validate:"omitempty,max=100"`
	GoalAmount  float64    `json:"goal_amount" validate:"required,gt=0"`
	EndDate     *time.Time `json:"end_date"`
}

func ValidateDonationCreate(req *DonationCreateRequest) ValidationErrors {
	req.DonorName = SanitizeInput(req.DonorName)
	req.Message = SanitizeInput(req.Message)
	return ValidateStruct(req)
}

func ValidateCampaignCreate(req *CampaignCreateRequest) ValidationErrors {
	req.Title = SanitizeInput(req.Title)
	errs := ValidateStruct(req)
	if req.EndDate != nil && req.EndDate.Before(time.Now()) {
		errs = append(errs, ValidationError{
			Field:   "EndDate",
			Tag:     "future_date",
			Value:   req.EndDate.String(),
			Message: "Date must be in the future",
		})
	}
	return errs
}

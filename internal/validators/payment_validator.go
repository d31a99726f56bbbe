package validators

type CreateOrderRequest struct {
	Amount   float64           `json:"amount" validate:"required,gt=0"`
	Currency string            `json:"currency" validate:"omitempty,len=3"`
	Receipt  string            `json:"receipt" validate:"omitempty,max=40"`
	Notes    map[string]string `json:"notes"`
}

// VerifyPaymentRequest carries the checkout callback fields plus the donation being paid for.
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`

	Amount      float64 `json:"amount" validate:"required,gt=0"`
	DonorName   string  `json:"donor_name" validate:"omitempty,max=100"`
	DonorEmail  string  `json:"donor_email" validate:"omitempty,email"`
	DonorPhone  string  `json:"donor_phone" validate:"omitempty,indian_phone"`
	CampaignID  string  `json:"campaign_id"`
	PartnerID   string  `json:"partner_id" validate:"omitempty,object_id"`
	Message     string  `json:"message" validate:"omitempty,max=1000"`
	IsAnonymous bool    `json:"is_anonymous"`
}

type RefundRequest struct {
	PaymentID string  `json:"payment_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"omitempty,gt=0"`
	Reason    string  `json:"reason" validate:"omitempty,max=255"`
}

type WithdrawRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"omitempty,max=255"`
}

func ValidateCreateOrder(req *CreateOrderRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateVerifyPayment(req *VerifyPaymentRequest) ValidationErrors {
	req.DonorName = SanitizeInput(req.DonorName)
	req.Message = SanitizeInput(req.Message)
	return ValidateStruct(req)
}

func ValidateRefund(req *RefundRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateWithdraw(req *WithdrawRequest) ValidationErrors {
	return ValidateStruct(req)
}

package validators

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"carefoundation/internal/models"
	"carefoundation/internal/utils"
)

var validate *validator.Validate

var (
	indianPhoneRegex  = regexp.MustCompile(`^(\+91[\-\s]?)?[6-9]\d{9}$`)
	discountCodeRegex = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)
	htmlTagRegex      = regexp.MustCompile(`<[^>]*>`)
)

func init() {
	validate = validator.New()

	validate.RegisterValidation("object_id", validateObjectID)
	validate.RegisterValidation("coupon_code", validateCouponCode)
	validate.RegisterValidation("partner_type", validatePartnerType)
	validate.RegisterValidation("indian_phone", validateIndianPhone)
	validate.RegisterValidation("user_role", validateUserRole)
	validate.RegisterValidation("discount_code", validateDiscountCode)
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// AppError converts the field errors into a validation AppError, or nil when empty.
func (v ValidationErrors) AppError() error {
	if len(v) == 0 {
		return nil
	}
	details := make(map[string]string, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return utils.NewValidationError(utils.ErrValidationFailed, details)
}

// ValidateStruct validates a struct and returns detailed errors
func ValidateStruct(s interface{}) ValidationErrors {
	var validationErrors ValidationErrors

	err := validate.Struct(s)
	if err != nil {
		fieldErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return ValidationErrors{{Field: "request", Tag: "invalid", Message: err.Error()}}
		}
		for _, err := range fieldErrors {
			validationErrors = append(validationErrors, ValidationError{
				Field:   err.Field(),
				Tag:     err.Tag(),
				Value:   fmt.Sprintf("%v", err.Value()),
				Message: getErrorMessage(err),
			})
		}
	}

	return validationErrors
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required", "required_without":
		return fmt.Sprintf("%s is required", err.Field())
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
	case "object_id":
		return "Invalid ID format"
	case "coupon_code":
		return "Invalid coupon code or ID"
	case "partner_type":
		return "Partner type must be health or food"
	case "indian_phone":
		return "Invalid phone number format"
	case "user_role":
		return "Invalid role"
	case "discount_code":
		return "Code must be 3-20 uppercase letters or digits"
	case "gtfield":
		return fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
	default:
		return fmt.Sprintf("Validation failed for %s", err.Field())
	}
}

func validateObjectID(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Let required tag handle empty values
	}
	return IsValidObjectID(value)
}

// A claim may reference a donation coupon by its code or by its record ID.
func validateCouponCode(fl validator.FieldLevel) bool {
	value := utils.NormalizeCouponCode(fl.Field().String())
	if value == "" {
		return true
	}
	return utils.IsDonationCouponCode(value) || IsValidObjectID(strings.ToLower(value))
}

func validatePartnerType(fl validator.FieldLevel) bool {
	switch models.PartnerType(fl.Field().String()) {
	case models.PartnerTypeHealth, models.PartnerTypeFood:
		return true
	}
	return false
}

func validateIndianPhone(fl validator.FieldLevel) bool {
	phone := fl.Field().String()
	if phone == "" {
		return true
	}
	return indianPhoneRegex.MatchString(phone)
}

func validateUserRole(fl validator.FieldLevel) bool {
	role := fl.Field().String()
	if role == "" {
		return true
	}
	return models.UserRole(role).Valid()
}

func validateDiscountCode(fl validator.FieldLevel) bool {
	return discountCodeRegex.MatchString(strings.ToUpper(strings.TrimSpace(fl.Field().String())))
}

func IsValidObjectID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

func SanitizeInput(input string) string {
	return strings.TrimSpace(htmlTagRegex.ReplaceAllString(input, ""))
}

package services

import (
	"fmt"
	"strings"

	"carefoundation/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BankDetailsVersion identifies the path table below; bump it when the table changes.
const BankDetailsVersion = 1

// bankDetailPaths lists, per field, the form_data paths tried in order. Intake forms have
// changed shape over time, so both nested and flat spellings occur in stored records.
var bankDetailPaths = struct {
	AccountNumber, IFSC, BankName, HolderName, Branch, UPI [][]string
}{
	AccountNumber: [][]string{{"bankDetails", "accountNumber"}, {"bankDetails", "account_number"}, {"accountNumber"}, {"bankAccountNumber"}, {"account_number"}},
	IFSC:          [][]string{{"bankDetails", "ifsc"}, {"bankDetails", "ifscCode"}, {"ifscCode"}, {"ifsc"}, {"bankIfsc"}},
	BankName:      [][]string{{"bankDetails", "bankName"}, {"bankDetails", "bank_name"}, {"bankName"}, {"bank_name"}},
	HolderName:    [][]string{{"bankDetails", "accountHolderName"}, {"bankDetails", "account_holder_name"}, {"accountHolderName"}, {"account_holder_name"}},
	Branch:        [][]string{{"bankDetails", "branch"}, {"bankDetails", "branchName"}, {"branchName"}, {"branch"}},
	UPI:           [][]string{{"bankDetails", "upiId"}, {"bankDetails", "upi_id"}, {"upiId"}, {"upi_id"}},
}

// ExtractBankDetails pulls payout details out of a partner intake form. It returns nil when
// the form carries neither an account number nor a UPI id.
func ExtractBankDetails(form map[string]interface{}) *models.BankDetails {
	if len(form) == 0 {
		return nil
	}

	details := &models.BankDetails{
		Version:           BankDetailsVersion,
		AccountNumber:     firstString(form, bankDetailPaths.AccountNumber),
		IFSCCode:          strings.ToUpper(firstString(form, bankDetailPaths.IFSC)),
		BankName:          firstString(form, bankDetailPaths.BankName),
		AccountHolderName: firstString(form, bankDetailPaths.HolderName),
		BranchName:        firstString(form, bankDetailPaths.Branch),
		UPIID:             firstString(form, bankDetailPaths.UPI),
	}
	if details.AccountNumber == "" && details.UPIID == "" {
		return nil
	}
	return details
}

func firstString(form map[string]interface{}, paths [][]string) string {
	for _, p := range paths {
		if v := lookup(form, p); v != "" {
			return v
		}
	}
	return ""
}

func lookup(form map[string]interface{}, path []string) string {
	var current interface{} = form
	for _, key := range path {
		m, ok := asMap(current)
		if !ok {
			return ""
		}
		current = m[key]
	}

	switch v := current.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return fmt.Sprintf("%.0f", v)
	case int, int32, int64:
		return fmt.Sprintf("%d", v)
	}
	return ""
}

// asMap accepts the map shapes produced by encoding/json and the mongo driver.
func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case primitive.M:
		return m, true
	case primitive.D:
		return m.Map(), true
	}
	return nil, false
}

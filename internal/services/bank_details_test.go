package services

import (
	"testing"

	"carefoundation/internal/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestExtractBankDetails(t *testing.T) {
	tests := []struct {
		name string
		form map[string]interface{}
		want *models.BankDetails
	}{
		{name: "empty form", form: nil, want: nil},
		{
			name: "nested camel case",
			form: map[string]interface{}{
				"bankDetails": map[string]interface{}{
					"accountNumber":     "123456789012",
					"ifscCode":          "hdfc0000123",
					"bankName":          "HDFC Bank",
					"accountHolderName": "Sunrise Clinic",
				},
			},
			want: &models.BankDetails{Version: BankDetailsVersion, AccountNumber: "123456789012", IFSCCode: "HDFC0000123", BankName: "HDFC Bank", AccountHolderName: "Sunrise Clinic"},
		},
		{
			name: "flat legacy keys",
			form: map[string]interface{}{"bankAccountNumber": "99887766", "bankIfsc": "ICIC0001", "branch": " MG Road "},
			want: &models.BankDetails{Version: BankDetailsVersion, AccountNumber: "99887766", IFSCCode: "ICIC0001", BranchName: "MG Road"},
		},
		{
			name: "numeric account number",
			form: map[string]interface{}{"accountNumber": float64(5566778899)},
			want: &models.BankDetails{Version: BankDetailsVersion, AccountNumber: "5566778899"},
		},
		{
			name: "upi only",
			form: map[string]interface{}{"upi_id": "clinic@upi"},
			want: &models.BankDetails{Version: BankDetailsVersion, UPIID: "clinic@upi"},
		},
		{
			name: "decoded from mongo",
			form: map[string]interface{}{"bankDetails": bson.D{{Key: "account_number", Value: "4455"}, {Key: "upi_id", Value: "x@upi"}}},
			want: &models.BankDetails{Version: BankDetailsVersion, AccountNumber: "4455", UPIID: "x@upi"},
		},
		{
			name: "primitive map",
			form: map[string]interface{}{"bankDetails": primitive.M{"accountNumber": "7788"}},
			want: &models.BankDetails{Version: BankDetailsVersion, AccountNumber: "7788"},
		},
		{
			name: "nothing payable",
			form: map[string]interface{}{"bankName": "SBI", "ifsc": "SBIN0000001"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractBankDetails(tt.form))
		})
	}
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WalletTransactionType string

const (
	WalletTransactionCredit WalletTransactionType = "credit"
	WalletTransactionDebit  WalletTransactionType = "debit"
)

type WalletTransaction struct {
	Type        WalletTransactionType `json:"type" bson:"type"`
	Amount      float64               `json:"amount" bson:"amount"`
	Description string                `json:"description" bson:"description"`
	ReferenceID string                `json:"reference_id" bson:"reference_id"`
	Status      string                `json:"status" bson:"status"`
	CreatedAt   time.Time             `json:"created_at" bson:"created_at"`
}

type Wallet struct {
	ID             primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID         primitive.ObjectID  `json:"user_id" bson:"user_id"`
	Balance        float64             `json:"balance" bson:"balance"`
	TotalEarned    float64             `json:"total_earned" bson:"total_earned"`
	TotalWithdrawn float64             `json:"total_withdrawn" bson:"total_withdrawn"`
	Transactions   []WalletTransaction `json:"transactions" bson:"transactions"`
	CreatedAt      time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at" bson:"updated_at"`
}

package interfaces

import (
	"context"

	"carefoundation/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WalletRepository interface {
	GetOrCreate(ctx context.Context, userID primitive.ObjectID) (*models.Wallet, error)
	// Credit applies tx once per ReferenceID and reports whether it was applied.
	Credit(ctx context.Context, userID primitive.ObjectID, tx models.WalletTransaction) (bool, error)
	// Debit returns ErrNoMatch when the balance is below tx.Amount.
	Debit(ctx context.Context, userID primitive.ObjectID, tx models.WalletTransaction) (*models.Wallet, error)
}

package memory

import (
	"context"
	"sync"
	"time"

	"carefoundation/internal/models"
	"carefoundation/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type walletRepository struct {
	mu     sync.Mutex
	byUser map[primitive.ObjectID]*models.Wallet
}

func NewWalletRepository() interfaces.WalletRepository {
	return &walletRepository{byUser: make(map[primitive.ObjectID]*models.Wallet)}
}

// getOrCreateLocked must be called with r.mu held.
func (r *walletRepository) getOrCreateLocked(userID primitive.ObjectID) *models.Wallet {
	wallet, ok := r.byUser[userID]
	if !ok {
		now := time.Now()
		wallet = &models.Wallet{
			ID:           primitive.NewObjectID(),
			UserID:       userID,
			Transactions: []models.WalletTransaction{},
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		r.byUser[userID] = wallet
	}
	return wallet
}

func snapshot(w *models.Wallet) *models.Wallet {
	c := *w
	c.Transactions = append([]models.WalletTransaction(nil), w.Transactions...)
	return &c
}

func (r *walletRepository) GetOrCreate(_ context.Context, userID primitive.ObjectID) (*models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return snapshot(r.getOrCreateLocked(userID)), nil
}

func (r *walletRepository) Credit(_ context.Context, userID primitive.ObjectID, tx models.WalletTransaction) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wallet := r.getOrCreateLocked(userID)
	for _, existing := range wallet.Transactions {
		if existing.ReferenceID == tx.ReferenceID {
			return false, nil
		}
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	tx.Type = models.WalletTransactionCredit
	wallet.Balance += tx.Amount
	wallet.TotalEarned += tx.Amount
	wallet.Transactions = append(wallet.Transactions, tx)
	wallet.UpdatedAt = tx.CreatedAt
	return true, nil
}

func (r *walletRepository) Debit(_ context.Context, userID primitive.ObjectID, tx models.WalletTransaction) (*models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wallet, ok := r.byUser[userID]
	if !ok || wallet.Balance < tx.Amount {
		return nil, interfaces.ErrNoMatch
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	tx.Type = models.WalletTransactionDebit
	wallet.Balance -= tx.Amount
	wallet.TotalWithdrawn += tx.Amount
	wallet.Transactions = append(wallet.Transactions, tx)
	wallet.UpdatedAt = tx.CreatedAt
	return snapshot(wallet), nil
}

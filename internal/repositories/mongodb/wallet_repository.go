package mongodb

import (
	"context"
	"time"

	"carefoundation/internal/models"
	"carefoundation/internal/repositories/interfaces"
	"carefoundation/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type walletRepository struct {
	collection *mongo.Collection
}

func NewWalletRepository(db *mongo.Database) interfaces.WalletRepository {
	return &walletRepository{
		collection: db.Collection(database.CollectionWallets),
	}
}

func (r *walletRepository) GetOrCreate(ctx context.Context, userID primitive.ObjectID) (*models.Wallet, error) {
	now := time.Now()
	var wallet models.Wallet
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID},
		bson.M{"$setOnInsert": bson.M{
			"_id":             primitive.NewObjectID(),
			"balance":         0.0,
			"total_earned":    0.0,
			"total_withdrawn": 0.0,
			"transactions":    bson.A{},
			"created_at":      now,
			"updated_at":      now,
		}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&wallet)
	if err != nil {
		return nil, wrapError("get wallet", err)
	}
	return &wallet, nil
}

// Credit upserts the wallet while the reference is absent. When the wallet exists and
// already holds the reference, the filter misses and the upsert collides on user_id.
func (r *walletRepository) Credit(ctx context.Context, userID primitive.ObjectID, tx models.WalletTransaction) (bool, error) {
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	tx.Type = models.WalletTransactionCredit

	_, err := r.collection.UpdateOne(ctx,
		bson.M{
			"user_id":                   userID,
			"transactions.reference_id": bson.M{"$ne": tx.ReferenceID},
		},
		bson.M{
			"$inc":  bson.M{"balance": tx.Amount, "total_earned": tx.Amount},
			"$push": bson.M{"transactions": tx},
			"$set":  bson.M{"updated_at": tx.CreatedAt},
			"$setOnInsert": bson.M{
				"total_withdrawn": 0.0,
				"created_at":      tx.CreatedAt,
			},
		},
		options.Update().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, wrapError("credit wallet", err)
	}
	return true, nil
}

func (r *walletRepository) Debit(ctx context.Context, userID primitive.ObjectID, tx models.WalletTransaction) (*models.Wallet, error) {
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	tx.Type = models.WalletTransactionDebit

	var wallet models.Wallet
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{
			"user_id": userID,
			"balance": bson.M{"$gte": tx.Amount},
		},
		bson.M{
			"$inc":  bson.M{"balance": -tx.Amount, "total_withdrawn": tx.Amount},
			"$push": bson.M{"transactions": tx},
			"$set":  bson.M{"updated_at": tx.CreatedAt},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&wallet)
	if err == mongo.ErrNoDocuments {
		return nil, interfaces.ErrNoMatch
	}
	if err != nil {
		return nil, wrapError("debit wallet", err)
	}
	return &wallet, nil
}

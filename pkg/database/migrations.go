package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"carefoundation/pkg/logger"
)

type Migration struct {
	Version     int
	Description string
	Up          func(context.Context, *mongo.Database) error
}

// Migrator applies index migrations in version order and records the applied version.
type Migrator struct {
	db         *mongo.Database
	migrations []Migration
	logger     *logger.Logger
}

func NewMigrator(db *mongo.Database, log *logger.Logger) *Migrator {
	return &Migrator{
		db:         db,
		migrations: getMigrations(),
		logger:     log,
	}
}

func (m *Migrator) Up(ctx context.Context) error {
	currentVersion, err := m.getCurrentVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range m.migrations {
		if migration.Version <= currentVersion {
			continue
		}
		m.logger.WithFields(map[string]interface{}{
			"version":     migration.Version,
			"description": migration.Description,
		}).Info("Running migration")

		if err := migration.Up(ctx, m.db); err != nil {
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}
		if err := m.updateVersion(ctx, migration.Version); err != nil {
			return fmt.Errorf("failed to update migration version: %w", err)
		}
	}

	return nil
}

func (m *Migrator) getCurrentVersion(ctx context.Context) (int, error) {
	var result struct {
		Version int `bson:"version"`
	}

	err := m.db.Collection(CollectionMigrations).FindOne(ctx, bson.D{}).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read migration version: %w", err)
	}

	return result.Version, nil
}

func (m *Migrator) updateVersion(ctx context.Context, version int) error {
	_, err := m.db.Collection(CollectionMigrations).ReplaceOne(
		ctx,
		bson.D{},
		bson.D{{Key: "version", Value: version}, {Key: "updated_at", Value: time.Now()}},
		options.Replace().SetUpsert(true),
	)
	return err
}

func indexMigration(version int, collection string, indexes []mongo.IndexModel) Migration {
	return Migration{
		Version:     version,
		Description: "Create " + collection + " indexes",
		Up: func(ctx context.Context, db *mongo.Database) error {
			_, err := db.Collection(collection).Indexes().CreateMany(ctx, indexes)
			return err
		},
	}
}

func getMigrations() []Migration {
	unique := func() *options.IndexOptions { return options.Index().SetUnique(true) }

	return []Migration{
		indexMigration(1, CollectionUsers, []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique()},
			{Keys: bson.D{{Key: "role", Value: 1}, {Key: "is_approved", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		}),
		indexMigration(2, CollectionPartners, []mongo.IndexModel{
			{Keys: bson.D{{Key: "created_by", Value: 1}}, Options: unique()},
			{Keys: bson.D{{Key: "type", Value: 1}, {Key: "status", Value: 1}}},
		}),
		indexMigration(3, CollectionCampaigns, []mongo.IndexModel{
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		}),
		indexMigration(4, CollectionDonations, []mongo.IndexModel{
			{Keys: bson.D{{Key: "payment_id", Value: 1}}, Options: unique().SetSparse(true)},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "campaign_id", Value: 1}}},
			{Keys: bson.D{{Key: "payment_status", Value: 1}}},
		}),
		indexMigration(5, CollectionDonationCoupons, []mongo.IndexModel{
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: unique()},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "expiry_date", Value: 1}}},
		}),
		indexMigration(6, CollectionCouponClaims, []mongo.IndexModel{
			{Keys: bson.D{{Key: "coupon_id", Value: 1}}, Options: unique()},
			{Keys: bson.D{{Key: "partner_user_id", Value: 1}, {Key: "requested_at", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		}),
		indexMigration(7, CollectionCoupons, []mongo.IndexModel{
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: unique()},
		}),
		indexMigration(8, CollectionWallets, []mongo.IndexModel{
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: unique()},
		}),
	}
}

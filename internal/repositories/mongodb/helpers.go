package mongodb

import (
	"context"
	"errors"
	"fmt"

	"carefoundation/internal/repositories/interfaces"
	"carefoundation/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// wrapError maps driver errors onto the repository sentinels.
func wrapError(action string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return interfaces.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("failed to %s: %w", action, interfaces.ErrDuplicateKey)
	default:
		return fmt.Errorf("failed to %s: %w", action, err)
	}
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, action string) (*T, error) {
	var doc T
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, wrapError(action, err)
	}
	return &doc, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts *options.FindOptions, action string) ([]*T, error) {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrapError(action, err)
	}
	defer cursor.Close(ctx)

	docs := make([]*T, 0)
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			return nil, wrapError(action, err)
		}
		docs = append(docs, &doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, wrapError(action, err)
	}
	return docs, nil
}

func findPage[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, params *utils.PaginationParams, action string) ([]*T, int64, error) {
	if params == nil {
		params = utils.DefaultPagination()
	}

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, wrapError(action, err)
	}

	docs, err := findAll[T](ctx, coll, filter, params.GetSortOptions(), action)
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

func updateOne(ctx context.Context, coll *mongo.Collection, filter, update bson.M, action string) error {
	result, err := coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return wrapError(action, err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrNoMatch
	}
	return nil
}

// setByID applies $set to one document by id; a missing document is ErrNotFound.
func setByID(ctx context.Context, coll *mongo.Collection, id interface{}, fields bson.M, action string) error {
	err := updateOne(ctx, coll, bson.M{"_id": id}, bson.M{"$set": fields}, action)
	if errors.Is(err, interfaces.ErrNoMatch) {
		return interfaces.ErrNotFound
	}
	return err
}

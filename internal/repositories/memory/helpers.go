// Package memory implements the repository interfaces in process. Every conditional
// update checks its guard and writes under the same lock, matching the single-document
// atomicity the MongoDB implementation relies on.
package memory

import (
	"sort"
	"time"

	"carefoundation/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// sortKey returns the time a document sorts by for the requested field, plus its id as tiebreak.
type sortKey[T any] func(doc *T, field string) (time.Time, primitive.ObjectID)

// page sorts docs, slices the requested page and returns copies.
func page[T any](docs []*T, params *utils.PaginationParams, key sortKey[T]) ([]*T, int64) {
	if params == nil {
		params = utils.DefaultPagination()
	}
	desc := params.Descending()
	sort.SliceStable(docs, func(i, j int) bool {
		ti, idi := key(docs[i], params.Sort)
		tj, idj := key(docs[j], params.Sort)
		if !ti.Equal(tj) {
			if desc {
				return ti.After(tj)
			}
			return ti.Before(tj)
		}
		if desc {
			return idi.Hex() > idj.Hex()
		}
		return idi.Hex() < idj.Hex()
	})

	start, end := params.Window(len(docs))
	out := make([]*T, 0, end-start)
	for _, doc := range docs[start:end] {
		out = append(out, copyPtr(doc))
	}
	return out, int64(len(docs))
}

func copyPtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func byCreatedAt[T any](created func(*T) (time.Time, primitive.ObjectID)) sortKey[T] {
	return func(doc *T, _ string) (time.Time, primitive.ObjectID) {
		return created(doc)
	}
}

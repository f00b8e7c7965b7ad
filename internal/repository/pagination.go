package repository

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hortaviva/community-garden/internal/model"
)

// sortFromOrderBy translates order_by query values ("name_up",
// "address_down", ...) into a sort document. Unknown or empty entries
// are skipped.
func sortFromOrderBy(orderBy []string) bson.D {
	var sort bson.D
	for _, field := range orderBy {
		switch {
		case field == "":
		case strings.HasSuffix(field, "_up"):
			sort = append(sort, bson.E{Key: strings.TrimSuffix(field, "_up"), Value: 1})
		case strings.HasSuffix(field, "_down"):
			sort = append(sort, bson.E{Key: strings.TrimSuffix(field, "_down"), Value: -1})
		}
	}
	return sort
}

// findPage runs a paginated find plus a count on the same filter and
// decodes the results into a Page. page is 1-based.
func findPage[T any](ctx context.Context, coll *mongo.Collection, filter bson.M,
	page, pageSize int, sort bson.D) (model.Page[T], error) {

	out := model.Page[T]{Entities: []T{}}

	opts := options.Find().
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))
	if len(sort) > 0 {
		opts.SetSort(sort)
	}

	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return out, err
	}
	// cursor.All closes the cursor.
	if err := cur.All(ctx, &out.Entities); err != nil {
		return out, err
	}

	count, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return out, err
	}
	out.RowCount = count
	return out, nil
}

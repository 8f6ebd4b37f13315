// Package mongo provides the MongoDB voucher-history repository. Vouchers are
// an append-only log: documents are inserted once and never updated.
package mongo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/accusim-bookkeeping/internal/domain/voucher"
)

const (
	// VoucherCollectionName is the name of the voucher collection in MongoDB
	VoucherCollectionName = "vouchers"
)

// voucherDocument wraps a voucher with its storage envelope. The voucher
// itself is kept as its JSON form so decimal amounts round-trip exactly.
type voucherDocument struct {
	ID       string    `bson:"_id"`
	Data     string    `bson:"data"`
	Number   string    `bson:"number"`
	PostedAt time.Time `bson:"posted_at"`
}

// VoucherRepository stores the voucher history in MongoDB.
type VoucherRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewVoucherRepository creates a new MongoDB voucher repository.
func NewVoucherRepository(logger *slog.Logger, db *mongo.Database) *VoucherRepository {
	return &VoucherRepository{
		db:     db,
		logger: logger,
	}
}

// Insert appends one posted voucher to the history.
func (r *VoucherRepository) Insert(ctx context.Context, v voucher.Voucher) error {
	collection := r.db.Collection(VoucherCollectionName)

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode voucher: %w", err)
	}

	doc := voucherDocument{
		ID:       v.ID.String(),
		Data:     string(data),
		Number:   v.Number,
		PostedAt: time.Now().UTC(),
	}
	if _, err := collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert voucher",
			"voucher_id", v.ID.String(),
			"number", v.Number,
			"error", err)
		return fmt.Errorf("failed to insert voucher: %w", err)
	}

	return nil
}

// List retrieves the full voucher history, newest first. The in-memory
// snapshot keeps vouchers in that order so numbering stays derived from the
// history length.
func (r *VoucherRepository) List(ctx context.Context) ([]voucher.Voucher, error) {
	collection := r.db.Collection(VoucherCollectionName)

	opts := options.Find().SetSort(bson.M{"posted_at": -1})
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error("Failed to list vouchers", "error", err)
		return nil, fmt.Errorf("failed to list vouchers: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []voucherDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode vouchers", "error", err)
		return nil, fmt.Errorf("failed to decode vouchers: %w", err)
	}

	vouchers := make([]voucher.Voucher, len(docs))
	for i, d := range docs {
		var v voucher.Voucher
		if err := json.Unmarshal([]byte(d.Data), &v); err != nil {
			return nil, fmt.Errorf("failed to decode voucher %s: %w", d.ID, err)
		}
		vouchers[i] = v
	}
	return vouchers, nil
}

// Count returns the number of vouchers in the history.
func (r *VoucherRepository) Count(ctx context.Context) (int64, error) {
	collection := r.db.Collection(VoucherCollectionName)

	count, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		r.logger.Error("Failed to count vouchers", "error", err)
		return 0, fmt.Errorf("failed to count vouchers: %w", err)
	}

	return count, nil
}

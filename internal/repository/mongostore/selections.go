package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/soulbliss/soulbliss-api/internal/models"
	"github.com/soulbliss/soulbliss-api/internal/repository"
)

// SelectionRepository stores cart entries in the selected collection.
type SelectionRepository struct {
	coll *mongo.Collection
}

// NewSelectionRepository constructs a SelectionRepository.
func NewSelectionRepository(db *mongo.Database) *SelectionRepository {
	return &SelectionRepository{coll: db.Collection(selectionsCollection)}
}

// Create inserts a selection. The unique (classId, buyer_email) index turns a
// repeat into repository.ErrDuplicate.
func (r *SelectionRepository) Create(ctx context.Context, selection *models.Selection) error {
	if selection.ID == "" {
		selection.ID = uuid.NewString()
	}
	if selection.CreatedAt.IsZero() {
		selection.CreatedAt = time.Now().UTC()
	}

	doc, err := newSelectionDoc(selection)
	if err != nil {
		return err
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("create selection: %w", err)
	}
	return nil
}

// ListByBuyer returns the buyer's cart, oldest first.
func (r *SelectionRepository) ListByBuyer(ctx context.Context, email string) ([]models.Selection, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"buyer_email": email}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list selections: %w", err)
	}
	var docs []selectionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode selections: %w", err)
	}
	selections := make([]models.Selection, 0, len(docs))
	for _, doc := range docs {
		selections = append(selections, doc.model())
	}
	return selections, nil
}

// FindByID returns a selection by id.
func (r *SelectionRepository) FindByID(ctx context.Context, id string) (*models.Selection, error) {
	var doc selectionDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get selection: %w", err)
	}
	selection := doc.model()
	return &selection, nil
}

// Delete removes a selection by id.
func (r *SelectionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete selection: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

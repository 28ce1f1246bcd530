package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/soulbliss/soulbliss-api/internal/models"
	"github.com/soulbliss/soulbliss-api/internal/repository"
)

// PurchaseRepository runs purchase transitions against standalone collections.
// Steps are not transactional; FindOneAndDelete on the selection is the
// linearization point and the caller compensates a failed insert.
type PurchaseRepository struct {
	selections  *mongo.Collection
	enrollments *mongo.Collection
}

// NewPurchaseRepository constructs a PurchaseRepository.
func NewPurchaseRepository(db *mongo.Database) *PurchaseRepository {
	return &PurchaseRepository{
		selections:  db.Collection(selectionsCollection),
		enrollments: db.Collection(enrollmentsCollection),
	}
}

// Atomic reports false: a failed insert requires RestoreSelection.
func (r *PurchaseRepository) Atomic() bool { return false }

// RunPurchase executes fn directly against the collections.
func (r *PurchaseRepository) RunPurchase(ctx context.Context, fn repository.PurchaseFunc) error {
	return fn(ctx, r)
}

func (r *PurchaseRepository) FindEnrollment(ctx context.Context, selectedID, buyerEmail string) (*models.Enrollment, error) {
	return findEnrollment(ctx, r.enrollments, selectedID, buyerEmail)
}

func (r *PurchaseRepository) TakeSelection(ctx context.Context, selectedID, buyerEmail string) (*models.Selection, error) {
	var doc selectionDoc
	err := r.selections.FindOneAndDelete(ctx, bson.M{"_id": selectedID, "buyer_email": buyerEmail}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("take selection: %w", err)
	}
	selection := doc.model()
	return &selection, nil
}

func (r *PurchaseRepository) InsertEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	doc, err := newEnrollmentDoc(enrollment)
	if err != nil {
		return err
	}
	if _, err := r.enrollments.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert enrollment: %w", err)
	}
	return nil
}

// RestoreSelection re-inserts a selection removed by TakeSelection. An
// existing document with the same key counts as restored.
func (r *PurchaseRepository) RestoreSelection(ctx context.Context, selection *models.Selection) error {
	doc, err := newSelectionDoc(selection)
	if err != nil {
		return err
	}
	if _, err := r.selections.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("restore selection: %w", err)
	}
	return nil
}

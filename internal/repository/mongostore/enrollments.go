package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/soulbliss/soulbliss-api/internal/models"
	"github.com/soulbliss/soulbliss-api/internal/repository"
)

// EnrollmentRepository reads payment records from the enrolled collection.
type EnrollmentRepository struct {
	coll *mongo.Collection
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *mongo.Database) *EnrollmentRepository {
	return &EnrollmentRepository{coll: db.Collection(enrollmentsCollection)}
}

// ListByBuyer returns the buyer's enrollments, newest first.
func (r *EnrollmentRepository) ListByBuyer(ctx context.Context, email string) ([]models.Enrollment, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"buyer_email": email}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	var docs []enrollmentDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode enrollments: %w", err)
	}
	enrollments := make([]models.Enrollment, 0, len(docs))
	for _, doc := range docs {
		enrollments = append(enrollments, doc.model())
	}
	return enrollments, nil
}

func findEnrollment(ctx context.Context, coll *mongo.Collection, selectedID, buyerEmail string) (*models.Enrollment, error) {
	var doc enrollmentDoc
	if err := coll.FindOne(ctx, bson.M{"selectedId": selectedID, "buyer_email": buyerEmail}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	enrollment := doc.model()
	return &enrollment, nil
}

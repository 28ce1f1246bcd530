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

// ClassRepository stores classes in the classes collection.
type ClassRepository struct {
	coll *mongo.Collection
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *mongo.Database) *ClassRepository {
	return &ClassRepository{coll: db.Collection(classesCollection)}
}

// List returns classes matching the filter, newest first.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error) {
	query := bson.M{}
	if filter.Email != "" {
		query["email"] = filter.Email
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	var docs []classDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode classes: %w", err)
	}
	classes := make([]models.Class, 0, len(docs))
	for _, doc := range docs {
		classes = append(classes, doc.model())
	}
	return classes, nil
}

// FindByID fetches a class by id.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	var doc classDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get class: %w", err)
	}
	class := doc.model()
	return &class, nil
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	class.CreatedAt = now
	class.UpdatedAt = now

	doc, err := newClassDoc(class)
	if err != nil {
		return err
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// SetStatus moves a class to the given moderation status.
func (r *ClassRepository) SetStatus(ctx context.Context, id string, status models.ClassStatus) error {
	return r.set(ctx, id, bson.M{"status": string(status)}, "set class status")
}

// SetFeedback stores admin feedback on a class.
func (r *ClassRepository) SetFeedback(ctx context.Context, id, feedback string) error {
	return r.set(ctx, id, bson.M{"feedback": feedback}, "set class feedback")
}

func (r *ClassRepository) set(ctx context.Context, id string, fields bson.M, op string) error {
	fields["updatedAt"] = time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

package mongostore

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/soulbliss/soulbliss-api/internal/models"
)

// Collection names.
const (
	usersCollection       = "users"
	classesCollection     = "classes"
	selectionsCollection  = "selected"
	enrollmentsCollection = "enrolled"
)

type userDoc struct {
	ID        string    `bson:"_id"`
	Email     string    `bson:"email"`
	Name      string    `bson:"name"`
	PhotoURL  string    `bson:"photo,omitempty"`
	Role      string    `bson:"role,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
}

func newUserDoc(u *models.User) userDoc {
	return userDoc{ID: u.ID, Email: u.Email, Name: u.Name, PhotoURL: u.PhotoURL, Role: string(u.Role), CreatedAt: u.CreatedAt}
}

func (d userDoc) model() models.User {
	return models.User{ID: d.ID, Email: d.Email, Name: d.Name, PhotoURL: d.PhotoURL, Role: models.UserRole(d.Role), CreatedAt: d.CreatedAt}
}

type classDoc struct {
	ID             string               `bson:"_id"`
	Name           string               `bson:"name"`
	Image          string               `bson:"image"`
	InstructorName string               `bson:"instructorName"`
	Email          string               `bson:"email"`
	AvailableSeats int                  `bson:"availableSeats"`
	Price          primitive.Decimal128 `bson:"price"`
	Enrolled       int                  `bson:"enrolled"`
	Status         string               `bson:"status"`
	Feedback       *string              `bson:"feedback,omitempty"`
	CreatedAt      time.Time            `bson:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt"`
}

func newClassDoc(c *models.Class) (classDoc, error) {
	price, err := toDecimal128(c.Price)
	if err != nil {
		return classDoc{}, err
	}
	return classDoc{
		ID:             c.ID,
		Name:           c.Name,
		Image:          c.Image,
		InstructorName: c.InstructorName,
		Email:          c.Email,
		AvailableSeats: c.AvailableSeats,
		Price:          price,
		Enrolled:       c.Enrolled,
		Status:         string(c.Status),
		Feedback:       c.Feedback,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}, nil
}

func (d classDoc) model() models.Class {
	return models.Class{
		ID:             d.ID,
		Name:           d.Name,
		Image:          d.Image,
		InstructorName: d.InstructorName,
		Email:          d.Email,
		AvailableSeats: d.AvailableSeats,
		Price:          fromDecimal128(d.Price),
		Enrolled:       d.Enrolled,
		Status:         models.ClassStatus(d.Status),
		Feedback:       d.Feedback,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type selectionDoc struct {
	ID              string               `bson:"_id"`
	ClassID         string               `bson:"classId"`
	Name            string               `bson:"name"`
	Image           string               `bson:"image"`
	InstructorName  string               `bson:"instructorName"`
	InstructorEmail string               `bson:"instructorEmail"`
	Price           primitive.Decimal128 `bson:"price"`
	BuyerEmail      string               `bson:"buyer_email"`
	CreatedAt       time.Time            `bson:"createdAt"`
}

func newSelectionDoc(s *models.Selection) (selectionDoc, error) {
	price, err := toDecimal128(s.Price)
	if err != nil {
		return selectionDoc{}, err
	}
	return selectionDoc{
		ID:              s.ID,
		ClassID:         s.ClassID,
		Name:            s.Name,
		Image:           s.Image,
		InstructorName:  s.InstructorName,
		InstructorEmail: s.InstructorEmail,
		Price:           price,
		BuyerEmail:      s.BuyerEmail,
		CreatedAt:       s.CreatedAt,
	}, nil
}

func (d selectionDoc) model() models.Selection {
	return models.Selection{
		ID:              d.ID,
		ClassID:         d.ClassID,
		Name:            d.Name,
		Image:           d.Image,
		InstructorName:  d.InstructorName,
		InstructorEmail: d.InstructorEmail,
		Price:           fromDecimal128(d.Price),
		BuyerEmail:      d.BuyerEmail,
		CreatedAt:       d.CreatedAt,
	}
}

type enrollmentDoc struct {
	ID            string               `bson:"_id"`
	SelectedID    string               `bson:"selectedId"`
	ClassID       string               `bson:"classId"`
	ClassName     string               `bson:"className"`
	BuyerEmail    string               `bson:"buyer_email"`
	Amount        primitive.Decimal128 `bson:"price"`
	TransactionID string               `bson:"transactionId"`
	CreatedAt     time.Time            `bson:"date"`
}

func newEnrollmentDoc(e *models.Enrollment) (enrollmentDoc, error) {
	amount, err := toDecimal128(e.Amount)
	if err != nil {
		return enrollmentDoc{}, err
	}
	return enrollmentDoc{
		ID:            e.ID,
		SelectedID:    e.SelectedID,
		ClassID:       e.ClassID,
		ClassName:     e.ClassName,
		BuyerEmail:    e.BuyerEmail,
		Amount:        amount,
		TransactionID: e.TransactionID,
		CreatedAt:     e.CreatedAt,
	}, nil
}

func (d enrollmentDoc) model() models.Enrollment {
	return models.Enrollment{
		ID:            d.ID,
		SelectedID:    d.SelectedID,
		ClassID:       d.ClassID,
		ClassName:     d.ClassName,
		BuyerEmail:    d.BuyerEmail,
		Amount:        fromDecimal128(d.Amount),
		TransactionID: d.TransactionID,
		CreatedAt:     d.CreatedAt,
	}
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode decimal %s: %w", d.String(), err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

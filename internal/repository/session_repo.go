package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"wellscreen/internal/model"
)

// SessionRepo is the answer store adapter. It carries no business logic; the
// engine owns all decisions about what to write and when.
type SessionRepo interface {
	Create(ctx context.Context, session *model.Session) error
	GetByID(ctx context.Context, id string) (*model.Session, error)
	// SetOrder persists the question order together with currentIndex = 0.
	// The order is written once per session and never regenerated.
	SetOrder(ctx context.Context, id string, order []int) error
	AppendAnswer(ctx context.Context, id string, questionID, value int) error
	SetCurrentIndex(ctx context.Context, id string, index int) error
	// SetComputedResult persists a scored result. A zero completedAt leaves
	// the completion timestamp untouched so result reads cannot flip an
	// in-progress session to complete.
	SetComputedResult(ctx context.Context, id string, result *model.ComputedResult, completedAt time.Time) error
}

type sessionRepo struct {
	collection *mongo.Collection
}

// NewSessionRepo creates a Mongo-backed session repository.
func NewSessionRepo(db *mongo.Database) SessionRepo {
	return &sessionRepo{
		collection: db.Collection("sessions"),
	}
}

func (r *sessionRepo) Create(ctx context.Context, session *model.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	if _, err := r.collection.InsertOne(ctx, session); err != nil {
		return storeErr("create session", err)
	}
	return nil
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*model.Session, error) {
	var session model.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", model.ErrNotFound, id)
		}
		return nil, storeErr("get session "+id, err)
	}
	if session.Answers == nil {
		session.Answers = model.AnswerSet{}
	}
	return &session, nil
}

func (r *sessionRepo) SetOrder(ctx context.Context, id string, order []int) error {
	return r.update(ctx, id, bson.M{
		"questionOrder": order,
		"currentIndex":  0,
	})
}

func (r *sessionRepo) AppendAnswer(ctx context.Context, id string, questionID, value int) error {
	return r.update(ctx, id, bson.M{
		"answers." + strconv.Itoa(questionID): value,
	})
}

func (r *sessionRepo) SetCurrentIndex(ctx context.Context, id string, index int) error {
	return r.update(ctx, id, bson.M{"currentIndex": index})
}

func (r *sessionRepo) SetComputedResult(ctx context.Context, id string, result *model.ComputedResult, completedAt time.Time) error {
	fields := bson.M{"calculatedResult": result}
	if !completedAt.IsZero() {
		fields["completedAt"] = completedAt
	}
	return r.update(ctx, id, fields)
}

func (r *sessionRepo) update(ctx context.Context, id string, fields bson.M) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return storeErr("update session "+id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}
	return nil
}

// storeErr wraps driver failures as the transient-store sentinel so callers
// can map them without knowing the driver.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", model.ErrStoreUnavailable, op, err)
}

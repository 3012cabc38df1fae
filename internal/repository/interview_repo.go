package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/opsych/ophtheon/internal/model"
)

// InterviewRepo handles MongoDB operations for completed interviews.
// Interviews are archived here once the subject has walked the whole
// protocol; in-flight sessions live only in the cache.
type InterviewRepo interface {
	Save(ctx context.Context, session *model.InterviewSession) error
	GetByID(ctx context.Context, id string) (*model.InterviewSession, error)
	ListRecent(ctx context.Context, limit int64) ([]*model.InterviewSession, error)
	Delete(ctx context.Context, id string) error
}

type interviewRepo struct {
	collection *mongo.Collection
}

// NewInterviewRepo creates a new interview repository
func NewInterviewRepo(db *mongo.Database) InterviewRepo {
	return &interviewRepo{
		collection: db.Collection("interviews"),
	}
}

func (r *interviewRepo) Save(ctx context.Context, session *model.InterviewSession) error {
	session.UpdatedAt = time.Now()

	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": session.ID},
		session,
		options.Replace().SetUpsert(true))
	return err
}

func (r *interviewRepo) GetByID(ctx context.Context, id string) (*model.InterviewSession, error) {
	var session model.InterviewSession
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *interviewRepo) ListRecent(ctx context.Context, limit int64) ([]*model.InterviewSession, error) {
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []*model.InterviewSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *interviewRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/opsych/ophtheon/internal/model"
)

// ExamRepo handles MongoDB operations for exam sessions. Finished runs are
// archived with their full cue timeline for later review.
type ExamRepo interface {
	Save(ctx context.Context, exam *model.ExamSession) error
	GetByID(ctx context.Context, id string) (*model.ExamSession, error)
	ListRecent(ctx context.Context, limit int64) ([]*model.ExamSession, error)
	Delete(ctx context.Context, id string) error
}

type examRepo struct {
	collection *mongo.Collection
}

// NewExamRepo creates a new exam repository
func NewExamRepo(db *mongo.Database) ExamRepo {
	return &examRepo{
		collection: db.Collection("exams"),
	}
}

func (r *examRepo) Save(ctx context.Context, exam *model.ExamSession) error {
	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": exam.ID},
		exam,
		options.Replace().SetUpsert(true))
	return err
}

func (r *examRepo) GetByID(ctx context.Context, id string) (*model.ExamSession, error) {
	var exam model.ExamSession
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&exam)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *examRepo) ListRecent(ctx context.Context, limit int64) ([]*model.ExamSession, error) {
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exams []*model.ExamSession
	if err := cursor.All(ctx, &exams); err != nil {
		return nil, err
	}
	return exams, nil
}

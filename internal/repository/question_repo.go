package repository

import (
	"context"
	"time"

	"quizagent/internal/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// QuestionRepo is the question-bank storage contract. Records are immutable
// once seeded; the quiz machine only ever reads.
type QuestionRepo interface {
	Create(ctx context.Context, question *model.Question) error
	GetByID(ctx context.Context, id string) (*model.Question, error)

	// Draw picks one random question of the given type whose id is not in
	// excludeIDs. Returns (nil, nil) when no matching question exists.
	Draw(ctx context.Context, questionType model.QuestionType, excludeIDs []string) (*model.Question, error)

	CountByType(ctx context.Context, questionType model.QuestionType) (int64, error)
	GetAll(ctx context.Context) ([]*model.Question, error)
}

type questionRepo struct {
	collection *mongo.Collection
}

func NewQuestionRepo(db *mongo.Database) QuestionRepo {
	return &questionRepo{
		collection: db.Collection("questions"),
	}
}

func (r *questionRepo) Create(ctx context.Context, question *model.Question) error {
	if question.ID == "" {
		question.ID = uuid.New().String()
	}
	if question.CreatedAt.IsZero() {
		question.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, question)
	return err
}

func (r *questionRepo) GetByID(ctx context.Context, id string) (*model.Question, error) {
	var question model.Question
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &question, nil
}

func (r *questionRepo) Draw(ctx context.Context, questionType model.QuestionType, excludeIDs []string) (*model.Question, error) {
	match := bson.M{"type": questionType}
	if len(excludeIDs) > 0 {
		match["_id"] = bson.M{"$nin": excludeIDs}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sample", Value: bson.M{"size": 1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []*model.Question
	if err = cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, nil
	}
	return questions[0], nil
}

func (r *questionRepo) CountByType(ctx context.Context, questionType model.QuestionType) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"type": questionType})
}

func (r *questionRepo) GetAll(ctx context.Context) ([]*model.Question, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []*model.Question
	if err = cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

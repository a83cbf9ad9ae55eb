package repository

import (
	"context"

	"quizagent/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepo is the durable side of session storage. The Redis cache sits
// in front of it; see service.SessionStore.
type UserRepo interface {
	Get(ctx context.Context, userID string) (*model.UserSession, error)
	Upsert(ctx context.Context, session *model.UserSession) error
	Delete(ctx context.Context, userID string) error
}

type userRepo struct {
	collection *mongo.Collection
}

func NewUserRepo(db *mongo.Database) UserRepo {
	return &userRepo{
		collection: db.Collection("users"),
	}
}

func (r *userRepo) Get(ctx context.Context, userID string) (*model.UserSession, error) {
	var session model.UserSession
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *userRepo) Upsert(ctx context.Context, session *model.UserSession) error {
	_, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"_id": session.UserID},
		session,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *userRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": userID})
	return err
}

// internal/repository/mongo/session_repo.go
package mongo

import (
	"alcyxob/workout-tracker/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	sessionCollectionName = "workout_sessions"
	setCollectionName     = "workout_sets"
)

// mongoSessionRepository implements repository.SessionRepository
type mongoSessionRepository struct {
	collection *mongo.Collection
}

func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// Create inserts a session header.
func (r *mongoSessionRepository) Create(ctx context.Context, session *repository.SessionRecord) error {
	if session.ID == "" || session.UserID == "" {
		return errors.New("session requires id and userId")
	}
	if _, err := r.collection.InsertOne(ctx, session); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// ListByUser retrieves all session headers of a user, newest first.
func (r *mongoSessionRepository) ListByUser(ctx context.Context, userID string) ([]repository.SessionRecord, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sessions := []repository.SessionRecord{}
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Delete removes a session header. Its sets are not touched.
func (r *mongoSessionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureSessionIndexes creates necessary indexes. Call during startup.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// mongoSetRepository implements repository.SetRepository
type mongoSetRepository struct {
	collection *mongo.Collection
}

func NewMongoSetRepository(db *mongo.Database) repository.SetRepository {
	return &mongoSetRepository{
		collection: db.Collection(setCollectionName),
	}
}

// CreateMany inserts all sets in one ordered batch.
func (r *mongoSetRepository) CreateMany(ctx context.Context, sets []repository.SetRecord) error {
	if len(sets) == 0 {
		return nil
	}
	docs := make([]interface{}, len(sets))
	for i := range sets {
		if sets[i].ID == "" || sets[i].SessionID == "" {
			return errors.New("set requires id and sessionId")
		}
		docs[i] = sets[i]
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// ListBySessionIDs retrieves the sets of many sessions, ordered by session then position.
func (r *mongoSetRepository) ListBySessionIDs(ctx context.Context, sessionIDs []string) ([]repository.SetRecord, error) {
	sets := []repository.SetRecord{}
	if len(sessionIDs) == 0 {
		return sets, nil
	}
	filter := bson.M{"sessionId": bson.M{"$in": sessionIDs}}
	findOptions := options.Find().SetSort(bson.D{{Key: "sessionId", Value: 1}, {Key: "position", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &sets); err != nil {
		return nil, err
	}
	return sets, nil
}

// DeleteBySessionID removes all sets of a session, including rows from a partial insert.
func (r *mongoSetRepository) DeleteBySessionID(ctx context.Context, sessionID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"sessionId": sessionID})
	return err
}

// EnsureSetIndexes creates necessary indexes. Call during startup.
func EnsureSetIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sessionId", Value: 1}, {Key: "position", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// internal/repository/mongo/exercise_repo.go
package mongo

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// List returns the whole catalog. Order is unspecified.
func (r *mongoExerciseRepository) List(ctx context.Context) ([]domain.Exercise, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	exercises := []domain.Exercise{}
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// Create inserts an exercise whose id was minted by the caller.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID == "" || exercise.Name == "" {
		return errors.New("exercise id and name are required")
	}
	if _, err := r.collection.InsertOne(ctx, exercise); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// EnsureExerciseIndexes creates necessary indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "muscleGroup", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

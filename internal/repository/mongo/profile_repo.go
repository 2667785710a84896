package mongo

import (
	"alcyxob/workout-tracker/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const profileCollectionName = "profiles"

// mongoProfileRepository implements repository.ProfileRepository.
// Profiles are keyed by the owning user's id.
type mongoProfileRepository struct {
	collection *mongo.Collection
}

func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{
		collection: db.Collection(profileCollectionName),
	}
}

func (r *mongoProfileRepository) GetByUserID(ctx context.Context, userID string) (*repository.ProfileRecord, error) {
	var profile repository.ProfileRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Upsert replaces the whole document so fields cleared by the caller are cleared in storage too.
func (r *mongoProfileRepository) Upsert(ctx context.Context, profile *repository.ProfileRecord) error {
	if profile.UserID == "" {
		return errors.New("profile user ID is required")
	}
	profile.UpdatedAt = time.Now().UTC()

	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": profile.UserID},
		profile,
		options.Replace().SetUpsert(true),
	)
	return err
}

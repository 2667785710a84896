package mongo

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI and
// verifies it with a ping against the primary.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes of every collection used by the app.
// Failures are logged; the app still works without them, only slower.
func EnsureIndexes(ctx context.Context, db *mongo.Database) {
	ensure := map[string]func(context.Context, *mongo.Collection) error{
		userCollectionName:     EnsureUserIndexes,
		exerciseCollectionName: EnsureExerciseIndexes,
		sessionCollectionName:  EnsureSessionIndexes,
		setCollectionName:      EnsureSetIndexes,
	}
	for name, fn := range ensure {
		if err := fn(ctx, db.Collection(name)); err != nil {
			log.WithError(err).WithField("collection", name).Warn("failed to create indexes")
		}
	}
}

// Package mongodb stores users and exercises as documents in MongoDB.
// Identifiers are ObjectIDs rendered as hex strings.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/patric-chuzhbe/exercisetracker/internal/models"
)

const (
	usersCollection     = "users"
	exercisesCollection = "exercises"
)

type userDocument struct {
	ID       primitive.ObjectID `bson:"_id"`
	Username string             `bson:"username"`
}

type exerciseDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	UserID      primitive.ObjectID `bson:"userId"`
	Description string             `bson:"description"`
	Duration    float64            `bson:"duration"`
	Date        time.Time          `bson:"date"`
}

func (d userDocument) toModel() models.User {
	return models.User{
		ID:       d.ID.Hex(),
		Username: d.Username,
	}
}

func (d exerciseDocument) toModel() models.Exercise {
	return models.Exercise{
		ID:          d.ID.Hex(),
		UserID:      d.UserID.Hex(),
		Description: d.Description,
		Duration:    d.Duration,
		Date:        d.Date.UTC(),
	}
}

// MongoDB is a MongoDB-backed implementation of the exercise tracker storage.
type MongoDB struct {
	client            *mongo.Client
	users             *mongo.Collection
	exercises         *mongo.Collection
	connectionTimeout time.Duration
}

// New connects to uri, checks the connection and makes sure the log lookup index exists.
func New(
	ctx context.Context,
	uri string,
	databaseName string,
	connectionTimeout time.Duration,
) (*MongoDB, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	client, err := mongo.Connect(
		connectCtx,
		options.Client().
			ApplyURI(uri).
			SetConnectTimeout(connectionTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("in internal/db/mongodb/mongodb.go/New(): error while `mongo.Connect()` calling: %w", err)
	}

	database := client.Database(databaseName)
	result := &MongoDB{
		client:            client,
		users:             database.Collection(usersCollection),
		exercises:         database.Collection(exercisesCollection),
		connectionTimeout: connectionTimeout,
	}

	if err := result.Ping(connectCtx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("in internal/db/mongodb/mongodb.go/New(): error while `result.Ping()` calling: %w", err)
	}

	_, err = result.exercises.Indexes().CreateOne(connectCtx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "date", Value: 1},
			{Key: "_id", Value: 1},
		},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("in internal/db/mongodb/mongodb.go/New(): error while `CreateOne()` calling: %w", err)
	}

	return result, nil
}

func (db *MongoDB) InsertUser(ctx context.Context, username string) (models.User, error) {
	document := userDocument{
		ID:       primitive.NewObjectID(),
		Username: username,
	}

	if _, err := db.users.InsertOne(ctx, document); err != nil {
		return models.User{}, err
	}

	return document.toModel(), nil
}

// FindUserByID treats ids that are not valid ObjectIDs as unknown users.
func (db *MongoDB) FindUserByID(ctx context.Context, userID string) (models.User, bool, error) {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.User{}, false, nil
	}

	var document userDocument
	err = db.users.FindOne(ctx, bson.M{"_id": objectID}).Decode(&document)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, false, nil
		}
		return models.User{}, false, err
	}

	return document.toModel(), true, nil
}

// ListUsers returns users in creation order; ObjectIDs grow monotonically per process.
func (db *MongoDB) ListUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := db.users.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var documents []userDocument
	if err := cursor.All(ctx, &documents); err != nil {
		return nil, err
	}

	result := make([]models.User, 0, len(documents))
	for _, document := range documents {
		result = append(result, document.toModel())
	}

	return result, nil
}

func (db *MongoDB) InsertExercise(ctx context.Context, exercise models.Exercise) (models.Exercise, error) {
	userID, err := primitive.ObjectIDFromHex(exercise.UserID)
	if err != nil {
		return models.Exercise{}, fmt.Errorf("malformed user id %q: %w", exercise.UserID, err)
	}

	document := exerciseDocument{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Description: exercise.Description,
		Duration:    exercise.Duration,
		Date:        exercise.Date,
	}

	if _, err := db.exercises.InsertOne(ctx, document); err != nil {
		return models.Exercise{}, err
	}

	return document.toModel(), nil
}

func (db *MongoDB) FindExercises(ctx context.Context, query models.LogQuery) ([]models.Exercise, error) {
	userID, err := primitive.ObjectIDFromHex(query.UserID)
	if err != nil {
		return []models.Exercise{}, nil
	}

	cursor, err := db.exercises.Find(ctx, buildFilter(userID, query), buildFindOptions(query))
	if err != nil {
		return nil, err
	}

	var documents []exerciseDocument
	if err := cursor.All(ctx, &documents); err != nil {
		return nil, err
	}

	result := make([]models.Exercise, 0, len(documents))
	for _, document := range documents {
		result = append(result, document.toModel())
	}

	return result, nil
}

func buildFilter(userID primitive.ObjectID, query models.LogQuery) bson.M {
	filter := bson.M{"userId": userID}

	dateRange := bson.M{}
	if query.DateFrom != nil {
		dateRange["$gte"] = *query.DateFrom
	}
	if query.DateTo != nil {
		dateRange["$lte"] = *query.DateTo
	}
	if len(dateRange) > 0 {
		filter["date"] = dateRange
	}

	return filter
}

func buildFindOptions(query models.LogQuery) *options.FindOptions {
	findOptions := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "_id", Value: 1},
	})
	if query.Limit > 0 {
		findOptions.SetLimit(int64(query.Limit))
	}

	return findOptions
}

// Ping verifies connectivity with the primary within the configured timeout.
func (db *MongoDB) Ping(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, db.connectionTimeout)
	defer cancel()

	return db.client.Ping(ctxWithTimeout, readpref.Primary())
}

// Close disconnects the client.
func (db *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), db.connectionTimeout)
	defer cancel()

	return db.client.Disconnect(ctx)
}

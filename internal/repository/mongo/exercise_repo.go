package mongo

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository.
// Exercises carry a copy of their workout's userId so ownership checks stay single-collection.
type mongoExerciseRepository struct {
	collection *mongo.Collection
	ids        *sequence
}

// NewMongoExerciseRepository creates a new exercise repository.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
		ids:        newSequence(db, exerciseCollectionName),
	}
}

// Create inserts an exercise. Callers must have resolved the workout and set UserID.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (int64, error) {
	if exercise.UserID == 0 || exercise.WorkoutID == 0 {
		return 0, errors.New("exercise workout and owner are required")
	}
	id, err := r.ids.next(ctx)
	if err != nil {
		return 0, err
	}
	exercise.ID = id
	exercise.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, exercise); err != nil {
		return 0, err
	}
	return id, nil
}

// GetByID finds one exercise whose workout belongs to userID.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, userID, id int64) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// List returns the user's exercises in insertion order, optionally for one workout.
func (r *mongoExerciseRepository) List(ctx context.Context, userID int64, workoutID *int64) ([]domain.Exercise, error) {
	filter := bson.M{"userId": userID}
	if workoutID != nil {
		filter["workoutId"] = *workoutID
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
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

// Update rewrites the exercise's own fields; the parent workout never changes.
func (r *mongoExerciseRepository) Update(ctx context.Context, userID int64, exercise *domain.Exercise) error {
	update := bson.M{"$set": bson.M{
		"name":     exercise.Name,
		"sets":     exercise.Sets,
		"reps":     exercise.Reps,
		"weight":   exercise.Weight,
		"duration": exercise.Duration,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": exercise.ID, "userId": userID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an exercise whose workout belongs to userID.
func (r *mongoExerciseRepository) Delete(ctx context.Context, userID, id int64) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureExerciseIndexes creates the ownership and record-lookup indexes.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "workoutId", Value: 1}, {Key: "createdAt", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "name", Value: 1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

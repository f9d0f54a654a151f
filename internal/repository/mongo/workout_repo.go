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

const (
	workoutCollectionName = "workouts"

	workoutSlotIndexName = "user_date_type_unique"
)

// mongoWorkoutRepository implements repository.WorkoutRepository using MongoDB.
type mongoWorkoutRepository struct {
	collection *mongo.Collection
	exercises  *mongo.Collection
	ids        *sequence
}

// NewMongoWorkoutRepository creates a new workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
		exercises:  db.Collection(exerciseCollectionName),
		ids:        newSequence(db, workoutCollectionName),
	}
}

// Create inserts a workout. A clash on the (userId, date, type) index is
// reported as repository.ErrDuplicateWorkout.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (int64, error) {
	id, err := r.ids.next(ctx)
	if err != nil {
		return 0, err
	}
	workout.ID = id
	workout.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, workout); err != nil {
		return 0, translateWorkoutError(err)
	}
	return id, nil
}

// GetByID finds one workout owned by userID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, userID, id int64) (*domain.Workout, error) {
	var workout domain.Workout
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// List returns the user's workouts, newest first.
func (r *mongoWorkoutRepository) List(ctx context.Context, userID int64, filter domain.WorkoutFilter) ([]domain.WorkoutSummary, error) {
	query := bson.M{"userId": userID}
	if filter.Date != nil {
		query["date"] = *filter.Date
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	return findSummaries(ctx, r.collection, r.exercises, query, options.Find().SetSort(newestFirst))
}

// Update replaces the mutable fields of a workout owned by workout.UserID.
func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	update := bson.M{"$set": bson.M{
		"date":     workout.Date,
		"type":     workout.Type,
		"duration": workout.Duration,
		"distance": workout.Distance,
		"notes":    workout.Notes,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": workout.ID, "userId": workout.UserID}, update)
	if err != nil {
		return translateWorkoutError(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the workout and then its exercises.
func (r *mongoWorkoutRepository) Delete(ctx context.Context, userID, id int64) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	_, err = r.exercises.DeleteMany(ctx, bson.M{"workoutId": id})
	return err
}

var newestFirst = bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}}

// findSummaries runs a workout query and attaches per-workout exercise counts
// from a single grouped aggregation.
func findSummaries(ctx context.Context, workouts, exercises *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]domain.WorkoutSummary, error) {
	cursor, err := workouts.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var found []domain.Workout
	if err = cursor.All(ctx, &found); err != nil {
		return nil, err
	}

	summaries := make([]domain.WorkoutSummary, 0, len(found))
	if len(found) == 0 {
		return summaries, nil
	}

	ids := make([]int64, len(found))
	for i, w := range found {
		ids[i] = w.ID
	}
	counts, err := exerciseCounts(ctx, exercises, ids)
	if err != nil {
		return nil, err
	}
	for _, w := range found {
		summaries = append(summaries, domain.WorkoutSummary{Workout: w, ExerciseCount: counts[w.ID]})
	}
	return summaries, nil
}

func exerciseCounts(ctx context.Context, exercises *mongo.Collection, workoutIDs []int64) (map[int64]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"workoutId": bson.M{"$in": workoutIDs}}}},
		{{Key: "$group", Value: bson.M{"_id": "$workoutId", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := exercises.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		WorkoutID int64 `bson:"_id"`
		Count     int   `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	counts := make(map[int64]int, len(rows))
	for _, row := range rows {
		counts[row.WorkoutID] = row.Count
	}
	return counts, nil
}

func translateWorkoutError(err error) error {
	if index, dup := duplicateIndex(err, workoutSlotIndexName); dup && index == workoutSlotIndexName {
		return repository.ErrDuplicateWorkout
	}
	return err
}

// EnsureWorkoutIndexes creates the per-user slot uniqueness index and the listing index.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "date", Value: 1},
				{Key: "type", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName(workoutSlotIndexName),
		},
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "date", Value: -1},
				{Key: "createdAt", Value: -1},
			},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

package mongo

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoStatsRepository computes dashboard aggregates with aggregation pipelines.
type mongoStatsRepository struct {
	workouts  *mongo.Collection
	exercises *mongo.Collection
}

// NewMongoStatsRepository creates a new stats repository.
func NewMongoStatsRepository(db *mongo.Database) repository.StatsRepository {
	return &mongoStatsRepository{
		workouts:  db.Collection(workoutCollectionName),
		exercises: db.Collection(exerciseCollectionName),
	}
}

func (r *mongoStatsRepository) RecentWorkouts(ctx context.Context, userID int64, since time.Time, limit int) ([]domain.WorkoutSummary, error) {
	filter := bson.M{"userId": userID, "date": bson.M{"$gte": since}}
	opts := options.Find().SetSort(newestFirst).SetLimit(int64(limit))
	return findSummaries(ctx, r.workouts, r.exercises, filter, opts)
}

// WeeklyVolume sums durations and counts workouts since the given day. The
// duration total stays nil when no workout in the window has a duration.
func (r *mongoStatsRepository) WeeklyVolume(ctx context.Context, userID int64, since time.Time) (domain.WeeklyStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID, "date": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"totalDuration": bson.M{"$sum": "$duration"},
			"withDuration":  bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$gt": bson.A{"$duration", nil}}, 1, 0}}},
			"totalWorkouts": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.workouts.Aggregate(ctx, pipeline)
	if err != nil {
		return domain.WeeklyStats{}, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		TotalDuration int64 `bson:"totalDuration"`
		WithDuration  int   `bson:"withDuration"`
		TotalWorkouts int   `bson:"totalWorkouts"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return domain.WeeklyStats{}, err
	}

	stats := domain.WeeklyStats{}
	if len(rows) == 0 {
		return stats, nil
	}
	stats.TotalWorkouts = rows[0].TotalWorkouts
	if rows[0].WithDuration > 0 {
		total := int(rows[0].TotalDuration)
		stats.TotalDuration = &total
	}
	return stats, nil
}

// PersonalRecords groups weighted exercises by name and keeps the heaviest.
func (r *mongoStatsRepository) PersonalRecords(ctx context.Context, userID int64, limit int) ([]domain.PersonalRecord, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID, "weight": bson.M{"$ne": nil}}}},
		{{Key: "$group", Value: bson.M{"_id": "$name", "maxWeight": bson.M{"$max": "$weight"}}}},
		{{Key: "$sort", Value: bson.D{{Key: "maxWeight", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}
	cursor, err := r.exercises.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []domain.PersonalRecord{}
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

package mongo

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func nextIDResponse(name string, seq int64) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
		{Key: "_id", Value: name},
		{Key: "seq", Value: seq},
	}})
}

func duplicateKeyResponse(index string) bson.D {
	return mtest.CreateWriteErrorsResponse(mtest.WriteError{
		Index:   0,
		Code:    11000,
		Message: "E11000 duplicate key error collection: test.x index: " + index + " dup key: { }",
	})
}

func TestWorkoutRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	day := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	mt.Run("assigns sequential id", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		mt.AddMockResponses(nextIDResponse(workoutCollectionName, 7), mtest.CreateSuccessResponse())

		w := &domain.Workout{UserID: 1, Date: day, Type: domain.WorkoutCardio}
		id, err := repo.Create(context.Background(), w)
		require.NoError(mt, err)
		assert.Equal(mt, int64(7), id)
		assert.Equal(mt, int64(7), w.ID)
		assert.False(mt, w.CreatedAt.IsZero())
	})

	mt.Run("duplicate slot", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		mt.AddMockResponses(nextIDResponse(workoutCollectionName, 8), duplicateKeyResponse(workoutSlotIndexName))

		_, err := repo.Create(context.Background(), &domain.Workout{UserID: 1, Date: day, Type: domain.WorkoutCardio})
		assert.ErrorIs(mt, err, repository.ErrDuplicateWorkout)
	})
}

func TestWorkoutRepository_GetByID_NotFound(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("other owner", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.workouts", mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), 2, 7)
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})
}

func TestWorkoutRepository_List_AttachesCounts(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	day := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	mt.Run("counts", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.workouts", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: int64(2)}, {Key: "userId", Value: int64(1)}, {Key: "date", Value: day}, {Key: "type", Value: "strength"}},
				bson.D{{Key: "_id", Value: int64(1)}, {Key: "userId", Value: int64(1)}, {Key: "date", Value: day}, {Key: "type", Value: "cardio"}},
			),
			mtest.CreateCursorResponse(0, "test.exercises", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: int64(2)}, {Key: "count", Value: int32(3)}},
			),
		)

		got, err := repo.List(context.Background(), 1, domain.WorkoutFilter{})
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, 3, got[0].ExerciseCount)
		assert.Equal(mt, 0, got[1].ExerciseCount)
		assert.Equal(mt, domain.WorkoutCardio, got[1].Type)
	})

	mt.Run("empty list skips count query", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.workouts", mtest.FirstBatch))

		got, err := repo.List(context.Background(), 1, domain.WorkoutFilter{Type: domain.WorkoutSports})
		require.NoError(mt, err)
		assert.NotNil(mt, got)
		assert.Empty(mt, got)
	})
}

func TestUserRepository_Create_Duplicates(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	cases := []struct {
		name  string
		index string
		want  error
	}{
		{"username", usernameIndexName, repository.ErrDuplicateUsername},
		{"email", emailIndexName, repository.ErrDuplicateEmail},
	}
	for _, tc := range cases {
		mt.Run(tc.name, func(mt *mtest.T) {
			repo := NewMongoUserRepository(mt.DB)
			mt.AddMockResponses(nextIDResponse(userCollectionName, 1), duplicateKeyResponse(tc.index))

			_, err := repo.Create(context.Background(), &domain.User{Username: "ann", Email: "a@x.io", PasswordHash: "h"})
			assert.ErrorIs(mt, err, tc.want)
		})
	}
}

func TestExerciseRepository_Create_RequiresOwner(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing owner", func(mt *mtest.T) {
		repo := NewMongoExerciseRepository(mt.DB)
		_, err := repo.Create(context.Background(), &domain.Exercise{WorkoutID: 3, Name: "Squat"})
		assert.Error(mt, err)
	})
}

func TestStatsRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("weekly volume with durations", func(mt *mtest.T) {
		repo := NewMongoStatsRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.workouts", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: nil},
				{Key: "totalDuration", Value: int32(90)},
				{Key: "withDuration", Value: int32(2)},
				{Key: "totalWorkouts", Value: int32(3)},
			},
		))

		stats, err := repo.WeeklyVolume(context.Background(), 1, time.Now())
		require.NoError(mt, err)
		require.NotNil(mt, stats.TotalDuration)
		assert.Equal(mt, 90, *stats.TotalDuration)
		assert.Equal(mt, 3, stats.TotalWorkouts)
	})

	mt.Run("weekly volume without durations", func(mt *mtest.T) {
		repo := NewMongoStatsRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.workouts", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: nil},
				{Key: "totalDuration", Value: int32(0)},
				{Key: "withDuration", Value: int32(0)},
				{Key: "totalWorkouts", Value: int32(1)},
			},
		))

		stats, err := repo.WeeklyVolume(context.Background(), 1, time.Now())
		require.NoError(mt, err)
		assert.Nil(mt, stats.TotalDuration)
		assert.Equal(mt, 1, stats.TotalWorkouts)
	})

	mt.Run("weekly volume on empty window", func(mt *mtest.T) {
		repo := NewMongoStatsRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.workouts", mtest.FirstBatch))

		stats, err := repo.WeeklyVolume(context.Background(), 1, time.Now())
		require.NoError(mt, err)
		assert.Nil(mt, stats.TotalDuration)
		assert.Zero(mt, stats.TotalWorkouts)
	})

	mt.Run("personal records", func(mt *mtest.T) {
		repo := NewMongoStatsRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.exercises", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "Deadlift"}, {Key: "maxWeight", Value: 140.0}},
			bson.D{{Key: "_id", Value: "Bench Press"}, {Key: "maxWeight", Value: 80.5}},
		))

		records, err := repo.PersonalRecords(context.Background(), 1, 5)
		require.NoError(mt, err)
		assert.Equal(mt, []domain.PersonalRecord{
			{Name: "Deadlift", MaxWeight: 140},
			{Name: "Bench Press", MaxWeight: 80.5},
		}, records)
	})
}

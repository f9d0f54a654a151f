package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/fitness-tracker/internal/domain"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisherWithWriter(w)
	duration := 30
	at := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	workout := &domain.Workout{
		ID:       11,
		UserID:   42,
		Date:     time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC),
		Type:     domain.WorkoutCardio,
		Duration: &duration,
	}

	require.NoError(t, p.Publish(context.Background(), domain.NewWorkoutEvent(domain.WorkoutCreated, workout, at)))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "42", string(msg.Key))
	assert.Equal(t, at, msg.Time)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "workout.created", decoded["event"])
	assert.Equal(t, float64(11), decoded["workout_id"])
	assert.Equal(t, "2026-10-17", decoded["date"])
	assert.Equal(t, "cardio", decoded["type"])
	assert.Equal(t, float64(30), decoded["duration"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := NewKafkaPublisherWithWriter(&fakeWriter{err: boom})

	err := p.Publish(context.Background(), domain.WorkoutEvent{Event: domain.WorkoutDeleted, UserID: 1})
	assert.ErrorIs(t, err, boom)
}

func TestNewKafkaWriter_SingleShot(t *testing.T) {
	w := newKafkaWriter([]string{"kafka-1:9092", "kafka-2:9092"}, "workouts.events")

	assert.Equal(t, "workouts.events", w.Topic)
	assert.Equal(t, 1, w.MaxAttempts)
	assert.Equal(t, 1, w.BatchSize)
	assert.LessOrEqual(t, w.BatchTimeout, 50*time.Millisecond)
	assert.Positive(t, w.BatchTimeout)
	assert.Equal(t, kafka.RequireAll, w.RequiredAcks)
	assert.False(t, w.Async)
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
	require.NoError(t, w.Close())
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), domain.WorkoutEvent{}))
	assert.NoError(t, p.Close())
}

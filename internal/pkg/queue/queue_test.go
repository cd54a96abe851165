package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, cleanup
}

func TestQueue_Push(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "mail_jobs")
	ctx := context.Background()

	job := &MailJob{
		ID:      "job-1",
		Event:   "enquiry",
		To:      "buyer@example.com",
		Subject: "Enquiry received",
		HTML:    "<p>hi</p>",
	}
	require.NoError(t, q.Push(ctx, job))
	assert.NotZero(t, job.EnqueuedAt)

	length, err := q.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), length)
}

func TestQueue_PopFIFO(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "mail_jobs")
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, q.Push(ctx, &MailJob{ID: id, To: id + "@example.com"}))
	}

	for _, want := range []string{"a", "b", "c"} {
		job, err := q.Pop(ctx, time.Second)
		require.NoError(t, err)
		require.NotNil(t, job)
		assert.Equal(t, want, job.ID)
		assert.Equal(t, want+"@example.com", job.To)
	}

	length, err := q.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), length)
}

func TestQueue_PopTimeout(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "empty_queue")

	start := time.Now()
	job, err := q.Pop(context.Background(), 100*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, job)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestQueue_PopMalformed(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, client.LPush(ctx, "mail_jobs", "not json").Err())

	q := NewQueue(client, "mail_jobs")
	job, err := q.Pop(ctx, time.Second)
	assert.Error(t, err)
	assert.Nil(t, job)
}

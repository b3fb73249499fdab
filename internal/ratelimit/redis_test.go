package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBucketKey_SubSecondWindow(t *testing.T) {
	now := time.Unix(1700000000, 0)

	assert.NotPanics(t, func() {
		bucketKey("1.2.3.4", now, 500*time.Millisecond)
	})

	// Two instants inside the same 500ms window share a bucket; the next
	// window gets a fresh one.
	same := bucketKey("1.2.3.4", now.Add(200*time.Millisecond), 500*time.Millisecond)
	assert.Equal(t, bucketKey("1.2.3.4", now, 500*time.Millisecond), same)
	next := bucketKey("1.2.3.4", now.Add(600*time.Millisecond), 500*time.Millisecond)
	assert.NotEqual(t, same, next)
}

func TestBucketKey_NonPositiveWindow(t *testing.T) {
	now := time.Now()
	assert.NotPanics(t, func() {
		bucketKey("1.2.3.4", now, 0)
	})
	assert.Equal(t, "ratelimit:1.2.3.4:0", bucketKey("1.2.3.4", now, -time.Second))
}

func TestBucketKey_SeparatesKeys(t *testing.T) {
	now := time.Unix(1700000000, 0)
	assert.NotEqual(t,
		bucketKey("1.2.3.4", now, time.Minute),
		bucketKey("5.6.7.8", now, time.Minute),
	)
}

package errx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapRedis(t *testing.T) {
	assert.Nil(t, WrapRedis(nil))

	notFound := WrapRedis(redis.Nil)
	assert.Equal(t, http.StatusNotFound, StatusOf(notFound))
	assert.ErrorIs(t, notFound, redis.Nil)

	boom := errors.New("connection refused")
	wrapped := WrapRedis(boom)
	assert.Equal(t, http.StatusBadGateway, StatusOf(wrapped))
	assert.ErrorIs(t, wrapped, boom)
	assert.Contains(t, wrapped.Error(), RedisErrorMessage)
}

func TestWrapCheckpointSurvivesFurtherWrapping(t *testing.T) {
	base := errors.New("disk full")
	err := fmt.Errorf("commit turn: %w", WrapCheckpoint(base))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, CheckpointErrorMessage, appErr.Message)
	assert.ErrorIs(t, err, base)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusOf(Validation("user_id is required")))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("plain")))
	assert.Equal(t, http.StatusBadGateway, StatusOf(WrapDatabase(errors.New("pg down"))))
}

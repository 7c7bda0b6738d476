package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitNilClientAlwaysAllows(t *testing.T) {
	ctx := context.Background()

	allowed, err := CheckAndSetRateLimit(ctx, nil, "203.0.113.7", "login", time.Second)
	require.NoError(t, err)
	assert.True(t, allowed)

	ttl, err := GetRateLimitTTL(ctx, nil, "203.0.113.7", "login")
	require.NoError(t, err)
	assert.Zero(t, ttl)
}

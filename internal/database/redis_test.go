package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/neckchi/vesseleta/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T) (*database.RedisConnection, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	conn, err := database.NewRedisConnection(context.Background(), database.RedisSettings{Host: mr.Host(), Port: mr.Port(), Protocol: 2})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn, mr
}

func TestGenerateUUIDFromString_IsStable(t *testing.T) {
	t.Parallel()

	a := database.GenerateUUIDFromString("eta result", "LCB1|SRI SUREE V.25080S")
	b := database.GenerateUUIDFromString("eta result", "LCB1|SRI SUREE V.25080S")
	c := database.GenerateUUIDFromString("eta result", "ESCO|SRI SUREE V.25080S")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestResultKey_CollapsesSpelling(t *testing.T) {
	t.Parallel()

	assert.Equal(t, database.ResultKey("LCB1", "SRI SUREE V.25080S"), database.ResultKey("LCB1", "  sri  suree v.25080s "))
}

func TestRedisConnection_SetThenGet(t *testing.T) {
	t.Parallel()

	conn, mr := connect(t)
	ctx := context.Background()

	_, ok := conn.Get(ctx, "eta result", "LCB1|SRI SUREE")
	assert.False(t, ok)

	conn.AddToChannel("eta result", "LCB1|SRI SUREE", []byte(`{"terminal":"LCB1"}`), time.Minute)
	require.NoError(t, conn.Set(ctx, "LCB1"))

	got, ok := conn.Get(ctx, "eta result", "LCB1|SRI SUREE")
	require.True(t, ok)
	assert.JSONEq(t, `{"terminal":"LCB1"}`, string(got))

	mr.FastForward(2 * time.Minute)
	_, ok = conn.Get(ctx, "eta result", "LCB1|SRI SUREE")
	assert.False(t, ok)
}

func TestRedisConnection_SetWithNothingBuffered(t *testing.T) {
	t.Parallel()

	conn, _ := connect(t)

	assert.NoError(t, conn.Set(context.Background(), "empty"))
}

func TestNewRedisConnection_Unreachable(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	host, port := mr.Host(), mr.Port()
	mr.Close()

	_, err := database.NewRedisConnection(context.Background(), database.RedisSettings{Host: host, Port: port})

	assert.Error(t, err)
}

func TestNoopCache(t *testing.T) {
	t.Parallel()

	var c database.ResultCache = database.NoopCache{}
	c.AddToChannel("ns", "k", []byte("v"), time.Minute)

	require.NoError(t, c.Set(context.Background(), "k"))
	_, ok := c.Get(context.Background(), "ns", "k")
	assert.False(t, ok)
}

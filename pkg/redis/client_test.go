package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitInvalidURL(t *testing.T) {
	err := Init("://invalid-url", "")
	assert.Error(t, err)
}

func TestInitWithMiniredis(t *testing.T) {
	mr := miniredis.RunT(t)

	err := Init("redis://"+mr.Addr(), "")
	require.NoError(t, err)
	assert.NotNil(t, GetClient())

	assert.NoError(t, GetClient().Ping(context.Background()).Err())
}

func TestSetClient(t *testing.T) {
	cli := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"})
	SetClient(cli)
	assert.Same(t, cli, GetClient())
}

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vigia/internal/transcribe"
)

func TestRedisCache_Miss(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false)

	cache := transcribe.NewRedisCache(infra.RedisClient)

	_, err := cache.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, transcribe.ErrCacheMiss)
}

func TestRedisCache_SetGet(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false)

	ctx := context.Background()
	cache := transcribe.NewRedisCache(infra.RedisClient)

	require.NoError(t, cache.Set(ctx, "key-1", `{"ok":true,"text":"hola"}`, time.Minute))

	value, err := cache.Get(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true,"text":"hola"}`, value)
}

func TestCachedTranscriber_SecondCallServedFromCache(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false)

	ctx := context.Background()
	upstream := &stubTranscriber{text: "aviso de pesca ilegal"}
	cached := transcribe.NewCached(upstream,
		transcribe.NewRedisCache(infra.RedisClient), time.Minute, createTestLogger())

	audio := []byte("fake-ogg-bytes")

	res := cached.Transcribe(ctx, audio, "audio/ogg")
	require.True(t, res.OK)
	assert.Equal(t, "aviso de pesca ilegal", res.Text)

	res = cached.Transcribe(ctx, audio, "audio/ogg")
	require.True(t, res.OK)
	assert.Equal(t, "aviso de pesca ilegal", res.Text)

	assert.Equal(t, 1, upstream.calls)
}

func TestCachedTranscriber_DistinctAudioMissesCache(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false)

	ctx := context.Background()
	upstream := &stubTranscriber{text: "transcript"}
	cached := transcribe.NewCached(upstream,
		transcribe.NewRedisCache(infra.RedisClient), time.Minute, createTestLogger())

	cached.Transcribe(ctx, []byte("audio-one"), "audio/ogg")
	cached.Transcribe(ctx, []byte("audio-two"), "audio/ogg")

	assert.Equal(t, 2, upstream.calls)
}

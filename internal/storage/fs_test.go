package storage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSStorePutGet(t *testing.T) {
	ctx := context.Background()
	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	key := BankUploadKey("c-databases", "json", time.Date(2026, 10, 19, 9, 0, 0, 5, time.UTC))
	assert.Equal(t, "banks/c-databases/20261019T090000.000000005Z.json", key)

	got, err := s.Put(ctx, key, strings.NewReader(`{"course_id":"c-databases"}`))
	require.NoError(t, err)
	assert.Equal(t, key, got)

	rc, err := s.Get(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, `{"course_id":"c-databases"}`, string(b))
}

func TestFSStoreRejectsEscapingKeys(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	for _, k := range []string{"", "../etc/passwd", "banks/../../x", "banks//x"} {
		_, err := s.Put(context.Background(), k, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrBadKey, k)
	}
}

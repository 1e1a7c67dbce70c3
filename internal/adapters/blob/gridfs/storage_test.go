package gridfs

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mg "pet-adoption-marketplace/internal/adapters/storage/mongo"
	"pet-adoption-marketplace/internal/ports/blob"
)

// Requiere Mongo real: PETPAL_TEST_MONGO_URI=mongodb://localhost:27017
func testStorage(t *testing.T) *Storage {
	t.Helper()

	uri := os.Getenv("PETPAL_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("PETPAL_TEST_MONGO_URI not set")
	}

	client, err := mg.Connect(context.Background(), uri)
	require.NoError(t, err)

	db := client.Database("petpal_blob_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	s, err := New(db)
	require.NoError(t, err)
	return s
}

func TestStorage_PutOpenDelete(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	key, err := s.Put(ctx, "Rex.PNG", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".png"))

	rc, contentType, err := s.Open(ctx, key)
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(b))
	assert.Equal(t, "image/png", contentType)

	require.NoError(t, s.Delete(ctx, key))

	_, _, err = s.Open(ctx, key)
	assert.True(t, errors.Is(err, blob.ErrNotFound))
	assert.True(t, errors.Is(s.Delete(ctx, key), blob.ErrNotFound))
}

func TestStorage_OpenUnknownKey(t *testing.T) {
	s := testStorage(t)

	_, _, err := s.Open(context.Background(), "missing.png")
	assert.True(t, errors.Is(err, blob.ErrNotFound))
}

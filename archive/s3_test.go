package archive

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadwatch/types"
)

type fakeObjectStore struct {
	objects map[string][]byte
	puts    int
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (f *fakeObjectStore) Put(_ context.Context, bucket, key string, body io.Reader, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[bucket+"/"+key] = data
	f.puts++
	return nil
}

func (f *fakeObjectStore) Exists(_ context.Context, bucket, key string) (bool, error) {
	_, ok := f.objects[bucket+"/"+key]
	return ok, nil
}

func TestArchiveObjectKeyShape(t *testing.T) {
	store := newFakeObjectStore()
	archiver := &Archiver{store: store, bucket: "roadwatch-archive", prefix: "snapshots/"}

	payload := types.IntelPayload{
		Target:      types.TargetArea,
		Location:    "Gwarinpa, FCT",
		LastUpdated: time.Date(2026, 8, 30, 10, 30, 0, 0, time.UTC),
	}
	require.NoError(t, archiver.Archive(context.Background(), "area:gwarinpa:fct", payload))

	key := "roadwatch-archive/snapshots/intel/area_gwarinpa_fct/20260830T103000Z.json"
	data, ok := store.objects[key]
	require.True(t, ok, "unexpected object keys: %v", store.objects)
	assert.Contains(t, string(data), "Gwarinpa, FCT")
}

func TestArchiveSkipsExistingSnapshot(t *testing.T) {
	store := newFakeObjectStore()
	archiver := &Archiver{store: store, bucket: "roadwatch-archive"}

	payload := types.IntelPayload{
		LastUpdated: time.Date(2026, 8, 30, 10, 30, 0, 0, time.UTC),
	}
	ctx := context.Background()
	require.NoError(t, archiver.Archive(ctx, "area:gwarinpa:fct", payload))
	require.NoError(t, archiver.Archive(ctx, "area:gwarinpa:fct", payload))
	assert.Equal(t, 1, store.puts, "identical snapshots are uploaded once")

	// A newer snapshot lands under its own timestamped key.
	payload.LastUpdated = payload.LastUpdated.Add(time.Hour)
	require.NoError(t, archiver.Archive(ctx, "area:gwarinpa:fct", payload))
	assert.Equal(t, 2, store.puts)
}

func TestNewArchiverNormalizesPrefix(t *testing.T) {
	a := NewArchiver(nil, "bucket", "/snapshots/")
	assert.Equal(t, "snapshots/", a.prefix)

	bare := NewArchiver(nil, "bucket", "")
	assert.Empty(t, bare.prefix)
}

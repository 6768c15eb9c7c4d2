package statusstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediator/internal/backend"
	"mediator/internal/statuserr"
)

const threeNodes = `<?xml version="1.0" encoding="UTF-8"?>
<status>
  <airInterface><name>a</name><txPower>1</txPower></airInterface>
  <airInterface><name>b</name><txPower>2</txPower></airInterface>
  <airInterface><name>c</name><txPower>3</txPower></airInterface>
</status>`

func newMemoryStore(t *testing.T, content string) (*Store, *backend.Memory) {
	t.Helper()
	res := backend.NewMemory([]byte(content))
	return New(res, Options{Metrics: NewMetrics(nil)}), res
}

func TestStore_ReadNoMatch(t *testing.T) {
	store, _ := newMemoryStore(t, threeNodes)

	value, ok, err := store.Read(context.Background(), "/missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestStore_ReadReturnsLastMatch(t *testing.T) {
	store, _ := newMemoryStore(t, threeNodes)
	ctx := context.Background()

	values, err := store.ReadAll(ctx, "/airInterface/txPower")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, values)

	value, ok, err := store.Read(ctx, "/airInterface/txPower")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "3", value)

	value, ok, err = store.Read(ctx, "/airInterface[name='b']/txPower")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", value)
}

func TestStore_ReadAllNoMatch(t *testing.T) {
	store, _ := newMemoryStore(t, threeNodes)

	values, err := store.ReadAll(context.Background(), "/nothing/here")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestStore_ReadConcatenatesDescendantText(t *testing.T) {
	store, _ := newMemoryStore(t, `<status><a>x<b>y</b>z</a></status>`)

	value, ok, err := store.Read(context.Background(), "/a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "xyz", value)
}

func TestStore_WriteThenRead(t *testing.T) {
	store, res := newMemoryStore(t, threeNodes)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "/airInterface[name='a']/txPower", "42"))

	value, ok, err := store.Read(ctx, "/airInterface[name='a']/txPower")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "42", value)

	assert.Equal(t, 1, res.Stores())
	assert.Contains(t, string(res.Bytes()), "<txPower>42</txPower>")
}

func TestStore_WriteEveryMatch(t *testing.T) {
	store, res := newMemoryStore(t, `<status><a>1</a><a>2</a></status>`)
	ctx := context.Background()

	values, err := store.ReadAll(ctx, "/a")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, values)

	require.NoError(t, store.Write(ctx, "/a", "9"))

	values, err = store.ReadAll(ctx, "/a")
	require.NoError(t, err)
	assert.Equal(t, []string{"9", "9"}, values)
	assert.Contains(t, string(res.Bytes()), "<a>9</a><a>9</a>")
}

func TestStore_WriteReplacesChildren(t *testing.T) {
	store, _ := newMemoryStore(t, `<status><a>x<b>y</b></a></status>`)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "/a", "v"))

	value, _, err := store.Read(ctx, "/a")
	require.NoError(t, err)
	assert.Equal(t, "v", value)

	_, ok, err := store.Read(ctx, "/a/b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_WriteNoMatchStillPersists(t *testing.T) {
	store, res := newMemoryStore(t, `<status><a>1</a></status>`)

	require.NoError(t, store.Write(context.Background(), "/b", "x"))
	assert.Equal(t, 1, res.Stores())
	assert.Contains(t, string(res.Bytes()), "<a>1</a>")
}

func TestStore_WritePersistFailureKeepsDocument(t *testing.T) {
	store, res := newMemoryStore(t, `<status><a>1</a></status>`)
	ctx := context.Background()
	require.NoError(t, store.Refresh(ctx))
	gen := store.Info().Generation

	res.FailStore(errors.New("read-only filesystem"))
	err := store.Write(ctx, "/a", "2")
	require.Error(t, err)
	assert.True(t, statuserr.IsIO(err))

	value, ok, err := store.Read(ctx, "/a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", value)
	assert.Equal(t, gen, store.Info().Generation)
	assert.Equal(t, 0, res.Stores())
}

func TestStore_QueryErrors(t *testing.T) {
	store, res := newMemoryStore(t, threeNodes)
	ctx := context.Background()

	_, _, err := store.Read(ctx, "/a[")
	assert.True(t, statuserr.IsQuery(err))

	_, err = store.ReadAll(ctx, "/a[")
	assert.True(t, statuserr.IsQuery(err))

	err = store.Write(ctx, "/a[", "x")
	assert.True(t, statuserr.IsQuery(err))
	assert.Equal(t, 0, res.Stores(), "a rejected path must not persist")
}

func TestStore_MalformedRefreshKeepsPreviousDocument(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad markup", content: `<status><a>1</a><<</status>`},
		{name: "truncated", content: `<status><a>1</a>`},
		{name: "mismatched tag", content: `<status><a>1</b></status>`},
		{name: "empty", content: ``},
		{name: "second top-level element", content: `<status><a>1</a></status><extra/>`},
		{name: "trailing text", content: `<status><a>1</a></status>junk`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, res := newMemoryStore(t, `<status><a>1</a></status>`)
			ctx := context.Background()

			require.NoError(t, store.Refresh(ctx))
			gen := store.Info().Generation

			res.Set([]byte(tt.content))
			err := store.Refresh(ctx)
			require.Error(t, err)
			assert.True(t, statuserr.IsIO(err))
			assert.Equal(t, gen, store.Info().Generation)

			value, ok, err := store.Read(ctx, "/a")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "1", value)

			res.Set([]byte(`<status><a>5</a></status>`))
			require.NoError(t, store.Refresh(ctx))
			assert.NotEqual(t, gen, store.Info().Generation)

			value, _, err = store.Read(ctx, "/a")
			require.NoError(t, err)
			assert.Equal(t, "5", value)
		})
	}
}

func TestStore_LoadFailureKeepsPreviousDocument(t *testing.T) {
	store, res := newMemoryStore(t, `<status><a>1</a></status>`)
	ctx := context.Background()
	require.NoError(t, store.Refresh(ctx))

	res.FailLoad(errors.New("permission denied"))
	assert.True(t, statuserr.IsIO(store.Refresh(ctx)))

	value, _, err := store.Read(ctx, "/a")
	require.NoError(t, err)
	assert.Equal(t, "1", value)
}

func TestStore_FirstAccessMalformed(t *testing.T) {
	store, _ := newMemoryStore(t, `not xml at all <`)

	_, _, err := store.Read(context.Background(), "/a")
	require.Error(t, err)
	assert.True(t, statuserr.IsIO(err))
	assert.False(t, store.Info().Loaded)
}

func TestStore_MissingResourceStartsEmpty(t *testing.T) {
	res := backend.NewMemory(nil)
	store := New(res, Options{})
	ctx := context.Background()

	_, ok, err := store.Read(ctx, "/a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Write(ctx, "/a", "1"))
	assert.Contains(t, string(res.Bytes()), "<status/>")
}

func TestStore_CustomRootSegment(t *testing.T) {
	res := backend.NewMemory([]byte(`<state><a>1</a></state>`))
	store := New(res, Options{RootSegment: "state/"})
	assert.Equal(t, "/state", store.Root())

	value, ok, err := store.Read(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", value)
}

func TestStore_FileBackendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.xml")
	require.NoError(t, os.WriteFile(path, []byte(threeNodes), 0o644))

	res, err := backend.NewFile(path)
	require.NoError(t, err)
	store := New(res, Options{})
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "/airInterface[name='c']/txPower", "30"))

	reopened := New(res, Options{})
	values, err := reopened.ReadAll(ctx, "/airInterface/txPower")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "30"}, values)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store, _ := newMemoryStore(t, `<status><counter>0</counter><a>1</a><a>2</a></status>`)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Write(ctx, "/counter", "1"))
		}()
		go func() {
			defer wg.Done()
			values, err := store.ReadAll(ctx, "/a")
			assert.NoError(t, err)
			assert.Len(t, values, 2)
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Refresh(ctx))
		}()
	}
	wg.Wait()

	value, ok, err := store.Read(ctx, "/counter")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", value)
}

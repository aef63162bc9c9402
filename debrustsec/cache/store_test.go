package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Rows [][2]string `json:"rows"`
}

func newTestStore(t *testing.T, now time.Time) *Store {
	t.Helper()
	s, err := NewStore(afero.NewMemMapFs(), "/cache/deb-rust-sec")
	require.NoError(t, err)
	s.now = func() time.Time { return now }
	return s
}

func TestStore_RoundTrip(t *testing.T) {
	now := time.Date(2022, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)

	expected := payload{Rows: [][2]string{{"rust-smallvec", "1.6.0-1"}, {"rust-tokio", "1.2.0-3"}}}
	require.NoError(t, s.Put("packages-sid", expected))

	var actual payload
	require.True(t, s.Get("packages-sid", 90*time.Minute, &actual))
	assert.Equal(t, expected, actual)

	age, ok := s.Age("packages-sid")
	require.True(t, ok)
	assert.Equal(t, time.Duration(0), age)
}

func TestStore_Expiry(t *testing.T) {
	captured := time.Date(2022, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, captured)
	require.NoError(t, s.Put("tracker-data", payload{Rows: [][2]string{{"a", "b"}}}))

	tests := []struct {
		name     string
		elapsed  time.Duration
		expected bool
	}{
		{name: "fresh", elapsed: 0, expected: true},
		{name: "at ttl", elapsed: 24 * time.Hour, expected: true},
		{name: "past ttl", elapsed: 24*time.Hour + time.Second, expected: false},
		{name: "captured in the future", elapsed: -time.Minute, expected: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s.now = func() time.Time { return captured.Add(test.elapsed) }
			var actual payload
			assert.Equal(t, test.expected, s.Get("tracker-data", 24*time.Hour, &actual))
		})
	}
}

func TestStore_ExpiredEntryIsKeptUntilReplaced(t *testing.T) {
	captured := time.Date(2022, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, captured)
	require.NoError(t, s.Put("packages-sid", payload{Rows: [][2]string{{"old", "1"}}}))

	s.now = func() time.Time { return captured.Add(2 * time.Hour) }
	var actual payload
	assert.False(t, s.Get("packages-sid", 90*time.Minute, &actual))

	exists, err := afero.Exists(s.fs, filepath.Join(s.dir, "packages-sid.json"))
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, s.Put("packages-sid", payload{Rows: [][2]string{{"new", "2"}}}))
	require.True(t, s.Get("packages-sid", 90*time.Minute, &actual))
	assert.Equal(t, "new", actual.Rows[0][0])
}

func TestStore_CorruptionIsAMiss(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{name: "garbage", contents: "\x00\x01not json at all"},
		{name: "truncated", contents: `{"captured_at":"2022-03-01T12:00:00Z","payl`},
		{name: "no timestamp", contents: `{"payload":{"rows":[]}}`},
		{name: "payload of the wrong shape", contents: `{"captured_at":"2022-03-01T12:00:00Z","payload":"a string"}`},
		{name: "empty", contents: ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := newTestStore(t, time.Date(2022, 3, 1, 12, 0, 0, 0, time.UTC))
			require.NoError(t, afero.WriteFile(s.fs, filepath.Join(s.dir, "packages-sid.json"), []byte(test.contents), 0644))

			var actual payload
			assert.False(t, s.Get("packages-sid", time.Hour, &actual))
		})
	}
}

func TestStore_MissingIsAMiss(t *testing.T) {
	s := newTestStore(t, time.Now())
	var actual payload
	assert.False(t, s.Get("packages-bookworm", time.Hour, &actual))
	_, ok := s.Age("packages-bookworm")
	assert.False(t, ok)
}

func TestStore_InvalidKeys(t *testing.T) {
	s := newTestStore(t, time.Now())
	for _, key := range []string{"", ".", "..", "../escape", "nested/key", `win\key`} {
		t.Run(key, func(t *testing.T) {
			assert.Error(t, s.Put(key, payload{}))
			var actual payload
			assert.False(t, s.Get(key, time.Hour, &actual))
		})
	}
}

func TestStore_PutLeavesNoTemporaryFiles(t *testing.T) {
	s := newTestStore(t, time.Now())
	require.NoError(t, s.Put("tracker-data", payload{}))
	require.NoError(t, s.Put("tracker-data", payload{}))

	infos, err := afero.ReadDir(s.fs, s.dir)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "tracker-data.json", infos[0].Name())
}

func TestNewStore_RequiresDir(t *testing.T) {
	_, err := NewStore(afero.NewMemMapFs(), "")
	assert.Error(t, err)
}

func TestStore_KeysAndClear(t *testing.T) {
	s := newTestStore(t, time.Now())
	require.NoError(t, s.Put("tracker-data", payload{}))
	require.NoError(t, s.Put("packages-sid", payload{}))
	require.NoError(t, s.fs.MkdirAll(filepath.Join(s.dir, "advisory-db", ".git"), 0755))
	require.NoError(t, afero.WriteFile(s.fs, filepath.Join(s.dir, "notes.txt"), []byte("x"), 0644))

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"packages-sid", "tracker-data"}, keys)

	require.NoError(t, s.Clear())

	keys, err = s.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)

	exists, err := afero.DirExists(s.fs, filepath.Join(s.dir, "advisory-db"))
	require.NoError(t, err)
	assert.False(t, exists)

	// the store stays usable after being cleared
	require.NoError(t, s.Put("tracker-data", payload{}))
	var actual payload
	assert.True(t, s.Get("tracker-data", time.Hour, &actual))
}

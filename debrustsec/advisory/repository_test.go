package advisory

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debian-rust/deb-rust-sec/debrustsec/cache"
)

// upstream is a local git repository standing in for the advisory database remote.
type upstream struct {
	dir  string
	repo *git.Repository
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	// go-git serves local remotes through git-upload-pack
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not installed")
	}

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return &upstream{dir: dir, repo: repo}
}

func (u *upstream) commitAdvisory(t *testing.T, crate, id string) string {
	t.Helper()
	rel := filepath.Join(string(CratesCollection), crate, id+".md")
	contents := fmt.Sprintf("```toml\n[advisory]\nid = %q\npackage = %q\n\n[versions]\npatched = [\">= 1.0.0\"]\n```\n\n# Advisory %s\n", id, crate, id)

	require.NoError(t, os.MkdirAll(filepath.Join(u.dir, filepath.Dir(rel)), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(u.dir, rel), []byte(contents), 0644))

	wt, err := u.repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(filepath.ToSlash(rel))
	require.NoError(t, err)
	hash, err := wt.Commit("add "+id, &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash.String()
}

type fixture struct {
	storeDir    string
	store       *cache.Store
	checkoutDir string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	storeDir := t.TempDir()
	store, err := cache.NewStore(afero.NewOsFs(), storeDir)
	require.NoError(t, err)
	return fixture{
		storeDir:    storeDir,
		store:       store,
		checkoutDir: filepath.Join(t.TempDir(), "advisory-db"),
	}
}

func (f fixture) repository(url string) *Repository {
	return NewRepository(RepositoryConfig{URL: url, Dir: f.checkoutDir, TTL: time.Hour}, f.store)
}

// recordFetch writes the fetch record as if it had been captured at the given time.
func (f fixture) recordFetch(t *testing.T, state fetchState, capturedAt time.Time) {
	t.Helper()
	payload, err := json.Marshal(state)
	require.NoError(t, err)
	contents, err := json.Marshal(cache.Entry{CapturedAt: capturedAt, Payload: payload})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(f.storeDir, fetchStateCacheKey+".json"), contents, 0644))
}

// expire makes the last fetch look older than the TTL.
func (f fixture) expire(t *testing.T) {
	t.Helper()
	state := f.lastFetch(t)
	f.recordFetch(t, state, time.Now().Add(-2*time.Hour))
}

func (f fixture) lastFetch(t *testing.T) fetchState {
	t.Helper()
	var state fetchState
	require.True(t, f.store.Get(fetchStateCacheKey, time.Hour, &state), "no fetch recorded")
	return state
}

func ids(advisories []Advisory) []string {
	var result []string
	for _, a := range advisories {
		result = append(result, a.ID)
	}
	return result
}

func TestRepository_UsesRecentCheckoutWithoutFetching(t *testing.T) {
	f := newFixture(t)
	// an unreachable remote: any attempt to clone or pull fails the test
	url := "https://invalid.example/advisory-db.git"

	require.NoError(t, os.MkdirAll(filepath.Join(f.checkoutDir, ".git"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(f.checkoutDir, "crates", "foo"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(f.checkoutDir, "crates", "foo", "RUSTSEC-2000-0001.md"), []byte(
		"```toml\n[advisory]\nid = \"RUSTSEC-2000-0001\"\npackage = \"foo\"\n[versions]\npatched = [\">= 1.0.0\"]\n```\n"), 0644))
	f.recordFetch(t, fetchState{URL: url, Commit: "abc123"}, time.Now())

	advisories, err := f.repository(url).Advisories()
	require.NoError(t, err)
	require.Len(t, advisories, 1)
	assert.Equal(t, "foo", advisories[0].Package)
}

func TestRepository_ClonesOnFirstUse(t *testing.T) {
	up := newUpstream(t)
	head := up.commitAdvisory(t, "smallvec", "RUSTSEC-2021-0003")
	f := newFixture(t)

	advisories, err := f.repository(up.dir).Advisories()
	require.NoError(t, err)
	assert.Equal(t, []string{"RUSTSEC-2021-0003"}, ids(advisories))
	assert.Equal(t, fetchState{URL: up.dir, Commit: head}, f.lastFetch(t))
}

func TestRepository_RecentFetchIsNotRepeated(t *testing.T) {
	up := newUpstream(t)
	head := up.commitAdvisory(t, "smallvec", "RUSTSEC-2021-0003")
	f := newFixture(t)

	_, err := f.repository(up.dir).Advisories()
	require.NoError(t, err)

	up.commitAdvisory(t, "tokio", "RUSTSEC-2021-0124")

	advisories, err := f.repository(up.dir).Advisories()
	require.NoError(t, err)
	assert.Equal(t, []string{"RUSTSEC-2021-0003"}, ids(advisories))
	assert.Equal(t, head, f.lastFetch(t).Commit)
}

func TestRepository_StaleCheckoutPicksUpNewCommits(t *testing.T) {
	up := newUpstream(t)
	up.commitAdvisory(t, "smallvec", "RUSTSEC-2021-0003")
	f := newFixture(t)

	_, err := f.repository(up.dir).Advisories()
	require.NoError(t, err)

	head := up.commitAdvisory(t, "tokio", "RUSTSEC-2021-0124")
	f.expire(t)

	advisories, err := f.repository(up.dir).Advisories()
	require.NoError(t, err)
	assert.Equal(t, []string{"RUSTSEC-2021-0003", "RUSTSEC-2021-0124"}, ids(advisories))
	assert.Equal(t, fetchState{URL: up.dir, Commit: head}, f.lastFetch(t))
}

func TestRepository_StaleCheckoutAlreadyUpToDate(t *testing.T) {
	up := newUpstream(t)
	head := up.commitAdvisory(t, "smallvec", "RUSTSEC-2021-0003")
	f := newFixture(t)

	_, err := f.repository(up.dir).Advisories()
	require.NoError(t, err)
	f.expire(t)

	advisories, err := f.repository(up.dir).Advisories()
	require.NoError(t, err)
	assert.Equal(t, []string{"RUSTSEC-2021-0003"}, ids(advisories))
	assert.Equal(t, fetchState{URL: up.dir, Commit: head}, f.lastFetch(t))
}

func TestRepository_BrokenCheckoutIsClonedAgain(t *testing.T) {
	up := newUpstream(t)
	head := up.commitAdvisory(t, "smallvec", "RUSTSEC-2021-0003")
	f := newFixture(t)

	_, err := f.repository(up.dir).Advisories()
	require.NoError(t, err)

	gitDir := filepath.Join(f.checkoutDir, git.GitDirName)
	require.NoError(t, os.RemoveAll(gitDir))
	require.NoError(t, os.MkdirAll(gitDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(f.checkoutDir, "crates", "leftover.md"), []byte("not an advisory"), 0644))
	f.expire(t)

	advisories, err := f.repository(up.dir).Advisories()
	require.NoError(t, err)
	assert.Equal(t, []string{"RUSTSEC-2021-0003"}, ids(advisories))
	assert.Equal(t, head, f.lastFetch(t).Commit)

	_, err = git.PlainOpen(f.checkoutDir)
	assert.NoError(t, err)
}

func TestRepository_ChangedURLIsClonedAgain(t *testing.T) {
	first := newUpstream(t)
	first.commitAdvisory(t, "smallvec", "RUSTSEC-2021-0003")
	second := newUpstream(t)
	head := second.commitAdvisory(t, "tokio", "RUSTSEC-2021-0124")
	f := newFixture(t)

	_, err := f.repository(first.dir).Advisories()
	require.NoError(t, err)

	// the previous fetch is recent, but it came from somewhere else
	advisories, err := f.repository(second.dir).Advisories()
	require.NoError(t, err)
	assert.Equal(t, []string{"RUSTSEC-2021-0124"}, ids(advisories))
	assert.Equal(t, fetchState{URL: second.dir, Commit: head}, f.lastFetch(t))

	repo, err := git.PlainOpen(f.checkoutDir)
	require.NoError(t, err)
	remote, err := repo.Remote(git.DefaultRemoteName)
	require.NoError(t, err)
	assert.Equal(t, []string{second.dir}, remote.Config().URLs)
}

func TestRepository_CloneFailure(t *testing.T) {
	f := newFixture(t)

	_, err := f.repository(filepath.Join(t.TempDir(), "missing")).Advisories()
	require.Error(t, err)

	var state fetchState
	assert.False(t, f.store.Get(fetchStateCacheKey, time.Hour, &state), "failed fetches must not be recorded")
}

func TestRepository_CheckedOut(t *testing.T) {
	f := newFixture(t)
	repo := f.repository("")
	assert.False(t, repo.checkedOut())

	require.NoError(t, os.MkdirAll(filepath.Join(f.checkoutDir, ".git"), 0755))
	assert.True(t, repo.checkedOut())
}

package advisory

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/spf13/afero"

	"github.com/debian-rust/deb-rust-sec/debrustsec/cache"
	"github.com/debian-rust/deb-rust-sec/internal/log"
)

const fetchStateCacheKey = "advisory-db"

type RepositoryConfig struct {
	URL string        // the advisory database git remote
	Dir string        // where the advisory database is checked out
	TTL time.Duration // how long a fetched checkout is used before it is refreshed
}

type fetchState struct {
	URL    string `json:"url"`
	Commit string `json:"commit"`
}

// Repository is an advisory Provider backed by a local checkout of the RustSec advisory database git repository.
// git reads and writes the checkout on the OS filesystem, so every other access to it goes through the OS
// filesystem too. The fetch record may live in a store backed by any filesystem.
type Repository struct {
	config RepositoryConfig
	fs     afero.Fs
	store  *cache.Store
}

func NewRepository(cfg RepositoryConfig, store *cache.Store) *Repository {
	return &Repository{
		config: cfg,
		fs:     afero.NewOsFs(),
		store:  store,
	}
}

// Advisories refreshes the checkout when it is missing or stale and loads every advisory from it.
func (r *Repository) Advisories() ([]Advisory, error) {
	if err := r.Fetch(); err != nil {
		return nil, err
	}
	return Load(r.fs, r.config.Dir)
}

// Fetch clones or updates the checkout unless the last successful fetch is within the configured TTL.
func (r *Repository) Fetch() error {
	var state fetchState
	if r.store.Get(fetchStateCacheKey, r.config.TTL, &state) && state.URL == r.config.URL && r.checkedOut() {
		log.Debugf("advisory database at %s is recent (commit %s), skipping fetch", r.config.Dir, state.Commit)
		return nil
	}

	start := time.Now()
	repo, err := r.update()
	if err != nil {
		return err
	}

	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("unable to resolve advisory database HEAD: %w", err)
	}
	log.Infof("fetched advisory database %s at %s (took %s)", r.config.URL, head.Hash(), time.Since(start))

	state = fetchState{URL: r.config.URL, Commit: head.Hash().String()}
	if err := r.store.Put(fetchStateCacheKey, state); err != nil {
		log.Warnf("unable to record advisory database fetch: %+v", err)
	}
	return nil
}

func (r *Repository) checkedOut() bool {
	exists, err := afero.DirExists(r.fs, filepath.Join(r.config.Dir, git.GitDirName))
	return err == nil && exists
}

func (r *Repository) update() (*git.Repository, error) {
	if !r.checkedOut() {
		return r.clone()
	}

	repo, err := git.PlainOpen(r.config.Dir)
	if err == nil {
		err = r.pull(repo)
		if err == nil {
			return repo, nil
		}
	}

	// shallow checkouts cannot always be fast-forwarded; starting over is always possible
	log.Warnf("unable to update advisory database at %s, cloning again: %+v", r.config.Dir, err)
	if err := r.fs.RemoveAll(r.config.Dir); err != nil {
		return nil, fmt.Errorf("unable to remove stale advisory database (%s): %w", r.config.Dir, err)
	}
	return r.clone()
}

func (r *Repository) clone() (*git.Repository, error) {
	log.Infof("cloning advisory database %s into %s", r.config.URL, r.config.Dir)
	repo, err := git.PlainClone(r.config.Dir, false, &git.CloneOptions{
		URL:          r.config.URL,
		Depth:        1,
		SingleBranch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to clone advisory database (%s): %w", r.config.URL, err)
	}
	return repo, nil
}

// pull fast-forwards the checkout, provided it tracks the configured remote.
func (r *Repository) pull(repo *git.Repository) error {
	remote, err := repo.Remote(git.DefaultRemoteName)
	if err != nil {
		return err
	}
	if urls := remote.Config().URLs; len(urls) == 0 || urls[0] != r.config.URL {
		return fmt.Errorf("checkout tracks %v, not %s", urls, r.config.URL)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return err
	}

	err = worktree.Pull(&git.PullOptions{
		RemoteName:   git.DefaultRemoteName,
		Depth:        1,
		SingleBranch: true,
		Force:        true,
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	return err
}

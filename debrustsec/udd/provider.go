package udd

import (
	"fmt"
	"time"

	"github.com/debian-rust/deb-rust-sec/debrustsec/cache"
	"github.com/debian-rust/deb-rust-sec/debrustsec/pkg"
	"github.com/debian-rust/deb-rust-sec/internal/log"
)

// DefaultTTL is how long a release's package list is served from the cache.
const DefaultTTL = 90 * time.Minute

// QueryError is returned when the package list is neither cached nor retrievable from UDD.
type QueryError struct {
	Release string
	Err     error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("unable to fetch packages for release %q: %+v", e.Release, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Provider serves the per-release package list, from the cache when possible.
type Provider struct {
	querier Querier
	store   *cache.Store
	ttl     time.Duration
}

func NewProvider(querier Querier, store *cache.Store, ttl time.Duration) *Provider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Provider{
		querier: querier,
		store:   store,
		ttl:     ttl,
	}
}

func cacheKey(release string) string {
	return "packages-" + release
}

// Fetch returns every source package of the given release that embeds a vendored Rust library. A result
// fetched from UDD replaces the cached list for that release.
func (p *Provider) Fetch(release string) ([]pkg.Package, error) {
	if release == "" {
		return nil, &QueryError{Release: release, Err: fmt.Errorf("no release given")}
	}

	var packages []pkg.Package
	if p.store.Get(cacheKey(release), p.ttl, &packages) {
		log.Infof("using %d cached packages for release=%q", len(packages), release)
		return packages, nil
	}

	start := time.Now()
	packages, err := p.querier.Sources(release)
	if err != nil {
		return nil, &QueryError{Release: release, Err: err}
	}
	log.Infof("fetched %d packages for release=%q from UDD (took %s)", len(packages), release, time.Since(start))

	if packages == nil {
		packages = []pkg.Package{}
	}
	if err := p.store.Put(cacheKey(release), packages); err != nil {
		log.Warnf("unable to cache packages for release=%q: %+v", release, err)
	}
	return packages, nil
}

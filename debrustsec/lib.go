package debrustsec

import (
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/debian-rust/deb-rust-sec/debrustsec/advisory"
	"github.com/debian-rust/deb-rust-sec/debrustsec/logger"
	"github.com/debian-rust/deb-rust-sec/debrustsec/match"
	"github.com/debian-rust/deb-rust-sec/debrustsec/pkg"
	"github.com/debian-rust/deb-rust-sec/debrustsec/tracker"
	"github.com/debian-rust/deb-rust-sec/internal/log"
)

// note: lib name must be a single word, all lowercase
const LibraryName = "debrustsec"

// PackageProvider lists the source packages of a release that embed vendored Rust libraries.
type PackageProvider interface {
	Fetch(release string) ([]pkg.Package, error)
}

// TrackerProvider supplies the Debian security tracker data.
type TrackerProvider interface {
	Info() (tracker.Info, error)
}

// Sources are the three independent inputs of an audit.
type Sources struct {
	Packages   PackageProvider
	Tracker    TrackerProvider
	Advisories advisory.Provider
}

func SetLogger(logger logger.Logger) {
	log.Log = logger
}

// Audit gathers every input and matches the advisories against the packages of the given release. The inputs do not
// depend on each other and are gathered concurrently; every failure is reported, and no matches are returned if any
// input could not be gathered.
func Audit(sources Sources, release string) ([]match.Match, error) {
	var (
		wg         sync.WaitGroup
		errsLock   sync.Mutex
		errs       error
		info       tracker.Info
		packages   []pkg.Package
		advisories []advisory.Advisory
	)

	updateErrs := func(err error) {
		if err != nil {
			errsLock.Lock()
			defer errsLock.Unlock()
			errs = multierror.Append(errs, err)
		}
	}

	gather := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			err := fn()
			log.Debugf("gathered %s (took %s)", name, time.Since(start))
			updateErrs(err)
		}()
	}

	gather("security tracker data", func() (err error) {
		info, err = sources.Tracker.Info()
		return err
	})
	gather("packages", func() (err error) {
		packages, err = sources.Packages.Fetch(release)
		return err
	})
	gather("advisories", func() (err error) {
		advisories, err = sources.Advisories.Advisories()
		return err
	})

	wg.Wait()
	if errs != nil {
		return nil, errs
	}

	log.Infof("matching %d advisories against %d packages for release=%q", len(advisories), len(packages), release)
	matches, err := match.FindMatches(advisories, packages, info)
	if err != nil {
		return nil, err
	}
	log.Infof("found %d matches", len(matches))
	return matches, nil
}

package tracker

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/debian-rust/deb-rust-sec/debrustsec/cache"
	"github.com/debian-rust/deb-rust-sec/internal/log"
)

const (
	// DefaultTTL is how long the tracker data is served from the cache.
	DefaultTTL = 24 * time.Hour

	// the tracker data does not depend on the audited release, so there is a single slot
	cacheKey = "tracker-data"
)

// FetchError is returned when the tracker data is neither cached nor retrievable.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("unable to fetch security tracker data (%s): %+v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError is returned when freshly fetched tracker data does not have the expected shape.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unable to parse security tracker data: %+v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type Provider struct {
	url    string
	client *http.Client
	store  *cache.Store
	ttl    time.Duration
}

func NewProvider(url string, store *cache.Store, ttl time.Duration) *Provider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Provider{
		url:    url,
		client: cleanhttp.DefaultClient(),
		store:  store,
		ttl:    ttl,
	}
}

// Info returns the parsed tracker data, from the cache when possible. The raw document is what gets cached; a
// cached body that no longer parses is treated as a miss and replaced. A fetched body is only cached once it parses.
func (p *Provider) Info() (Info, error) {
	var body json.RawMessage
	if p.store.Get(cacheKey, p.ttl, &body) {
		info, err := parse(body)
		if err == nil {
			return info, nil
		}
		log.Warnf("ignoring unusable cached security tracker data: %+v", err)
	}

	start := time.Now()
	body, err := p.fetch()
	if err != nil {
		return nil, &FetchError{URL: p.url, Err: err}
	}
	log.Infof("fetched security tracker data from %s (took %s)", p.url, time.Since(start))

	info, err := parse(body)
	if err != nil {
		return nil, err
	}

	if err := p.store.Put(cacheKey, body); err != nil {
		log.Warnf("unable to cache security tracker data: %+v", err)
	}
	return info, nil
}

func parse(body []byte) (Info, error) {
	var info Info
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, &ParseError{Err: err}
	}
	if info == nil {
		return nil, &ParseError{Err: fmt.Errorf("empty document")}
	}
	log.Debugf("security tracker data covers %d source packages", len(info))
	return info, nil
}

func (p *Provider) fetch() ([]byte, error) {
	resp, err := p.client.Get(p.url)
	if err != nil {
		return nil, err
	}
	defer log.CloseAndLogError(resp.Body, p.url)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %q", resp.Status)
	}

	return io.ReadAll(resp.Body)
}

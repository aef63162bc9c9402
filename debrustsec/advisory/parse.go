package advisory

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/scylladb/go-set/strset"
	"github.com/spf13/afero"

	"github.com/debian-rust/deb-rust-sec/debrustsec/version"
	"github.com/debian-rust/deb-rust-sec/internal/log"
)

const frontMatterFence = "```"

// LoadError indicates an advisory file that could not be interpreted. Loading stops at the first one: an
// advisory database that only partially loads would silently under-report.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("unable to load advisory (%s): %+v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

type document struct {
	Advisory metadata `toml:"advisory"`
	Versions versions `toml:"versions"`
}

type metadata struct {
	ID            string   `toml:"id"`
	Package       string   `toml:"package"`
	Title         string   `toml:"title"`
	URL           string   `toml:"url"`
	Aliases       []string `toml:"aliases"`
	Informational string   `toml:"informational"`

	// legacy (pre-V3) advisory format
	PatchedVersions    []string `toml:"patched_versions"`
	UnaffectedVersions []string `toml:"unaffected_versions"`
}

type versions struct {
	Patched    []string `toml:"patched"`
	Unaffected []string `toml:"unaffected"`
}

// Load reads every advisory under the given advisory database checkout. Advisories are returned ordered by
// collection and then by path.
func Load(fs afero.Fs, root string) ([]Advisory, error) {
	var advisories []Advisory
	for _, collection := range []Collection{CratesCollection, RustCollection} {
		loaded, err := loadCollection(fs, root, collection)
		if err != nil {
			return nil, err
		}
		advisories = append(advisories, loaded...)
	}
	log.Debugf("loaded %d advisories from %s", len(advisories), root)
	return advisories, nil
}

func loadCollection(fs afero.Fs, root string, collection Collection) ([]Advisory, error) {
	dir := filepath.Join(root, string(collection))
	if exists, err := afero.DirExists(fs, dir); err != nil {
		return nil, err
	} else if !exists {
		log.Debugf("advisory collection %q not found at %s", collection, dir)
		return nil, nil
	}

	var paths []string
	err := afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".md", ".toml":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to walk advisory collection (%s): %w", dir, err)
	}
	sort.Strings(paths)

	advisories := make([]Advisory, 0, len(paths))
	for _, path := range paths {
		a, err := loadFile(fs, path)
		if err != nil {
			return nil, err
		}
		a.Collection = collection
		advisories = append(advisories, a)
	}
	return advisories, nil
}

func loadFile(fs afero.Fs, path string) (Advisory, error) {
	f, err := fs.Open(path)
	if err != nil {
		return Advisory{}, &LoadError{Path: path, Err: err}
	}
	defer log.CloseAndLogError(f, path)

	a, err := Parse(f, filepath.Ext(path) == ".md")
	if err != nil {
		return Advisory{}, &LoadError{Path: path, Err: err}
	}
	return a, nil
}

// Parse decodes a single advisory. Markdown advisories carry their metadata in a fenced TOML block followed by a
// markdown body whose first heading is the title; legacy advisories are plain TOML.
func Parse(reader io.Reader, markdown bool) (Advisory, error) {
	contents, err := io.ReadAll(reader)
	if err != nil {
		return Advisory{}, err
	}

	tomlContents, body := string(contents), ""
	if markdown {
		tomlContents, body, err = splitFrontMatter(contents)
		if err != nil {
			return Advisory{}, err
		}
	}

	var doc document
	md, err := toml.Decode(tomlContents, &doc)
	if err != nil {
		return Advisory{}, fmt.Errorf("unable to decode advisory metadata: %w", err)
	}

	meta := doc.Advisory
	if meta.ID == "" || meta.Package == "" {
		return Advisory{}, fmt.Errorf("advisory is missing an id or package")
	}

	patched, unaffected := doc.Versions.Patched, doc.Versions.Unaffected
	if !md.IsDefined("versions") {
		patched, unaffected = meta.PatchedVersions, meta.UnaffectedVersions
	}
	versionRange, err := version.NewRange(patched, unaffected)
	if err != nil {
		return Advisory{}, fmt.Errorf("advisory %s: %w", meta.ID, err)
	}

	title := meta.Title
	if title == "" {
		title = markdownTitle(body)
	}

	return Advisory{
		ID:            meta.ID,
		Package:       meta.Package,
		Aliases:       strset.New(meta.Aliases...),
		Informational: Informational(meta.Informational),
		Versions:      versionRange,
		Title:         title,
		URL:           meta.URL,
	}, nil
}

func splitFrontMatter(contents []byte) (string, string, error) {
	contents = bytes.TrimLeft(contents, " \t\r\n")
	if !bytes.HasPrefix(contents, []byte(frontMatterFence+"toml")) {
		return "", "", fmt.Errorf("advisory does not start with a toml front matter block")
	}

	rest := contents[len(frontMatterFence+"toml"):]
	end := bytes.Index(rest, []byte("\n"+frontMatterFence))
	if end < 0 {
		return "", "", fmt.Errorf("unterminated toml front matter block")
	}

	body := rest[end+len("\n"+frontMatterFence):]
	return string(rest[:end]), string(body), nil
}

func markdownTitle(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return ""
}

package udd

import (
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // register the postgres dialect

	"github.com/debian-rust/deb-rust-sec/debrustsec/pkg"
	"github.com/debian-rust/deb-rust-sec/internal/log"
)

// vendored Rust libraries are shipped in binary packages named librust-<crate>-dev
const sourcesQuery = `select source::text, version::text from sources where bin like 'librust%' and release=?`

// Querier looks up the source packages of a release that build vendored Rust library packages.
type Querier interface {
	Sources(release string) ([]pkg.Package, error)
}

// Connection queries the Ultimate Debian Database. The database connection is opened on first use, so runs
// served entirely from the cache never dial out.
type Connection struct {
	dsn string
	db  *gorm.DB
}

func NewConnection(dsn string) *Connection {
	return &Connection{dsn: dsn}
}

func (c *Connection) open() error {
	if c.db != nil {
		return nil
	}

	log.Debugf("connecting to UDD")
	db, err := gorm.Open("postgres", c.dsn)
	if err != nil {
		return fmt.Errorf("unable to connect to UDD: %w", err)
	}
	db.SetLogger(&logAdapter{})
	c.db = db
	return nil
}

func (c *Connection) Sources(release string) ([]pkg.Package, error) {
	if err := c.open(); err != nil {
		return nil, err
	}

	rows, err := c.db.Raw(sourcesQuery, release).Rows()
	if err != nil {
		return nil, fmt.Errorf("unable to query sources for release=%q: %w", release, err)
	}
	defer log.CloseAndLogError(rows, "UDD rows")

	var packages []pkg.Package
	for rows.Next() {
		var p pkg.Package
		if err := rows.Scan(&p.Source, &p.Version); err != nil {
			return nil, fmt.Errorf("unable to read source row: %w", err)
		}
		packages = append(packages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to read source rows: %w", err)
	}
	return packages, nil
}

func (c *Connection) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

type logAdapter struct{}

func (l *logAdapter) Print(v ...interface{}) {
	log.Debug(append([]interface{}{"gorm: "}, v...)...)
}

package database

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/trezcool/college/core"
)

// Driver names
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

func open(dbName string, admin bool, conf *core.Config) (*sqlx.DB, error) {
	user := url.UserPassword(conf.Database.User, conf.Database.Password)
	if admin && conf.Database.AdminUser != "" {
		user = url.UserPassword(conf.Database.AdminUser, conf.Database.AdminPassword)
	}

	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")
	q.Set("connect_timeout", "5")

	u := url.URL{
		Scheme:   Postgres,
		User:     user,
		Host:     conf.Database.Address(),
		Path:     dbName,
		RawQuery: q.Encode(),
	}
	return sqlx.Open(Postgres, u.String())
}

// Open opens the primary (postgres) database.
func Open(conf *core.Config) (*sqlx.DB, error) {
	return open(conf.Database.Name, false, conf)
}

// OpenSQLite opens the embedded database stored at path (":memory:" for a throwaway one).
func OpenSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open(SQLite, path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Wrap(err, "opening sqlite database")
	}
	// one writer at a time; also keeps ":memory:" databases alive across queries
	db.SetMaxOpenConns(1)
	return db, nil
}

// OpenWithFallback opens the configured primary database, falling back to the
// embedded sqlite file when the primary cannot be reached.
func OpenWithFallback(conf *core.Config, logger core.Logger) (*sqlx.DB, error) {
	if conf.Database.Engine == SQLite {
		return OpenSQLite(conf.Database.SQLitePath)
	}

	db, err := Open(conf)
	if err == nil {
		if err = ping(db, conf.Database.PingAttempts); err == nil {
			return db, nil
		}
		_ = db.Close()
	}

	logger.Warn(
		fmt.Sprintf("primary database unavailable, falling back to sqlite (%s)", conf.Database.SQLitePath),
		err,
	)
	return OpenSQLite(conf.Database.SQLitePath)
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB, maxAttempts int) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	var err error
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = db.PingContext(ctx)
		cancel()
		if err == nil {
			break
		}
		if attempts < maxAttempts {
			time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
		}
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

func exists(db *sqlx.DB, query string, args ...interface{}) (bool, error) {
	var found bool
	if err := db.QueryRowx(query, args...).Scan(&found); err != nil {
		return false, err
	}
	return found, nil
}

func createAppUser(db *sqlx.DB, conf *core.Config) error {
	if conf.Database.User == "" {
		return nil
	}

	found, err := exists(db, "SELECT EXISTS (SELECT 1 FROM pg_roles WHERE rolname = $1)", conf.Database.User)
	if err != nil {
		return errors.Wrap(err, "checking app user")
	}
	if !found {
		// identifiers & passwords cannot be bound as parameters here
		q := fmt.Sprintf(
			"CREATE USER %s CREATEDB ENCRYPTED PASSWORD '%s'",
			quoteIdent(conf.Database.User),
			strings.ReplaceAll(conf.Database.Password, "'", "''"),
		)
		if _, err = db.Exec(q); err != nil {
			return errors.Wrap(err, "creating app user")
		}
	}
	return nil
}

func createDB(db *sqlx.DB, conf *core.Config) error {
	found, err := exists(db, "SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", conf.Database.Name)
	if err != nil {
		return errors.Wrap(err, "checking DB")
	}
	if !found {
		if _, err = db.Exec("CREATE DATABASE " + quoteIdent(conf.Database.Name)); err != nil {
			return errors.Wrap(err, "creating database")
		}
	}
	return nil
}

// CreateIfNotExist creates the app user and database on the primary server.
func CreateIfNotExist(conf *core.Config) error {
	// connect as admin
	db, err := open("postgres", true, conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = db.Close() }()

	if err = ping(db, conf.Database.PingAttempts); err != nil {
		return errors.Wrap(err, "pinging database")
	}
	if err = createAppUser(db, conf); err != nil {
		return errors.Wrap(err, "creating app user")
	}

	// create DB as app user
	appDB, err := open("postgres", false, conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = appDB.Close() }()

	return errors.Wrap(createDB(appDB, conf), "creating database")
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

package corpus

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/shipq/proptest/dburl"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const tableName = "proptest_corpus"

// SQLStore keeps entries in the proptest_corpus table of a Postgres, MySQL
// or SQLite database. created_at holds Unix milliseconds.
type SQLStore struct {
	db      *sql.DB
	dialect string
	owned   bool
}

var _ Store = (*SQLStore)(nil)

// OpenSQL connects to a database URL (see package dburl) and prepares the
// table. The returned store closes the connection pool on Close.
func OpenSQL(ctx context.Context, dbURL string) (*SQLStore, error) {
	dialect, err := dburl.InferDialectFromDBUrl(dbURL)
	if err != nil {
		return nil, err
	}
	driver, dsn, err := dburl.DriverDSN(dbURL)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", dburl.Redact(dbURL))
	}
	if dialect == dburl.DialectSQLite {
		// one writer at a time avoids SQLITE_BUSY between pooled connections
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "connecting to %s", dburl.Redact(dbURL))
	}

	s, err := NewSQLStore(ctx, db, dialect)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

// NewSQLStore uses an existing pool, which Close leaves open.
func NewSQLStore(ctx context.Context, db *sql.DB, dialect string) (*SQLStore, error) {
	s := &SQLStore{db: db, dialect: dialect}
	if err := s.ensureTable(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Dialect returns the database dialect.
func (s *SQLStore) Dialect() string { return s.dialect }

func (s *SQLStore) ensureTable(ctx context.Context) error {
	var createSQL string

	switch s.dialect {
	case dburl.DialectPostgres:
		createSQL = `
			CREATE TABLE IF NOT EXISTS proptest_corpus (
				property   VARCHAR(255) NOT NULL,
				id         VARCHAR(16) NOT NULL,
				choices    BYTEA NOT NULL,
				created_at BIGINT NOT NULL,
				PRIMARY KEY (property, id)
			)`
	case dburl.DialectMySQL:
		createSQL = `
			CREATE TABLE IF NOT EXISTS proptest_corpus (
				property   VARCHAR(255) NOT NULL,
				id         VARCHAR(16) NOT NULL,
				choices    LONGBLOB NOT NULL,
				created_at BIGINT NOT NULL,
				PRIMARY KEY (property, id)
			)`
	case dburl.DialectSQLite:
		createSQL = `
			CREATE TABLE IF NOT EXISTS proptest_corpus (
				property   TEXT NOT NULL,
				id         TEXT NOT NULL,
				choices    BLOB NOT NULL,
				created_at INTEGER NOT NULL,
				PRIMARY KEY (property, id)
			)`
	default:
		return errors.Wrap(dburl.ErrUnknownDialect, s.dialect)
	}

	if _, err := s.db.ExecContext(ctx, createSQL); err != nil {
		return errors.Wrapf(err, "creating %s", tableName)
	}
	return nil
}

// bind rewrites ? placeholders to $n for Postgres.
func (s *SQLStore) bind(query string) string {
	if s.dialect != dburl.DialectPostgres {
		return query
	}
	out := make([]byte, 0, len(query)+8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			out = append(out, query[i])
			continue
		}
		n++
		out = append(out, '$')
		out = strconv.AppendInt(out, int64(n), 10)
	}
	return string(out)
}

func (s *SQLStore) Save(ctx context.Context, e Entry) error {
	if err := validateEntry(e); err != nil {
		return err
	}
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	var insertSQL string
	switch s.dialect {
	case dburl.DialectMySQL:
		insertSQL = `INSERT IGNORE INTO proptest_corpus (property, id, choices, created_at) VALUES (?, ?, ?, ?)`
	default:
		insertSQL = `INSERT INTO proptest_corpus (property, id, choices, created_at) VALUES (?, ?, ?, ?)
			ON CONFLICT (property, id) DO NOTHING`
	}

	choices := e.Choices
	if choices == nil {
		choices = []byte{}
	}
	_, err := s.db.ExecContext(ctx, s.bind(insertSQL), e.Property, e.ID, choices, created.UnixMilli())
	if err != nil {
		return errors.Wrapf(err, "saving %s/%s", e.Property, e.ID)
	}
	return nil
}

func (s *SQLStore) Load(ctx context.Context, property string) ([]Entry, error) {
	if err := validateProperty(property); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, s.bind(
		`SELECT id, choices, created_at FROM proptest_corpus WHERE property = ? ORDER BY created_at, id`),
		property)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", property)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e := Entry{Property: property}
		var created int64
		if err := rows.Scan(&e.ID, &e.Choices, &created); err != nil {
			return nil, errors.Wrap(err, "scanning entry")
		}
		e.CreatedAt = time.UnixMilli(created).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating entries")
	}
	return entries, nil
}

func (s *SQLStore) Get(ctx context.Context, property, id string) (Entry, error) {
	if err := validateProperty(property); err != nil {
		return Entry{}, err
	}
	if err := validateID(id); err != nil {
		return Entry{}, err
	}
	e := Entry{Property: property, ID: id}
	var created int64
	err := s.db.QueryRowContext(ctx, s.bind(
		`SELECT choices, created_at FROM proptest_corpus WHERE property = ? AND id = ?`),
		property, id).Scan(&e.Choices, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, errors.Wrapf(ErrNotFound, "%s/%s", property, id)
	}
	if err != nil {
		return Entry{}, errors.Wrapf(err, "reading %s/%s", property, id)
	}
	e.CreatedAt = time.UnixMilli(created).UTC()
	return e, nil
}

func (s *SQLStore) Delete(ctx context.Context, property, id string) error {
	if err := validateProperty(property); err != nil {
		return err
	}
	if err := validateID(id); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, s.bind(
		`DELETE FROM proptest_corpus WHERE property = ? AND id = ?`), property, id)
	if err != nil {
		return errors.Wrapf(err, "deleting %s/%s", property, id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "counting deleted rows")
	}
	if n == 0 {
		return errors.Wrapf(ErrNotFound, "%s/%s", property, id)
	}
	return nil
}

func (s *SQLStore) Properties(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT property FROM proptest_corpus ORDER BY property`)
	if err != nil {
		return nil, errors.Wrap(err, "listing properties")
	}
	defer rows.Close()

	var props []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, errors.Wrap(err, "scanning property")
		}
		props = append(props, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating properties")
	}
	return props, nil
}

func (s *SQLStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

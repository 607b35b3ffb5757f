package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vogelring/vogelring/internal/dataset"
	"github.com/vogelring/vogelring/internal/view"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	viewsTable    = "views"
	datasetsTable = "datasets"
)

// SQLStore persists documents in a relational database, one row per
// named resource. It implements the Store interface for both SQLite and
// PostgreSQL; the dialect supplies the syntax differences.
type SQLStore struct {
	path    string
	conn    *sql.DB
	dialect Dialect
}

// OpenSQLite opens (or creates) a SQLite document store at the given path.
func OpenSQLite(path string) (*SQLStore, error) {
	return open(SQLiteDialect{}, path)
}

// OpenPostgres opens a PostgreSQL document store. The database must
// already exist; the tables are created on first use.
func OpenPostgres(connStr string) (*SQLStore, error) {
	return open(PostgresDialect{}, connStr)
}

func open(d Dialect, pathOrConnStr string) (*SQLStore, error) {
	conn, err := sql.Open(d.DriverName(), d.DSN(pathOrConnStr))
	if err != nil {
		return nil, unavailable("opening store", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, unavailable("connecting to store", err)
	}

	s := &SQLStore{path: pathOrConnStr, conn: conn, dialect: d}
	if err := s.createSchema(); err != nil {
		conn.Close()
		return nil, unavailable("creating schema", err)
	}
	return s, nil
}

func (s *SQLStore) createSchema() error {
	for _, table := range []string{viewsTable, datasetsTable} {
		ddl := fmt.Sprintf(
			"CREATE TABLE IF NOT EXISTS %s (name TEXT PRIMARY KEY, document TEXT NOT NULL)",
			table,
		)
		if _, err := s.conn.Exec(ddl); err != nil {
			return fmt.Errorf("creating %s table: %w", table, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Path returns the file path or connection string of the store.
func (s *SQLStore) Path() string {
	return s.path
}

func (s *SQLStore) getDocument(table, name string) ([]byte, error) {
	query := fmt.Sprintf(
		"SELECT document FROM %s WHERE name = %s",
		table, s.dialect.Placeholder(1),
	)
	var doc []byte
	err := s.conn.QueryRow(query, name).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s %q: %w", table, name, ErrNotFound)
	}
	if err != nil {
		return nil, unavailable("reading "+table, err)
	}
	return doc, nil
}

func (s *SQLStore) listDocuments(table string) ([][]byte, error) {
	rows, err := s.conn.Query(fmt.Sprintf("SELECT document FROM %s ORDER BY name", table))
	if err != nil {
		return nil, unavailable("listing "+table, err)
	}
	defer rows.Close()

	var docs [][]byte
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, unavailable("scanning "+table, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *SQLStore) saveDocument(table, name string, doc []byte) error {
	query := fmt.Sprintf(
		"INSERT INTO %s (name, document) VALUES (%s, %s) ON CONFLICT (name) DO UPDATE SET document = excluded.document",
		table, s.dialect.Placeholder(1), s.dialect.Placeholder(2),
	)
	if _, err := s.conn.Exec(query, name, doc); err != nil {
		return unavailable("saving to "+table, err)
	}
	return nil
}

func (s *SQLStore) deleteDocument(table, name string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE name = %s", table, s.dialect.Placeholder(1))
	if _, err := s.conn.Exec(query, name); err != nil {
		return unavailable("deleting from "+table, err)
	}
	return nil
}

// GetView loads one view by name.
func (s *SQLStore) GetView(name string) (*view.View, error) {
	doc, err := s.getDocument(viewsTable, name)
	if err != nil {
		return nil, err
	}
	var v view.View
	if err := json.Unmarshal(doc, &v); err != nil {
		return nil, unavailable("decoding view "+name, err)
	}
	return &v, nil
}

// ListViews returns all saved views ordered by name. Corrupt documents
// are skipped.
func (s *SQLStore) ListViews() ([]*view.View, error) {
	docs, err := s.listDocuments(viewsTable)
	if err != nil {
		return nil, err
	}
	views := make([]*view.View, 0, len(docs))
	for _, doc := range docs {
		var v view.View
		if err := json.Unmarshal(doc, &v); err != nil {
			continue
		}
		views = append(views, &v)
	}
	return views, nil
}

// SaveView stores a view, overwriting any existing view of the same name.
func (s *SQLStore) SaveView(v *view.View) error {
	if v.Name == "" {
		return fmt.Errorf("store: view requires a name")
	}
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding view %q: %w", v.Name, err)
	}
	return s.saveDocument(viewsTable, v.Name, doc)
}

// DeleteView removes a view. Deleting a missing view is not an error.
func (s *SQLStore) DeleteView(name string) error {
	return s.deleteDocument(viewsTable, name)
}

// GetDataset loads one dataset by name.
func (s *SQLStore) GetDataset(name string) (*dataset.Dataset, error) {
	doc, err := s.getDocument(datasetsTable, name)
	if err != nil {
		return nil, err
	}
	var d dataset.Dataset
	if err := json.Unmarshal(doc, &d); err != nil {
		return nil, unavailable("decoding dataset "+name, err)
	}
	return &d, nil
}

// ListDatasets returns all saved datasets ordered by name.
func (s *SQLStore) ListDatasets() ([]*dataset.Dataset, error) {
	docs, err := s.listDocuments(datasetsTable)
	if err != nil {
		return nil, err
	}
	datasets := make([]*dataset.Dataset, 0, len(docs))
	for _, doc := range docs {
		var d dataset.Dataset
		if err := json.Unmarshal(doc, &d); err != nil {
			continue
		}
		datasets = append(datasets, &d)
	}
	return datasets, nil
}

// SaveDataset stores a dataset with an optimistic-concurrency check: the
// dataset's UpdatedAt must match the stored revision, otherwise
// ErrConflict is returned and nothing is written.
func (s *SQLStore) SaveDataset(d *dataset.Dataset) error {
	existing, err := s.GetDataset(d.Name)
	if err != nil && !isNotFound(err) {
		return err
	}
	if err := stampDataset(d, existing, time.Now().UTC()); err != nil {
		return err
	}

	doc, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding dataset %q: %w", d.Name, err)
	}
	return s.saveDocument(datasetsTable, d.Name, doc)
}

// DeleteDataset removes a dataset. Deleting a missing dataset is not an
// error.
func (s *SQLStore) DeleteDataset(name string) error {
	return s.deleteDocument(datasetsTable, name)
}

package store

import (
	"database/sql"
	"sync"

	"braces.dev/errtrace"
	_ "github.com/glebarez/go-sqlite"

	"github.com/always-cache/cache-directive/rules"
)

type SQLiteStore struct {
	db         *sql.DB
	writeMutex *sync.Mutex
}

// NewSQLiteStore opens a rule store with the given filename as the db.
// If file name is empty, a new in-memory db is opened.
func NewSQLiteStore(filename string) (*SQLiteStore, error) {
	if filename == "" {
		filename = "file::memory:?cache=shared"
	}
	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS rules (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		rule BLOB
	)`)
	if err != nil {
		db.Close()
		return nil, errtrace.Wrap(err)
	}
	return &SQLiteStore{
		db:         db,
		writeMutex: &sync.Mutex{},
	}, nil
}

func (s *SQLiteStore) All() (rules.Rules, error) {
	rows, err := s.db.Query("SELECT rule FROM rules ORDER BY id")
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	defer rows.Close()
	all := make(rules.Rules, 0)
	for rows.Next() {
		var b []byte
		if err := rows.Scan(&b); err != nil {
			return nil, errtrace.Wrap(err)
		}
		rule, err := decodeRule(b)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		all = append(all, rule)
	}
	return all, errtrace.Wrap(rows.Err())
}

func (s *SQLiteStore) Add(rule rules.Rule) (int64, error) {
	b, err := encodeRule(rule)
	if err != nil {
		return 0, errtrace.Wrap(err)
	}
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()
	res, err := s.db.Exec("INSERT INTO rules (rule) VALUES (?)", b)
	if err != nil {
		return 0, errtrace.Wrap(err)
	}
	return errtrace.Wrap2(res.LastInsertId())
}

func (s *SQLiteStore) Remove(id int64) error {
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()
	res, err := s.db.Exec("DELETE FROM rules WHERE id = ?", id)
	if err != nil {
		return errtrace.Wrap(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return errtrace.Wrap(err)
	} else if n == 0 {
		return errtrace.Wrap(ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) Replace(all rules.Rules) error {
	encoded := make([][]byte, 0, len(all))
	for _, rule := range all {
		b, err := encodeRule(rule)
		if err != nil {
			return errtrace.Wrap(err)
		}
		encoded = append(encoded, b)
	}
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()
	tx, err := s.db.Begin()
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer tx.Rollback()
	if _, err := tx.Exec("DELETE FROM rules"); err != nil {
		return errtrace.Wrap(err)
	}
	for _, b := range encoded {
		if _, err := tx.Exec("INSERT INTO rules (rule) VALUES (?)", b); err != nil {
			return errtrace.Wrap(err)
		}
	}
	return errtrace.Wrap(tx.Commit())
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return errtrace.Wrap(s.db.Close())
}

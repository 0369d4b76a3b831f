package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pavelanni/schoolmatch/internal/model"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	if strings.HasPrefix(dbPath, ":memory:") {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS high_schools (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		country TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL DEFAULT '',
		curriculum TEXT NOT NULL DEFAULT '[]',
		languages TEXT NOT NULL DEFAULT '[]',
		tuition_annual_usd REAL NOT NULL DEFAULT 0,
		boarding_available INTEGER NOT NULL DEFAULT 0,
		boarding_cost_annual_usd REAL NOT NULL DEFAULT 0,
		student_capacity INTEGER NOT NULL DEFAULT 0,
		international_student_percentage REAL NOT NULL DEFAULT 0,
		age_range_min INTEGER NOT NULL DEFAULT 0,
		age_range_max INTEGER NOT NULL DEFAULT 0,
		application_deadline TEXT NOT NULL DEFAULT '',
		website TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		ranking_national INTEGER NOT NULL DEFAULT 0,
		accreditations TEXT NOT NULL DEFAULT '[]',
		special_programs TEXT NOT NULL DEFAULT '[]',
		scholarship_available INTEGER NOT NULL DEFAULT 0,
		accepts_foreign_students INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS high_school_admissions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		school_id TEXT NOT NULL UNIQUE,
		academic_requirements TEXT NOT NULL DEFAULT '{}',
		language_requirements TEXT NOT NULL DEFAULT '{}',
		required_documents TEXT NOT NULL DEFAULT '[]',
		interview_required INTEGER NOT NULL DEFAULT 0,
		entrance_exam_required INTEGER NOT NULL DEFAULT 0,
		acceptance_rate REAL NOT NULL DEFAULT 0,
		FOREIGN KEY (school_id) REFERENCES high_schools(id)
	);

	CREATE TABLE IF NOT EXISTS high_school_scholarships (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		school_id TEXT NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT '',
		amount_usd REAL,
		coverage_percentage REAL NOT NULL DEFAULT 0,
		requirements TEXT NOT NULL DEFAULT '[]',
		deadline TEXT NOT NULL DEFAULT '',
		renewable INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (school_id) REFERENCES high_schools(id)
	);

	CREATE TABLE IF NOT EXISTS language_schools (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		country TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		languages TEXT NOT NULL DEFAULT '[]',
		weekly_cost REAL NOT NULL DEFAULT 0,
		accommodation_weekly REAL NOT NULL DEFAULT 0,
		class_size_max INTEGER NOT NULL DEFAULT 0,
		rating REAL NOT NULL DEFAULT 0,
		min_weeks INTEGER NOT NULL DEFAULT 0,
		hours_per_week INTEGER NOT NULL DEFAULT 0,
		visa_difficulty_score REAL NOT NULL DEFAULT 0,
		accreditations TEXT NOT NULL DEFAULT '[]',
		facilities TEXT NOT NULL DEFAULT '[]',
		website TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS universities (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		city TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT '',
		website TEXT NOT NULL DEFAULT '',
		ownership TEXT NOT NULL DEFAULT '',
		level TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS student_profiles (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		nationality TEXT NOT NULL DEFAULT '',
		program_type TEXT NOT NULL,
		profile TEXT NOT NULL,
		matches TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS imported_files (
		path TEXT PRIMARY KEY,
		sha256 TEXT NOT NULL,
		imported_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// encodeJSON renders v for a JSON text column; nil slices become [].
func encodeJSON[T any](v []T) string {
	if v == nil {
		v = []T{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func decodeJSON(column, raw string, v any) error {
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decode %s: %w", column, err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListDirectory returns directory universities matching the filter, ordered
// by name. Search is a case-insensitive substring of the name; LIKE wildcards
// in it are matched literally.
func (s *Store) ListDirectory(ctx context.Context, f model.DirectoryFilter) ([]model.DirectoryUniversity, error) {
	query := `SELECT id, name, city, state, country, website, ownership, level, created_at FROM universities WHERE 1=1`
	var args []any
	if q := strings.TrimSpace(f.Search); q != "" {
		query += ` AND name LIKE ? ESCAPE '\'`
		args = append(args, "%"+likeEscaper.Replace(q)+"%")
	}
	if f.State != "" {
		query += ` AND state = ?`
		args = append(args, f.State)
	}
	if f.Ownership != "" {
		query += ` AND ownership = ?`
		args = append(args, f.Ownership)
	}
	query += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	unis := []model.DirectoryUniversity{}
	for rows.Next() {
		var u model.DirectoryUniversity
		if err := rows.Scan(&u.ID, &u.Name, &u.City, &u.State, &u.Country, &u.Website, &u.Ownership, &u.Level, &u.CreatedAt); err != nil {
			return nil, err
		}
		unis = append(unis, u)
	}
	return unis, rows.Err()
}

// UpsertDirectoryUniversity inserts a directory entry or updates the one with
// the same name.
func (s *Store) UpsertDirectoryUniversity(ctx context.Context, u model.DirectoryUniversity) error {
	return upsertDirectoryUniversity(ctx, s.db, u)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertDirectoryUniversity(ctx context.Context, db execer, u model.DirectoryUniversity) error {
	created := u.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO universities (name, city, state, country, website, ownership, level, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET city = excluded.city, state = excluded.state, country = excluded.country,
		 website = excluded.website, ownership = excluded.ownership, level = excluded.level`,
		u.Name, u.City, u.State, u.Country, u.Website, u.Ownership, u.Level, created,
	)
	return err
}

// jsonText renders a JSON object column. The values stored this way are plain
// structs that always marshal.
func jsonText(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pavelanni/schoolmatch/internal/model"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// SaveSubmission stores a submitted profile with its match snapshot. A new ID
// and creation time are assigned when missing.
func (s *Store) SaveSubmission(ctx context.Context, sub model.Submission) (model.Submission, error) {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	profile, err := json.Marshal(sub.Profile)
	if err != nil {
		return sub, fmt.Errorf("encode profile: %w", err)
	}
	matches, err := json.Marshal(sub.Matches)
	if err != nil {
		return sub, fmt.Errorf("encode matches: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO student_profiles (id, full_name, email, nationality, program_type, profile, matches, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Profile.FullName, sub.Profile.Email, sub.Profile.Nationality, sub.Matches.ProgramType,
		string(profile), string(matches), sub.CreatedAt,
	)
	if err != nil {
		slog.Error("failed to save submission", "id", sub.ID, "error", err)
		return sub, err
	}
	slog.Info("saved submission", "id", sub.ID, "program_type", sub.Matches.ProgramType, "matches", sub.Matches.Len())
	return sub, nil
}

// GetSubmission returns a submission by ID, or ErrNotFound.
func (s *Store) GetSubmission(ctx context.Context, id string) (model.Submission, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, profile, matches, created_at FROM student_profiles WHERE id = ?`, id)
	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return sub, ErrNotFound
	}
	return sub, err
}

// ListSubmissions returns submissions newest first. An empty program type
// lists all of them.
func (s *Store) ListSubmissions(ctx context.Context, programType model.ProgramType) ([]model.Submission, error) {
	query := `SELECT id, profile, matches, created_at FROM student_profiles`
	var args []any
	if programType != "" {
		query += ` WHERE program_type = ?`
		args = append(args, programType)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var subs []model.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row scanner) (model.Submission, error) {
	var (
		sub              model.Submission
		profile, matches string
	)
	if err := row.Scan(&sub.ID, &profile, &matches, &sub.CreatedAt); err != nil {
		return sub, err
	}
	if err := decodeJSON("profile", profile, &sub.Profile); err != nil {
		return sub, err
	}
	if err := decodeJSON("matches", matches, &sub.Matches); err != nil {
		return sub, err
	}
	return sub, nil
}

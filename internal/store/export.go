package store

import (
	"context"
	"fmt"

	"github.com/pavelanni/schoolmatch/internal/model"
)

// topMatchCount is how many institution names an export record lists.
const topMatchCount = 3

// ExportSubmissions builds export-ready records from stored submissions.
func (s *Store) ExportSubmissions(ctx context.Context, programType model.ProgramType) ([]model.SubmissionRecord, error) {
	subs, err := s.ListSubmissions(ctx, programType)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	records := make([]model.SubmissionRecord, 0, len(subs))
	for _, sub := range subs {
		records = append(records, model.SubmissionRecord{
			ID:          sub.ID,
			FullName:    sub.Profile.FullName,
			Email:       sub.Profile.Email,
			Nationality: sub.Profile.Nationality,
			ProgramType: sub.Matches.ProgramType,
			CreatedAt:   sub.CreatedAt,
			MatchCount:  sub.Matches.Len(),
			TopMatches:  sub.Matches.TopNames(topMatchCount),
			Profile:     sub.Profile,
		})
	}
	return records, nil
}

package model

import "time"

// Submission is a profile the applicant explicitly submitted, stored together
// with the matches computed at submission time.
type Submission struct {
	ID        string    `json:"id"`
	Profile   Profile   `json:"profile"`
	Matches   MatchSet  `json:"matches"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmissionExport is the top-level JSON structure for submission export.
type SubmissionExport struct {
	ExportedAt  time.Time          `json:"exported_at"`
	ProgramType ProgramType        `json:"program_type,omitempty"`
	Count       int                `json:"count"`
	Submissions []SubmissionRecord `json:"submissions"`
}

// SubmissionRecord is one submission flattened for export.
type SubmissionRecord struct {
	ID          string      `json:"id"`
	FullName    string      `json:"full_name"`
	Email       string      `json:"email"`
	Nationality string      `json:"nationality"`
	ProgramType ProgramType `json:"program_type"`
	CreatedAt   time.Time   `json:"created_at"`
	MatchCount  int         `json:"match_count"`
	TopMatches  []string    `json:"top_matches"`
	Profile     Profile     `json:"profile"`
}

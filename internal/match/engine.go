// Package match scores catalog institutions against an applicant profile.
package match

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pavelanni/schoolmatch/internal/metrics"
	"github.com/pavelanni/schoolmatch/internal/model"
	"github.com/pavelanni/schoolmatch/internal/visa"
)

// UniversitySource lists the universities considered by the university flow.
type UniversitySource interface {
	ListUniversities(ctx context.Context) ([]model.University, error)
}

// ProfessorSource answers professor lookups for the professor bonus.
type ProfessorSource interface {
	FindProfessorsByResearchInterests(interests []string) []model.Professor
	ProfessorsByUniversity(universityID string) []model.Professor
}

// HighSchoolSource is the external store queried by the high-school flow.
type HighSchoolSource interface {
	ListHighSchools(ctx context.Context) ([]model.HighSchool, error)
	ListHighSchoolAdmissions(ctx context.Context) ([]model.HighSchoolAdmissions, error)
	ListHighSchoolScholarships(ctx context.Context) ([]model.HighSchoolScholarship, error)
}

// LanguageSchoolSource lists language schools.
type LanguageSchoolSource interface {
	ListLanguageSchools(ctx context.Context) ([]model.LanguageSchool, error)
}

// Sources groups the catalogs the engine reads. A nil source yields no
// matches for its program type.
type Sources struct {
	Universities    UniversitySource
	Professors      ProfessorSource
	HighSchools     HighSchoolSource
	LanguageSchools LanguageSchoolSource
}

// DefaultLanguageCourseWeeks is used when no course length is configured.
const DefaultLanguageCourseWeeks = 24

// Engine is the single dispatch point from a profile to its match set.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	src Sources
	cfg model.MatchConfig
	now func() time.Time
}

// NewEngine creates an engine over the given sources.
func NewEngine(src Sources, cfg model.MatchConfig) *Engine {
	if cfg.LanguageCourseWeeks <= 0 {
		cfg.LanguageCourseWeeks = DefaultLanguageCourseWeeks
	}
	return &Engine{src: src, cfg: cfg, now: time.Now}
}

// Match runs the flow selected by the profile's program type. It never
// fails: catalog errors and panics are logged and produce an empty list.
func (e *Engine) Match(ctx context.Context, p model.Profile) (set model.MatchSet) {
	pt := p.ProgramType
	if pt == "" {
		pt = model.ProgramBachelor
	}
	label := string(pt)
	set = model.MatchSet{ProgramType: pt}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("match panicked", "program_type", label, "panic", r)
			metrics.MatchFailures.WithLabelValues(label, "panic").Inc()
			set = model.MatchSet{ProgramType: pt}
		}
		metrics.MatchRequests.WithLabelValues(label).Inc()
		metrics.MatchDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
		metrics.MatchResults.WithLabelValues(label).Observe(float64(set.Len()))
	}()

	assessments := visa.Analyze(p.VisaHistory.Rejections, p.VisaHistory.FamilyLegalHistory, e.now())
	set.VisaAssessments = assessments.List()
	for _, as := range set.VisaAssessments {
		metrics.VisaAssessments.WithLabelValues(string(as.RiskLevel)).Inc()
	}

	var err error
	switch pt {
	case model.ProgramHighSchool:
		set.HighSchools, err = e.matchHighSchools(ctx, p)
		set.HighSchools = truncate(set.HighSchools, e.cfg.MaxResults)
	case model.ProgramLanguageSchool:
		set.LanguageSchools, err = e.matchLanguageSchools(ctx, p, assessments)
		set.LanguageSchools = truncate(set.LanguageSchools, e.cfg.MaxResults)
	default:
		set.Universities, err = e.matchUniversities(ctx, p, assessments)
		set.Universities = truncate(set.Universities, e.cfg.MaxResults)
	}
	if err != nil {
		slog.Error("match failed", "program_type", label, "error", err)
		metrics.MatchFailures.WithLabelValues(label, "catalog").Inc()
		set.Universities, set.HighSchools, set.LanguageSchools = nil, nil, nil
	}
	return set
}

func (e *Engine) matchUniversities(ctx context.Context, p model.Profile, as visa.Assessments) ([]model.UniversityMatch, error) {
	if e.src.Universities == nil {
		return nil, nil
	}
	unis, err := e.src.Universities.ListUniversities(ctx)
	if err != nil {
		return nil, fmt.Errorf("list universities: %w", err)
	}
	return ScoreUniversities(p, unis, e.src.Professors, as), nil
}

func (e *Engine) matchHighSchools(ctx context.Context, p model.Profile) ([]model.HighSchoolMatch, error) {
	if e.src.HighSchools == nil {
		return nil, nil
	}
	schools, err := e.src.HighSchools.ListHighSchools(ctx)
	if err != nil {
		return nil, fmt.Errorf("list high schools: %w", err)
	}
	if len(schools) == 0 {
		return nil, nil
	}
	admissions, err := e.src.HighSchools.ListHighSchoolAdmissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list admissions: %w", err)
	}
	scholarships, err := e.src.HighSchools.ListHighSchoolScholarships(ctx)
	if err != nil {
		return nil, fmt.Errorf("list high school scholarships: %w", err)
	}
	return ScoreHighSchools(p, schools, admissions, scholarships), nil
}

func (e *Engine) matchLanguageSchools(ctx context.Context, p model.Profile, as visa.Assessments) ([]model.LanguageSchoolMatch, error) {
	if e.src.LanguageSchools == nil {
		return nil, nil
	}
	schools, err := e.src.LanguageSchools.ListLanguageSchools(ctx)
	if err != nil {
		return nil, fmt.Errorf("list language schools: %w", err)
	}
	return ScoreLanguageSchools(p, schools, e.cfg.LanguageCourseWeeks, as), nil
}

func truncate[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}

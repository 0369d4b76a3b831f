package model

import "encoding/json"

// RiskLevel is ordered: low < medium < high < critical.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Recommendation is the advice attached to a visa risk assessment.
type Recommendation string

const (
	RecommendHighly     Recommendation = "highly_recommended"
	RecommendCaution    Recommendation = "proceed_with_caution"
	RecommendReconsider Recommendation = "reconsider"
	RecommendAvoid      Recommendation = "avoid"
)

// VisaRiskAssessment describes how the applicant's history affects applying
// to one country. Country "ALL" marks an assessment driven only by family
// legal history.
type VisaRiskAssessment struct {
	Country             string         `json:"country"`
	RiskLevel           RiskLevel      `json:"risk_level"`
	Recommendation      Recommendation `json:"recommendation"`
	Reasoning           string         `json:"reasoning"`
	ActionItems         []string       `json:"action_items"`
	TimeRecommendation  string         `json:"time_recommendation,omitempty"`
	FamilyIssuesWarning string         `json:"family_issues_warning,omitempty"`
	// TotalSeverity sums the time-decayed severity of the country's
	// rejections and the family legal history.
	TotalSeverity       float64        `json:"total_severity"`
}

// UniversitySummary is the identity block shown for a matched university.
type UniversitySummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Country       string `json:"country"`
	City          string `json:"city"`
	RankingGlobal int    `json:"ranking_global,omitempty"`
	Website       string `json:"website,omitempty"`
}

// DegreeInfo shows program length and tuition scaled for the degree type.
type DegreeInfo struct {
	DegreeType          string  `json:"degree_type"`
	DurationYears       int     `json:"duration_years"`
	EstimatedTuitionMin float64 `json:"estimated_tuition_min"`
	EstimatedTuitionMax float64 `json:"estimated_tuition_max"`
}

// UniversityScores holds sub-scores (0-100), estimates and narratives.
type UniversityScores struct {
	OverallMatchScore           int                 `json:"overall_match_score"`
	AcademicMatchScore          int                 `json:"academic_match_score"`
	FinancialMatchScore         int                 `json:"financial_match_score"`
	VisaMatchScore              int                 `json:"visa_match_score"`
	ScholarshipPotentialScore   int                 `json:"scholarship_potential_score"`
	PostGraduationScore         int                 `json:"post_graduation_score"`
	EstimatedTotalCost          float64             `json:"estimated_total_cost"`
	EstimatedScholarshipAmount  float64             `json:"estimated_scholarship_amount"`
	VisaDifficultyAssessment    string              `json:"visa_difficulty_assessment"`
	PostGraduationOpportunities string              `json:"post_graduation_opportunities"`
	MatchReasoning              string              `json:"match_reasoning"`
	DegreeInfo                  DegreeInfo          `json:"degree_info"`
	NotableProfessors           []Professor         `json:"notable_professors"`
	VisaRiskAssessment          *VisaRiskAssessment `json:"visa_risk_assessment,omitempty"`
}

type UniversityMatch struct {
	University   UniversitySummary `json:"university"`
	Match        UniversityScores  `json:"match"`
	Scholarships []Scholarship     `json:"scholarships"`
}

type HighSchoolScores struct {
	OverallMatchScore     int      `json:"overall_match_score"`
	AcademicMatchScore    int      `json:"academic_match_score"`
	FinancialMatchScore   int      `json:"financial_match_score"`
	VisaMatchScore        int      `json:"visa_match_score"`
	CultureMatchScore     int      `json:"culture_match_score"`
	AcceptanceProbability int      `json:"acceptance_probability"`
	MatchReasons          []string `json:"match_reasons"`
	Concerns              []string `json:"concerns"`
}

// PreparationGuide is the checklist generated for a high-school match.
type PreparationGuide struct {
	Timeline            string   `json:"timeline"`
	AcademicFocus       []string `json:"academic_focus"`
	TestPreparation     []string `json:"test_preparation"`
	ApplicationStrategy []string `json:"application_strategy"`
	VisaPreparation     []string `json:"visa_preparation"`
}

type HighSchoolMatch struct {
	School           HighSchool              `json:"school"`
	Match            HighSchoolScores        `json:"match"`
	Admissions       *HighSchoolAdmissions   `json:"admissions"`
	Scholarships     []HighSchoolScholarship `json:"scholarships"`
	PreparationGuide PreparationGuide        `json:"preparation_guide"`
}

// LanguageSchoolMatch is a language school with its projected course cost.
type LanguageSchoolMatch struct {
	School             LanguageSchool      `json:"school"`
	MatchScore         int                 `json:"match_score"`
	FinancialScore     int                 `json:"financial_score"`
	CultureScore       int                 `json:"culture_score"`
	RatingScore        int                 `json:"rating_score"`
	Weeks              int                 `json:"weeks"`
	TuitionCost        float64             `json:"tuition_cost"`
	AccommodationCost  float64             `json:"accommodation_cost"`
	TotalCost          float64             `json:"total_cost"`
	Pros               []string            `json:"pros"`
	Cons               []string            `json:"cons"`
	VisaRiskAssessment *VisaRiskAssessment `json:"visa_risk_assessment,omitempty"`
}

// MatchSet is the result of one matching request. Exactly one of the match
// lists is populated, selected by ProgramType. VisaAssessments carries every
// per-country assessment derived from the profile.
type MatchSet struct {
	ProgramType     ProgramType
	Universities    []UniversityMatch
	HighSchools     []HighSchoolMatch
	LanguageSchools []LanguageSchoolMatch
	VisaAssessments []VisaRiskAssessment
}

// Len returns the number of matches in the populated list.
func (m MatchSet) Len() int {
	switch m.ProgramType {
	case ProgramHighSchool:
		return len(m.HighSchools)
	case ProgramLanguageSchool:
		return len(m.LanguageSchools)
	default:
		return len(m.Universities)
	}
}

// TopNames returns the names of the first n institutions in the populated list.
func (m MatchSet) TopNames(n int) []string {
	names := []string{}
	switch m.ProgramType {
	case ProgramHighSchool:
		for _, h := range m.HighSchools[:min(n, len(m.HighSchools))] {
			names = append(names, h.School.Name)
		}
	case ProgramLanguageSchool:
		for _, l := range m.LanguageSchools[:min(n, len(m.LanguageSchools))] {
			names = append(names, l.School.Name)
		}
	default:
		for _, u := range m.Universities[:min(n, len(m.Universities))] {
			names = append(names, u.University.Name)
		}
	}
	return names
}

type matchSetJSON struct {
	ProgramType     ProgramType           `json:"program_type"`
	Universities    []UniversityMatch     `json:"universities,omitempty"`
	HighSchools     []HighSchoolMatch     `json:"high_schools,omitempty"`
	LanguageSchools []LanguageSchoolMatch `json:"language_schools,omitempty"`
	VisaAssessments []VisaRiskAssessment  `json:"visa_assessments,omitempty"`
}

// MarshalJSON writes the program type and only the list it selects. The
// selected list is always present, as [] when empty.
func (m MatchSet) MarshalJSON() ([]byte, error) {
	out := map[string]any{"program_type": m.ProgramType}
	switch m.ProgramType {
	case ProgramHighSchool:
		out["high_schools"] = nonNil(m.HighSchools)
	case ProgramLanguageSchool:
		out["language_schools"] = nonNil(m.LanguageSchools)
	default:
		out["universities"] = nonNil(m.Universities)
	}
	if len(m.VisaAssessments) > 0 {
		out["visa_assessments"] = m.VisaAssessments
	}
	return json.Marshal(out)
}

func (m *MatchSet) UnmarshalJSON(data []byte) error {
	var raw matchSetJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = MatchSet(raw)
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

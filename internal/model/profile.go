package model

import "strings"

// ProgramType is the school category a profile is matched against.
type ProgramType string

const (
	ProgramHighSchool     ProgramType = "high_school"
	ProgramBachelor       ProgramType = "bachelor"
	ProgramMaster         ProgramType = "master"
	ProgramDoctorate      ProgramType = "doctorate"
	ProgramLanguageSchool ProgramType = "language_school"
)

// IsUniversity reports whether the program is served by the university catalog.
func (p ProgramType) IsUniversity() bool {
	return p == ProgramBachelor || p == ProgramMaster || p == ProgramDoctorate
}

// IsPostgraduate reports whether the degree level is master or doctorate.
func IsPostgraduate(level string) bool {
	return level == string(ProgramMaster) || level == string(ProgramDoctorate)
}

// Profile is the normalized applicant input assembled by the wizard.
// It lives for one matching request and scorers only read it.
type Profile struct {
	ProgramType           ProgramType         `json:"program_type"`
	FullName              string              `json:"full_name"`
	Email                 string              `json:"email"`
	DateOfBirth           string              `json:"date_of_birth"`
	Nationality           string              `json:"nationality"`
	CurrentEducationLevel string              `json:"current_education_level"`
	TargetDegreeLevel     string              `json:"target_degree_level"`
	FieldOfStudy          string              `json:"field_of_study"`
	GPA                   string              `json:"gpa"`
	AcademicHistory       AcademicHistory     `json:"academic_history"`
	CareerGoals           CareerGoals         `json:"career_goals"`
	VisaHistory           VisaHistory         `json:"visa_history"`
	TestScores            TestScores          `json:"test_scores"`
	Languages             []Language          `json:"languages"`
	WorkExperience        []WorkExperience    `json:"work_experience"`
	SportsDetailed        []SportActivity     `json:"sports_detailed"`
	ScholarshipInterest   ScholarshipInterest `json:"scholarship_interest"`
	Extracurricular       Extracurricular     `json:"extracurricular"`
	Achievements          []Achievement       `json:"achievements"`
	AnnualBudget          string              `json:"annual_budget"`
	PreferredCountries    []string            `json:"preferred_countries"`
	PreferredFields       []string            `json:"preferred_fields"`
}

// AcademicHistory holds per-level academic records.
type AcademicHistory struct {
	HighSchool HighSchoolRecord `json:"high_school"`
	Bachelor   BachelorRecord   `json:"bachelor"`
	Master     *MasterRecord    `json:"master,omitempty"`
}

// SubjectGrades holds one school year's grades in the four core subjects.
type SubjectGrades struct {
	Math    string `json:"math,omitempty"`
	Science string `json:"science,omitempty"`
	English string `json:"english,omitempty"`
	Social  string `json:"social,omitempty"`
}

// HighSchoolRecord is the secondary-school part of the academic history.
// YearlyGrades is keyed by grade number, "9" through "12".
type HighSchoolRecord struct {
	Name                 string                   `json:"name,omitempty"`
	GradeLevel           string                   `json:"grade_level,omitempty"`
	DiplomaGrade         string                   `json:"diploma_grade,omitempty"`
	YearlyGrades         map[string]SubjectGrades `json:"yearly_grades,omitempty"`
	RepeatedGrade        bool                     `json:"repeated_grade"`
	RepeatedGradeDetails string                   `json:"repeated_grade_details,omitempty"`
}

type BachelorRecord struct {
	UniversityName       string `json:"university_name,omitempty"`
	Major                string `json:"major,omitempty"`
	GPA                  string `json:"gpa,omitempty"`
	GraduationYear       string `json:"graduation_year,omitempty"`
	RepeatedGrade        bool   `json:"repeated_grade"`
	RepeatedGradeDetails string `json:"repeated_grade_details,omitempty"`
	DoubleMajor          bool   `json:"double_major"`
	DoubleMajorField     string `json:"double_major_field,omitempty"`
	Minor                bool   `json:"minor"`
	MinorField           string `json:"minor_field,omitempty"`
}

type MasterRecord struct {
	UniversityName string `json:"university_name,omitempty"`
	Major          string `json:"major,omitempty"`
	GPA            string `json:"gpa,omitempty"`
	GraduationYear string `json:"graduation_year,omitempty"`
	ThesisTopic    string `json:"thesis_topic,omitempty"`
}

// CareerGoals describes what the applicant wants after graduation.
type CareerGoals struct {
	PrimaryGoal       string   `json:"primary_goal"`
	ResearchInterests []string `json:"research_interests"`
	DreamCareer       string   `json:"dream_career"`
}

// VisaHistory holds past rejections and family legal-history flags.
type VisaHistory struct {
	HasRejections      bool               `json:"has_rejections"`
	Rejections         []Rejection        `json:"rejections"`
	FamilyLegalHistory FamilyLegalHistory `json:"family_legal_history"`
}

// RejectionReason is the reason code recorded for a visa refusal.
type RejectionReason string

const (
	ReasonInsufficientFunds       RejectionReason = "insufficient_funds"
	ReasonIncompleteDocumentation RejectionReason = "incomplete_documentation"
	ReasonWeakTies                RejectionReason = "weak_ties"
	ReasonIntentNotClear          RejectionReason = "intent_not_clear"
	ReasonPreviousViolation       RejectionReason = "previous_violation"
	ReasonSecurityConcerns        RejectionReason = "security_concerns"
	ReasonFalseInformation        RejectionReason = "false_information"
	ReasonOther                   RejectionReason = "other"
)

// Rejection is one refused visa application.
type Rejection struct {
	Country           string          `json:"country"`
	VisaType          string          `json:"visa_type"`
	RejectionDate     string          `json:"rejection_date"`
	RejectionReason   RejectionReason `json:"rejection_reason"`
	AdditionalDetails string          `json:"additional_details,omitempty"`
}

// FamilyLegalHistory flags are independent; any combination may be set.
type FamilyLegalHistory struct {
	CriminalRecord              bool   `json:"criminal_record"`
	CriminalRecordDetails       string `json:"criminal_record_details,omitempty"`
	ImmigrationViolation        bool   `json:"immigration_violation"`
	ImmigrationViolationDetails string `json:"immigration_violation_details,omitempty"`
	DeportationHistory          bool   `json:"deportation_history"`
	DeportationDetails          string `json:"deportation_details,omitempty"`
	AsylumApplication           bool   `json:"asylum_application"`
	AsylumDetails               string `json:"asylum_details,omitempty"`
	OverstayHistory             bool   `json:"overstay_history"`
	OverstayDetails             string `json:"overstay_details,omitempty"`
}

// TestScores are kept as entered; use ParseNumber to read them.
type TestScores struct {
	SAT   string `json:"sat,omitempty"`
	TOEFL string `json:"toefl,omitempty"`
	IELTS string `json:"ielts,omitempty"`
	GRE   string `json:"gre,omitempty"`
}

type Language struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency"`
}

type WorkExperience struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Duration string `json:"duration"`
}

// SportActivity is a sport entry from the applicant's resume.
type SportActivity struct {
	Sport          string `json:"sport"`
	Position       string `json:"position,omitempty"`
	YearsPlaying   string `json:"years_playing"`
	Level          string `json:"level"`
	Achievements   string `json:"achievements"`
	TeamName       string `json:"team_name,omitempty"`
	HighlightVideo string `json:"highlight_video,omitempty"`
}

// ScholarshipSport is a sport entry declared for an athletic scholarship.
type ScholarshipSport struct {
	SportActivity
	Gender             string `json:"gender"`
	IsLicensedInTurkey bool   `json:"is_licensed_in_turkey"`
}

type ArtsInterest struct {
	Field           string `json:"field"`
	PortfolioURL    string `json:"portfolio_url,omitempty"`
	YearsExperience string `json:"years_experience"`
	Achievements    string `json:"achievements"`
	PreferredMajor  string `json:"preferred_major,omitempty"`
}

// ScholarshipInterest records which talent-based aid the applicant is after.
// Type is one of "none", "sports", "arts" or empty.
type ScholarshipInterest struct {
	Type   string             `json:"type"`
	Sports []ScholarshipSport `json:"sports,omitempty"`
	Arts   []ArtsInterest     `json:"arts,omitempty"`
}

type Extracurricular struct {
	Arts      []string `json:"arts"`
	Volunteer []string `json:"volunteer"`
}

type Achievement struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// GPAValue returns the applicant's GPA. Postgraduate applicants who left the
// top-level field blank fall back to their bachelor GPA.
func (p Profile) GPAValue() float64 {
	if strings.TrimSpace(p.GPA) == "" && IsPostgraduate(p.DegreeLevel()) {
		return ParseNumber(p.AcademicHistory.Bachelor.GPA)
	}
	return ParseNumber(p.GPA)
}

// BudgetValue returns the annual budget in USD.
func (p Profile) BudgetValue() float64 {
	return ParseNumber(p.AnnualBudget)
}

// DegreeLevel is the target degree, defaulting to the program type for
// university programs.
func (p Profile) DegreeLevel() string {
	if p.TargetDegreeLevel != "" {
		return p.TargetDegreeLevel
	}
	if p.ProgramType.IsUniversity() {
		return string(p.ProgramType)
	}
	return ""
}

// HasWorkExperience reports whether any work entry carries a title.
func (p Profile) HasWorkExperience() bool {
	for _, w := range p.WorkExperience {
		if strings.TrimSpace(w.Title) != "" {
			return true
		}
	}
	return false
}

// TitledAchievements counts achievements that have a title.
func (p Profile) TitledAchievements() int {
	n := 0
	for _, a := range p.Achievements {
		if strings.TrimSpace(a.Title) != "" {
			n++
		}
	}
	return n
}

// TopSport returns the first sport entry with a sport name, looking at the
// resume entries before the sports declared for scholarships.
func (p Profile) TopSport() (SportActivity, bool) {
	for _, s := range p.SportsDetailed {
		if strings.TrimSpace(s.Sport) != "" {
			return s, true
		}
	}
	for _, s := range p.ScholarshipInterest.Sports {
		if strings.TrimSpace(s.Sport) != "" {
			return s.SportActivity, true
		}
	}
	return SportActivity{}, false
}

// HasArts reports whether the applicant listed any arts activity or interest.
func (p Profile) HasArts() bool {
	for _, a := range p.Extracurricular.Arts {
		if strings.TrimSpace(a) != "" {
			return true
		}
	}
	for _, a := range p.ScholarshipInterest.Arts {
		if strings.TrimSpace(a.Field) != "" {
			return true
		}
	}
	return false
}

// ArtsActivities lists the non-empty arts lines and declared arts fields.
func (p Profile) ArtsActivities() []string {
	var out []string
	for _, a := range p.Extracurricular.Arts {
		if s := strings.TrimSpace(a); s != "" {
			out = append(out, s)
		}
	}
	for _, a := range p.ScholarshipInterest.Arts {
		if s := strings.TrimSpace(a.Field); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// HasLanguageTest reports whether a TOEFL or IELTS score was entered.
func (p Profile) HasLanguageTest() bool {
	return strings.TrimSpace(p.TestScores.TOEFL) != "" || strings.TrimSpace(p.TestScores.IELTS) != ""
}

// RejectedIn reports whether any recorded rejection was issued by country.
func (p Profile) RejectedIn(country string) bool {
	for _, r := range p.VisaHistory.Rejections {
		if strings.EqualFold(r.Country, country) {
			return true
		}
	}
	return false
}

// PrefersCountry reports whether country is among the preferred countries.
func (p Profile) PrefersCountry(country string) bool {
	for _, c := range p.PreferredCountries {
		if strings.EqualFold(strings.TrimSpace(c), country) {
			return true
		}
	}
	return false
}

// SharesLanguage reports whether any of the applicant's languages overlaps one
// of the given languages (case-insensitive substring either way).
func (p Profile) SharesLanguage(languages []string) bool {
	for _, l := range p.Languages {
		ul := strings.ToLower(strings.TrimSpace(l.Language))
		if ul == "" {
			continue
		}
		for _, s := range languages {
			sl := strings.ToLower(strings.TrimSpace(s))
			if sl == "" {
				continue
			}
			if strings.Contains(sl, ul) || strings.Contains(ul, sl) {
				return true
			}
		}
	}
	return false
}

package model

import "time"

// ScholarshipType classifies institutional aid.
type ScholarshipType string

const (
	ScholarshipAcademic        ScholarshipType = "academic"
	ScholarshipAthletic        ScholarshipType = "athletic"
	ScholarshipArtistic        ScholarshipType = "artistic"
	ScholarshipNeedBased       ScholarshipType = "need-based"
	ScholarshipCountrySpecific ScholarshipType = "country-specific"
)

// Scholarship is an award offered by a university.
type Scholarship struct {
	Name        string          `json:"name"`
	Type        ScholarshipType `json:"type"`
	AmountMax   float64         `json:"amount_max"`
	WhyEligible string          `json:"why_eligible,omitempty"`
}

// University is a higher-education catalog record.
type University struct {
	ID                       string        `json:"id"`
	Name                     string        `json:"name"`
	Country                  string        `json:"country"`
	City                     string        `json:"city"`
	RankingGlobal            int           `json:"ranking_global,omitempty"`
	Website                  string        `json:"website,omitempty"`
	TuitionMin               float64       `json:"tuition_min"`
	TuitionMax               float64       `json:"tuition_max"`
	LivingCostAnnual         float64       `json:"living_cost_annual"`
	VisaDifficultyScore      float64       `json:"visa_difficulty_score"`
	VisaSuccessRate          float64       `json:"visa_success_rate"`
	PostStudyWorkVisa        bool          `json:"post_study_work_visa"`
	WorkVisaDurationMonths   int           `json:"work_visa_duration_months"`
	CitizenshipPathway       bool          `json:"citizenship_pathway"`
	CitizenshipYears         int           `json:"citizenship_years"`
	ResidencePermitEaseScore float64       `json:"residence_permit_ease_score"`
	AcceptanceRate           float64       `json:"acceptance_rate"`
	Scholarships             []Scholarship `json:"scholarships,omitempty"`
}

// AnnualCost is tuition_max plus living cost, unadjusted for degree type.
func (u University) AnnualCost() float64 {
	return u.TuitionMax + u.LivingCostAnnual
}

// Professor is a faculty member listed for a university.
type Professor struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	UniversityID      string   `json:"university_id"`
	UniversityName    string   `json:"university_name"`
	Title             string   `json:"title"`
	ResearchAreas     []string `json:"research_areas"`
	HIndex            int      `json:"h_index"`
	NotableWork       string   `json:"notable_work"`
	AcceptingStudents bool     `json:"accepting_students"`
	Website           string   `json:"website,omitempty"`
}

// HighSchool is a secondary school accepting international students.
type HighSchool struct {
	ID                             string   `json:"id"`
	Name                           string   `json:"name"`
	Country                        string   `json:"country"`
	City                           string   `json:"city"`
	Type                           string   `json:"type"`
	Curriculum                     []string `json:"curriculum"`
	Languages                      []string `json:"languages"`
	TuitionAnnualUSD               float64  `json:"tuition_annual_usd"`
	BoardingAvailable              bool     `json:"boarding_available"`
	BoardingCostAnnualUSD          float64  `json:"boarding_cost_annual_usd"`
	StudentCapacity                int      `json:"student_capacity"`
	InternationalStudentPercentage float64  `json:"international_student_percentage"`
	AgeRangeMin                    int      `json:"age_range_min"`
	AgeRangeMax                    int      `json:"age_range_max"`
	ApplicationDeadline            string   `json:"application_deadline"`
	Website                        string   `json:"website"`
	Email                          string   `json:"email"`
	RankingNational                int      `json:"ranking_national,omitempty"`
	Accreditations                 []string `json:"accreditations"`
	SpecialPrograms                []string `json:"special_programs"`
	ScholarshipAvailable           bool     `json:"scholarship_available"`
	AcceptsForeignStudents         bool     `json:"accepts_foreign_students"`
}

// AnnualCost is tuition plus boarding.
func (h HighSchool) AnnualCost() float64 {
	return h.TuitionAnnualUSD + h.BoardingCostAnnualUSD
}

// OffersCurriculum reports whether the school teaches the named curriculum.
func (h HighSchool) OffersCurriculum(name string) bool {
	for _, c := range h.Curriculum {
		if c == name {
			return true
		}
	}
	return false
}

type AcademicRequirements struct {
	MinGPA float64 `json:"min_gpa,omitempty"`
}

type EnglishRequirements struct {
	TOEFLMin float64 `json:"toefl_min,omitempty"`
	IELTSMin float64 `json:"ielts_min,omitempty"`
}

type LanguageRequirements struct {
	English *EnglishRequirements `json:"english,omitempty"`
}

// HighSchoolAdmissions holds the admission rules of one school.
type HighSchoolAdmissions struct {
	SchoolID             string               `json:"school_id"`
	AcademicRequirements AcademicRequirements `json:"academic_requirements"`
	LanguageRequirements LanguageRequirements `json:"language_requirements"`
	RequiredDocuments    []string             `json:"required_documents"`
	InterviewRequired    bool                 `json:"interview_required"`
	EntranceExamRequired bool                 `json:"entrance_exam_required"`
	AcceptanceRate       float64              `json:"acceptance_rate"`
}

// HighSchoolScholarship is an award offered by a high school.
type HighSchoolScholarship struct {
	SchoolID           string   `json:"school_id"`
	Name               string   `json:"name"`
	Type               string   `json:"type"`
	AmountUSD          *float64 `json:"amount_usd"`
	CoveragePercentage float64  `json:"coverage_percentage"`
	Requirements       []string `json:"requirements"`
	Deadline           string   `json:"deadline"`
	Renewable          bool     `json:"renewable"`
}

// LanguageSchool is a language course provider priced by the week.
type LanguageSchool struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Country             string   `json:"country"`
	City                string   `json:"city"`
	Languages           []string `json:"languages"`
	WeeklyCost          float64  `json:"weekly_cost"`
	AccommodationWeekly float64  `json:"accommodation_weekly"`
	ClassSizeMax        int      `json:"class_size_max"`
	Rating              float64  `json:"rating"`
	MinWeeks            int      `json:"min_weeks"`
	HoursPerWeek        int      `json:"hours_per_week"`
	VisaDifficultyScore float64  `json:"visa_difficulty_score"`
	Accreditations      []string `json:"accreditations"`
	Facilities          []string `json:"facilities"`
	Website             string   `json:"website"`
}

// DirectoryUniversity is an entry of the browsable university directory.
type DirectoryUniversity struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city,omitempty"`
	State     string    `json:"state,omitempty"`
	Country   string    `json:"country,omitempty"`
	Website   string    `json:"website,omitempty"`
	Ownership string    `json:"ownership,omitempty"`
	Level     string    `json:"level,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DirectoryFilter narrows a directory listing. Empty fields match everything.
type DirectoryFilter struct {
	Search    string
	State     string
	Ownership string
}

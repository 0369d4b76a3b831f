package match

import (
	"strings"
	"testing"
	"time"

	"github.com/pavelanni/schoolmatch/internal/catalog"
	"github.com/pavelanni/schoolmatch/internal/model"
	"github.com/pavelanni/schoolmatch/internal/visa"
)

var testNow = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func monthsAgo(n int) string {
	return testNow.AddDate(0, 0, -30*n).Format("2006-01-02")
}

func newProfile(gpa, budget string, opts ...func(*model.Profile)) model.Profile {
	p := model.Profile{
		ProgramType:  model.ProgramBachelor,
		GPA:          gpa,
		AnnualBudget: budget,
	}
	for _, o := range opts {
		o(&p)
	}
	return p
}

func master(p *model.Profile) {
	p.ProgramType = model.ProgramMaster
	p.TargetDegreeLevel = "master"
}

func interests(list ...string) func(*model.Profile) {
	return func(p *model.Profile) { p.CareerGoals.ResearchInterests = list }
}

func university(id, name, country string) model.University {
	return model.University{
		ID:                     id,
		Name:                   name,
		Country:                country,
		City:                   "Somewhere",
		TuitionMin:             20000,
		TuitionMax:             30000,
		LivingCostAnnual:       15000,
		VisaDifficultyScore:    30,
		VisaSuccessRate:        80,
		PostStudyWorkVisa:      true,
		WorkVisaDurationMonths: 12,
		AcceptanceRate:         20,
		Scholarships: []model.Scholarship{
			{Name: "Merit Award", Type: model.ScholarshipAcademic, AmountMax: 10000},
		},
	}
}

func TestGPABand(t *testing.T) {
	tests := []struct {
		gpa  float64
		want int
	}{
		{0, 20},
		{2.49, 20},
		{2.5, 40},
		{2.99, 40},
		{3.0, 60},
		{3.29, 60},
		{3.3, 75},
		{3.69, 75},
		{3.7, 90},
		{4.0, 90},
	}
	for _, tt := range tests {
		if got := GPABand(tt.gpa); got != tt.want {
			t.Errorf("GPABand(%v) = %d, want %d", tt.gpa, got, tt.want)
		}
	}
}

func TestAcademicScore(t *testing.T) {
	base := university("u", "U", "Canada")

	tests := []struct {
		name    string
		profile model.Profile
		rate    float64
		want    int
	}{
		{"band only", newProfile("3.0", ""), 20, 60},
		{"undergrad SAT", newProfile("3.0", "", func(p *model.Profile) { p.TestScores.SAT = "1400" }), 20, 70},
		{"GRE ignored for undergrad", newProfile("3.0", "", func(p *model.Profile) { p.TestScores.GRE = "330" }), 20, 60},
		{"postgrad GRE and work", newProfile("3.0", "", master, func(p *model.Profile) {
			p.TestScores.GRE = "320"
			p.WorkExperience = []model.WorkExperience{{Title: "Engineer"}}
		}), 20, 75},
		{"untitled work ignored", newProfile("3.0", "", master, func(p *model.Profile) {
			p.WorkExperience = []model.WorkExperience{{Company: "Acme"}}
		}), 20, 60},
		{"language tests", newProfile("3.0", "", func(p *model.Profile) {
			p.TestScores.TOEFL = "100"
			p.TestScores.IELTS = "7.0"
		}), 20, 70},
		{"open admission", newProfile("3.0", ""), 41, 70},
		{"selective", newProfile("3.0", ""), 9, 50},
		{"clamped high", newProfile("4.0", "", func(p *model.Profile) {
			p.TestScores.SAT = "1600"
			p.TestScores.TOEFL = "120"
		}), 50, 100},
		{"unparseable gpa", newProfile("n/a", ""), 5, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := base
			u.AcceptanceRate = tt.rate
			if got := academicScore(tt.profile, u); got != tt.want {
				t.Errorf("academicScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFinancialBand(t *testing.T) {
	tests := []struct {
		budget float64
		want   int
	}{
		{120, 100},
		{119, 85},
		{100, 85},
		{80, 70},
		{60, 50},
		{40, 30},
		{39, 10},
		{0, 10},
	}
	for _, tt := range tests {
		if got := FinancialBand(tt.budget, 100); got != tt.want {
			t.Errorf("FinancialBand(%v, 100) = %d, want %d", tt.budget, got, tt.want)
		}
	}
}

func TestVisaScoreNeverNegative(t *testing.T) {
	if got := visaScore(95, -60); got != 0 {
		t.Errorf("visaScore(95, -60) = %d, want 0", got)
	}
	if got := visaScore(30, -15); got != 55 {
		t.Errorf("visaScore(30, -15) = %d, want 55", got)
	}

	// A critical family-only assessment penalizes without hiding the country.
	p := newProfile("3.5", "50000", func(p *model.Profile) {
		p.VisaHistory.FamilyLegalHistory.DeportationHistory = true
	})
	as := visa.Analyze(nil, p.VisaHistory.FamilyLegalHistory, testNow)
	u := university("hard", "Hard Visa U", "USA")
	u.VisaDifficultyScore = 95

	got := ScoreUniversities(p, []model.University{u}, nil, as)
	if len(got) != 1 {
		t.Fatalf("matches = %d, want 1", len(got))
	}
	if got[0].Match.VisaMatchScore != 0 {
		t.Errorf("visa score = %d, want 0", got[0].Match.VisaMatchScore)
	}
	if a := got[0].Match.VisaRiskAssessment; a == nil || a.RiskLevel != model.RiskCritical {
		t.Errorf("visa risk assessment = %+v, want critical ALL record", a)
	}
}

func TestScholarshipScore(t *testing.T) {
	titled := []model.Achievement{{Title: "Olympiad"}, {Title: "Science fair"}}

	tests := []struct {
		name    string
		profile model.Profile
		want    int
	}{
		{"low gpa only", newProfile("2.0", ""), 10},
		{"mid gpa", newProfile("3.3", ""), 25},
		{"national sport with achievements", newProfile("3.7", "", func(p *model.Profile) {
			p.SportsDetailed = []model.SportActivity{{Sport: "Swimming", Level: "national", Achievements: "National champion"}}
		}), 85},
		{"short achievements text", newProfile("2.0", "", func(p *model.Profile) {
			p.SportsDetailed = []model.SportActivity{{Sport: "Chess", Level: "club", Achievements: "1st place"}}
		}), 25},
		{"unknown level", newProfile("2.0", "", func(p *model.Profile) {
			p.SportsDetailed = []model.SportActivity{{Sport: "Darts", Level: "recreational"}}
		}), 20},
		{"scholarship sport fallback", newProfile("2.0", "", func(p *model.Profile) {
			p.ScholarshipInterest.Sports = []model.ScholarshipSport{{SportActivity: model.SportActivity{Sport: "Tennis", Level: "varsity"}}}
		}), 35},
		{"arts and achievements", newProfile("2.0", "", func(p *model.Profile) {
			p.Extracurricular.Arts = []string{"Piano"}
			p.Achievements = titled
		}), 50},
		{"single achievement", newProfile("2.0", "", func(p *model.Profile) {
			p.Achievements = titled[:1]
		}), 10},
		{"capped", newProfile("4.0", "", func(p *model.Profile) {
			p.SportsDetailed = []model.SportActivity{{Sport: "Judo", Level: "international", Achievements: "European medalist"}}
			p.Extracurricular.Arts = []string{"Theater"}
			p.Achievements = titled
		}), 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scholarshipScore(tt.profile); got != tt.want {
				t.Errorf("scholarshipScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPostGraduationScore(t *testing.T) {
	tests := []struct {
		name string
		u    model.University
		want int
	}{
		{"nothing", model.University{CitizenshipYears: 10}, 0},
		{"zero years", model.University{}, 20},
		{"work visa only", model.University{PostStudyWorkVisa: true, WorkVisaDurationMonths: 24}, 70},
		{"short citizenship", model.University{CitizenshipPathway: true, CitizenshipYears: 3}, 40},
		{"long citizenship", model.University{CitizenshipPathway: true, CitizenshipYears: 10}, 20},
		{"years without pathway", model.University{CitizenshipYears: 5}, 15},
		{"full", model.University{PostStudyWorkVisa: true, WorkVisaDurationMonths: 36, CitizenshipPathway: true, CitizenshipYears: 5}, 95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := postGraduationScore(tt.u); got != tt.want {
				t.Errorf("postGraduationScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOverallClampedWithProfessorBonus(t *testing.T) {
	u := model.University{
		ID:                     "top",
		Name:                   "Top University",
		Country:                "Canada",
		TuitionMax:             20000,
		LivingCostAnnual:       10000,
		PostStudyWorkVisa:      true,
		WorkVisaDurationMonths: 36,
		CitizenshipPathway:     true,
		CitizenshipYears:       3,
		AcceptanceRate:         50,
	}
	profs := catalog.New(nil, []model.Professor{
		{ID: "p1", Name: "Ada", UniversityID: "top", ResearchAreas: []string{"Machine Learning"}},
	})
	p := newProfile("3.9", "1000000", master, interests("machine learning"), func(p *model.Profile) {
		p.TestScores.GRE = "330"
		p.SportsDetailed = []model.SportActivity{{Sport: "Rowing", Level: "national", Achievements: "National champion"}}
		p.Extracurricular.Arts = []string{"Painting"}
		p.Achievements = []model.Achievement{{Title: "A"}, {Title: "B"}}
	})

	got := ScoreUniversities(p, []model.University{u}, profs, visa.Assessments{})
	if len(got) != 1 {
		t.Fatalf("matches = %d, want 1", len(got))
	}
	m := got[0].Match
	for name, v := range map[string]int{
		"academic":    m.AcademicMatchScore,
		"financial":   m.FinancialMatchScore,
		"visa":        m.VisaMatchScore,
		"scholarship": m.ScholarshipPotentialScore,
		"post-grad":   m.PostGraduationScore,
	} {
		if v != 100 {
			t.Errorf("%s = %d, want 100", name, v)
		}
	}
	if m.OverallMatchScore != 100 {
		t.Errorf("overall = %d, want 100", m.OverallMatchScore)
	}
	if len(m.NotableProfessors) != 1 {
		t.Errorf("notable professors = %d, want 1", len(m.NotableProfessors))
	}
}

func TestAvoidCountryExcluded(t *testing.T) {
	p := newProfile("3.8", "60000", func(p *model.Profile) {
		p.VisaHistory = model.VisaHistory{
			HasRejections: true,
			Rejections: []model.Rejection{{
				Country:         "USA",
				VisaType:        "student",
				RejectionDate:   monthsAgo(1),
				RejectionReason: model.ReasonSecurityConcerns,
			}},
		}
	})
	as := visa.Analyze(p.VisaHistory.Rejections, p.VisaHistory.FamilyLegalHistory, testNow)
	unis := []model.University{
		university("1", "MIT", "USA"),
		university("2", "Toronto", "Canada"),
		university("3", "Yale", "usa"),
	}

	got := ScoreUniversities(p, unis, nil, as)
	if len(got) != 1 || got[0].University.Country != "Canada" {
		t.Fatalf("matches = %+v, want only the Canadian university", got)
	}
	if got[0].Match.VisaRiskAssessment != nil {
		t.Error("Canada should carry no visa risk assessment")
	}
}

func TestScholarshipsAttachedAboveFifty(t *testing.T) {
	u := university("1", "U", "Canada")

	atFifty := newProfile("3.3", "", func(p *model.Profile) {
		p.Achievements = []model.Achievement{{Title: "A"}, {Title: "B"}}
	})
	above := newProfile("3.7", "", func(p *model.Profile) {
		p.Extracurricular.Arts = []string{"Choir"}
	})

	got := ScoreUniversities(atFifty, []model.University{u}, nil, visa.Assessments{})
	if s := got[0].Match.ScholarshipPotentialScore; s != 50 {
		t.Fatalf("scholarship score = %d, want 50", s)
	}
	if n := len(got[0].Scholarships); n != 0 {
		t.Errorf("scholarships at exactly 50 = %d, want 0", n)
	}
	if got[0].Scholarships == nil {
		t.Error("scholarships should be an empty list, not nil")
	}

	got = ScoreUniversities(above, []model.University{u}, nil, visa.Assessments{})
	if s := got[0].Match.ScholarshipPotentialScore; s != 55 {
		t.Fatalf("scholarship score = %d, want 55", s)
	}
	if len(got[0].Scholarships) != 1 {
		t.Fatalf("scholarships = %d, want 1", len(got[0].Scholarships))
	}
	if got[0].Scholarships[0].WhyEligible == "" {
		t.Error("eligibility narrative missing")
	}
	if u.Scholarships[0].WhyEligible != "" {
		t.Error("catalog scholarship was modified")
	}
}

func TestResearchInterestRanking(t *testing.T) {
	unis := []model.University{
		university("3", "No Match College", "Canada"),
		university("1", "MIT", "USA"),
		university("2", "Stanford University", "USA"),
	}
	profs := catalog.New(unis, []model.Professor{
		{ID: "p1", Name: "A", UniversityID: "1", ResearchAreas: []string{"Machine Learning"}},
		{ID: "p2", Name: "B", UniversityID: "2", ResearchAreas: []string{"machine learning theory"}},
		{ID: "p3", Name: "C", UniversityID: "3", ResearchAreas: []string{"Medieval History"}},
	})
	p := newProfile("3.8", "60000", master, interests("Machine Learning"))

	got := ScoreUniversities(p, unis, profs, visa.Assessments{})
	if len(got) != 3 {
		t.Fatalf("matches = %d, want 3", len(got))
	}
	if got[2].University.ID != "3" {
		t.Errorf("last = %s, want the university without a matching professor", got[2].University.Name)
	}
	for _, m := range got[:2] {
		if len(m.Match.NotableProfessors) != 1 {
			t.Errorf("%s notable professors = %d, want 1", m.University.Name, len(m.Match.NotableProfessors))
		}
		if m.Match.OverallMatchScore <= got[2].Match.OverallMatchScore {
			t.Errorf("%s overall %d not above %d", m.University.Name, m.Match.OverallMatchScore, got[2].Match.OverallMatchScore)
		}
	}
	for _, m := range got {
		if m.Match.ScholarshipPotentialScore > 50 && len(m.Scholarships) == 0 {
			t.Errorf("%s: scholarships missing above 50", m.University.Name)
		}
		if m.Match.ScholarshipPotentialScore <= 50 && len(m.Scholarships) != 0 {
			t.Errorf("%s: scholarships attached at or below 50", m.University.Name)
		}
	}
}

func TestOrderedByAcademicScore(t *testing.T) {
	selective := university("sel", "Selective", "Canada")
	selective.AcceptanceRate = 5
	selective.TuitionMax = 0 // cheapest, highest overall
	open := university("open", "Open", "Canada")
	open.AcceptanceRate = 60
	open.TuitionMax = 90000

	got := ScoreUniversities(newProfile("3.5", "40000"), []model.University{selective, open}, nil, visa.Assessments{})
	if got[0].University.ID != "open" {
		t.Errorf("first = %s, want the higher academic score first", got[0].University.ID)
	}
	if got[0].Match.OverallMatchScore >= got[1].Match.OverallMatchScore {
		t.Errorf("fixture should rank a lower overall score first: %d vs %d",
			got[0].Match.OverallMatchScore, got[1].Match.OverallMatchScore)
	}
}

func TestEstimatesAndDegreeInfo(t *testing.T) {
	u := university("1", "U", "Canada")
	p := newProfile("3.9", "1000", master, func(p *model.Profile) {
		p.SportsDetailed = []model.SportActivity{{Sport: "Golf", Level: "national", Achievements: "Amateur champion"}}
	})

	m := ScoreUniversities(p, []model.University{u}, nil, visa.Assessments{})[0].Match
	if m.EstimatedTotalCost != 45000 {
		t.Errorf("total cost = %v, want 45000", m.EstimatedTotalCost)
	}
	// gpa 3.9 and scholarship score 85 → 80 %.
	if m.EstimatedScholarshipAmount != 36000 {
		t.Errorf("scholarship amount = %v, want 36000", m.EstimatedScholarshipAmount)
	}
	want := model.DegreeInfo{DegreeType: "master", DurationYears: 2, EstimatedTuitionMin: 22000, EstimatedTuitionMax: 33000}
	if m.DegreeInfo != want {
		t.Errorf("degree info = %+v, want %+v", m.DegreeInfo, want)
	}
	if !strings.Contains(m.MatchReasoning, "Master's program (2 years)") {
		t.Errorf("match reasoning = %q", m.MatchReasoning)
	}
}

func TestScholarshipAmount(t *testing.T) {
	tests := []struct {
		gpa   float64
		score int
		want  float64
	}{
		{3.8, 80, 800},
		{3.79, 80, 500},
		{3.5, 70, 500},
		{3.3, 60, 300},
		{2.0, 50, 150},
		{4.0, 49, 0},
	}
	for _, tt := range tests {
		if got := scholarshipAmount(tt.gpa, tt.score, 1000); got != tt.want {
			t.Errorf("scholarshipAmount(%v, %d) = %v, want %v", tt.gpa, tt.score, got, tt.want)
		}
	}
}

func TestDoctorateDegreeInfo(t *testing.T) {
	u := university("1", "U", "Canada")
	info := degreeInfo(u, "doctorate")
	if info.DurationYears != 5 || info.EstimatedTuitionMax != 15000 {
		t.Errorf("doctorate info = %+v", info)
	}
	if info := degreeInfo(u, ""); info.DurationYears != 4 || info.EstimatedTuitionMax != 30000 {
		t.Errorf("default info = %+v", info)
	}
}

func TestScoreUniversitiesDoesNotMutateProfile(t *testing.T) {
	p := newProfile("3.9", "50000", interests("Robotics"), func(p *model.Profile) {
		p.Extracurricular.Arts = []string{"Piano"}
		p.Achievements = []model.Achievement{{Title: "A"}, {Title: "B"}}
	})
	before := p.CareerGoals.ResearchInterests[0] + p.Extracurricular.Arts[0] + p.Achievements[1].Title

	ScoreUniversities(p, []model.University{university("1", "U", "Canada")}, nil, visa.Assessments{})

	after := p.CareerGoals.ResearchInterests[0] + p.Extracurricular.Arts[0] + p.Achievements[1].Title
	if before != after {
		t.Errorf("profile changed: %q → %q", before, after)
	}
}

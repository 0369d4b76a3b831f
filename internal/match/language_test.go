package match

import (
	"slices"
	"testing"

	"github.com/pavelanni/schoolmatch/internal/model"
	"github.com/pavelanni/schoolmatch/internal/visa"
)

func languageSchool(id, country string, weekly, accommodation float64) model.LanguageSchool {
	return model.LanguageSchool{
		ID:                  id,
		Name:                "Lang " + id,
		Country:             country,
		Languages:           []string{"English"},
		WeeklyCost:          weekly,
		AccommodationWeekly: accommodation,
		ClassSizeMax:        10,
		Rating:              4.0,
		MinWeeks:            2,
		HoursPerWeek:        20,
	}
}

func TestLanguageSchoolCostProjection(t *testing.T) {
	s := languageSchool("a", "Malta", 300, 200)
	got := ScoreLanguageSchools(newProfile("", "30000"), []model.LanguageSchool{s}, 24, visa.Assessments{})
	if len(got) != 1 {
		t.Fatalf("matches = %d, want 1", len(got))
	}
	m := got[0]
	if m.Weeks != 24 || m.TuitionCost != 7200 || m.AccommodationCost != 4800 || m.TotalCost != 12000 {
		t.Errorf("projection = %d weeks, %v + %v = %v", m.Weeks, m.TuitionCost, m.AccommodationCost, m.TotalCost)
	}
	// 30000 budget vs 26000 annualised → 85; culture 60; rating 80.
	if m.FinancialScore != 85 || m.CultureScore != 60 || m.RatingScore != 80 {
		t.Errorf("scores = %d/%d/%d", m.FinancialScore, m.CultureScore, m.RatingScore)
	}
	if m.MatchScore != 77 {
		t.Errorf("match score = %d, want 77", m.MatchScore)
	}
}

func TestLanguageSchoolMinimumWeeks(t *testing.T) {
	s := languageSchool("a", "Ireland", 100, 0)
	s.MinWeeks = 30
	m := ScoreLanguageSchools(newProfile("", ""), []model.LanguageSchool{s}, 24, visa.Assessments{})[0]
	if m.Weeks != 30 || m.TotalCost != 3000 {
		t.Errorf("weeks = %d, total = %v, want 30 and 3000", m.Weeks, m.TotalCost)
	}
}

func TestLanguageSchoolProsAndCons(t *testing.T) {
	small := languageSchool("small", "Canada", 100, 100)
	small.ClassSizeMax = 6
	small.Rating = 4.8
	large := languageSchool("large", "UK", 900, 600)
	large.ClassSizeMax = 18
	large.Rating = 3.0
	large.VisaDifficultyScore = 60

	p := newProfile("", "20000", func(p *model.Profile) { p.PreferredCountries = []string{"Canada"} })
	got := ScoreLanguageSchools(p, []model.LanguageSchool{large, small}, 12, visa.Assessments{})
	if got[0].School.ID != "small" {
		t.Fatalf("first = %s, want small", got[0].School.ID)
	}

	wantPros := []string{
		"Small classes of at most 6 students",
		"Highly rated by students (4.8/5)",
		"Fits comfortably within your budget",
		"It is in one of your preferred countries",
	}
	if !slices.Equal(got[0].Pros, wantPros) {
		t.Errorf("pros = %v, want %v", got[0].Pros, wantPros)
	}
	wantCons := []string{
		"Large classes of up to 18 students",
		"Below-average student rating (3.0/5)",
		"Likely to exceed your budget",
		"Student visa for this country can be hard to obtain",
	}
	if !slices.Equal(got[1].Cons, wantCons) {
		t.Errorf("cons = %v, want %v", got[1].Cons, wantCons)
	}
}

func TestLanguageSchoolVisaRisk(t *testing.T) {
	rejections := []model.Rejection{
		{Country: "USA", RejectionDate: monthsAgo(2), RejectionReason: model.ReasonFalseInformation},
		{Country: "Canada", RejectionDate: monthsAgo(20), RejectionReason: model.ReasonInsufficientFunds},
	}
	as := visa.Analyze(rejections, model.FamilyLegalHistory{}, testNow)
	schools := []model.LanguageSchool{
		languageSchool("us", "USA", 100, 100),
		languageSchool("ca", "Canada", 100, 100),
	}

	got := ScoreLanguageSchools(newProfile("", ""), schools, 4, as)
	if len(got) != 1 || got[0].School.ID != "ca" {
		t.Fatalf("matches = %+v, want only the Canadian school", got)
	}
	if got[0].VisaRiskAssessment == nil || got[0].VisaRiskAssessment.RiskLevel != model.RiskMedium {
		t.Errorf("visa risk = %+v", got[0].VisaRiskAssessment)
	}
	if !slices.Contains(got[0].Cons, "Visa risk for Canada is medium") {
		t.Errorf("cons = %v", got[0].Cons)
	}
}

package match

import (
	"fmt"
	"math"
	"sort"

	"github.com/pavelanni/schoolmatch/internal/model"
	"github.com/pavelanni/schoolmatch/internal/visa"
)

const weeksPerYear = 52

// ScoreLanguageSchools projects the cost of a course of the given length at
// each school outside avoided countries, ordered by match score descending.
// Schools with a longer minimum course are priced at their minimum.
func ScoreLanguageSchools(p model.Profile, schools []model.LanguageSchool, weeks int, as visa.Assessments) []model.LanguageSchoolMatch {
	budget := p.BudgetValue()

	out := make([]model.LanguageSchoolMatch, 0, len(schools))
	for _, s := range schools {
		if !as.ShouldShowCountry(s.Country) {
			continue
		}
		w := max(weeks, s.MinWeeks)
		tuition := s.WeeklyCost * float64(w)
		accommodation := s.AccommodationWeekly * float64(w)
		total := tuition + accommodation

		annualised := (s.WeeklyCost + s.AccommodationWeekly) * weeksPerYear
		financial := FinancialBand(budget, annualised)
		culture := cultureScore(p, s.Country, s.Languages)
		rating := clamp(int(math.Round(s.Rating/5*100)), 0, 100)
		score := int(math.Round(0.5*float64(financial) + 0.3*float64(culture) + 0.2*float64(rating)))

		m := model.LanguageSchoolMatch{
			School:            s,
			MatchScore:        score,
			FinancialScore:    financial,
			CultureScore:      culture,
			RatingScore:       rating,
			Weeks:             w,
			TuitionCost:       tuition,
			AccommodationCost: accommodation,
			TotalCost:         total,
		}
		m.Pros, m.Cons = prosAndCons(p, s, financial)
		if a, ok := as.Lookup(s.Country); ok {
			m.VisaRiskAssessment = &a
			m.Cons = append(m.Cons, fmt.Sprintf("Visa risk for %s is %s", s.Country, a.RiskLevel))
		}
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].MatchScore > out[j].MatchScore })
	return out
}

func prosAndCons(p model.Profile, s model.LanguageSchool, financial int) (pros, cons []string) {
	pros, cons = []string{}, []string{}
	switch {
	case s.ClassSizeMax > 0 && s.ClassSizeMax <= 8:
		pros = append(pros, fmt.Sprintf("Small classes of at most %d students", s.ClassSizeMax))
	case s.ClassSizeMax >= 15:
		cons = append(cons, fmt.Sprintf("Large classes of up to %d students", s.ClassSizeMax))
	}
	switch {
	case s.Rating >= 4.5:
		pros = append(pros, fmt.Sprintf("Highly rated by students (%.1f/5)", s.Rating))
	case s.Rating > 0 && s.Rating < 3.5:
		cons = append(cons, fmt.Sprintf("Below-average student rating (%.1f/5)", s.Rating))
	}
	if financial >= 85 {
		pros = append(pros, "Fits comfortably within your budget")
	} else if financial <= 30 {
		cons = append(cons, "Likely to exceed your budget")
	}
	if p.PrefersCountry(s.Country) {
		pros = append(pros, "It is in one of your preferred countries")
	}
	if s.HoursPerWeek >= 25 {
		pros = append(pros, fmt.Sprintf("Intensive schedule of %d hours per week", s.HoursPerWeek))
	}
	if s.VisaDifficultyScore >= 50 {
		cons = append(cons, "Student visa for this country can be hard to obtain")
	}
	return pros, cons
}

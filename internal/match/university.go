package match

import (
	"math"
	"sort"
	"unicode/utf8"

	"github.com/pavelanni/schoolmatch/internal/catalog"
	"github.com/pavelanni/schoolmatch/internal/model"
	"github.com/pavelanni/schoolmatch/internal/visa"
)

var degreeDurations = map[string]int{
	"bachelor":  4,
	"master":    2,
	"doctorate": 5,
}

var tuitionMultipliers = map[string]float64{
	"master":    1.1,
	"doctorate": 0.5,
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

// GPABand is the academic base score for a GPA.
func GPABand(gpa float64) int {
	switch {
	case gpa >= 3.7:
		return 90
	case gpa >= 3.3:
		return 75
	case gpa >= 3.0:
		return 60
	case gpa >= 2.5:
		return 40
	default:
		return 20
	}
}

func degreeInfo(u model.University, degree string) model.DegreeInfo {
	years, ok := degreeDurations[degree]
	if !ok {
		years = 4
	}
	mult, ok := tuitionMultipliers[degree]
	if !ok {
		mult = 1
	}
	return model.DegreeInfo{
		DegreeType:          degree,
		DurationYears:       years,
		EstimatedTuitionMin: math.Round(u.TuitionMin * mult),
		EstimatedTuitionMax: math.Round(u.TuitionMax * mult),
	}
}

func academicScore(p model.Profile, u model.University) int {
	score := GPABand(p.GPAValue())
	ts := p.TestScores

	if model.IsPostgraduate(p.DegreeLevel()) {
		if model.ParseNumber(ts.GRE) >= 320 {
			score += 10
		}
		if p.HasWorkExperience() {
			score += 5
		}
	} else if model.ParseNumber(ts.SAT) >= 1400 {
		score += 10
	}
	if model.ParseNumber(ts.TOEFL) >= 100 {
		score += 5
	}
	if model.ParseNumber(ts.IELTS) >= 7.0 {
		score += 5
	}

	switch {
	case u.AcceptanceRate > 40:
		score += 10
	case u.AcceptanceRate < 10:
		score -= 10
	}
	return clamp(score, 0, 100)
}

// FinancialBand scores a budget against an annual cost.
func FinancialBand(budget, cost float64) int {
	switch {
	case budget >= cost*1.2:
		return 100
	case budget >= cost:
		return 85
	case budget >= cost*0.8:
		return 70
	case budget >= cost*0.6:
		return 50
	case budget >= cost*0.4:
		return 30
	default:
		return 10
	}
}

func visaScore(difficulty float64, penalty int) int {
	return max(0, int(math.Round(100-difficulty))+penalty)
}

func sportBonus(s model.SportActivity) int {
	bonus := 10
	switch s.Level {
	case "national", "international":
		bonus = 35
	case "varsity", "regional":
		bonus = 25
	case "club", "high_school":
		bonus = 15
	}
	if utf8.RuneCountInString(s.Achievements) > 10 {
		bonus += 10
	}
	return bonus
}

func scholarshipScore(p model.Profile) int {
	score := 10
	switch gpa := p.GPAValue(); {
	case gpa >= 3.7:
		score = 40
	case gpa >= 3.3:
		score = 25
	}
	if s, ok := p.TopSport(); ok {
		score += sportBonus(s)
	}
	if p.HasArts() {
		score += 15
	}
	if p.TitledAchievements() >= 2 {
		score += 25
	}
	return min(100, score)
}

// postGraduationScore rewards work permits, a citizenship pathway and a
// short naturalisation period. An unset period counts as the shortest.
func postGraduationScore(u model.University) int {
	score := 0
	if u.PostStudyWorkVisa {
		score += 30
	}
	switch m := u.WorkVisaDurationMonths; {
	case m >= 36:
		score += 30
	case m >= 24:
		score += 20
	case m >= 12:
		score += 10
	}
	if u.CitizenshipPathway {
		score += 20
	}
	switch y := u.CitizenshipYears; {
	case y <= 3:
		score += 20
	case y <= 5:
		score += 15
	case y <= 8:
		score += 10
	}
	return min(100, score)
}

func scholarshipAmount(gpa float64, score int, total float64) float64 {
	switch {
	case gpa >= 3.8 && score >= 80:
		return total * 0.8
	case gpa >= 3.5 && score >= 70:
		return total * 0.5
	case gpa >= 3.3 && score >= 60:
		return total * 0.3
	case score >= 50:
		return total * 0.15
	}
	return 0
}

// matchedProfessors returns the institution's professors whose research
// overlaps the applicant's interests.
func matchedProfessors(profs ProfessorSource, universityID string, interests []string) []model.Professor {
	out := []model.Professor{}
	if profs == nil {
		return out
	}
	for _, prof := range profs.ProfessorsByUniversity(universityID) {
		if catalog.ResearchOverlap(prof.ResearchAreas, interests) {
			out = append(out, prof)
		}
	}
	return out
}

// ScoreUniversities scores every university whose country is not marked
// avoid, ordered by academic score descending. Ties fall back to the overall
// score and then catalog order.
func ScoreUniversities(p model.Profile, unis []model.University, profs ProfessorSource, as visa.Assessments) []model.UniversityMatch {
	degree := p.DegreeLevel()
	gpa := p.GPAValue()
	interests := p.CareerGoals.ResearchInterests
	scholarship := scholarshipScore(p)

	out := make([]model.UniversityMatch, 0, len(unis))
	for _, u := range unis {
		if !as.ShouldShowCountry(u.Country) {
			continue
		}
		info := degreeInfo(u, degree)
		academic := academicScore(p, u)
		financial := FinancialBand(p.BudgetValue(), u.AnnualCost())
		visaS := visaScore(u.VisaDifficultyScore, as.RiskPenalty(u.Country))
		postGrad := postGraduationScore(u)

		notable := matchedProfessors(profs, u.ID, interests)
		bonus := 0
		if len(notable) > 0 {
			bonus = 10
		}
		weighted := 0.25*float64(academic) + 0.25*float64(financial) + 0.20*float64(visaS) +
			0.15*float64(scholarship) + 0.15*float64(postGrad)
		overall := min(100, int(math.Round(weighted+float64(bonus))))

		total := u.AnnualCost()
		scores := model.UniversityScores{
			OverallMatchScore:           overall,
			AcademicMatchScore:          academic,
			FinancialMatchScore:         financial,
			VisaMatchScore:              visaS,
			ScholarshipPotentialScore:   scholarship,
			PostGraduationScore:         postGrad,
			EstimatedTotalCost:          total,
			EstimatedScholarshipAmount:  scholarshipAmount(gpa, scholarship, total),
			VisaDifficultyAssessment:    visaDifficultyText(u),
			PostGraduationOpportunities: postGraduationText(u),
			MatchReasoning:              matchReasoning(p, u, float64(academic), float64(financial), info),
			DegreeInfo:                  info,
			NotableProfessors:           notable,
		}
		if a, ok := as.Lookup(u.Country); ok {
			scores.VisaRiskAssessment = &a
		}

		awards := []model.Scholarship{}
		if scholarship > 50 {
			for _, s := range u.Scholarships {
				s.WhyEligible = scholarshipEligibility(p, s.Type, u)
				awards = append(awards, s)
			}
		}

		out = append(out, model.UniversityMatch{
			University: model.UniversitySummary{
				ID:            u.ID,
				Name:          u.Name,
				Country:       u.Country,
				City:          u.City,
				RankingGlobal: u.RankingGlobal,
				Website:       u.Website,
			},
			Match:        scores,
			Scholarships: awards,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Match, out[j].Match
		if a.AcademicMatchScore != b.AcademicMatchScore {
			return a.AcademicMatchScore > b.AcademicMatchScore
		}
		return a.OverallMatchScore > b.OverallMatchScore
	})
	return out
}

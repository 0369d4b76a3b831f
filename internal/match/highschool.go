package match

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pavelanni/schoolmatch/internal/model"
)

// easyVisaCountries grant student visas for minors with few complications.
var easyVisaCountries = map[string]bool{
	"canada":         true,
	"united kingdom": true,
	"uk":             true,
	"australia":      true,
	"new zealand":    true,
	"switzerland":    true,
}

func hsAcademicScore(p model.Profile, adm *model.HighSchoolAdmissions) int {
	score := 70
	gpa := p.GPAValue()

	if adm != nil && adm.AcademicRequirements.MinGPA > 0 {
		minGPA := adm.AcademicRequirements.MinGPA
		switch {
		case gpa >= minGPA+0.3:
			score += 20
		case gpa >= minGPA:
			score += 10
		default:
			score -= 20
		}
	} else {
		switch {
		case gpa >= 3.5:
			score += 15
		case gpa >= 3.0:
			score += 10
		}
	}

	if p.HasLanguageTest() {
		score += 10
	}
	if len(p.Achievements) > 3 {
		score += 5
	}
	if len(p.SportsDetailed) > 0 {
		score += 5
	}
	return clamp(score, 0, 100)
}

func hsFinancialScore(p model.Profile, school model.HighSchool, scholarships []model.HighSchoolScholarship) int {
	budget := p.BudgetValue()
	cost := school.AnnualCost()
	if cost <= 0 || budget >= cost {
		return 100
	}
	ratio := budget / cost

	if school.ScholarshipAvailable && len(scholarships) > 0 {
		coverage := 0.0
		for _, s := range scholarships {
			coverage = max(coverage, s.CoveragePercentage)
		}
		if budget >= cost*(1-coverage/100) {
			return 85
		}
		return clamp(int(math.Round(50+ratio*40)), 0, 100)
	}
	return clamp(int(math.Round(ratio*70)), 0, 100)
}

func hsVisaScore(p model.Profile, school model.HighSchool) int {
	score := 75
	vh := p.VisaHistory
	if vh.HasRejections {
		if p.RejectedIn(school.Country) {
			score -= 40
		} else {
			score -= 15
		}
	}
	if vh.FamilyLegalHistory.CriminalRecord {
		score -= 20
	}
	if vh.FamilyLegalHistory.ImmigrationViolation {
		score -= 25
	}
	if vh.FamilyLegalHistory.DeportationHistory {
		score -= 30
	}
	if easyVisaCountries[strings.ToLower(strings.TrimSpace(school.Country))] {
		score += 15
	}
	return clamp(score, 0, 100)
}

// cultureScore starts at 60 and rewards a preferred country and a shared
// language of instruction.
func cultureScore(p model.Profile, country string, languages []string) int {
	score := 60
	if p.PrefersCountry(country) {
		score += 25
	}
	if p.SharesLanguage(languages) {
		score += 15
	}
	return min(100, score)
}

func acceptanceProbability(p model.Profile, adm *model.HighSchoolAdmissions) int {
	prob := 50
	gpa := p.GPAValue()

	if adm != nil {
		if minGPA := adm.AcademicRequirements.MinGPA; minGPA > 0 {
			switch {
			case gpa >= minGPA+0.5:
				prob += 30
			case gpa >= minGPA+0.2:
				prob += 20
			case gpa >= minGPA:
				prob += 10
			default:
				prob -= 20
			}
		}
		if rate := adm.AcceptanceRate; rate > 0 {
			switch {
			case rate > 30:
				prob += 15
			case rate > 20:
				prob += 10
			default:
				prob += 5
			}
		}
	}

	if len(p.Achievements) > 2 {
		prob += 10
	}
	if len(p.SportsDetailed) > 0 {
		prob += 10
	}
	return clamp(prob, 5, 95)
}

func hsMatchReasons(p model.Profile, school model.HighSchool, academic, financial, visaS int, scholarships []model.HighSchoolScholarship) []string {
	reasons := []string{}
	if academic >= 80 {
		reasons = append(reasons, "Your academic profile fits this school's standards very well")
	}
	switch {
	case financial >= 80:
		reasons = append(reasons, "Your budget comfortably covers the school's costs")
	case len(scholarships) > 0 && financial >= 60:
		reasons = append(reasons, "Affordable with the available scholarships")
	}
	if visaS >= 80 {
		reasons = append(reasons, "Your chance of getting a visa is high")
	}
	if p.PrefersCountry(school.Country) {
		reasons = append(reasons, "It is in one of your preferred countries")
	}
	if school.ScholarshipAvailable {
		reasons = append(reasons, "Offers scholarships to international students")
	}
	if n := len(school.SpecialPrograms); n > 0 {
		reasons = append(reasons, "Special programs: "+strings.Join(school.SpecialPrograms[:min(n, 3)], ", "))
	}
	return reasons
}

func hsConcerns(school model.HighSchool, academic, financial, visaS int) []string {
	concerns := []string{}
	if academic < 60 {
		concerns = append(concerns, "You may need to strengthen your academic profile")
	}
	if financial < 50 {
		concerns = append(concerns, "Could be financially demanding; applying for scholarships is important")
	}
	if visaS < 60 {
		concerns = append(concerns, "The visa process needs extra care and preparation")
	}
	if school.AnnualCost() > 100000 {
		concerns = append(concerns, "High cost; make a detailed financial plan")
	}
	return concerns
}

func preparationGuide(p model.Profile, school model.HighSchool, adm *model.HighSchoolAdmissions) model.PreparationGuide {
	g := model.PreparationGuide{
		Timeline:        "Start applying 12-18 months ahead",
		AcademicFocus:   []string{},
		TestPreparation: []string{},
	}

	if p.GPAValue() < 3.5 {
		g.AcademicFocus = append(g.AcademicFocus,
			"Focus on raising your grade average",
			"Aim for high marks in demanding courses")
	}
	if school.OffersCurriculum("IB") {
		g.AcademicFocus = append(g.AcademicFocus, "Prepare for the IB program (Extended Essay, TOK, CAS)")
	}
	if school.OffersCurriculum("AP") {
		g.AcademicFocus = append(g.AcademicFocus, "Enroll in AP courses and aim for high scores")
	}
	if school.OffersCurriculum("A-Level") {
		g.AcademicFocus = append(g.AcademicFocus, "Prepare for the A-Level exams")
	}

	if adm != nil {
		if adm.EntranceExamRequired {
			g.TestPreparation = append(g.TestPreparation,
				"Prepare for the entrance exam (SSAT, ISEE, UKiset or similar)",
				"Take practice tests and work on your weak areas")
		}
		if en := adm.LanguageRequirements.English; en != nil {
			if en.TOEFLMin > 0 {
				g.TestPreparation = append(g.TestPreparation, fmt.Sprintf("TOEFL target: %g+", en.TOEFLMin))
			}
			if en.IELTSMin > 0 {
				g.TestPreparation = append(g.TestPreparation, fmt.Sprintf("IELTS target: %g+", en.IELTSMin))
			}
		}
	}

	g.ApplicationStrategy = []string{
		"Track application deadlines and start early",
		"Write a strong personal statement",
		"Ask your teachers for reference letters",
	}
	if adm != nil && adm.InterviewRequired {
		g.ApplicationStrategy = append(g.ApplicationStrategy,
			"Practice for the interview",
			"Research the school and prepare questions")
	}
	if len(p.SportsDetailed) > 0 {
		g.ApplicationStrategy = append(g.ApplicationStrategy, "Gather your sports achievements and video recordings")
	}

	g.VisaPreparation = []string{
		"Learn the student visa requirements",
		"Prepare proof of financial means",
		"Obtain guardianship and other legal documents",
	}
	if p.VisaHistory.HasRejections {
		g.VisaPreparation = append(g.VisaPreparation,
			"Prepare documents that explain the previous visa refusal",
			"Consider consulting an immigration lawyer")
	}
	return g
}

// ScoreHighSchools scores each school using its admissions rules and
// scholarships, ordered by academic score descending.
func ScoreHighSchools(p model.Profile, schools []model.HighSchool, admissions []model.HighSchoolAdmissions,
	scholarships []model.HighSchoolScholarship) []model.HighSchoolMatch {
	admBySchool := make(map[string]*model.HighSchoolAdmissions, len(admissions))
	for i := range admissions {
		if _, ok := admBySchool[admissions[i].SchoolID]; !ok {
			admBySchool[admissions[i].SchoolID] = &admissions[i]
		}
	}
	schBySchool := map[string][]model.HighSchoolScholarship{}
	for _, s := range scholarships {
		schBySchool[s.SchoolID] = append(schBySchool[s.SchoolID], s)
	}

	out := make([]model.HighSchoolMatch, 0, len(schools))
	for _, school := range schools {
		adm := admBySchool[school.ID]
		awards := schBySchool[school.ID]
		if awards == nil {
			awards = []model.HighSchoolScholarship{}
		}

		academic := hsAcademicScore(p, adm)
		financial := hsFinancialScore(p, school, awards)
		visaS := hsVisaScore(p, school)
		culture := cultureScore(p, school.Country, school.Languages)
		overall := int(math.Round(0.35*float64(academic) + 0.25*float64(financial) +
			0.25*float64(visaS) + 0.15*float64(culture)))

		out = append(out, model.HighSchoolMatch{
			School: school,
			Match: model.HighSchoolScores{
				OverallMatchScore:     overall,
				AcademicMatchScore:    academic,
				FinancialMatchScore:   financial,
				VisaMatchScore:        visaS,
				CultureMatchScore:     culture,
				AcceptanceProbability: acceptanceProbability(p, adm),
				MatchReasons:          hsMatchReasons(p, school, academic, financial, visaS, awards),
				Concerns:              hsConcerns(school, academic, financial, visaS),
			},
			Admissions:       adm,
			Scholarships:     awards,
			PreparationGuide: preparationGuide(p, school, adm),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Match.AcademicMatchScore > out[j].Match.AcademicMatchScore
	})
	return out
}

package match

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pavelanni/schoolmatch/internal/model"
)

var printer = message.NewPrinter(language.English)

// usd formats an amount as whole dollars with thousands separators.
func usd(v float64) string {
	return printer.Sprintf("$%d", int64(math.Round(v)))
}

var degreeNames = map[string]string{
	"bachelor":  "Bachelor's",
	"master":    "Master's",
	"doctorate": "Doctoral",
}

// sentences joins non-empty fragments with single spaces.
func sentences(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

func visaDifficultyText(u model.University) string {
	rate := fmt.Sprintf("%g%%", u.VisaSuccessRate)
	switch {
	case u.VisaDifficultyScore < 25:
		return fmt.Sprintf("The %s student visa process is fairly easy. It is transparent and the success rate is high at %s. "+
			"With a complete set of documents you are very likely to get the visa.", u.Country, rate)
	case u.VisaDifficultyScore < 40:
		return fmt.Sprintf("Expect a moderately difficult student visa process for %s. "+
			"With a %s success rate you have a reasonable chance of approval. Proof of funds and the admission letter matter most.", u.Country, rate)
	default:
		return fmt.Sprintf("The %s student visa process can be demanding. With a %s success rate you need to prepare carefully. "+
			"Interview practice, strong financial evidence and a clear statement of intent are critical.", u.Country, rate)
	}
}

func postGraduationText(u model.University) string {
	var b strings.Builder
	if u.PostStudyWorkVisa {
		fmt.Fprintf(&b, "You can get a work permit for %d months after graduation. ", u.WorkVisaDurationMonths)
	} else {
		b.WriteString("There is no direct post-study work permit. ")
	}
	if u.CitizenshipPathway {
		ease := "difficult"
		switch {
		case u.ResidencePermitEaseScore > 75:
			ease = "fairly easy"
		case u.ResidencePermitEaseScore > 50:
			ease = "moderately difficult"
		}
		fmt.Fprintf(&b, "You may apply for citizenship after %d years. The residence permit process is rated %s.", u.CitizenshipYears, ease)
	} else {
		b.WriteString("The path to citizenship is limited or very long.")
	}
	return b.String()
}

func matchReasoning(p model.Profile, u model.University, academic, financial float64, info model.DegreeInfo) string {
	name, ok := degreeNames[info.DegreeType]
	if !ok {
		name = degreeNames["bachelor"]
	}
	parts := []string{fmt.Sprintf("For the %s program (%d years):", name, info.DurationYears)}

	switch info.DegreeType {
	case "master":
		if p.HasWorkExperience() {
			parts = append(parts, "Your work experience is a strong plus for a master's application.")
		}
		if p.TestScores.GRE != "" {
			parts = append(parts, fmt.Sprintf("Your GRE score (%s) supports your application.", p.TestScores.GRE))
		}
	case "doctorate":
		parts = append(parts, "Doctoral programs usually come with full funding or research assistantships.")
		if len(p.WorkExperience) > 0 {
			parts = append(parts, "Your research experience is an important advantage.")
		}
	}

	switch {
	case academic >= 80:
		parts = append(parts, "Your academic profile meets this university's standards and you are a competitive candidate.")
	case academic >= 60:
		parts = append(parts, "Your academic profile largely meets the university's requirements.")
	default:
		parts = append(parts, "Strengthening your academic profile would improve your chances.")
	}

	if financial >= 70 {
		parts = append(parts, "Your budget looks suitable for this university.")
	} else {
		parts = append(parts, fmt.Sprintf("The annual cost is about %s, so look closely at scholarship opportunities.", usd(u.AnnualCost())))
	}

	if _, ok := p.TopSport(); ok {
		parts = append(parts, "Your sports background can strengthen scholarship applications.")
	}
	if p.HasArts() {
		parts = append(parts, "Your arts activities add diversity and creativity to your application.")
	}
	return sentences(parts...)
}

var highLevelSport = map[string]bool{
	"varsity":       true,
	"regional":      true,
	"national":      true,
	"international": true,
}

// athleticDivision extracts the college athletics association from a
// university name, most specific first.
func athleticDivision(name string) string {
	for _, d := range []string{"NCAA Division III", "NCAA Division II", "NCAA Division I", "NAIA", "NJCAA"} {
		if strings.Contains(name, d) {
			return d
		}
	}
	return ""
}

var divisionInfo = map[string]string{
	"NCAA Division I":   "NCAA Division I is the top tier of college sport and full-ride scholarships are common.",
	"NCAA Division II":  "NCAA Division II offers partial scholarships and values a balance of academics and athletics.",
	"NCAA Division III": "NCAA Division III gives no athletic scholarships, but its need- and merit-based aid is very strong.",
	"NAIA":              "NAIA is easier for international students to access than the NCAA and offers flexible scholarships.",
	"NJCAA":             "NJCAA community colleges are two-year schools and an ideal stepping stone to a four-year university.",
}

func scholarshipEligibility(p model.Profile, t model.ScholarshipType, u model.University) string {
	gpa := p.GPAValue()
	hasAchievements := p.TitledAchievements() > 0

	switch t {
	case model.ScholarshipAcademic:
		switch {
		case gpa >= 3.7:
			tests := "Your standardized test scores support"
			if p.TestScores.SAT != "" {
				tests = fmt.Sprintf("Your SAT score (%s) supports", p.TestScores.SAT)
			}
			extra := ""
			if hasAchievements {
				extra = "Your awards and achievements will make your application stand out."
			}
			return sentences(fmt.Sprintf("Your %.2f GPA makes an excellent profile for this scholarship.", gpa),
				tests+" your academic record.", extra)
		case gpa >= 3.3:
			lang := ""
			if p.HasLanguageTest() {
				lang = "Your language test scores support your application."
			}
			extra := "Highlighting your academic achievements would improve your chances."
			if hasAchievements {
				extra = "Your academic achievements will earn extra points."
			}
			return sentences(fmt.Sprintf("With a %.2f GPA you can apply for this scholarship.", gpa), lang, extra)
		default:
			return fmt.Sprintf("Raising your GPA above %.2f would make you a stronger applicant for this scholarship. "+
				"Document your academic achievements.", gpa)
		}

	case model.ScholarshipAthletic:
		return athleticEligibility(p, u)

	case model.ScholarshipArtistic:
		if p.HasArts() {
			extra := "Preparing a portfolio of your work will improve your chances."
			if hasAchievements {
				extra = "Support your artistic achievements with a portfolio or performance recordings."
			}
			return sentences(fmt.Sprintf("Your activities in %s make you eligible for this scholarship.",
				strings.Join(p.ArtsActivities(), ", ")), extra)
		}
		return "This scholarship requires artistic activity. Without experience in music, painting, theater or similar fields, consider other scholarships."

	case model.ScholarshipNeedBased:
		budget, total := p.BudgetValue(), u.AnnualCost()
		if budget < total*0.6 {
			return fmt.Sprintf("Your stated budget of %s is well below the %s total cost, so you qualify for this need-based scholarship. "+
				"Submit complete financial documents.", usd(budget), usd(total))
		}
		return "You can apply with your current budget, but you will need a strong statement of financial need."

	case model.ScholarshipCountrySpecific:
		nationality := "your country"
		if p.Nationality != "" {
			nationality = p.Nationality
		}
		extra := ""
		if gpa >= 3.5 {
			extra = "Your academic record will strengthen your application."
		}
		return sentences(fmt.Sprintf("This scholarship is reserved for citizens of %s, which works in your favor.", nationality),
			extra, "Country-specific scholarships usually have higher acceptance rates.")
	}
	return "More information is needed to judge eligibility for this scholarship."
}

func athleticEligibility(p model.Profile, u model.University) string {
	division := athleticDivision(u.Name)

	for _, s := range allSports(p) {
		if s.Sport == "" || !highLevelSport[s.Level] {
			continue
		}
		level := "high"
		switch s.Level {
		case "national":
			level = "national"
		case "international":
			level = "international"
		}
		achievements, years := "", ""
		if s.Achievements != "" {
			achievements = fmt.Sprintf("Your achievements (%q) will impress coaches.", s.Achievements)
		}
		if s.YearsPlaying != "" {
			years = fmt.Sprintf("Your %s years of experience show your development as an athlete.", s.YearsPlaying)
		}
		return sentences(fmt.Sprintf("Your %s-level experience in %s fits this athletic scholarship well.", level, s.Sport),
			divisionInfo[division], achievements, years)
	}

	s, ok := p.TopSport()
	if !ok {
		return "This scholarship requires a sports background. Without active sports experience, consider other scholarship types."
	}
	switch division {
	case "NCAA Division I":
		level := "High school or club level is often not enough."
		if s.Level == "varsity" || s.Level == "regional" {
			level = "Your level may be considered, but"
		}
		return sentences(fmt.Sprintf("NCAA Division I is very competitive for %s.", s.Sport), level,
			"Prepare highlight videos and performance statistics.")
	case "NCAA Division II", "NAIA":
		team := ""
		if s.Level == "club" || s.Level == "high_school" {
			team = "Your team experience is a plus."
		}
		return sentences(fmt.Sprintf("Your %s experience suits %s.", s.Sport, division), team,
			fmt.Sprintf("%s programs give athletes of many levels a chance. Prepare material that shows your potential.", division))
	case "NJCAA":
		return sentences(fmt.Sprintf("Your %s experience is a great starting point for community college.", s.Sport),
			"NJCAA programs are two-year, development-focused schools that prepare you to transfer to a four-year university.",
			yearsNote(s.YearsPlaying))
	}
	return fmt.Sprintf("Your %s experience may be considered for this scholarship. Prepare performance videos and reference letters.", s.Sport)
}

func yearsNote(years string) string {
	if years == "" {
		return ""
	}
	return fmt.Sprintf("Your %s years of experience are valuable.", years)
}

// allSports lists resume sports followed by sports declared for scholarships.
func allSports(p model.Profile) []model.SportActivity {
	out := append([]model.SportActivity(nil), p.SportsDetailed...)
	for _, s := range p.ScholarshipInterest.Sports {
		out = append(out, s.SportActivity)
	}
	return out
}

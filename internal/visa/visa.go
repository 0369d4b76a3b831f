// Package visa turns an applicant's visa rejections and family legal history
// into per-country risk assessments.
package visa

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/pavelanni/schoolmatch/internal/model"
)

// AllCountries is the key of the assessment produced when only family legal
// history is on record.
const AllCountries = "ALL"

type category string

const (
	categoryFinancial     category = "financial"
	categoryDocumentation category = "documentation"
	categoryTies          category = "ties"
	categoryIntent        category = "intent"
	categoryViolation     category = "violation"
	categorySecurity      category = "security"
	categoryFraud         category = "fraud"
	categoryUnknown       category = "unknown"
)

type reasonRule struct {
	severity float64
	category category
}

var reasonRules = map[model.RejectionReason]reasonRule{
	model.ReasonInsufficientFunds:       {60, categoryFinancial},
	model.ReasonIncompleteDocumentation: {40, categoryDocumentation},
	model.ReasonWeakTies:                {75, categoryTies},
	model.ReasonIntentNotClear:          {65, categoryIntent},
	model.ReasonPreviousViolation:       {90, categoryViolation},
	model.ReasonSecurityConcerns:        {95, categorySecurity},
	model.ReasonFalseInformation:        {100, categoryFraud},
	model.ReasonOther:                   {50, categoryUnknown},
}

func ruleFor(reason model.RejectionReason) reasonRule {
	if r, ok := reasonRules[reason]; ok {
		return r
	}
	return reasonRules[model.ReasonOther]
}

var riskPenalty = map[model.RiskLevel]int{
	model.RiskLow:      -5,
	model.RiskMedium:   -15,
	model.RiskHigh:     -35,
	model.RiskCritical: -60,
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01"}

// MonthsSince returns ceil(|now - date| / 30 days). Unparseable dates count
// as 0 months, i.e. the most recent possible rejection.
func MonthsSince(date string, now time.Time) int {
	date = strings.TrimSpace(date)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, date)
		if err != nil {
			continue
		}
		d := now.Sub(t)
		if d < 0 {
			d = -d
		}
		return int(math.Ceil(d.Hours() / (24 * 30)))
	}
	return 0
}

// rejectionSeverity scores one rejection: the base severity of its reason,
// decayed by how long ago it happened.
func rejectionSeverity(r model.Rejection, now time.Time) float64 {
	severity := ruleFor(r.RejectionReason).severity
	switch months := MonthsSince(r.RejectionDate, now); {
	case months > 36:
		severity *= 0.5
	case months > 24:
		severity *= 0.65
	case months > 12:
		severity *= 0.8
	}
	return severity
}

// Assessments maps a normalized country key to its assessment.
type Assessments map[string]model.VisaRiskAssessment

func countryKey(country string) string {
	return strings.ToLower(strings.TrimSpace(country))
}

// Lookup returns the assessment for country, falling back to the ALL record.
func (a Assessments) Lookup(country string) (model.VisaRiskAssessment, bool) {
	if as, ok := a[countryKey(country)]; ok {
		return as, true
	}
	as, ok := a[countryKey(AllCountries)]
	return as, ok
}

// RiskPenalty is the visa-score adjustment for country; 0 when nothing is on record.
func (a Assessments) RiskPenalty(country string) int {
	as, ok := a.Lookup(country)
	if !ok {
		return 0
	}
	return riskPenalty[as.RiskLevel]
}

// ShouldShowCountry is false only when the country's recommendation is avoid.
func (a Assessments) ShouldShowCountry(country string) bool {
	as, ok := a.Lookup(country)
	return !ok || as.Recommendation != model.RecommendAvoid
}

// List returns the assessments ordered by country.
func (a Assessments) List() []model.VisaRiskAssessment {
	out := make([]model.VisaRiskAssessment, 0, len(a))
	for _, as := range a {
		out = append(out, as)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Country < out[j].Country })
	return out
}

type familyAnalysis struct {
	severity int
	critical bool
	warnings []string
}

func analyzeFamily(f model.FamilyLegalHistory) familyAnalysis {
	var fa familyAnalysis
	if f.CriminalRecord {
		fa.severity += 40
		fa.warnings = append(fa.warnings, "A criminal record in the family weighs against visa applications")
	}
	if f.ImmigrationViolation {
		fa.severity += 50
		fa.warnings = append(fa.warnings, "An immigration violation is serious and sharply raises the chance of refusal")
	}
	if f.DeportationHistory {
		fa.severity += 60
		fa.warnings = append(fa.warnings, "A deportation history will seriously affect your visas")
	}
	if f.OverstayHistory {
		fa.severity += 45
		fa.warnings = append(fa.warnings, "A history of overstaying a visa can cause problems in future applications")
	}
	if f.AsylumApplication {
		fa.severity += 35
		fa.warnings = append(fa.warnings, "A past asylum application can raise immigrant-intent concerns for a student visa")
	}
	fa.critical = f.DeportationHistory || f.ImmigrationViolation
	return fa
}

// countryHistory groups one country's rejections. mostRecent is the rejection
// with the smallest age; ties keep input order.
type countryHistory struct {
	country          string
	rejections       []model.Rejection
	mostRecent       model.Rejection
	mostRecentMonths int
	severity         float64
}

// Analyze builds one assessment per country that refused the applicant. When
// there are no rejections but the family history carries risk, a single ALL
// assessment is returned instead. The result depends only on its inputs.
func Analyze(rejections []model.Rejection, family model.FamilyLegalHistory, now time.Time) Assessments {
	out := Assessments{}
	fa := analyzeFamily(family)

	if len(rejections) == 0 {
		if fa.severity > 0 {
			out[countryKey(AllCountries)] = familyOnly(fa)
		}
		return out
	}

	var order []string
	byCountry := map[string]*countryHistory{}
	for _, r := range rejections {
		key := countryKey(r.Country)
		h, ok := byCountry[key]
		months := MonthsSince(r.RejectionDate, now)
		if !ok {
			h = &countryHistory{country: strings.TrimSpace(r.Country), mostRecent: r, mostRecentMonths: months}
			byCountry[key] = h
			order = append(order, key)
		} else if months < h.mostRecentMonths {
			h.mostRecent = r
			h.mostRecentMonths = months
		}
		h.rejections = append(h.rejections, r)
		h.severity += rejectionSeverity(r, now)
	}

	for _, key := range order {
		h := byCountry[key]
		as := classify(h)
		as.TotalSeverity = h.severity + float64(fa.severity)
		if fa.severity > 0 {
			escalate(&as, fa)
		}
		out[key] = as
	}
	return out
}

func hasReason(rs []model.Rejection, reason model.RejectionReason) bool {
	for _, r := range rs {
		if r.RejectionReason == reason {
			return true
		}
	}
	return false
}

func classify(h *countryHistory) model.VisaRiskAssessment {
	country, age := h.country, h.mostRecentMonths

	fraud := hasReason(h.rejections, model.ReasonFalseInformation)
	violation := hasReason(h.rejections, model.ReasonPreviousViolation)
	security := hasReason(h.rejections, model.ReasonSecurityConcerns)
	if fraud || violation || security {
		label := "security concerns"
		switch {
		case fraud:
			label = "false information"
		case violation:
			label = "a previous violation"
		}
		as := model.VisaRiskAssessment{
			Country:        country,
			RiskLevel:      model.RiskCritical,
			Recommendation: model.RecommendAvoid,
			Reasoning: fmt.Sprintf("You have a serious refusal on record for %s (%s). "+
				"Refusals of this kind severely affect future applications.", country, label),
			ActionItems: []string{
				"Focus on alternative countries",
				"Consult an immigration lawyer if needed",
				"Wait at least 5 years and resolve the underlying issue",
			},
		}
		if age < 60 {
			as.TimeRecommendation = fmt.Sprintf("Wait at least %d more months", 60-age)
		}
		return as
	}

	if len(h.rejections) > 1 && age < 24 {
		return model.VisaRiskAssessment{
			Country:        country,
			RiskLevel:      model.RiskHigh,
			Recommendation: model.RecommendReconsider,
			Reasoning: fmt.Sprintf("You were refused by %s more than once and the latest refusal is recent. "+
				"Visa officers are likely to view your profile negatively.", country),
			ActionItems: []string{
				"Wait at least 2 more years",
				"Strengthen your academic or career profile in the meantime",
				"Consider alternative countries",
				"Make sure every refusal reason has been fully addressed",
			},
			TimeRecommendation: fmt.Sprintf("Wait %d more months", 24-age),
		}
	}

	switch cat := ruleFor(h.mostRecent.RejectionReason).category; {
	case cat == categoryFinancial && age > 12:
		return model.VisaRiskAssessment{
			Country:        country,
			RiskLevel:      model.RiskMedium,
			Recommendation: model.RecommendCaution,
			Reasoning: fmt.Sprintf("%s refused you for insufficient funds. This can be fixed; "+
				"if your finances have improved you can apply again.", country),
			ActionItems: []string{
				"Prepare recent bank statements",
				"Attach sponsor letters",
				"Highlight any scholarship offer",
				"Document your family's financial situation",
			},
		}
	case cat == categoryDocumentation && age > 6:
		return model.VisaRiskAssessment{
			Country:        country,
			RiskLevel:      model.RiskLow,
			Recommendation: model.RecommendCaution,
			Reasoning: fmt.Sprintf("%s refused you for missing documents. "+
				"This is the easiest kind of refusal to resolve.", country),
			ActionItems: []string{
				"Check every required document",
				"Review your documents with an advisor",
				"Do not leave any document out",
				"Use certified translations",
			},
		}
	case cat == categoryTies && age > 18:
		return model.VisaRiskAssessment{
			Country:        country,
			RiskLevel:      model.RiskMedium,
			Recommendation: model.RecommendCaution,
			Reasoning: fmt.Sprintf("%s refused you for weak ties to your home country. "+
				"You need to show a stronger intent to return after graduation.", country),
			ActionItems: []string{
				"Document job offers in your home country",
				"Emphasize your family ties",
				"Attach property or investment documents",
				"Show that your career plan is based at home",
			},
		}
	}

	return model.VisaRiskAssessment{
		Country:        country,
		RiskLevel:      model.RiskMedium,
		Recommendation: model.RecommendCaution,
		Reasoning: fmt.Sprintf("You were refused by %s before, but %d months have passed. "+
			"If your situation has improved you can apply again.", country, age),
		ActionItems: []string{
			"Understand the exact refusal reason",
			"Document that the issue has been resolved",
			"Strengthen your profile",
			"Explain the situation in your cover letter",
		},
	}
}

func escalate(as *model.VisaRiskAssessment, fa familyAnalysis) {
	switch {
	case fa.critical:
		as.RiskLevel = model.RiskCritical
		as.Recommendation = model.RecommendAvoid
	case as.RiskLevel == model.RiskLow:
		as.RiskLevel = model.RiskMedium
	case as.RiskLevel == model.RiskMedium:
		as.RiskLevel = model.RiskHigh
	}
	as.FamilyIssuesWarning = strings.Join(fa.warnings, ". ")
	as.ActionItems = append([]string{"Your family's legal history adds difficulty for this country"}, as.ActionItems...)
}

func familyOnly(fa familyAnalysis) model.VisaRiskAssessment {
	as := model.VisaRiskAssessment{
		Country:        AllCountries,
		RiskLevel:      model.RiskMedium,
		Recommendation: model.RecommendCaution,
		Reasoning:      "Your family's legal history may affect your visa applications.",
		ActionItems: []string{
			"Consult an immigration lawyer",
			"Prepare every document in full",
			"Document your situation openly and honestly",
			"Consider alternative study options as well",
		},
		FamilyIssuesWarning: strings.Join(fa.warnings, ". "),
		TotalSeverity:       float64(fa.severity),
	}
	switch {
	case fa.critical:
		as.RiskLevel = model.RiskCritical
		as.Recommendation = model.RecommendReconsider
	case fa.severity > 60:
		as.RiskLevel = model.RiskHigh
	}
	return as
}

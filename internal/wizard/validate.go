package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pavelanni/schoolmatch/internal/model"
)

// Enumerations accepted by the form's select inputs.
var (
	programTypes = []model.ProgramType{
		model.ProgramHighSchool, model.ProgramBachelor, model.ProgramMaster,
		model.ProgramDoctorate, model.ProgramLanguageSchool,
	}
	targetDegreeLevels = []string{"high_school_transfer", "bachelor", "master", "doctorate"}
	primaryGoals       = []string{
		"academic_research", "industry_expert", "entrepreneur", "public_sector",
		"ngo_social", "consulting", "other",
	}
	visaTypes     = []string{"student", "tourist", "work", "visitor", "other"}
	proficiencies = []string{"beginner", "intermediate", "advanced", "native"}
	sportLevels   = []string{"recreational", "high_school", "club", "varsity", "regional", "national", "international"}
	artsFields    = []string{
		"music", "visual_arts", "theater", "dance", "photography", "film",
		"creative_writing", "graphic_design", "fashion_design", "architecture", "other",
	}
	scholarshipTypes = []string{"none", "sports", "arts"}
	genders          = []string{"male", "female"}
	rejectionReasons = []model.RejectionReason{
		model.ReasonInsufficientFunds, model.ReasonIncompleteDocumentation, model.ReasonWeakTies,
		model.ReasonIntentNotClear, model.ReasonPreviousViolation, model.ReasonSecurityConcerns,
		model.ReasonFalseInformation, model.ReasonOther,
	}
)

const dateLayout = "2006-01-02"

// Validator checks profile fields step by step.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the form's custom rules registered.
func NewValidator() *Validator {
	v := validator.New()
	// Free-text numbers are read leniently, so "3,75" or "$20 000" pass.
	v.RegisterValidation("lenient_number", func(fl validator.FieldLevel) bool {
		return model.IsNumeric(fl.Field().String())
	})
	return &Validator{validate: v}
}

// rule binds one profile value to a validator tag.
type rule struct {
	field string
	value any
	tag   string
}

func oneOf[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return "oneof=" + strings.Join(parts, " ")
}

func optional(values []string) string {
	return "omitempty," + oneOf(values)
}

func rulesFor(step Step, p model.Profile) []rule {
	switch step {
	case StepProgramType:
		return []rule{
			{"program_type", string(p.ProgramType), "required," + oneOf(programTypes)},
		}

	case StepBasicAcademic:
		rules := []rule{
			{"full_name", strings.TrimSpace(p.FullName), "required,max=200"},
			{"email", strings.TrimSpace(p.Email), "required,email"},
			{"date_of_birth", p.DateOfBirth, "omitempty,datetime=" + dateLayout},
			{"nationality", p.Nationality, "omitempty,max=100"},
			{"target_degree_level", p.TargetDegreeLevel, optional(targetDegreeLevels)},
			{"gpa", p.GPA, "omitempty,lenient_number"},
			{"academic_history.high_school.diploma_grade", p.AcademicHistory.HighSchool.DiplomaGrade, "omitempty,lenient_number"},
			{"academic_history.bachelor.gpa", p.AcademicHistory.Bachelor.GPA, "omitempty,lenient_number"},
			{"academic_history.bachelor.graduation_year", p.AcademicHistory.Bachelor.GraduationYear, "omitempty,numeric,len=4"},
		}
		if m := p.AcademicHistory.Master; m != nil {
			rules = append(rules,
				rule{"academic_history.master.gpa", m.GPA, "omitempty,lenient_number"},
				rule{"academic_history.master.graduation_year", m.GraduationYear, "omitempty,numeric,len=4"},
			)
		}
		return rules

	case StepCareerGoals:
		rules := []rule{
			{"career_goals.primary_goal", p.CareerGoals.PrimaryGoal, optional(primaryGoals)},
			{"career_goals.dream_career", p.CareerGoals.DreamCareer, "max=500"},
		}
		for i, interest := range p.CareerGoals.ResearchInterests {
			rules = append(rules, rule{fmt.Sprintf("career_goals.research_interests[%d]", i), interest, "max=200"})
		}
		return rules

	case StepVisaHistory:
		if !p.VisaHistory.HasRejections {
			return nil
		}
		rules := []rule{
			{"visa_history.rejections", p.VisaHistory.Rejections, "required,min=1"},
		}
		for i, r := range p.VisaHistory.Rejections {
			prefix := fmt.Sprintf("visa_history.rejections[%d].", i)
			rules = append(rules,
				rule{prefix + "country", strings.TrimSpace(r.Country), "required"},
				rule{prefix + "visa_type", r.VisaType, optional(visaTypes)},
				rule{prefix + "rejection_date", r.RejectionDate, "required,datetime=" + dateLayout},
				rule{prefix + "rejection_reason", string(r.RejectionReason), "required," + oneOf(rejectionReasons)},
			)
		}
		return rules

	case StepLanguagesTests:
		rules := []rule{
			{"test_scores.sat", p.TestScores.SAT, "omitempty,lenient_number"},
			{"test_scores.toefl", p.TestScores.TOEFL, "omitempty,lenient_number"},
			{"test_scores.ielts", p.TestScores.IELTS, "omitempty,lenient_number"},
			{"test_scores.gre", p.TestScores.GRE, "omitempty,lenient_number"},
		}
		for i, l := range p.Languages {
			prefix := fmt.Sprintf("languages[%d].", i)
			rules = append(rules,
				rule{prefix + "language", strings.TrimSpace(l.Language), "required"},
				rule{prefix + "proficiency", l.Proficiency, optional(proficiencies)},
			)
		}
		return rules

	case StepExperienceActivities:
		rules := []rule{
			{"scholarship_interest.type", p.ScholarshipInterest.Type, optional(scholarshipTypes)},
		}
		for i, s := range p.SportsDetailed {
			rules = append(rules, sportRules(fmt.Sprintf("sports_detailed[%d].", i), s)...)
		}
		for i, s := range p.ScholarshipInterest.Sports {
			prefix := fmt.Sprintf("scholarship_interest.sports[%d].", i)
			rules = append(rules, sportRules(prefix, s.SportActivity)...)
			rules = append(rules, rule{prefix + "gender", s.Gender, optional(genders)})
		}
		for i, a := range p.ScholarshipInterest.Arts {
			prefix := fmt.Sprintf("scholarship_interest.arts[%d].", i)
			rules = append(rules,
				rule{prefix + "field", a.Field, optional(artsFields)},
				rule{prefix + "years_experience", a.YearsExperience, "omitempty,lenient_number"},
				rule{prefix + "portfolio_url", a.PortfolioURL, "omitempty,url"},
			)
		}
		return rules

	case StepBudgetPreferences:
		return []rule{
			{"annual_budget", p.AnnualBudget, "omitempty,lenient_number"},
		}
	}
	return nil
}

func sportRules(prefix string, s model.SportActivity) []rule {
	return []rule{
		{prefix + "level", s.Level, optional(sportLevels)},
		{prefix + "years_playing", s.YearsPlaying, "omitempty,lenient_number"},
		{prefix + "highlight_video", s.HighlightVideo, "omitempty,url"},
	}
}

// Validate applies the rules of one step and returns every failure.
// An unknown step yields a single error on the "step" field.
func (v *Validator) Validate(step Step, p model.Profile) []FieldError {
	if step.Index() < 0 {
		return []FieldError{{Field: "step", Tag: "oneof", Param: string(step)}}
	}
	var out []FieldError
	for _, r := range rulesFor(step, p) {
		err := v.validate.Var(r.value, r.tag)
		if err == nil {
			continue
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			out = append(out, FieldError{Field: r.field, Tag: "invalid"})
			continue
		}
		for _, e := range verrs {
			out = append(out, FieldError{Field: r.field, Tag: e.Tag(), Param: e.Param()})
		}
	}
	return out
}

// ValidateAll walks the steps in order and returns a *ValidationError for the
// first one that fails, or nil when the profile is complete.
func (v *Validator) ValidateAll(p model.Profile) error {
	for _, step := range steps {
		if fields := v.Validate(step, p); len(fields) > 0 {
			return &ValidationError{Step: step, Fields: fields}
		}
	}
	return nil
}

package wizard

import (
	"errors"
	"slices"
	"testing"

	"github.com/pavelanni/schoolmatch/internal/model"
)

func validProfile() model.Profile {
	return model.Profile{
		ProgramType:       model.ProgramMaster,
		FullName:          "Ayse Yilmaz",
		Email:             "ayse@example.com",
		DateOfBirth:       "2001-04-17",
		Nationality:       "Turkey",
		TargetDegreeLevel: "master",
		GPA:               "3,45",
		AcademicHistory: model.AcademicHistory{
			Bachelor: model.BachelorRecord{GPA: "3.45", GraduationYear: "2024"},
		},
		CareerGoals: model.CareerGoals{PrimaryGoal: "academic_research", ResearchInterests: []string{"Machine Learning"}},
		VisaHistory: model.VisaHistory{
			HasRejections: true,
			Rejections: []model.Rejection{
				{Country: "USA", VisaType: "student", RejectionDate: "2025-06-01", RejectionReason: model.ReasonWeakTies},
			},
		},
		TestScores:     model.TestScores{TOEFL: "104", GRE: "321"},
		Languages:      []model.Language{{Language: "English", Proficiency: "advanced"}},
		SportsDetailed: []model.SportActivity{{Sport: "Volleyball", Level: "club", YearsPlaying: "5"}},
		ScholarshipInterest: model.ScholarshipInterest{
			Type: "sports",
			Sports: []model.ScholarshipSport{
				{SportActivity: model.SportActivity{Sport: "Volleyball", Level: "national"}, Gender: "female"},
			},
		},
		AnnualBudget: "$40,000",
	}
}

func TestStepNavigation(t *testing.T) {
	all := Steps()
	if len(all) != 7 || all[0] != StepProgramType || all[6] != StepBudgetPreferences {
		t.Fatalf("unexpected steps: %v", all)
	}
	if First() != StepProgramType {
		t.Errorf("First() = %q", First())
	}

	for i, s := range all {
		next, ok := s.Next()
		if i == len(all)-1 {
			if ok || !s.IsLast() {
				t.Errorf("%s: expected last step", s)
			}
		} else if !ok || next != all[i+1] {
			t.Errorf("%s.Next() = %q, %v", s, next, ok)
		}

		prev, ok := s.Prev()
		if i == 0 {
			if ok {
				t.Errorf("%s.Prev() should not exist", s)
			}
		} else if !ok || prev != all[i-1] {
			t.Errorf("%s.Prev() = %q, %v", s, prev, ok)
		}
	}

	if _, ok := Step("bogus").Next(); ok {
		t.Error("unknown step should have no next")
	}
}

func TestStepsReturnsCopy(t *testing.T) {
	s := Steps()
	s[0] = "changed"
	if Steps()[0] != StepProgramType {
		t.Error("Steps() exposed the internal sequence")
	}
}

func TestParseStep(t *testing.T) {
	if s, ok := ParseStep("visa_history"); !ok || s != StepVisaHistory {
		t.Errorf("ParseStep(visa_history) = %q, %v", s, ok)
	}
	if _, ok := ParseStep("payment"); ok {
		t.Error("ParseStep(payment) should fail")
	}
}

func TestValidProfilePassesEveryStep(t *testing.T) {
	v := NewValidator()
	p := validProfile()
	for _, s := range Steps() {
		if errs := v.Validate(s, p); len(errs) > 0 {
			t.Errorf("%s: unexpected errors %v", s, errs)
		}
	}
	if err := v.ValidateAll(p); err != nil {
		t.Errorf("ValidateAll: %v", err)
	}
}

func TestValidateStepRules(t *testing.T) {
	tests := []struct {
		name   string
		step   Step
		mutate func(*model.Profile)
		want   []FieldError
	}{
		{
			name:   "program type missing",
			step:   StepProgramType,
			mutate: func(p *model.Profile) { p.ProgramType = "" },
			want:   []FieldError{{Field: "program_type", Tag: "required"}},
		},
		{
			name:   "program type unknown",
			step:   StepProgramType,
			mutate: func(p *model.Profile) { p.ProgramType = "kindergarten" },
			want: []FieldError{{Field: "program_type", Tag: "oneof",
				Param: "high_school bachelor master doctorate language_school"}},
		},
		{
			name:   "name and email required",
			step:   StepBasicAcademic,
			mutate: func(p *model.Profile) { p.FullName = "  "; p.Email = "" },
			want: []FieldError{
				{Field: "full_name", Tag: "required"},
				{Field: "email", Tag: "required"},
			},
		},
		{
			name:   "bad email and birth date",
			step:   StepBasicAcademic,
			mutate: func(p *model.Profile) { p.Email = "ayse"; p.DateOfBirth = "17.04.2001" },
			want: []FieldError{
				{Field: "email", Tag: "email"},
				{Field: "date_of_birth", Tag: "datetime", Param: "2006-01-02"},
			},
		},
		{
			name:   "gpa not a number",
			step:   StepBasicAcademic,
			mutate: func(p *model.Profile) { p.GPA = "excellent" },
			want:   []FieldError{{Field: "gpa", Tag: "lenient_number"}},
		},
		{
			name:   "master graduation year",
			step:   StepBasicAcademic,
			mutate: func(p *model.Profile) { p.AcademicHistory.Master = &model.MasterRecord{GraduationYear: "24"} },
			want:   []FieldError{{Field: "academic_history.master.graduation_year", Tag: "len", Param: "4"}},
		},
		{
			name:   "unknown primary goal",
			step:   StepCareerGoals,
			mutate: func(p *model.Profile) { p.CareerGoals.PrimaryGoal = "astronaut" },
			want: []FieldError{{Field: "career_goals.primary_goal", Tag: "oneof",
				Param: "academic_research industry_expert entrepreneur public_sector ngo_social consulting other"}},
		},
		{
			name:   "rejections required when flagged",
			step:   StepVisaHistory,
			mutate: func(p *model.Profile) { p.VisaHistory.Rejections = nil },
			want:   []FieldError{{Field: "visa_history.rejections", Tag: "required"}},
		},
		{
			name:   "empty rejection list when flagged",
			step:   StepVisaHistory,
			mutate: func(p *model.Profile) { p.VisaHistory.Rejections = []model.Rejection{} },
			want:   []FieldError{{Field: "visa_history.rejections", Tag: "min", Param: "1"}},
		},
		{
			name: "rejection entry fields",
			step: StepVisaHistory,
			mutate: func(p *model.Profile) {
				p.VisaHistory.Rejections = []model.Rejection{
					{Country: "UK", RejectionDate: "2025-06-01", RejectionReason: model.ReasonOther},
					{VisaType: "diplomatic", RejectionDate: "June 2025", RejectionReason: "bad_luck"},
				}
			},
			want: []FieldError{
				{Field: "visa_history.rejections[1].country", Tag: "required"},
				{Field: "visa_history.rejections[1].visa_type", Tag: "oneof", Param: "student tourist work visitor other"},
				{Field: "visa_history.rejections[1].rejection_date", Tag: "datetime", Param: "2006-01-02"},
				{Field: "visa_history.rejections[1].rejection_reason", Tag: "oneof",
					Param: "insufficient_funds incomplete_documentation weak_ties intent_not_clear previous_violation security_concerns false_information other"},
			},
		},
		{
			name: "rejections ignored without flag",
			step: StepVisaHistory,
			mutate: func(p *model.Profile) {
				p.VisaHistory.HasRejections = false
				p.VisaHistory.Rejections = []model.Rejection{{RejectionDate: "nope"}}
			},
		},
		{
			name:   "test score not a number",
			step:   StepLanguagesTests,
			mutate: func(p *model.Profile) { p.TestScores.IELTS = "band seven" },
			want:   []FieldError{{Field: "test_scores.ielts", Tag: "lenient_number"}},
		},
		{
			name:   "language entry",
			step:   StepLanguagesTests,
			mutate: func(p *model.Profile) { p.Languages = append(p.Languages, model.Language{Proficiency: "fluent"}) },
			want: []FieldError{
				{Field: "languages[1].language", Tag: "required"},
				{Field: "languages[1].proficiency", Tag: "oneof", Param: "beginner intermediate advanced native"},
			},
		},
		{
			name: "sport and scholarship entries",
			step: StepExperienceActivities,
			mutate: func(p *model.Profile) {
				p.SportsDetailed[0].Level = "olympic"
				p.ScholarshipInterest.Sports[0].Gender = "x"
				p.ScholarshipInterest.Arts = []model.ArtsInterest{{Field: "music", PortfolioURL: "not a url"}}
			},
			want: []FieldError{
				{Field: "sports_detailed[0].level", Tag: "oneof",
					Param: "recreational high_school club varsity regional national international"},
				{Field: "scholarship_interest.sports[0].gender", Tag: "oneof", Param: "male female"},
				{Field: "scholarship_interest.arts[0].portfolio_url", Tag: "url"},
			},
		},
		{
			name:   "scholarship type",
			step:   StepExperienceActivities,
			mutate: func(p *model.Profile) { p.ScholarshipInterest.Type = "music" },
			want:   []FieldError{{Field: "scholarship_interest.type", Tag: "oneof", Param: "none sports arts"}},
		},
		{
			name:   "budget not a number",
			step:   StepBudgetPreferences,
			mutate: func(p *model.Profile) { p.AnnualBudget = "a lot" },
			want:   []FieldError{{Field: "annual_budget", Tag: "lenient_number"}},
		},
		{
			name:   "budget optional",
			step:   StepBudgetPreferences,
			mutate: func(p *model.Profile) { p.AnnualBudget = "" },
		},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(&p)
			got := v.Validate(tt.step, p)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Validate(%s)\n got  %v\n want %v", tt.step, got, tt.want)
			}
		})
	}
}

func TestValidateUnknownStep(t *testing.T) {
	got := NewValidator().Validate("payment", validProfile())
	if len(got) != 1 || got[0].Field != "step" {
		t.Errorf("unexpected errors: %v", got)
	}
}

func TestValidateAllReturnsFirstFailingStep(t *testing.T) {
	p := validProfile()
	p.TestScores.SAT = "n/a"
	p.VisaHistory.Rejections[0].RejectionReason = ""

	err := NewValidator().ValidateAll(p)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.Step != StepVisaHistory {
		t.Errorf("step = %s, want %s", verr.Step, StepVisaHistory)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "visa_history.rejections[0].rejection_reason" {
		t.Errorf("fields = %v", verr.Fields)
	}
	if verr.Error() == "" {
		t.Error("empty error message")
	}
}

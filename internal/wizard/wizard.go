// Package wizard defines the ordered profile form steps and the validation
// each step applies before the applicant may move on.
package wizard

import (
	"fmt"
	"strings"
)

// Step identifies one page of the profile form.
type Step string

const (
	StepProgramType          Step = "program_type"
	StepBasicAcademic        Step = "basic_academic"
	StepCareerGoals          Step = "career_goals"
	StepVisaHistory          Step = "visa_history"
	StepLanguagesTests       Step = "languages_tests"
	StepExperienceActivities Step = "experience_activities"
	StepBudgetPreferences    Step = "budget_preferences"
)

var steps = []Step{
	StepProgramType,
	StepBasicAcademic,
	StepCareerGoals,
	StepVisaHistory,
	StepLanguagesTests,
	StepExperienceActivities,
	StepBudgetPreferences,
}

// Steps returns the form steps in order.
func Steps() []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

// First returns the step the form starts on.
func First() Step { return steps[0] }

// ParseStep returns the step named s.
func ParseStep(s string) (Step, bool) {
	for _, st := range steps {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Index returns the position of s in the sequence, or -1.
func (s Step) Index() int {
	for i, st := range steps {
		if st == s {
			return i
		}
	}
	return -1
}

// Next returns the step after s. ok is false on the last step.
func (s Step) Next() (next Step, ok bool) {
	i := s.Index()
	if i < 0 || i == len(steps)-1 {
		return "", false
	}
	return steps[i+1], true
}

// Prev returns the step before s. ok is false on the first step.
func (s Step) Prev() (prev Step, ok bool) {
	i := s.Index()
	if i <= 0 {
		return "", false
	}
	return steps[i-1], true
}

// IsLast reports whether s is the final step, the one that submits the form.
func (s Step) IsLast() bool {
	return s.Index() == len(steps)-1
}

// FieldError describes one failed rule. Field is the JSON path of the value,
// e.g. "visa_history.rejections[0].rejection_date".
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

func (e FieldError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: failed %s=%s", e.Field, e.Tag, e.Param)
	}
	return fmt.Sprintf("%s: failed %s", e.Field, e.Tag)
}

// ValidationError is returned when a step rejects the profile.
type ValidationError struct {
	Step   Step
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Error()
	}
	return fmt.Sprintf("step %s: %s", e.Step, strings.Join(parts, "; "))
}

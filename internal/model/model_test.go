package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"abc", 0},
		{"3.8", 3.8},
		{" 3.8 ", 3.8},
		{"60000", 60000},
		{"$60,000", 60000},
		{"1450abc", 1450},
		{".5", 0.5},
		{"7.0", 7},
		{"1.2.3", 1.2},
		{"-", 0},
		{"-12", -12},
		{"3.", 3},
	}
	for _, tt := range tests {
		if got := ParseNumber(tt.in); got != tt.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	for _, s := range []string{"1", "$ 60,000", "3.8"} {
		if !IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "  ", "abc", "$"} {
		if IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = true, want false", s)
		}
	}
}

func TestProfileAccessors(t *testing.T) {
	p := Profile{
		ProgramType: ProgramMaster,
		AcademicHistory: AcademicHistory{
			Bachelor: BachelorRecord{GPA: "3.4"},
		},
		WorkExperience: []WorkExperience{{Title: ""}, {Title: "Engineer"}},
		Achievements:   []Achievement{{Title: "A"}, {Title: " "}, {Title: "B"}},
		SportsDetailed: []SportActivity{{Sport: ""}, {Sport: "Tennis", Level: "national"}},
		Languages:      []Language{{Language: "English"}},
	}

	if got := p.GPAValue(); got != 3.4 {
		t.Errorf("GPAValue() = %v, want 3.4 (bachelor fallback)", got)
	}
	if got := p.DegreeLevel(); got != "master" {
		t.Errorf("DegreeLevel() = %q, want master", got)
	}
	if !p.HasWorkExperience() {
		t.Error("HasWorkExperience() = false, want true")
	}
	if got := p.TitledAchievements(); got != 2 {
		t.Errorf("TitledAchievements() = %d, want 2", got)
	}
	sport, ok := p.TopSport()
	if !ok || sport.Sport != "Tennis" {
		t.Errorf("TopSport() = %+v, %v; want Tennis", sport, ok)
	}
	if p.HasArts() {
		t.Error("HasArts() = true, want false")
	}
	if !p.SharesLanguage([]string{"english (british)"}) {
		t.Error("SharesLanguage() = false, want true")
	}
	if p.SharesLanguage([]string{"German"}) {
		t.Error("SharesLanguage(German) = true, want false")
	}
}

func TestMatchSetJSON(t *testing.T) {
	data, err := json.Marshal(MatchSet{ProgramType: ProgramHighSchool})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, `"high_schools":[]`) {
		t.Errorf("empty high-school set = %s, want high_schools:[]", got)
	}
	if strings.Contains(got, "universities") {
		t.Errorf("high-school set leaked universities key: %s", got)
	}

	var back MatchSet
	if err := json.Unmarshal([]byte(`{"program_type":"bachelor","universities":[{"university":{"id":"1"}}]}`), &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.ProgramType != ProgramBachelor || back.Len() != 1 {
		t.Errorf("Unmarshal = %+v, want one bachelor match", back)
	}
}

func TestMatchSetTopNames(t *testing.T) {
	set := MatchSet{
		ProgramType: ProgramLanguageSchool,
		LanguageSchools: []LanguageSchoolMatch{
			{School: LanguageSchool{Name: "Valletta English"}},
			{School: LanguageSchool{Name: "Dublin Language Centre"}},
		},
		Universities: []UniversityMatch{{University: UniversitySummary{Name: "ignored"}}},
	}
	if got := set.TopNames(3); strings.Join(got, ",") != "Valletta English,Dublin Language Centre" {
		t.Errorf("TopNames(3) = %v", got)
	}
	if got := set.TopNames(1); len(got) != 1 || got[0] != "Valletta English" {
		t.Errorf("TopNames(1) = %v", got)
	}
	if got := (MatchSet{ProgramType: ProgramMaster}).TopNames(3); got == nil || len(got) != 0 {
		t.Errorf("empty TopNames = %#v, want []", got)
	}
}

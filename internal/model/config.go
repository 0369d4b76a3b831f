package model

import "context"

// MatchConfig holds runtime matching parameters set via CLI flags.
type MatchConfig struct {
	LanguageCourseWeeks int    // projected course length for language schools
	MaxResults          int    // 0 means no limit
	BasePath            string // URL prefix for sub-path deployments (e.g. "/tr")
}

// CatalogImport is the file format accepted by the import command. Every
// section is optional.
type CatalogImport struct {
	HighSchools            []HighSchool            `json:"high_schools"`
	HighSchoolAdmissions   []HighSchoolAdmissions  `json:"high_school_admissions"`
	HighSchoolScholarships []HighSchoolScholarship `json:"high_school_scholarships"`
	LanguageSchools        []LanguageSchool        `json:"language_schools"`
	Universities           []DirectoryUniversity   `json:"universities"`
}

// Len returns the total number of records in the import.
func (c CatalogImport) Len() int {
	return len(c.HighSchools) + len(c.HighSchoolAdmissions) + len(c.HighSchoolScholarships) +
		len(c.LanguageSchools) + len(c.Universities)
}

type basePathCtxKey struct{}

// ContextWithBasePath stores the base path prefix in context.
func ContextWithBasePath(ctx context.Context, basePath string) context.Context {
	return context.WithValue(ctx, basePathCtxKey{}, basePath)
}

// BasePathFromContext retrieves the base path from context (empty string if not set).
func BasePathFromContext(ctx context.Context) string {
	bp, _ := ctx.Value(basePathCtxKey{}).(string)
	return bp
}

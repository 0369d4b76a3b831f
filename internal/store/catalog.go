package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pavelanni/schoolmatch/internal/model"
)

const highSchoolColumns = `id, name, country, city, type, curriculum, languages, tuition_annual_usd,
	boarding_available, boarding_cost_annual_usd, student_capacity, international_student_percentage,
	age_range_min, age_range_max, application_deadline, website, email, ranking_national,
	accreditations, special_programs, scholarship_available, accepts_foreign_students`

// ListHighSchools returns the schools that accept foreign students, ordered by name.
func (s *Store) ListHighSchools(ctx context.Context) ([]model.HighSchool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+highSchoolColumns+` FROM high_schools WHERE accepts_foreign_students = 1 ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var schools []model.HighSchool
	for rows.Next() {
		var (
			h                                                     model.HighSchool
			curriculum, languages, accreditations, specialProgram string
		)
		if err := rows.Scan(&h.ID, &h.Name, &h.Country, &h.City, &h.Type, &curriculum, &languages, &h.TuitionAnnualUSD,
			&h.BoardingAvailable, &h.BoardingCostAnnualUSD, &h.StudentCapacity, &h.InternationalStudentPercentage,
			&h.AgeRangeMin, &h.AgeRangeMax, &h.ApplicationDeadline, &h.Website, &h.Email, &h.RankingNational,
			&accreditations, &specialProgram, &h.ScholarshipAvailable, &h.AcceptsForeignStudents); err != nil {
			return nil, err
		}
		for _, c := range []struct {
			name string
			raw  string
			dst  *[]string
		}{
			{"curriculum", curriculum, &h.Curriculum},
			{"languages", languages, &h.Languages},
			{"accreditations", accreditations, &h.Accreditations},
			{"special_programs", specialProgram, &h.SpecialPrograms},
		} {
			if err := decodeJSON(c.name, c.raw, c.dst); err != nil {
				return nil, fmt.Errorf("high school %s: %w", h.ID, err)
			}
		}
		schools = append(schools, h)
	}
	return schools, rows.Err()
}

// ListHighSchoolAdmissions returns every admissions record.
func (s *Store) ListHighSchoolAdmissions(ctx context.Context) ([]model.HighSchoolAdmissions, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT school_id, academic_requirements, language_requirements, required_documents,
		 interview_required, entrance_exam_required, acceptance_rate
		 FROM high_school_admissions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.HighSchoolAdmissions
	for rows.Next() {
		var (
			a                       model.HighSchoolAdmissions
			academic, language, doc string
		)
		if err := rows.Scan(&a.SchoolID, &academic, &language, &doc,
			&a.InterviewRequired, &a.EntranceExamRequired, &a.AcceptanceRate); err != nil {
			return nil, err
		}
		if err := decodeJSON("academic_requirements", academic, &a.AcademicRequirements); err != nil {
			return nil, err
		}
		if err := decodeJSON("language_requirements", language, &a.LanguageRequirements); err != nil {
			return nil, err
		}
		if err := decodeJSON("required_documents", doc, &a.RequiredDocuments); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListHighSchoolScholarships returns every high-school scholarship.
func (s *Store) ListHighSchoolScholarships(ctx context.Context) ([]model.HighSchoolScholarship, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT school_id, name, type, amount_usd, coverage_percentage, requirements, deadline, renewable
		 FROM high_school_scholarships ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.HighSchoolScholarship
	for rows.Next() {
		var (
			sc           model.HighSchoolScholarship
			amount       sql.NullFloat64
			requirements string
		)
		if err := rows.Scan(&sc.SchoolID, &sc.Name, &sc.Type, &amount, &sc.CoveragePercentage,
			&requirements, &sc.Deadline, &sc.Renewable); err != nil {
			return nil, err
		}
		if amount.Valid {
			sc.AmountUSD = &amount.Float64
		}
		if err := decodeJSON("requirements", requirements, &sc.Requirements); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// ListLanguageSchools returns every language school ordered by name.
func (s *Store) ListLanguageSchools(ctx context.Context) ([]model.LanguageSchool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, country, city, languages, weekly_cost, accommodation_weekly, class_size_max, rating,
		 min_weeks, hours_per_week, visa_difficulty_score, accreditations, facilities, website
		 FROM language_schools ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.LanguageSchool
	for rows.Next() {
		var (
			l                                     model.LanguageSchool
			languages, accreditations, facilities string
		)
		if err := rows.Scan(&l.ID, &l.Name, &l.Country, &l.City, &languages, &l.WeeklyCost, &l.AccommodationWeekly,
			&l.ClassSizeMax, &l.Rating, &l.MinWeeks, &l.HoursPerWeek, &l.VisaDifficultyScore,
			&accreditations, &facilities, &l.Website); err != nil {
			return nil, err
		}
		if err := decodeJSON("languages", languages, &l.Languages); err != nil {
			return nil, err
		}
		if err := decodeJSON("accreditations", accreditations, &l.Accreditations); err != nil {
			return nil, err
		}
		if err := decodeJSON("facilities", facilities, &l.Facilities); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ImportCatalog writes every record of the import in one transaction. Schools
// are upserted by id and admissions by school. The scholarships of a school
// present in the import replace the ones already stored.
func (s *Store) ImportCatalog(ctx context.Context, c model.CatalogImport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, h := range c.HighSchools {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO high_schools (`+highSchoolColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET name = excluded.name, country = excluded.country, city = excluded.city,
			 type = excluded.type, curriculum = excluded.curriculum, languages = excluded.languages,
			 tuition_annual_usd = excluded.tuition_annual_usd, boarding_available = excluded.boarding_available,
			 boarding_cost_annual_usd = excluded.boarding_cost_annual_usd, student_capacity = excluded.student_capacity,
			 international_student_percentage = excluded.international_student_percentage,
			 age_range_min = excluded.age_range_min, age_range_max = excluded.age_range_max,
			 application_deadline = excluded.application_deadline, website = excluded.website, email = excluded.email,
			 ranking_national = excluded.ranking_national, accreditations = excluded.accreditations,
			 special_programs = excluded.special_programs, scholarship_available = excluded.scholarship_available,
			 accepts_foreign_students = excluded.accepts_foreign_students`,
			h.ID, h.Name, h.Country, h.City, h.Type, encodeJSON(h.Curriculum), encodeJSON(h.Languages), h.TuitionAnnualUSD,
			h.BoardingAvailable, h.BoardingCostAnnualUSD, h.StudentCapacity, h.InternationalStudentPercentage,
			h.AgeRangeMin, h.AgeRangeMax, h.ApplicationDeadline, h.Website, h.Email, h.RankingNational,
			encodeJSON(h.Accreditations), encodeJSON(h.SpecialPrograms), h.ScholarshipAvailable, h.AcceptsForeignStudents,
		); err != nil {
			return fmt.Errorf("high school %s: %w", h.ID, err)
		}
	}

	for _, a := range c.HighSchoolAdmissions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO high_school_admissions (school_id, academic_requirements, language_requirements,
			 required_documents, interview_required, entrance_exam_required, acceptance_rate)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(school_id) DO UPDATE SET academic_requirements = excluded.academic_requirements,
			 language_requirements = excluded.language_requirements, required_documents = excluded.required_documents,
			 interview_required = excluded.interview_required, entrance_exam_required = excluded.entrance_exam_required,
			 acceptance_rate = excluded.acceptance_rate`,
			a.SchoolID, jsonText(a.AcademicRequirements), jsonText(a.LanguageRequirements), encodeJSON(a.RequiredDocuments),
			a.InterviewRequired, a.EntranceExamRequired, a.AcceptanceRate,
		); err != nil {
			return fmt.Errorf("admissions for %s: %w", a.SchoolID, err)
		}
	}

	replaced := map[string]bool{}
	for _, sc := range c.HighSchoolScholarships {
		if !replaced[sc.SchoolID] {
			if _, err := tx.ExecContext(ctx, `DELETE FROM high_school_scholarships WHERE school_id = ?`, sc.SchoolID); err != nil {
				return fmt.Errorf("clear scholarships for %s: %w", sc.SchoolID, err)
			}
			replaced[sc.SchoolID] = true
		}
		var amount sql.NullFloat64
		if sc.AmountUSD != nil {
			amount = sql.NullFloat64{Float64: *sc.AmountUSD, Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO high_school_scholarships (school_id, name, type, amount_usd, coverage_percentage,
			 requirements, deadline, renewable) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			sc.SchoolID, sc.Name, sc.Type, amount, sc.CoveragePercentage,
			encodeJSON(sc.Requirements), sc.Deadline, sc.Renewable,
		); err != nil {
			return fmt.Errorf("scholarship %q: %w", sc.Name, err)
		}
	}

	for _, l := range c.LanguageSchools {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO language_schools (id, name, country, city, languages, weekly_cost, accommodation_weekly,
			 class_size_max, rating, min_weeks, hours_per_week, visa_difficulty_score, accreditations, facilities, website)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET name = excluded.name, country = excluded.country, city = excluded.city,
			 languages = excluded.languages, weekly_cost = excluded.weekly_cost,
			 accommodation_weekly = excluded.accommodation_weekly, class_size_max = excluded.class_size_max,
			 rating = excluded.rating, min_weeks = excluded.min_weeks, hours_per_week = excluded.hours_per_week,
			 visa_difficulty_score = excluded.visa_difficulty_score, accreditations = excluded.accreditations,
			 facilities = excluded.facilities, website = excluded.website`,
			l.ID, l.Name, l.Country, l.City, encodeJSON(l.Languages), l.WeeklyCost, l.AccommodationWeekly,
			l.ClassSizeMax, l.Rating, l.MinWeeks, l.HoursPerWeek, l.VisaDifficultyScore,
			encodeJSON(l.Accreditations), encodeJSON(l.Facilities), l.Website,
		); err != nil {
			return fmt.Errorf("language school %s: %w", l.ID, err)
		}
	}

	for _, u := range c.Universities {
		if err := upsertDirectoryUniversity(ctx, tx, u); err != nil {
			return fmt.Errorf("university %q: %w", u.Name, err)
		}
	}

	return tx.Commit()
}

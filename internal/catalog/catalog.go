// Package catalog serves the read-only university and professor catalog. The
// default data set is embedded; files on disk can replace either half.
package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/pavelanni/schoolmatch/internal/model"
)

//go:embed data/*.json
var dataFS embed.FS

// Catalog is safe for concurrent use; it is never modified after construction.
type Catalog struct {
	universities []model.University
	professors   []model.Professor
}

// New builds a catalog from in-memory records.
func New(universities []model.University, professors []model.Professor) *Catalog {
	return &Catalog{
		universities: slices.Clone(universities),
		professors:   slices.Clone(professors),
	}
}

// Load reads the catalog. An empty path selects the embedded data for that half.
func Load(universityPath, professorPath string) (*Catalog, error) {
	var c Catalog
	if err := readJSON(universityPath, "data/universities.json", &c.universities); err != nil {
		return nil, fmt.Errorf("load universities: %w", err)
	}
	if err := readJSON(professorPath, "data/professors.json", &c.professors); err != nil {
		return nil, fmt.Errorf("load professors: %w", err)
	}
	slog.Info("loaded catalog", "universities", len(c.universities), "professors", len(c.professors))
	return &c, nil
}

func readJSON(path, embedded string, v any) error {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = dataFS.ReadFile(embedded)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", firstNonEmpty(path, embedded), err)
	}
	return nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// ListUniversities returns every university in catalog order.
func (c *Catalog) ListUniversities(_ context.Context) ([]model.University, error) {
	return slices.Clone(c.universities), nil
}

// University returns the university with the given ID.
func (c *Catalog) University(id string) (model.University, bool) {
	for _, u := range c.universities {
		if u.ID == id {
			return u, true
		}
	}
	return model.University{}, false
}

// ResearchOverlap reports whether any research area and any interest contain
// one another, ignoring case.
func ResearchOverlap(areas, interests []string) bool {
	for _, a := range areas {
		area := strings.ToLower(strings.TrimSpace(a))
		if area == "" {
			continue
		}
		for _, i := range interests {
			interest := strings.ToLower(strings.TrimSpace(i))
			if interest == "" {
				continue
			}
			if strings.Contains(area, interest) || strings.Contains(interest, area) {
				return true
			}
		}
	}
	return false
}

// FindProfessorsByResearchInterests returns professors whose research areas
// overlap the interests, highest h-index first.
func (c *Catalog) FindProfessorsByResearchInterests(interests []string) []model.Professor {
	var out []model.Professor
	for _, p := range c.professors {
		if ResearchOverlap(p.ResearchAreas, interests) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].HIndex > out[j].HIndex })
	return out
}

// ProfessorsByUniversity returns the professors listed for a university ID.
func (c *Catalog) ProfessorsByUniversity(universityID string) []model.Professor {
	var out []model.Professor
	for _, p := range c.professors {
		if p.UniversityID != "" && p.UniversityID == universityID {
			out = append(out, p)
		}
	}
	return out
}

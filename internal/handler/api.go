package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	appI18n "github.com/pavelanni/schoolmatch/internal/i18n"
	"github.com/pavelanni/schoolmatch/internal/model"
	"github.com/pavelanni/schoolmatch/internal/store"
	"github.com/pavelanni/schoolmatch/internal/wizard"
)

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

type stepJSON struct {
	ID    wizard.Step `json:"id"`
	Index int         `json:"index"`
	Title string      `json:"title"`
}

func (h *Handler) handleListSteps(w http.ResponseWriter, r *http.Request) {
	steps := wizard.Steps()
	out := make([]stepJSON, len(steps))
	for i, s := range steps {
		out[i] = stepJSON{ID: s, Index: i, Title: appI18n.T(r.Context(), "Step_"+string(s))}
	}
	writeJSON(w, http.StatusOK, out)
}

type stepResult struct {
	Valid  bool             `json:"valid"`
	Errors []fieldErrorJSON `json:"errors"`
	Next   wizard.Step      `json:"next,omitempty"`
}

func (h *Handler) handleValidateStep(w http.ResponseWriter, r *http.Request) {
	step, ok := wizard.ParseStep(chi.URLParam(r, "step"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error: appI18n.Td(r.Context(), "UnknownStep", map[string]any{"Step": chi.URLParam(r, "step")}),
		})
		return
	}
	p, ok := decodeProfile(w, r)
	if !ok {
		return
	}

	res := stepResult{Errors: h.localizeFieldErrors(r, h.validator.Validate(step, p))}
	res.Valid = len(res.Errors) == 0
	if res.Valid {
		res.Next, _ = step.Next()
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) localizeFieldErrors(r *http.Request, errs []wizard.FieldError) []fieldErrorJSON {
	out := make([]fieldErrorJSON, 0, len(errs))
	for _, e := range errs {
		data := map[string]any{"Field": e.Field, "Param": e.Param}
		id := "Validation_" + e.Tag
		msg := appI18n.Td(r.Context(), id, data)
		if msg == id {
			msg = appI18n.Td(r.Context(), "Validation_invalid", data)
		}
		out = append(out, fieldErrorJSON{FieldError: e, Message: msg})
	}
	return out
}

// validateProfile runs every wizard step. On failure it writes a 422 with the
// first failing step and returns false.
func (h *Handler) validateProfile(w http.ResponseWriter, r *http.Request, p model.Profile) bool {
	err := h.validator.ValidateAll(p)
	if err == nil {
		return true
	}
	var verr *wizard.ValidationError
	if !errors.As(err, &verr) {
		slog.Error("profile validation", "error", err)
		writeError(w, r, http.StatusInternalServerError, "InternalError")
		return false
	}
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
		Error:  appI18n.T(r.Context(), "ValidationFailed"),
		Step:   verr.Step,
		Fields: h.localizeFieldErrors(r, verr.Fields),
	})
	return false
}

type matchResponse struct {
	ID      string         `json:"id,omitempty"`
	Count   int            `json:"count"`
	Message string         `json:"message"`
	Matches model.MatchSet `json:"match_set"`
}

func (h *Handler) buildMatchResponse(r *http.Request, set model.MatchSet) matchResponse {
	msg := appI18n.T(r.Context(), "NoMatches")
	if n := set.Len(); n > 0 {
		msg = appI18n.Tp(r.Context(), "MatchesFound", n)
	}
	return matchResponse{Count: set.Len(), Message: msg, Matches: set}
}

func (h *Handler) handleMatch(w http.ResponseWriter, r *http.Request) {
	p, ok := decodeProfile(w, r)
	if !ok || !h.validateProfile(w, r, p) {
		return
	}
	set := h.engine.Match(r.Context(), p)
	writeJSON(w, http.StatusOK, h.buildMatchResponse(r, set))
}

func (h *Handler) handleSubmitProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := decodeProfile(w, r)
	if !ok || !h.validateProfile(w, r, p) {
		return
	}
	set := h.engine.Match(r.Context(), p)
	sub, err := h.store.SaveSubmission(r.Context(), model.Submission{Profile: p, Matches: set})
	if err != nil {
		slog.Error("failed to save submission", "error", err)
		writeError(w, r, http.StatusInternalServerError, "InternalError")
		return
	}
	resp := h.buildMatchResponse(r, set)
	resp.ID = sub.ID
	resp.Message = appI18n.T(r.Context(), "SubmissionSaved")
	w.Header().Set("Location", model.BasePathFromContext(r.Context())+"/api/profiles/"+sub.ID)
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	sub, err := h.store.GetSubmission(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "SubmissionNotFound")
		return
	}
	if err != nil {
		slog.Error("failed to load submission", "error", err)
		writeError(w, r, http.StatusInternalServerError, "InternalError")
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *Handler) handleListUniversities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	unis, err := h.store.ListDirectory(r.Context(), model.DirectoryFilter{
		Search:    q.Get("q"),
		State:     q.Get("state"),
		Ownership: q.Get("ownership"),
	})
	if err != nil {
		slog.Error("failed to list universities", "error", err)
		writeError(w, r, http.StatusInternalServerError, "InternalError")
		return
	}
	writeJSON(w, http.StatusOK, unis)
}

func (h *Handler) handleListProfessors(w http.ResponseWriter, r *http.Request) {
	profs := h.catalog.FindProfessorsByResearchInterests(r.URL.Query()["interest"])
	if profs == nil {
		profs = []model.Professor{}
	}
	writeJSON(w, http.StatusOK, profs)
}

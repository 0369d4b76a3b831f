package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	loc := NewLocalizer(lang)
	return WithLocalizer(context.Background(), loc)
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "AppTitle")
	if got != "School Match" {
		t.Errorf("T(AppTitle) = %q, want 'School Match'", got)
	}

	got = T(ctx, "Step_visa_history")
	if got != "Visa History" {
		t.Errorf("T(Step_visa_history) = %q, want 'Visa History'", got)
	}
}

func TestTranslateTurkish(t *testing.T) {
	ctx := initLang(t, "tr")

	got := T(ctx, "Step_visa_history")
	if got != "Vize Geçmişi" {
		t.Errorf("T(Step_visa_history) = %q, want 'Vize Geçmişi'", got)
	}

	got = T(ctx, "Step_budget_preferences")
	if got != "Bütçe & Tercihler" {
		t.Errorf("T(Step_budget_preferences) = %q, want 'Bütçe & Tercihler'", got)
	}
}

func TestPluralTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got1 := Tp(ctx, "MatchesFound", 1)
	if got1 != "1 school matched your profile." {
		t.Errorf("Tp(MatchesFound, 1) = %q", got1)
	}

	got5 := Tp(ctx, "MatchesFound", 5)
	if got5 != "5 schools matched your profile." {
		t.Errorf("Tp(MatchesFound, 5) = %q", got5)
	}
}

func TestTemplateDataTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got := Td(ctx, "Validation_oneof", map[string]any{"Field": "gender", "Param": "male female"})
	if got != "gender must be one of: male female." {
		t.Errorf("Td(Validation_oneof) = %q", got)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "NonExistentKey")
	if got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want 'NonExistentKey'", got)
	}
}

func TestNegotiate(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	tests := []struct {
		header string
		want   string
	}{
		{"tr-TR,tr;q=0.9,en;q=0.8", "tr"},
		{"en-GB", "en"},
		{"de-DE", "en"},
		{"", "en"},
		{"not a header;;;", "en"},
	}
	for _, tt := range tests {
		if got := Negotiate(tt.header); got != tt.want {
			t.Errorf("Negotiate(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestMiddleware(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	h := Middleware("en")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(T(r.Context(), "Step_program_type")))
	}))

	tests := []struct {
		accept   string
		wantBody string
		wantLang string
	}{
		{"", "Program Type", "en"},
		{"tr", "Program Tipi", "tr"},
		{"fr-FR,fr;q=0.9", "Program Type", "en"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.accept != "" {
			req.Header.Set("Accept-Language", tt.accept)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Body.String() != tt.wantBody {
			t.Errorf("Accept-Language %q: body %q, want %q", tt.accept, w.Body.String(), tt.wantBody)
		}
		if got := w.Header().Get("Content-Language"); got != tt.wantLang {
			t.Errorf("Accept-Language %q: Content-Language %q, want %q", tt.accept, got, tt.wantLang)
		}
	}
}

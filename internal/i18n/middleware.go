package i18n

import "net/http"

// Middleware negotiates the request language from Accept-Language and injects
// the matching localizer into the request context. Requests without the
// header get lang.
func Middleware(lang string) func(http.Handler) http.Handler {
	fallback := NewLocalizer(lang)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			loc, chosen := fallback, lang
			if accept := r.Header.Get("Accept-Language"); accept != "" {
				chosen = Negotiate(accept)
				loc = NewLocalizer(chosen)
			}
			w.Header().Set("Content-Language", chosen)
			ctx := WithLocalizer(r.Context(), loc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

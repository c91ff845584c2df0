package i18n

import "net/http"

// Middleware negotiates the response language and stores it in the request
// context for GetLocale. An explicit "lang" query parameter naming a loaded
// language wins over the Accept-Language header.
//
//	r := chi.NewRouter()
//	r.Use(i18n.Middleware(catalog))
//	...
//	errs = catalog.Translate(i18n.GetLocale(r.Context()), errs)
func Middleware(c *Catalog) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := r.URL.Query().Get("lang")
			if lang == "" || !c.HasLanguage(lang) {
				lang = c.Match(r.Header.Get("Accept-Language"))
			} else {
				lang = c.canonical(lang)
			}
			next.ServeHTTP(w, r.WithContext(SetLocale(r.Context(), lang)))
		})
	}
}

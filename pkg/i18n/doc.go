// Package i18n renders validation messages in the caller's language.
//
// A Catalog holds message templates keyed by language and by the
// TranslationKey carried on every validator.ValidationError, for example
// "validation.length_range" or "validation.custom.uuid". Templates use
// %{name} placeholders filled from the error's TranslationValues:
//
//	en:
//	  validation:
//	    length_range: "%{field} length must be between %{min} and %{max}"
//
// English and Chinese catalogs are embedded; WithYAML adds languages or
// overrides keys.
//
//	catalog := i18n.MustNewCatalog()
//	lang := catalog.Match(r.Header.Get("Accept-Language"))
//	errs = catalog.Translate(lang, errs)
//
// Keys without a translation keep the engine's English message.
package i18n

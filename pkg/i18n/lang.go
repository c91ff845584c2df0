package i18n

import "golang.org/x/text/language"

// DefaultLanguage is the language used when no language is detected.
const DefaultLanguage = "en"

// maxAcceptLanguageLength caps the header before parsing. RFC 7231 sets no
// limit; 4KB covers any legitimate header.
const maxAcceptLanguageLength = 4096

// Match negotiates the best loaded language for an Accept-Language header
// ("zh-CN,zh;q=0.9,en;q=0.8") or a single tag ("zh-CN"). Quality values are
// honored and regional variants match their base language. Without a match
// the fallback language is returned.
func (c *Catalog) Match(acceptLanguage string) string {
	if acceptLanguage == "" {
		return c.fallback
	}
	if len(acceptLanguage) > maxAcceptLanguageLength {
		acceptLanguage = acceptLanguage[:maxAcceptLanguageLength]
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.fallback
	}
	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No {
		return c.fallback
	}
	return c.langs[idx]
}

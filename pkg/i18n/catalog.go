package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"regexp"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/paramguard/pkg/validator"
)

//go:embed locales/*.yaml
var locales embed.FS

// Catalog renders validation messages in the languages it was loaded with.
// It is immutable after NewCatalog and safe for concurrent use.
type Catalog struct {
	messages   map[string]map[string]any
	fallback   string
	langs      []string
	matcher    language.Matcher
	log        *slog.Logger
	logMissing bool
}

// Option configures NewCatalog.
type Option func(*options)

type options struct {
	sources    [][]byte
	fallback   string
	log        *slog.Logger
	logMissing bool
}

// WithYAML adds messages on top of the built-in en and zh catalogs. The
// document is keyed by language, then by dot-separated message key:
//
//	de:
//	  validation:
//	    not_null: "%{field} darf nicht leer sein"
func WithYAML(data []byte) Option {
	return func(o *options) {
		o.sources = append(o.sources, data)
	}
}

// WithFallback sets the language used when negotiation finds no match.
// Defaults to DefaultLanguage.
func WithFallback(lang string) Option {
	return func(o *options) {
		if lang != "" {
			o.fallback = lang
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithMissingTranslationsLogging logs a warning for every message key that
// has no translation. Off by default.
func WithMissingTranslationsLogging(enabled bool) Option {
	return func(o *options) {
		o.logMissing = enabled
	}
}

// NewCatalog loads the embedded catalogs and any WithYAML documents, later
// documents overriding earlier keys.
func NewCatalog(opts ...Option) (*Catalog, error) {
	o := &options{
		fallback: DefaultLanguage,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}

	messages := make(map[string]map[string]any)
	entries, err := fs.ReadDir(locales, "locales")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	for _, e := range entries {
		data, err := locales.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
		}
		if err := mergeYAML(messages, data); err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
	}
	for _, data := range o.sources {
		if err := mergeYAML(messages, data); err != nil {
			return nil, err
		}
	}

	if _, ok := messages[o.fallback]; !ok {
		return nil, fmt.Errorf("%w: fallback %q has no messages", ErrUnsupportedLanguage, o.fallback)
	}

	// The matcher returns its first tag when nothing matches, so the fallback
	// goes first.
	langs := make([]string, 0, len(messages))
	for lang := range messages {
		if lang != o.fallback {
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)
	langs = append([]string{o.fallback}, langs...)

	tags := make([]language.Tag, len(langs))
	for i, lang := range langs {
		tag, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a language tag", ErrInvalidCatalog, lang)
		}
		tags[i] = tag
	}

	o.log.Debug("message catalog loaded", slog.Any("languages", langs))
	return &Catalog{
		messages:   messages,
		fallback:   o.fallback,
		langs:      langs,
		matcher:    language.NewMatcher(tags),
		log:        o.log,
		logMissing: o.logMissing,
	}, nil
}

// MustNewCatalog is NewCatalog that panics on error.
func MustNewCatalog(opts ...Option) *Catalog {
	c, err := NewCatalog(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Languages returns the loaded language codes, sorted.
func (c *Catalog) Languages() []string {
	langs := slices.Clone(c.langs)
	sort.Strings(langs)
	return langs
}

func (c *Catalog) Fallback() string { return c.fallback }

// HasLanguage reports whether lang was loaded, ignoring case.
func (c *Catalog) HasLanguage(lang string) bool {
	_, ok := c.messages[c.canonical(lang)]
	return ok
}

// Message renders the message stored under key for lang, substituting
// %{name} placeholders from values.
func (c *Catalog) Message(lang, key string, values map[string]any) (string, bool) {
	tmpl, ok := lookup(c.messages[c.canonical(lang)], key)
	if !ok {
		if c.logMissing {
			c.log.Warn("translation not found", slog.String("lang", lang), slog.String("key", key))
		}
		return "", false
	}
	return render(tmpl, values), true
}

// Translate returns a copy of errs with each message rendered in lang.
// Errors whose key has no translation keep their original message.
func (c *Catalog) Translate(lang string, errs validator.ValidationErrors) validator.ValidationErrors {
	if errs == nil {
		return nil
	}
	out := make(validator.ValidationErrors, len(errs))
	for i, e := range errs {
		if msg, ok := c.Message(lang, e.TranslationKey, e.TranslationValues); ok {
			e.Message = msg
		}
		out[i] = e
	}
	return out
}

// TranslateError translates the validation errors carried by err. Any other
// error is returned unchanged.
func (c *Catalog) TranslateError(lang string, err error) error {
	errs := validator.ExtractValidationErrors(err)
	if errs == nil {
		return err
	}
	return c.Translate(lang, errs)
}

func (c *Catalog) canonical(lang string) string {
	if _, ok := c.messages[lang]; ok {
		return lang
	}
	for _, l := range c.langs {
		if strings.EqualFold(l, lang) {
			return l
		}
	}
	return lang
}

func mergeYAML(dst map[string]map[string]any, data []byte) error {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.Join(ErrFailedToParseYAML, err)
	}
	if len(doc) == 0 {
		return fmt.Errorf("%w: no languages found", ErrInvalidCatalog)
	}
	for lang, v := range doc {
		m, ok := v.(map[string]any)
		if !ok || lang == "" {
			return fmt.Errorf("%w: language %q: expected a map, got %T", ErrInvalidCatalog, lang, v)
		}
		if dst[lang] == nil {
			dst[lang] = make(map[string]any)
		}
		mergeMaps(dst[lang], m)
	}
	return nil
}

func mergeMaps(dst, src map[string]any) {
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				mergeMaps(existing, sub)
				continue
			}
			copied := make(map[string]any, len(sub))
			mergeMaps(copied, sub)
			dst[k] = copied
			continue
		}
		dst[k] = v
	}
}

// lookup walks m along the dot-separated key, e.g. "validation.custom.uuid".
func lookup(m map[string]any, key string) (string, bool) {
	if m == nil || key == "" {
		return "", false
	}
	current := m
	parts := strings.Split(key, ".")
	for i, part := range parts {
		v, ok := current[part]
		if !ok {
			return "", false
		}
		if i == len(parts)-1 {
			s, ok := v.(string)
			return s, ok
		}
		if current, ok = v.(map[string]any); !ok {
			return "", false
		}
	}
	return "", false
}

var paramRegex = regexp.MustCompile(`%\{([^}]+)\}`)

// render replaces %{name} placeholders. Unknown placeholders are kept.
func render(tmpl string, values map[string]any) string {
	return paramRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		if v, ok := values[match[2:len(match)-1]]; ok {
			return fmt.Sprint(v)
		}
		return match
	})
}

package i18n

import "errors"

var (
	ErrFailedToParseYAML   = errors.New("failed to parse YAML content")
	ErrInvalidCatalog      = errors.New("invalid message catalog")
	ErrUnsupportedLanguage = errors.New("language not supported")
)

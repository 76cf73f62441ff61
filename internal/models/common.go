package models

import (
	"encoding/json"

	apperrors "github.com/warin-dev/sis-api/pkg/errors"
)

// FetchLevel controls how much of an entity a materialization exposes and
// which authorization check gates it.
type FetchLevel string

const (
	FetchIDOnly   FetchLevel = "id_only"
	FetchCompact  FetchLevel = "compact"
	FetchDefault  FetchLevel = "default"
	FetchDetailed FetchLevel = "detailed"
)

// ParseFetchLevel converts a request parameter into a FetchLevel. An empty
// value means the parameter was omitted and defaults to IdOnly.
func ParseFetchLevel(raw string) (FetchLevel, error) {
	switch FetchLevel(raw) {
	case "":
		return FetchIDOnly, nil
	case FetchIDOnly, FetchCompact, FetchDefault, FetchDetailed:
		return FetchLevel(raw), nil
	default:
		return "", apperrors.InvalidRequest("fetch level must be one of id_only, compact, default, detailed")
	}
}

// MultiLangString pairs the Thai and English renderings of a name. At least
// one side is populated; a value with both sides NULL collapses to nil at
// merge time instead.
type MultiLangString struct {
	TH *string `json:"th,omitempty"`
	EN *string `json:"en,omitempty"`
}

// MergeMultiLang combines a pair of nullable columns into one value,
// returning nil only when both are NULL.
func MergeMultiLang(th, en *string) *MultiLangString {
	if th == nil && en == nil {
		return nil
	}
	return &MultiLangString{TH: th, EN: en}
}

// marshalByLevel serializes whichever variant matches the model's level. The
// level tag itself is not exposed; the response shape is exactly the
// variant's shape.
func marshalByLevel(level FetchLevel, idOnly, compact, def, detailed interface{}) ([]byte, error) {
	switch level {
	case FetchCompact:
		return json.Marshal(compact)
	case FetchDefault:
		return json.Marshal(def)
	case FetchDetailed:
		return json.Marshal(detailed)
	default:
		return json.Marshal(idOnly)
	}
}

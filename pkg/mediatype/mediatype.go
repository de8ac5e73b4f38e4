// Package mediatype cracks media-type (MIME type) strings into their
// type, subtype, and parameters.
//
// A media type looks like:
//
//	text/plain; charset=utf-8
//
// Parameters are exposed as a [flatmap.Map], which is the intended
// consumer-facing use of that container: a small, read-heavy, sorted
// set of string pairs.
//
// Malformed input is a normal runtime condition here, not API misuse:
// [Parse] returns an error wrapping [ErrMalformed] instead of panicking.
package mediatype

import (
	"errors"
	"fmt"
	"strings"

	"github.com/calvinalkan/flatmap/pkg/flatmap"
)

// ErrMalformed indicates the input is not a valid media-type string.
//
// Callers should use [errors.Is] to check for it; the returned error
// carries the offending detail.
var ErrMalformed = errors.New("mediatype: malformed")

// Type is a parsed media type. The zero value is invalid.
type Type struct {
	content  string
	topLevel string
	subType  string
	params   *flatmap.Map[string, string]
}

// Parse cracks a media-type string.
//
// The string is split on ';'. The first segment is "type/subtype"; the
// remaining segments are "key=value" parameters. Whitespace around
// segments, keys, and values is ignored. A repeated parameter key keeps
// its first value.
//
// Partial forms are representable: "text" and "text/" crack to a type
// without a subtype, "/plain" to a subtype without a type. [Type.HasType]
// and [Type.HasSubType] report which components are present;
// [Type.IsValid] requires both. Only an entirely empty type segment is
// malformed.
func Parse(s string) (Type, error) {
	segments := strings.Split(s, ";")

	topLevel, subType, _ := strings.Cut(strings.TrimSpace(segments[0]), "/")

	topLevel = strings.TrimSpace(topLevel)
	subType = strings.TrimSpace(subType)

	if topLevel == "" && subType == "" {
		return Type{}, fmt.Errorf("%w: empty media type in %q", ErrMalformed, s)
	}

	params := flatmap.New[string, string]()

	for _, segment := range segments[1:] {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		key, value, ok := strings.Cut(segment, "=")
		if !ok {
			return Type{}, fmt.Errorf("%w: parameter %q has no '='", ErrMalformed, segment)
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if key == "" {
			return Type{}, fmt.Errorf("%w: parameter %q has an empty key", ErrMalformed, segment)
		}

		// First occurrence wins.
		params.InsertUnique(key, value)
	}

	params.Trim()

	return Type{
		content:  strings.TrimSpace(s),
		topLevel: topLevel,
		subType:  subType,
		params:   params,
	}, nil
}

// MustParse is Parse for compile-time-known inputs; it panics on error.
func MustParse(s string) Type {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return t
}

// IsValid reports whether the Type carries a full "type/subtype" form.
// Partial types (see [Parse]) are representable but not valid.
func (t Type) IsValid() bool {
	return t.topLevel != "" && t.subType != ""
}

// Empty reports whether nothing was assigned.
func (t Type) Empty() bool {
	return t.content == ""
}

// String returns the original (trimmed) media-type string.
func (t Type) String() string {
	return t.content
}

// HasType reports whether a top-level type is present.
func (t Type) HasType() bool {
	return t.topLevel != ""
}

// TopLevel returns the top-level media type (e.g. "text", "image").
func (t Type) TopLevel() string {
	return t.topLevel
}

// HasSubType reports whether a subtype is present.
func (t Type) HasSubType() bool {
	return t.subType != ""
}

// SubType returns the subtype (e.g. "plain", "png").
func (t Type) SubType() string {
	return t.subType
}

// TypeAndSubType returns "type/subtype" without parameters.
func (t Type) TypeAndSubType() string {
	if !t.IsValid() {
		return ""
	}

	return t.topLevel + "/" + t.subType
}

// HasParams reports whether any parameters were present.
func (t Type) HasParams() bool {
	return t.params != nil && t.params.Len() > 0
}

// Params returns the parameter map, or nil for an invalid Type.
//
// The map is owned by the Type; callers that want to mutate it should
// Clone it first.
func (t Type) Params() *flatmap.Map[string, string] {
	return t.params
}

// Param returns the value of a single parameter and whether it exists.
func (t Type) Param(key string) (string, bool) {
	if t.params == nil || !t.params.Contains(key) {
		return "", false
	}

	return t.params.Get(key), true
}

// Matches reports whether two types have the same type/subtype,
// ignoring parameters.
func (t Type) Matches(other Type) bool {
	return t.IsValid() && t.topLevel == other.topLevel && t.subType == other.subType
}

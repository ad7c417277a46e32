// Package resref parses resource references of the form
// @[android:]kind/name, as found in application metadata and labels.
package resref

import (
	"regexp"
	"strings"
)

const (
	At             = "@"
	Delimiter      = "/"
	PlatformPrefix = "android:"
)

const (
	KindString   = "string"
	KindDrawable = "drawable"
	KindArray    = "array"
)

var referencePattern = regexp.MustCompile(`^@(android:)?\w+/\w+$`)

// Reference is a parsed resource reference. A Reference only exists for
// input that passed IsValidReference.
type Reference struct {
	Kind           string
	PlatformScoped bool
	Name           string
}

func (r Reference) String() string {
	var b strings.Builder
	b.WriteString(At)
	if r.PlatformScoped {
		b.WriteString(PlatformPrefix)
	}
	b.WriteString(r.Kind)
	b.WriteString(Delimiter)
	b.WriteString(r.Name)
	return b.String()
}

func IsValidReference(s string) bool {
	return s != "" && referencePattern.MatchString(s)
}

// ParseKind returns the resource kind, or "" when s is not a reference.
func ParseKind(s string) string {
	if !IsValidReference(s) {
		return ""
	}
	head, _, _ := strings.Cut(s, Delimiter)
	return strings.TrimPrefix(strings.TrimPrefix(head, At), PlatformPrefix)
}

// ParseName returns the resource name, or "" when s is not a reference.
func ParseName(s string) string {
	if !IsValidReference(s) {
		return ""
	}
	_, name, _ := strings.Cut(s, Delimiter)
	return name
}

func Parse(s string) (Reference, bool) {
	if !IsValidReference(s) {
		return Reference{}, false
	}
	head, name, _ := strings.Cut(s, Delimiter)
	head = strings.TrimPrefix(head, At)
	kind := strings.TrimPrefix(head, PlatformPrefix)
	return Reference{
		Kind:           kind,
		PlatformScoped: len(kind) != len(head),
		Name:           name,
	}, true
}

// HasScopeMarker reports whether s should be treated as a reference rather
// than a literal. A marked string that fails the grammar still resolves
// to an empty name.
func HasScopeMarker(s string) bool {
	return strings.Contains(s, At)
}

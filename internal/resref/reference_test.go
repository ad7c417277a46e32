package resref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

const (
	validDrawable   = "@drawable/myres"
	validUnderscore = "@string/my_res"
	validPlatform   = "@android:string/my_platform_res"
)

var invalidReferences = []string{
	"string/myres",
	"@string/myres/resres",
	"@string/myres resres",
	"string",
	"@@string/mymy",
	"",
	" @string/myres",
	"@string/",
	"@/myres",
	"@android:/myres",
	"@string/my-res",
}

func TestIsValidReference(t *testing.T) {
	for _, s := range []string{validDrawable, validUnderscore, validPlatform, "@array/a1"} {
		assert.True(t, IsValidReference(s), s)
	}
	for _, s := range invalidReferences {
		assert.False(t, IsValidReference(s), "%q", s)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{validPlatform, KindString},
		{validDrawable, KindDrawable},
		{validUnderscore, KindString},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseKind(tt.in))
		})
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{validPlatform, "my_platform_res"},
		{validDrawable, "myres"},
		{validUnderscore, "my_res"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseName(tt.in))
		})
	}
}

func TestParse_InvalidYieldsEmptySentinel(t *testing.T) {
	for _, s := range invalidReferences {
		assert.Equal(t, "", ParseKind(s), "%q", s)
		assert.Equal(t, "", ParseName(s), "%q", s)
		_, ok := Parse(s)
		assert.False(t, ok, "%q", s)
	}
}

func TestParse(t *testing.T) {
	ref, ok := Parse(validPlatform)
	assert.True(t, ok)
	assert.Equal(t, Reference{Kind: KindString, PlatformScoped: true, Name: "my_platform_res"}, ref)
	assert.Equal(t, validPlatform, ref.String())

	ref, ok = Parse(validDrawable)
	assert.True(t, ok)
	assert.False(t, ref.PlatformScoped)
	assert.Equal(t, validDrawable, ref.String())
}

func TestHasScopeMarker(t *testing.T) {
	assert.True(t, HasScopeMarker("@string/x"))
	assert.True(t, HasScopeMarker("mail@example"))
	assert.False(t, HasScopeMarker("Plain label"))
	assert.False(t, HasScopeMarker(""))
}

func TestReference_RoundTrip(t *testing.T) {
	word := rapid.StringMatching(`[A-Za-z0-9_]{1,16}`)

	rapid.Check(t, func(rt *rapid.T) {
		kind := word.Draw(rt, "kind")
		name := word.Draw(rt, "name")
		platform := rapid.Bool().Draw(rt, "platform")

		ref := Reference{Kind: kind, PlatformScoped: platform, Name: name}
		s := ref.String()

		if !IsValidReference(s) {
			rt.Fatalf("constructed reference %q did not validate", s)
		}
		if got := ParseKind(s); got != kind {
			rt.Fatalf("ParseKind(%q) = %q, want %q", s, got, kind)
		}
		if got := ParseName(s); got != name {
			rt.Fatalf("ParseName(%q) = %q, want %q", s, got, name)
		}
		parsed, ok := Parse(s)
		if !ok || parsed != ref {
			rt.Fatalf("Parse(%q) = %+v, %v; want %+v", s, parsed, ok, ref)
		}
	})
}

func TestParse_NonMatchingNeverPanics(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.String().Draw(rt, "s")
		if referencePattern.MatchString(s) {
			return
		}
		if ParseKind(s) != "" || ParseName(s) != "" {
			rt.Fatalf("non-reference %q produced a parse result", s)
		}
	})
}

package domain

import (
	"sort"
	"strings"
)

// Flags mirrors the registry's application flag word. Only the bits the
// resolver interprets are named.
type Flags uint32

const (
	FlagSystem           Flags = 1 << 0
	FlagUpdatedSystemApp Flags = 1 << 7
)

const (
	FlagNameSystem        = "system"
	FlagNameUpdatedSystem = "updated_system"
)

var flagNames = map[string]Flags{
	FlagNameSystem:        FlagSystem,
	FlagNameUpdatedSystem: FlagUpdatedSystemApp,
}

// ParseFlags converts flag names into a Flags word. Unknown names are
// returned separately so callers can decide whether to reject them.
func ParseFlags(names []string) (Flags, []string) {
	var f Flags
	var unknown []string
	for _, n := range names {
		bit, ok := flagNames[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			unknown = append(unknown, n)
			continue
		}
		f |= bit
	}
	return f, unknown
}

func (f Flags) Has(bit Flags) bool {
	return f&bit != 0
}

func (f Flags) Names() []string {
	names := make([]string, 0, len(flagNames))
	for n, bit := range flagNames {
		if f.Has(bit) {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

// MetadataValue is either a literal string or an integer resource id.
type MetadataValue struct {
	String     string
	ResourceID int
	IsResource bool
}

func StringValue(s string) MetadataValue {
	return MetadataValue{String: s}
}

func ResourceValue(id int) MetadataValue {
	return MetadataValue{ResourceID: id, IsResource: true}
}

// Metadata is nil when the application declares no metadata at all.
type Metadata map[string]MetadataValue

// ApplicationRecord is owned by the registry; the resolver never mutates it.
type ApplicationRecord struct {
	ID       string
	Label    string
	Flags    Flags
	Metadata Metadata
}

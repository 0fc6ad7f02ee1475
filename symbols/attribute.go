package symbols

import "strings"

// Attribute is one member of the fixed, closed enumeration of Fortran
// declaration attributes spec.md §3 requires (PUBLIC, PRIVATE, POINTER,
// TARGET, ALLOCATABLE, ...). It is a Go tagged-union member represented as an
// int, not an inheritance hierarchy, per DESIGN NOTES §9.
type Attribute int

// Enumeration of attributes, in the declaration order the mod-file writer
// renders them (spec.md §4.1 "Attributes are written in enumeration order").
const (
	AttrPublic Attribute = iota
	AttrPrivate
	AttrPointer
	AttrTarget
	AttrAllocatable
	AttrAsynchronous
	AttrVolatile
	AttrBindC
	AttrIntentIn
	AttrIntentOut
	AttrIntentInOut
	AttrExternal
	AttrDeferred
	AttrParameter
	AttrSave
	AttrOptional
	AttrProtected
	AttrRecursive

	numAttributes
)

var attrNames = [numAttributes]string{
	AttrPublic:       "public",
	AttrPrivate:      "private",
	AttrPointer:      "pointer",
	AttrTarget:       "target",
	AttrAllocatable:  "allocatable",
	AttrAsynchronous: "asynchronous",
	AttrVolatile:     "volatile",
	AttrBindC:        "bind(c)",
	AttrIntentIn:     "intent(in)",
	AttrIntentOut:    "intent(out)",
	AttrIntentInOut:  "intent(inout)",
	AttrExternal:     "external",
	AttrDeferred:     "deferred",
	AttrParameter:    "parameter",
	AttrSave:         "save",
	AttrOptional:     "optional",
	AttrProtected:    "protected",
	AttrRecursive:    "recursive",
}

// String renders the attribute's lowercase keyword, as spec.md §4.1 requires
// ("each lowercased").
func (a Attribute) String() string {
	if a < 0 || a >= numAttributes {
		return "?"
	}
	return attrNames[a]
}

// AttributeSet is a bitset over the closed Attribute enumeration. A fixed
// enumeration of fewer than 64 members fits in one machine word, so a bitset
// is used instead of a map or slice (cheaper to copy, order derived on
// demand rather than stored).
type AttributeSet uint64

// Has reports whether a is present in the set.
func (s AttributeSet) Has(a Attribute) bool {
	return s&(1<<uint(a)) != 0
}

// Set returns a copy of s with a added.
func (s AttributeSet) Set(a Attribute) AttributeSet {
	return s | (1 << uint(a))
}

// Clear returns a copy of s with a removed.
func (s AttributeSet) Clear(a Attribute) AttributeSet {
	return s &^ (1 << uint(a))
}

// Ordered returns the attributes present in s in enumeration order, the
// order the mod-file writer must render them in (spec.md §4.1).
func (s AttributeSet) Ordered() []Attribute {
	var out []Attribute
	for a := Attribute(0); a < numAttributes; a++ {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

// Render writes the attribute set as a Fortran attribute-list suffix, each
// entry prefixed by sep (spec.md §4.1's caller-chosen separator, default
// ","), skipping PUBLIC and EXTERNAL which "are never written", and
// rendering BIND_C as "bind(c, name=<expr>)" when bindName is non-empty.
func (s AttributeSet) Render(sep, bindName string) string {
	var sb strings.Builder
	for _, a := range s.Ordered() {
		if a == AttrPublic || a == AttrExternal {
			continue
		}
		sb.WriteString(sep)
		if a == AttrBindC && bindName != "" {
			sb.WriteString("bind(c, name=")
			sb.WriteString(bindName)
			sb.WriteString(")")
			continue
		}
		sb.WriteString(a.String())
	}
	return sb.String()
}

package filter

import (
	"bytes"
	"errors"
	"fmt"
)

// Tag identifies the RFC 2251 Filter CHOICE variant of a FilterNode. The
// numeric values are stable: they double as the BER context-specific tag
// numbers named in the Filter CHOICE and as the first event produced by an
// Iterator (see iterate.go).
type Tag int

const (
	TagAnd             Tag = 0
	TagOr              Tag = 1
	TagNot             Tag = 2
	TagEqualityMatch   Tag = 3
	TagSubstrings      Tag = 4
	TagGreaterOrEqual  Tag = 5
	TagLessOrEqual     Tag = 6
	TagPresent         Tag = 7
	TagApproxMatch     Tag = 8
	TagExtensibleMatch Tag = 9
)

// String returns the CHOICE variant name for the tag.
func (t Tag) String() string {
	switch t {
	case TagAnd:
		return "And"
	case TagOr:
		return "Or"
	case TagNot:
		return "Not"
	case TagEqualityMatch:
		return "EqualityMatch"
	case TagSubstrings:
		return "Substrings"
	case TagGreaterOrEqual:
		return "GreaterOrEqual"
	case TagLessOrEqual:
		return "LessOrEqual"
	case TagPresent:
		return "Present"
	case TagApproxMatch:
		return "ApproxMatch"
	case TagExtensibleMatch:
		return "ExtensibleMatch"
	default:
		return fmt.Sprintf("Tag(%d)", int(t))
	}
}

// SubstringKind identifies one piece of a Substrings sequence. Values 0/1/2
// double as the BER context-specific tags of SubstringFilter's substrings
// SEQUENCE.
type SubstringKind int

const (
	SubstringInitial SubstringKind = 0
	SubstringAny     SubstringKind = 1
	SubstringFinal   SubstringKind = 2
)

// String returns the piece kind's name.
func (k SubstringKind) String() string {
	switch k {
	case SubstringInitial:
		return "Initial"
	case SubstringAny:
		return "Any"
	case SubstringFinal:
		return "Final"
	default:
		return fmt.Sprintf("SubstringKind(%d)", int(k))
	}
}

// SubstringPiece is one Initial/Any/Final component of a Substrings filter.
type SubstringPiece struct {
	Kind  SubstringKind
	Value []byte
}

// ExtensibleMatch holds the payload of an ExtensibleMatch filter. At least
// one of MatchingRuleID and Attribute must be set.
type ExtensibleMatch struct {
	MatchingRuleID string
	Attribute      string
	Value          []byte
	DNAttributes   bool
}

// FilterNode is the tagged union mirroring the RFC 2251 Filter CHOICE. Only
// the fields relevant to Tag are populated; the rest are left at their zero
// value. A FilterNode is a tree: no parent pointer, no possible cycle, and
// it is immutable once returned from Parse or Builder.Result.
type FilterNode struct {
	Tag Tag

	// Children holds the set members of And/Or.
	Children []*FilterNode

	// Child holds the single negated filter of Not.
	Child *FilterNode

	// Attribute holds the attribute description for EqualityMatch,
	// GreaterOrEqual, LessOrEqual, ApproxMatch, Present and Substrings.
	Attribute string

	// Value holds the assertion value for EqualityMatch, GreaterOrEqual,
	// LessOrEqual and ApproxMatch.
	Value []byte

	// Substrings holds the ordered piece sequence of a Substrings filter.
	Substrings []SubstringPiece

	// Extensible holds the payload of an ExtensibleMatch filter.
	Extensible *ExtensibleMatch
}

// NewAndNode builds an And filter over the given children.
func NewAndNode(children ...*FilterNode) *FilterNode {
	return &FilterNode{Tag: TagAnd, Children: children}
}

// NewOrNode builds an Or filter over the given children.
func NewOrNode(children ...*FilterNode) *FilterNode {
	return &FilterNode{Tag: TagOr, Children: children}
}

// NewNotNode builds a Not filter negating child.
func NewNotNode(child *FilterNode) *FilterNode {
	return &FilterNode{Tag: TagNot, Child: child}
}

// NewEqualityMatchNode builds an EqualityMatch filter.
func NewEqualityMatchNode(attribute string, value []byte) *FilterNode {
	return &FilterNode{Tag: TagEqualityMatch, Attribute: attribute, Value: value}
}

// NewGreaterOrEqualNode builds a GreaterOrEqual filter.
func NewGreaterOrEqualNode(attribute string, value []byte) *FilterNode {
	return &FilterNode{Tag: TagGreaterOrEqual, Attribute: attribute, Value: value}
}

// NewLessOrEqualNode builds a LessOrEqual filter.
func NewLessOrEqualNode(attribute string, value []byte) *FilterNode {
	return &FilterNode{Tag: TagLessOrEqual, Attribute: attribute, Value: value}
}

// NewApproxMatchNode builds an ApproxMatch filter.
func NewApproxMatchNode(attribute string, value []byte) *FilterNode {
	return &FilterNode{Tag: TagApproxMatch, Attribute: attribute, Value: value}
}

// NewPresentNode builds a Present filter.
func NewPresentNode(attribute string) *FilterNode {
	return &FilterNode{Tag: TagPresent, Attribute: attribute}
}

// NewSubstringsNode builds a Substrings filter from an already-assembled
// piece sequence. Callers building incrementally should prefer Builder.
func NewSubstringsNode(attribute string, pieces []SubstringPiece) *FilterNode {
	return &FilterNode{Tag: TagSubstrings, Attribute: attribute, Substrings: pieces}
}

// NewExtensibleMatchNode builds an ExtensibleMatch filter. Either rule or
// attribute may be empty, but not both.
func NewExtensibleMatchNode(rule, attribute string, value []byte, dnAttributes bool) *FilterNode {
	return &FilterNode{
		Tag: TagExtensibleMatch,
		Extensible: &ExtensibleMatch{
			MatchingRuleID: rule,
			Attribute:      attribute,
			Value:          value,
			DNAttributes:   dnAttributes,
		},
	}
}

// String renders the node back to RFC 2254 filter text.
func (n *FilterNode) String() string {
	if n == nil {
		return ""
	}
	return Render(n)
}

// Clone returns a deep copy of n.
func Clone(n *FilterNode) *FilterNode {
	if n == nil {
		return nil
	}
	out := &FilterNode{Tag: n.Tag, Attribute: n.Attribute}
	if n.Value != nil {
		out.Value = append([]byte(nil), n.Value...)
	}
	if n.Children != nil {
		out.Children = make([]*FilterNode, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = Clone(c)
		}
	}
	out.Child = Clone(n.Child)
	if n.Substrings != nil {
		out.Substrings = make([]SubstringPiece, len(n.Substrings))
		for i, p := range n.Substrings {
			out.Substrings[i] = SubstringPiece{Kind: p.Kind, Value: append([]byte(nil), p.Value...)}
		}
	}
	if n.Extensible != nil {
		out.Extensible = &ExtensibleMatch{
			MatchingRuleID: n.Extensible.MatchingRuleID,
			Attribute:      n.Extensible.Attribute,
			Value:          append([]byte(nil), n.Extensible.Value...),
			DNAttributes:   n.Extensible.DNAttributes,
		}
	}
	return out
}

// Equal reports whether a and b are structurally identical trees.
func Equal(a, b *FilterNode) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case TagAnd, TagOr:
		if len(a.Children) != len(b.Children) {
			return false
		}
		for i := range a.Children {
			if !Equal(a.Children[i], b.Children[i]) {
				return false
			}
		}
		return true
	case TagNot:
		return Equal(a.Child, b.Child)
	case TagEqualityMatch, TagGreaterOrEqual, TagLessOrEqual, TagApproxMatch:
		return a.Attribute == b.Attribute && bytes.Equal(a.Value, b.Value)
	case TagPresent:
		return a.Attribute == b.Attribute
	case TagSubstrings:
		if a.Attribute != b.Attribute || len(a.Substrings) != len(b.Substrings) {
			return false
		}
		for i := range a.Substrings {
			if a.Substrings[i].Kind != b.Substrings[i].Kind ||
				!bytes.Equal(a.Substrings[i].Value, b.Substrings[i].Value) {
				return false
			}
		}
		return true
	case TagExtensibleMatch:
		ae, be := a.Extensible, b.Extensible
		if ae == nil || be == nil {
			return ae == be
		}
		return ae.MatchingRuleID == be.MatchingRuleID &&
			ae.Attribute == be.Attribute &&
			bytes.Equal(ae.Value, be.Value) &&
			ae.DNAttributes == be.DNAttributes
	default:
		return false
	}
}

// Validate walks n and reports the first violation of the invariants fixed
// for each CHOICE variant: non-empty And/Or sets, a single Not child,
// well-ordered non-empty Substrings sequences, and an ExtensibleMatch with
// at least a matching rule id or an attribute.
func Validate(n *FilterNode) error {
	if n == nil {
		return errors.New("filter: nil node")
	}
	switch n.Tag {
	case TagAnd, TagOr:
		if len(n.Children) == 0 {
			return fmt.Errorf("filter: %v requires at least one child", n.Tag)
		}
		for _, c := range n.Children {
			if err := Validate(c); err != nil {
				return err
			}
		}
		return nil
	case TagNot:
		if n.Child == nil {
			return errors.New("filter: not requires exactly one child")
		}
		return Validate(n.Child)
	case TagEqualityMatch, TagGreaterOrEqual, TagLessOrEqual, TagApproxMatch, TagPresent:
		if n.Attribute == "" {
			return fmt.Errorf("filter: %v requires an attribute description", n.Tag)
		}
		return nil
	case TagSubstrings:
		if n.Attribute == "" {
			return fmt.Errorf("filter: %v requires an attribute description", n.Tag)
		}
		if len(n.Substrings) == 0 {
			return errors.New("filter: substrings sequence must be non-empty")
		}
		sawInitial, sawFinal := false, false
		for i, p := range n.Substrings {
			switch p.Kind {
			case SubstringInitial:
				if i != 0 || sawInitial {
					return errors.New("filter: initial must be the first and only initial piece")
				}
				sawInitial = true
			case SubstringFinal:
				if i != len(n.Substrings)-1 || sawFinal {
					return errors.New("filter: final must be the last and only final piece")
				}
				sawFinal = true
			case SubstringAny:
			default:
				return fmt.Errorf("filter: unknown substring piece kind %v", p.Kind)
			}
		}
		return nil
	case TagExtensibleMatch:
		if n.Extensible == nil || (n.Extensible.MatchingRuleID == "" && n.Extensible.Attribute == "") {
			return errors.New("filter: extensible match requires a matching rule id or an attribute")
		}
		return nil
	default:
		return fmt.Errorf("filter: unknown tag %v", n.Tag)
	}
}

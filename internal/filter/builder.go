package filter

import "fmt"

type frameKind int

const (
	frameSet        frameKind = iota // an open And/Or: addObject appends to Children
	frameNot                         // an open Not: addObject installs the one Child
	frameSubstrings                  // an open Substrings sequence: AddSubstring appends pieces
)

type frame struct {
	kind      frameKind
	node      *FilterNode
	finalSeen bool // frameSubstrings only: a Final piece has already been added
}

// Builder assembles a FilterNode through a sequence of stateful calls,
// mirroring how a streaming decoder would reconstruct a tree one wire
// element at a time. It holds an explicit stack of open containers rather
// than back-pointers from node to parent.
type Builder struct {
	root  *FilterNode
	stack []*frame
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) top() *frame {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}

func (b *Builder) push(f *frame) {
	b.stack = append(b.stack, f)
}

func (b *Builder) pop() *frame {
	n := len(b.stack)
	f := b.stack[n-1]
	b.stack = b.stack[:n-1]
	return f
}

// Result returns the completed tree. It fails if nothing was ever added, or
// if a startNestedFilter/StartSubstrings was never matched by its end.
func (b *Builder) Result() (*FilterNode, error) {
	if b.root == nil {
		return nil, &BuilderSequencingError{Reason: "empty builder", Detail: "no filter was added"}
	}
	if len(b.stack) != 0 {
		return nil, &BuilderSequencingError{Reason: "unclosed container", Detail: "a container was started but never ended"}
	}
	return b.root, nil
}

// addObject attaches node at the current cursor: as the root if nothing has
// been added yet, as the Not-slot's child if the top of stack is an empty
// Not, by appending if the top is an open And/Or, or by failing if the top
// is an open Substrings sequence (values can't nest there) or a Not that
// already has its child. If node is itself an And/Or/Not, it is pushed so
// that subsequent additions nest inside it.
func (b *Builder) addObject(node *FilterNode) error {
	if b.root == nil {
		b.root = node
	} else {
		top := b.top()
		if top == nil {
			return &BuilderSequencingError{Reason: "builder closed", Detail: "no open container to add into"}
		}
		switch top.kind {
		case frameNot:
			if top.node.Child != nil {
				return &BuilderSequencingError{Reason: "second child for not", Detail: ""}
			}
			top.node.Child = node
		case frameSet:
			top.node.Children = append(top.node.Children, node)
		case frameSubstrings:
			return &BuilderSequencingError{Reason: "assertion inside substrings", Detail: ""}
		}
	}

	switch node.Tag {
	case TagAnd, TagOr:
		b.push(&frame{kind: frameSet, node: node})
	case TagNot:
		b.push(&frame{kind: frameNot, node: node})
	}
	return nil
}

// StartNestedFilter opens an And, Or or Not container as the next object.
func (b *Builder) StartNestedFilter(kind Tag) error {
	switch kind {
	case TagAnd, TagOr, TagNot:
		return b.addObject(&FilterNode{Tag: kind})
	default:
		return &BuilderSequencingError{Reason: "invalid nested", Detail: fmt.Sprintf("tag %v is not And/Or/Not", kind)}
	}
}

// EndNestedFilter closes the container most recently opened by
// StartNestedFilter. kind must match what is on top of the stack.
func (b *Builder) EndNestedFilter(kind Tag) error {
	switch kind {
	case TagAnd, TagOr, TagNot:
	default:
		return &BuilderSequencingError{Reason: "invalid nested", Detail: fmt.Sprintf("tag %v is not And/Or/Not", kind)}
	}

	f := b.top()
	if f == nil {
		return &BuilderSequencingError{Reason: "mismatched end", Detail: "no open container"}
	}
	if f.node.Tag != kind {
		return &BuilderSequencingError{Reason: "mismatched end", Detail: fmt.Sprintf("top is %v, not %v", f.node.Tag, kind)}
	}
	if kind == TagNot && f.node.Child == nil {
		return &BuilderSequencingError{Reason: "empty not", Detail: "a not must have exactly one child"}
	}
	b.pop()
	return nil
}

// StartSubstrings opens a Substrings sequence for attr as the next object.
func (b *Builder) StartSubstrings(attr string) error {
	node := &FilterNode{Tag: TagSubstrings, Attribute: attr}
	if err := b.addObject(node); err != nil {
		return err
	}
	b.push(&frame{kind: frameSubstrings, node: node})
	return nil
}

// AddSubstring appends one piece to the open Substrings sequence. kind must
// be Initial only for the very first piece, and no piece may follow a
// Final.
func (b *Builder) AddSubstring(kind SubstringKind, value []byte) error {
	f := b.top()
	if f == nil || f.kind != frameSubstrings {
		return &BuilderSequencingError{Reason: "out of sequence", Detail: "no open substring sequence"}
	}
	if f.finalSeen {
		return &BuilderSequencingError{Reason: "out of sequence", Detail: "no piece may follow a final"}
	}
	switch kind {
	case SubstringInitial:
		if len(f.node.Substrings) != 0 {
			return &BuilderSequencingError{Reason: "out of sequence", Detail: "initial must be the first piece"}
		}
	case SubstringAny, SubstringFinal:
	default:
		return &BuilderSequencingError{Reason: "out of sequence", Detail: "unknown substring piece kind"}
	}

	f.node.Substrings = append(f.node.Substrings, SubstringPiece{Kind: kind, Value: value})
	if kind == SubstringFinal {
		f.finalSeen = true
	}
	return nil
}

// EndSubstrings closes the open Substrings sequence. It fails if no piece
// was ever added.
func (b *Builder) EndSubstrings() error {
	f := b.top()
	if f == nil || f.kind != frameSubstrings {
		return &BuilderSequencingError{Reason: "mismatched end", Detail: "no open substring sequence"}
	}
	if len(f.node.Substrings) == 0 {
		return &BuilderSequencingError{Reason: "empty substring", Detail: ""}
	}
	b.pop()
	return nil
}

// AddAttributeValueAssertion adds a leaf EqualityMatch, GreaterOrEqual,
// LessOrEqual or ApproxMatch filter.
func (b *Builder) AddAttributeValueAssertion(kind Tag, attr string, value []byte) error {
	switch kind {
	case TagEqualityMatch, TagGreaterOrEqual, TagLessOrEqual, TagApproxMatch:
	default:
		return &BuilderSequencingError{Reason: "invalid assertion", Detail: fmt.Sprintf("tag %v is not an attribute value assertion", kind)}
	}
	return b.addObject(&FilterNode{Tag: kind, Attribute: attr, Value: value})
}

// AddPresent adds a leaf Present filter.
func (b *Builder) AddPresent(attr string) error {
	return b.addObject(&FilterNode{Tag: TagPresent, Attribute: attr})
}

// AddExtensibleMatch adds a leaf ExtensibleMatch filter. Either rule or
// attr must be non-empty.
func (b *Builder) AddExtensibleMatch(rule, attr string, value []byte, dnAttributes bool) error {
	if rule == "" && attr == "" {
		return &BuilderSequencingError{Reason: "no DN nor matching rule", Detail: ""}
	}
	return b.addObject(&FilterNode{
		Tag: TagExtensibleMatch,
		Extensible: &ExtensibleMatch{
			MatchingRuleID: rule,
			Attribute:      attr,
			Value:          value,
			DNAttributes:   dnAttributes,
		},
	})
}

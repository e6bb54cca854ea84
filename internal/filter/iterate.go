package filter

import "strings"

// EventKind identifies what an Iterator.Next call produced.
type EventKind int

const (
	EventNodeTag    EventKind = iota // the node's Tag, always emitted first
	EventSubIterator                 // a nested Iterator, for one And/Or child or the Not child
	EventAttribute                   // an attribute description, the matching rule id, or the empty string
	EventPieceTag                    // one SubstringPiece's Kind, inside a Substrings payload
	EventValue                       // an assertion value or substring piece value
	EventBool                        // ExtensibleMatch's DNAttributes flag
)

// Event is one step of a FilterNode's traversal.
type Event struct {
	Kind  EventKind
	Tag   Tag
	Piece SubstringKind
	Attr  string
	Value []byte
	Bool  bool
	Sub   *Iterator
}

// Iterator pulls the traversal events for one FilterNode, in the fixed
// order: the node's tag, then its fields in the order named by the Filter
// CHOICE. It holds no recursive state of its own -- nested children are
// exposed as fresh Iterators over EventSubIterator, so callers (or Render)
// drive the recursion.
type Iterator struct {
	node *FilterNode
	pos  int
}

// NewIterator returns an Iterator over node's top-level traversal.
func NewIterator(node *FilterNode) *Iterator {
	return &Iterator{node: node}
}

// Node returns the FilterNode this Iterator walks.
func (it *Iterator) Node() *FilterNode {
	return it.node
}

// Next returns the next traversal event, or ok=false once the node's
// fields are exhausted.
func (it *Iterator) Next() (Event, bool) {
	switch it.node.Tag {
	case TagAnd, TagOr:
		if it.pos == 0 {
			it.pos++
			return Event{Kind: EventNodeTag, Tag: it.node.Tag}, true
		}
		idx := it.pos - 1
		if idx >= len(it.node.Children) {
			return Event{}, false
		}
		it.pos++
		return Event{Kind: EventSubIterator, Sub: NewIterator(it.node.Children[idx])}, true

	case TagNot:
		switch it.pos {
		case 0:
			it.pos++
			return Event{Kind: EventNodeTag, Tag: it.node.Tag}, true
		case 1:
			it.pos++
			return Event{Kind: EventSubIterator, Sub: NewIterator(it.node.Child)}, true
		}
		return Event{}, false

	case TagEqualityMatch, TagGreaterOrEqual, TagLessOrEqual, TagApproxMatch:
		switch it.pos {
		case 0:
			it.pos++
			return Event{Kind: EventNodeTag, Tag: it.node.Tag}, true
		case 1:
			it.pos++
			return Event{Kind: EventAttribute, Attr: it.node.Attribute}, true
		case 2:
			it.pos++
			return Event{Kind: EventValue, Value: it.node.Value}, true
		}
		return Event{}, false

	case TagPresent:
		switch it.pos {
		case 0:
			it.pos++
			return Event{Kind: EventNodeTag, Tag: it.node.Tag}, true
		case 1:
			it.pos++
			return Event{Kind: EventAttribute, Attr: it.node.Attribute}, true
		}
		return Event{}, false

	case TagSubstrings:
		if it.pos == 0 {
			it.pos++
			return Event{Kind: EventNodeTag, Tag: it.node.Tag}, true
		}
		if it.pos == 1 {
			it.pos++
			return Event{Kind: EventAttribute, Attr: it.node.Attribute}, true
		}
		step := it.pos - 2
		pieceIdx := step / 2
		if pieceIdx >= len(it.node.Substrings) {
			return Event{}, false
		}
		piece := it.node.Substrings[pieceIdx]
		it.pos++
		if step%2 == 0 {
			return Event{Kind: EventPieceTag, Piece: piece.Kind}, true
		}
		return Event{Kind: EventValue, Value: piece.Value}, true

	case TagExtensibleMatch:
		em := it.node.Extensible
		switch it.pos {
		case 0:
			it.pos++
			return Event{Kind: EventNodeTag, Tag: it.node.Tag}, true
		case 1:
			it.pos++
			rule := ""
			if em != nil {
				rule = em.MatchingRuleID
			}
			return Event{Kind: EventAttribute, Attr: rule}, true
		case 2:
			it.pos++
			attr := ""
			if em != nil {
				attr = em.Attribute
			}
			return Event{Kind: EventAttribute, Attr: attr}, true
		case 3:
			it.pos++
			var val []byte
			if em != nil {
				val = em.Value
			}
			return Event{Kind: EventValue, Value: val}, true
		case 4:
			it.pos++
			dn := em != nil && em.DNAttributes
			return Event{Kind: EventBool, Bool: dn}, true
		}
		return Event{}, false
	}
	return Event{}, false
}

// Render renders node back to RFC 2254 filter text, as a fold over its
// Iterator.
func Render(node *FilterNode) string {
	var b strings.Builder
	renderNode(&b, node)
	return b.String()
}

func renderNode(b *strings.Builder, node *FilterNode) {
	b.WriteByte('(')
	it := NewIterator(node)
	tagEv, _ := it.Next()
	switch tagEv.Tag {
	case TagAnd:
		b.WriteByte('&')
		renderChildren(b, it)
	case TagOr:
		b.WriteByte('|')
		renderChildren(b, it)
	case TagNot:
		b.WriteByte('!')
		subEv, _ := it.Next()
		renderNode(b, subEv.Sub.Node())
	case TagEqualityMatch:
		renderAssertion(b, it, "=")
	case TagGreaterOrEqual:
		renderAssertion(b, it, ">=")
	case TagLessOrEqual:
		renderAssertion(b, it, "<=")
	case TagApproxMatch:
		renderAssertion(b, it, "~=")
	case TagPresent:
		attrEv, _ := it.Next()
		b.WriteString(attrEv.Attr)
		b.WriteString("=*")
	case TagSubstrings:
		renderSubstrings(b, it)
	case TagExtensibleMatch:
		renderExtensibleMatch(b, it)
	}
	b.WriteByte(')')
}

func renderChildren(b *strings.Builder, it *Iterator) {
	for {
		ev, ok := it.Next()
		if !ok {
			return
		}
		renderNode(b, ev.Sub.Node())
	}
}

func renderAssertion(b *strings.Builder, it *Iterator, op string) {
	attrEv, _ := it.Next()
	valEv, _ := it.Next()
	b.WriteString(attrEv.Attr)
	b.WriteString(op)
	b.WriteString(renderValue(valEv.Value))
}

func renderSubstrings(b *strings.Builder, it *Iterator) {
	attrEv, _ := it.Next()
	b.WriteString(attrEv.Attr)
	b.WriteByte('=')

	var pieces []SubstringPiece
	for {
		tagEv, ok := it.Next()
		if !ok {
			break
		}
		valEv, _ := it.Next()
		pieces = append(pieces, SubstringPiece{Kind: tagEv.Piece, Value: valEv.Value})
	}
	if len(pieces) == 0 {
		return
	}

	if pieces[0].Kind != SubstringInitial {
		b.WriteByte('*')
	}
	for i, p := range pieces {
		if i > 0 {
			b.WriteByte('*')
		}
		b.WriteString(renderValue(p.Value))
	}
	if pieces[len(pieces)-1].Kind != SubstringFinal {
		b.WriteByte('*')
	}
}

func renderExtensibleMatch(b *strings.Builder, it *Iterator) {
	ruleEv, _ := it.Next()
	attrEv, _ := it.Next()
	valEv, _ := it.Next()
	dnEv, _ := it.Next()

	if attrEv.Attr != "" {
		b.WriteString(attrEv.Attr)
	}
	if dnEv.Bool {
		b.WriteString(":dn")
	}
	if ruleEv.Attr != "" {
		b.WriteByte(':')
		b.WriteString(ruleEv.Attr)
	}
	b.WriteString(":=")
	b.WriteString(renderValue(valEv.Value))
}

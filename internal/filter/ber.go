package filter

import (
	"fmt"

	"github.com/oba-filter/ldapfilter/internal/ber"
)

// matchingRuleAssertion's own context tags, RFC 2251 section 4.5.1 -- kept
// distinct from Tag/SubstringKind because they number a different SEQUENCE.
const (
	extMatchingRule = 1
	extType         = 2
	extMatchValue   = 3
	extDNAttributes = 4
)

// EncodeBER serialises node into the context-tagged BER structure named by
// the Filter CHOICE: CONSTRUCTED for every tag except Present, which is
// PRIMITIVE. internal/ber has no Begin/End helper for constructed values,
// so each constructed tag is built by encoding its content into its own
// BEREncoder first and handing the finished bytes to WriteTaggedValue.
func EncodeBER(node *FilterNode) ([]byte, error) {
	if node == nil {
		return nil, fmt.Errorf("filter: cannot encode nil node")
	}
	enc := ber.NewBEREncoder(64)
	if err := encodeNode(enc, node); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

func encodeNode(parent *ber.BEREncoder, node *FilterNode) error {
	switch node.Tag {
	case TagAnd, TagOr:
		inner := ber.NewBEREncoder(64)
		for _, c := range node.Children {
			if err := encodeNode(inner, c); err != nil {
				return err
			}
		}
		return parent.WriteTaggedValue(int(node.Tag), true, inner.Bytes())

	case TagNot:
		inner := ber.NewBEREncoder(32)
		if err := encodeNode(inner, node.Child); err != nil {
			return err
		}
		return parent.WriteTaggedValue(int(node.Tag), true, inner.Bytes())

	case TagEqualityMatch, TagGreaterOrEqual, TagLessOrEqual, TagApproxMatch:
		inner := ber.NewBEREncoder(32)
		if err := inner.WriteOctetString([]byte(node.Attribute)); err != nil {
			return err
		}
		if err := inner.WriteOctetString(node.Value); err != nil {
			return err
		}
		return parent.WriteTaggedValue(int(node.Tag), true, inner.Bytes())

	case TagPresent:
		return parent.WriteTaggedValue(int(node.Tag), false, []byte(node.Attribute))

	case TagSubstrings:
		pieces := ber.NewBEREncoder(32)
		for _, p := range node.Substrings {
			if err := pieces.WriteTaggedValue(int(p.Kind), false, p.Value); err != nil {
				return err
			}
		}

		inner := ber.NewBEREncoder(32)
		if err := inner.WriteOctetString([]byte(node.Attribute)); err != nil {
			return err
		}
		if err := inner.WriteTag(ber.ClassUniversal, ber.TypeConstructed, ber.TagSequence); err != nil {
			return err
		}
		if err := inner.WriteLength(pieces.Len()); err != nil {
			return err
		}
		inner.WriteRaw(pieces.Bytes())
		return parent.WriteTaggedValue(int(node.Tag), true, inner.Bytes())

	case TagExtensibleMatch:
		em := node.Extensible
		inner := ber.NewBEREncoder(32)
		if em.MatchingRuleID != "" {
			if err := inner.WriteTaggedValue(extMatchingRule, false, []byte(em.MatchingRuleID)); err != nil {
				return err
			}
		}
		if em.Attribute != "" {
			if err := inner.WriteTaggedValue(extType, false, []byte(em.Attribute)); err != nil {
				return err
			}
		}
		if err := inner.WriteTaggedValue(extMatchValue, false, em.Value); err != nil {
			return err
		}
		dn := []byte{0x00}
		if em.DNAttributes {
			dn = []byte{0xFF}
		}
		if err := inner.WriteTaggedValue(extDNAttributes, false, dn); err != nil {
			return err
		}
		return parent.WriteTaggedValue(int(node.Tag), true, inner.Bytes())
	}
	return fmt.Errorf("filter: unknown tag %v", node.Tag)
}

// DecodeBER parses the context-tagged BER structure produced by EncodeBER
// back into a FilterNode. It rebuilds through Builder rather than
// constructing FilterNode literals directly, so the AST-shape invariants
// are enforced in exactly one place.
func DecodeBER(data []byte) (*FilterNode, error) {
	b := NewBuilder()
	if err := decodeInto(b, ber.NewBERDecoder(data)); err != nil {
		return nil, err
	}
	return b.Result()
}

func decodeInto(b *Builder, dec *ber.BERDecoder) error {
	tagNumber, constructed, value, err := dec.ReadTaggedValue()
	if err != nil {
		return err
	}

	switch Tag(tagNumber) {
	case TagAnd, TagOr:
		if err := b.StartNestedFilter(Tag(tagNumber)); err != nil {
			return err
		}
		sub := ber.NewBERDecoder(value)
		for sub.Remaining() > 0 {
			if err := decodeInto(b, sub); err != nil {
				return err
			}
		}
		return b.EndNestedFilter(Tag(tagNumber))

	case TagNot:
		if err := b.StartNestedFilter(TagNot); err != nil {
			return err
		}
		sub := ber.NewBERDecoder(value)
		if err := decodeInto(b, sub); err != nil {
			return err
		}
		return b.EndNestedFilter(TagNot)

	case TagEqualityMatch, TagGreaterOrEqual, TagLessOrEqual, TagApproxMatch:
		sub := ber.NewBERDecoder(value)
		attr, err := sub.ReadOctetString()
		if err != nil {
			return err
		}
		val, err := sub.ReadOctetString()
		if err != nil {
			return err
		}
		return b.AddAttributeValueAssertion(Tag(tagNumber), string(attr), val)

	case TagPresent:
		if constructed {
			return fmt.Errorf("filter: present filter must be primitive")
		}
		return b.AddPresent(string(value))

	case TagSubstrings:
		sub := ber.NewBERDecoder(value)
		attr, err := sub.ReadOctetString()
		if err != nil {
			return err
		}
		seqLen, err := sub.ExpectSequence()
		if err != nil {
			return err
		}
		end := sub.Offset() + seqLen

		if err := b.StartSubstrings(string(attr)); err != nil {
			return err
		}
		for sub.Offset() < end {
			pieceTag, _, pieceVal, err := sub.ReadTaggedValue()
			if err != nil {
				return err
			}
			if err := b.AddSubstring(SubstringKind(pieceTag), pieceVal); err != nil {
				return err
			}
		}
		return b.EndSubstrings()

	case TagExtensibleMatch:
		sub := ber.NewBERDecoder(value)
		var rule, typ string
		var val []byte
		var dn bool
		for sub.Remaining() > 0 {
			fieldTag, _, fieldVal, err := sub.ReadTaggedValue()
			if err != nil {
				return err
			}
			switch fieldTag {
			case extMatchingRule:
				rule = string(fieldVal)
			case extType:
				typ = string(fieldVal)
			case extMatchValue:
				val = fieldVal
			case extDNAttributes:
				dn = len(fieldVal) > 0 && fieldVal[0] != 0x00
			}
		}
		return b.AddExtensibleMatch(rule, typ, val, dn)
	}

	return fmt.Errorf("filter: unknown BER filter tag %d", tagNumber)
}

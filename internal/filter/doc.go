// Package filter implements RFC 2254 LDAP search filter text, the RFC 2251
// Filter CHOICE abstract syntax tree it compiles to, and the machinery
// around that tree.
//
// # Overview
//
// Parse compiles filter text into a FilterNode tree:
//
//	node, err := filter.Parse("(&(objectClass=person)(uid=alice))")
//
// Render folds a tree back to text:
//
//	text := filter.Render(node) // "(&(objectClass=person)(uid=alice))"
//
// A FilterNode is a tagged union over the ten Filter CHOICE variants named
// in RFC 2251: And, Or, Not, EqualityMatch, Substrings, GreaterOrEqual,
// LessOrEqual, Present, ApproxMatch and ExtensibleMatch.
//
// # Construction Without Text
//
// Builder assembles a tree through a sequence of stateful calls, the way a
// streaming decoder would reconstruct one element at a time:
//
//	b := filter.NewBuilder()
//	b.StartNestedFilter(filter.TagAnd)
//	b.AddAttributeValueAssertion(filter.TagEqualityMatch, "objectClass", []byte("person"))
//	b.AddPresent("mail")
//	b.EndNestedFilter(filter.TagAnd)
//	node, err := b.Result()
//
// Or build literal nodes directly with the New*Node constructors when no
// sequencing is needed:
//
//	node := filter.NewAndNode(
//	    filter.NewEqualityMatchNode("objectClass", []byte("person")),
//	    filter.NewPresentNode("mail"),
//	)
//
// # Traversal
//
// Iterator pulls the fields of one node in the order the Filter CHOICE
// fixes; Render is implemented as a fold over it, and the BER bridge walks
// the same tree directly.
//
// # Wire Form
//
// EncodeBER and DecodeBER convert to and from the context-tagged BER
// structure the Filter CHOICE specifies, built on the package's ASN.1 BER
// primitives.
package filter

package filter

import "strings"

// Parse compiles RFC 2254 filter text into a FilterNode tree. Empty input
// is canonicalized to "(objectclass=*)"; text missing its enclosing
// parentheses is wrapped once; V2-dialect escapes (\*, \(, \), \\) are
// upgraded to V3 \HH form before tokenizing.
func Parse(text string) (*FilterNode, error) {
	text = preprocess(text)
	if err := ValidateParens(text); err != nil {
		return nil, err
	}

	tok := NewTokenizer(text)
	node, err := parseFilter(tok)
	if err != nil {
		return nil, err
	}
	if tok.Offset() != len(text) {
		return nil, newSyntaxError(ReasonExpectingRightParen, tok.Offset(), "trailing data after filter")
	}
	return node, nil
}

func preprocess(text string) string {
	if text == "" {
		return "(objectclass=*)"
	}
	text = upgradeV2Escapes(text)
	if !strings.HasPrefix(text, "(") && !strings.HasSuffix(text, ")") {
		text = "(" + text + ")"
	}
	return text
}

// upgradeV2Escapes rewrites the four RFC 1960 V2 escapes (\*, \(, \), \\)
// to their RFC 2254 V3 \HH form. It is idempotent: a \ already followed by
// a hex digit (i.e. already-upgraded text, or a V3 escape of any other
// byte) is left untouched, so running it twice is a no-op.
func upgradeV2Escapes(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	i := 0
	for i < len(s) {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 < len(s) {
			switch s[i+1] {
			case '*', '(', ')', '\\':
				b.WriteByte('\\')
				b.WriteString(hexByte(s[i+1]))
				i += 2
				continue
			}
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}

// ValidateParens checks that text is non-empty, starts with '(', ends with
// ')', and has balanced nesting throughout -- without otherwise parsing it.
func ValidateParens(text string) error {
	if len(text) == 0 || text[0] != '(' {
		return newSyntaxError(ReasonMissingLeftParen, 0, "")
	}
	if text[len(text)-1] != ')' {
		return newSyntaxError(ReasonMissingRightParen, len(text)-1, "")
	}
	depth := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return newSyntaxError(ReasonMissingLeftParen, i, "")
			}
		}
	}
	if depth != 0 {
		return newSyntaxError(ReasonMissingRightParen, len(text), "")
	}
	return nil
}

// parseFilter consumes one fully-parenthesized filter: '(' filtercomp ')'.
func parseFilter(tok *Tokenizer) (*FilterNode, error) {
	if err := tok.getLeftParen(); err != nil {
		return nil, err
	}
	node, err := parseFilterComp(tok)
	if err != nil {
		return nil, err
	}
	if err := tok.getRightParen(); err != nil {
		return nil, err
	}
	return node, nil
}

func parseFilterComp(tok *Tokenizer) (*FilterNode, error) {
	tag, isOp, err := tok.opOrAttr()
	if err != nil {
		return nil, err
	}

	if isOp {
		switch tag {
		case TagAnd:
			children, err := parseFilterList(tok)
			if err != nil {
				return nil, err
			}
			return &FilterNode{Tag: TagAnd, Children: children}, nil
		case TagOr:
			children, err := parseFilterList(tok)
			if err != nil {
				return nil, err
			}
			return &FilterNode{Tag: TagOr, Children: children}, nil
		case TagNot:
			child, err := parseFilter(tok)
			if err != nil {
				return nil, err
			}
			return &FilterNode{Tag: TagNot, Child: child}, nil
		}
	}

	attrToken := tok.Attr()
	ftype, err := tok.filterType()
	if err != nil {
		return nil, err
	}
	raw := tok.value()

	switch ftype {
	case TagGreaterOrEqual, TagLessOrEqual, TagApproxMatch:
		if err := validateAttributeDescription(attrToken); err != nil {
			return nil, err
		}
		val, err := unescapeValue(raw)
		if err != nil {
			return nil, err
		}
		return &FilterNode{Tag: ftype, Attribute: attrToken, Value: val}, nil
	case TagEqualityMatch:
		if err := validateAttributeDescription(attrToken); err != nil {
			return nil, err
		}
		return parseEqualityOrSubstrings(attrToken, raw)
	case TagExtensibleMatch:
		return parseExtensibleMatch(attrToken, raw)
	}
	return nil, newSyntaxError(ReasonInvalidComparison, tok.Offset(), "")
}

// parseFilterList reads one or more fully-parenthesized filters back to
// back, stopping at the first character that isn't '('.
func parseFilterList(tok *Tokenizer) ([]*FilterNode, error) {
	var list []*FilterNode
	node, err := parseFilter(tok)
	if err != nil {
		return nil, err
	}
	list = append(list, node)

	for {
		c, err := tok.peekChar()
		if err != nil {
			return nil, err
		}
		if c != '(' {
			return list, nil
		}
		node, err := parseFilter(tok)
		if err != nil {
			return nil, err
		}
		list = append(list, node)
	}
}

func parseEqualityOrSubstrings(attr, raw string) (*FilterNode, error) {
	if raw == "*" {
		return &FilterNode{Tag: TagPresent, Attribute: attr}, nil
	}
	if strings.Contains(raw, "*") {
		pieces, err := splitSubstrings(raw)
		if err != nil {
			return nil, err
		}
		return &FilterNode{Tag: TagSubstrings, Attribute: attr, Substrings: pieces}, nil
	}
	val, err := unescapeValue(raw)
	if err != nil {
		return nil, err
	}
	return &FilterNode{Tag: TagEqualityMatch, Attribute: attr, Value: val}, nil
}

// splitSubstrings tokenizes a value containing at least one '*' at its
// '*' boundaries. A segment between two stars that decodes empty
// contributes no piece, except that a value composed solely of stars (so
// every segment is empty) collapses to one Any piece holding an empty
// value, which keeps the resulting sequence non-empty.
func splitSubstrings(raw string) ([]SubstringPiece, error) {
	segments := strings.Split(raw, "*")
	last := len(segments) - 1

	var pieces []SubstringPiece
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		val, err := unescapeValue(seg)
		if err != nil {
			return nil, err
		}
		kind := SubstringAny
		switch {
		case i == 0:
			kind = SubstringInitial
		case i == last:
			kind = SubstringFinal
		}
		pieces = append(pieces, SubstringPiece{Kind: kind, Value: val})
	}

	if len(pieces) == 0 {
		pieces = append(pieces, SubstringPiece{Kind: SubstringAny, Value: []byte{}})
	}
	return pieces, nil
}

// parseExtensibleMatch classifies attrDecoration's colon-separated pieces:
// the first piece, unless it is the literal "dn", is the attribute type;
// any piece equal to "dn" sets DNAttributes; any other piece is the
// matching rule id, and a second such piece is an error.
func parseExtensibleMatch(attrDecoration, raw string) (*FilterNode, error) {
	val, err := unescapeValue(raw)
	if err != nil {
		return nil, err
	}

	em := &ExtensibleMatch{Value: val}

	if attrDecoration != "" {
		ruleSet := false
		for i, p := range strings.Split(attrDecoration, ":") {
			switch {
			case p == "":
				continue
			case p == "dn":
				em.DNAttributes = true
			case i == 0:
				em.Attribute = p
			case ruleSet:
				return nil, newSyntaxError(ReasonNoMatchingRule, 0, "multiple matching rule ids in extensible match")
			default:
				em.MatchingRuleID = p
				ruleSet = true
			}
		}
	}

	if err := validateAttributeDescription(em.Attribute); err != nil {
		return nil, err
	}
	if em.Attribute == "" && em.MatchingRuleID == "" {
		return nil, newSyntaxError(ReasonNoDNNorMatchingRule, 0, "")
	}

	return &FilterNode{Tag: TagExtensibleMatch, Extensible: em}, nil
}

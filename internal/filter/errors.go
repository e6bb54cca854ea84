package filter

import (
	"errors"
	"fmt"
)

// ErrFilterSyntax is the sentinel errors.Is matches against any
// *FilterSyntaxError, regardless of its specific Reason.
var ErrFilterSyntax = errors.New("filter: syntax error")

// ErrBuilderSequencing is the sentinel errors.Is matches against any
// *BuilderSequencingError.
var ErrBuilderSequencing = errors.New("filter: builder sequencing error")

// Reason enumerates why filter text failed to parse.
type Reason string

const (
	ReasonMissingLeftParen          Reason = "missing left paren"
	ReasonMissingRightParen         Reason = "missing right paren"
	ReasonExpectingLeftParen        Reason = "expecting '('"
	ReasonExpectingRightParen       Reason = "expecting ')'"
	ReasonUnexpectedEnd             Reason = "unexpected end"
	ReasonNoAttributeName           Reason = "no attribute name"
	ReasonNoMatchingRule            Reason = "no matching rule"
	ReasonNoDNNorMatchingRule       Reason = "no DN nor matching rule"
	ReasonInvalidComparison         Reason = "invalid comparison"
	ReasonInvalidEscape             Reason = "invalid escape"
	ReasonInvalidEscapeInDescriptor Reason = "invalid escape in descriptor"
	ReasonInvalidChar               Reason = "invalid character"
	ReasonInvalidCharInDescriptor   Reason = "invalid character in descriptor"
	ReasonNoOption                  Reason = "no option"
	ReasonShortEscape               Reason = "short escape"
	ReasonEmptySubstrings           Reason = "empty substring sequence"
)

// FilterSyntaxError reports a failure to parse RFC 2254 filter text. For
// parenthesis and tokenizer errors, Offset is a byte offset into the text
// actually handed to the tokenizer (after the empty-input, V2-escape and
// parenthesis-wrapping preprocessing steps, so it may not line up with the
// caller's original string when one of them fired). For errors found while
// decoding an assertion value, Offset is relative to the start of that
// value's raw text; attribute-description and extensible-match decoration
// errors report Offset 0.
type FilterSyntaxError struct {
	Reason Reason
	Offset int
	Detail string
}

func (e *FilterSyntaxError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("filter: %s at offset %d: %s", e.Reason, e.Offset, e.Detail)
	}
	return fmt.Sprintf("filter: %s at offset %d", e.Reason, e.Offset)
}

// Is lets errors.Is(err, ErrFilterSyntax) match any *FilterSyntaxError.
func (e *FilterSyntaxError) Is(target error) bool {
	return target == ErrFilterSyntax
}

func newSyntaxError(reason Reason, offset int, detail string) *FilterSyntaxError {
	return &FilterSyntaxError{Reason: reason, Offset: offset, Detail: detail}
}

// BuilderSequencingError reports a violation of Builder's stateful
// sequencing rules. It is distinct from FilterSyntaxError because it is
// raised by the Builder's method contract, never by parsing filter text.
type BuilderSequencingError struct {
	Reason string
	Detail string
}

func (e *BuilderSequencingError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("filter: builder: %s: %s", e.Reason, e.Detail)
	}
	return fmt.Sprintf("filter: builder: %s", e.Reason)
}

// Is lets errors.Is(err, ErrBuilderSequencing) match any *BuilderSequencingError.
func (e *BuilderSequencingError) Is(target error) bool {
	return target == ErrBuilderSequencing
}

package filter

import "testing"

// BenchmarkParseEquality benchmarks parsing a single leaf filter.
func BenchmarkParseEquality(b *testing.B) {
	text := "(cn=Babs Jensen)"
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := Parse(text); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkParseNested benchmarks parsing a filter with nested And/Or/Not.
func BenchmarkParseNested(b *testing.B) {
	text := "(&(objectClass=person)(|(cn=Babs Jensen)(cn=Babs J*))(!(sn=Smith)))"
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := Parse(text); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkParseSubstrings benchmarks parsing a multi-piece substrings filter.
func BenchmarkParseSubstrings(b *testing.B) {
	text := "(cn=univ*of*mich*ig*an)"
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := Parse(text); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRenderNested benchmarks rendering a filter with nested And/Or/Not.
func BenchmarkRenderNested(b *testing.B) {
	node := NewAndNode(
		NewEqualityMatchNode("objectClass", []byte("person")),
		NewOrNode(
			NewEqualityMatchNode("cn", []byte("Babs Jensen")),
			NewSubstringsNode("cn", []SubstringPiece{{Kind: SubstringInitial, Value: []byte("Babs J")}}),
		),
		NewNotNode(NewEqualityMatchNode("sn", []byte("Smith"))),
	)
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = Render(node)
	}
}

// BenchmarkEncodeBERNested benchmarks encoding the same nested filter to BER.
func BenchmarkEncodeBERNested(b *testing.B) {
	node := NewAndNode(
		NewEqualityMatchNode("objectClass", []byte("person")),
		NewOrNode(
			NewEqualityMatchNode("cn", []byte("Babs Jensen")),
			NewSubstringsNode("cn", []SubstringPiece{{Kind: SubstringInitial, Value: []byte("Babs J")}}),
		),
		NewNotNode(NewEqualityMatchNode("sn", []byte("Smith"))),
	)
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := EncodeBER(node); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkDecodeBERNested benchmarks decoding a pre-encoded nested filter.
func BenchmarkDecodeBERNested(b *testing.B) {
	node := NewAndNode(
		NewEqualityMatchNode("objectClass", []byte("person")),
		NewOrNode(
			NewEqualityMatchNode("cn", []byte("Babs Jensen")),
			NewSubstringsNode("cn", []SubstringPiece{{Kind: SubstringInitial, Value: []byte("Babs J")}}),
		),
		NewNotNode(NewEqualityMatchNode("sn", []byte("Smith"))),
	)
	data, err := EncodeBER(node)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := DecodeBER(data); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkUnescapeValue benchmarks decoding an escaped filter value.
func BenchmarkUnescapeValue(b *testing.B) {
	text := `Lu\c4\8di\c4\87 and some plain text too`
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := unescapeValue(text); err != nil {
			b.Fatal(err)
		}
	}
}

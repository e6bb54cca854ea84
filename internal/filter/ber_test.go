package filter

import "testing"

func TestBEREncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		node *FilterNode
	}{
		{"equality", NewEqualityMatchNode("cn", []byte("Babs Jensen"))},
		{"greater or equal", NewGreaterOrEqualNode("uidNumber", []byte("1000"))},
		{"less or equal", NewLessOrEqualNode("uidNumber", []byte("1000"))},
		{"approx match", NewApproxMatchNode("cn", []byte("sally"))},
		{"present", NewPresentNode("mail")},
		{
			"substrings",
			NewSubstringsNode("cn", []SubstringPiece{
				{Kind: SubstringInitial, Value: []byte("univ")},
				{Kind: SubstringAny, Value: []byte("of")},
				{Kind: SubstringFinal, Value: []byte("mich")},
			}),
		},
		{
			"substrings any only",
			NewSubstringsNode("cn", []SubstringPiece{{Kind: SubstringAny, Value: []byte("Jensen")}}),
		},
		{
			"extensible with dn and rule",
			NewExtensibleMatchNode("2.4.6.8.10", "cn", []byte("Jensen"), true),
		},
		{
			"extensible rule only",
			NewExtensibleMatchNode("2.4.6.8.10", "", []byte("Jensen"), false),
		},
		{
			"extensible attribute only",
			NewExtensibleMatchNode("", "cn", []byte("Jensen"), false),
		},
		{
			"and with nested or and not",
			NewAndNode(
				NewEqualityMatchNode("objectClass", []byte("person")),
				NewOrNode(
					NewEqualityMatchNode("cn", []byte("Babs Jensen")),
					NewNotNode(NewPresentNode("mail")),
				),
			),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := EncodeBER(tc.node)
			if err != nil {
				t.Fatalf("EncodeBER: %v", err)
			}
			got, err := DecodeBER(data)
			if err != nil {
				t.Fatalf("DecodeBER: %v", err)
			}
			if !Equal(got, tc.node) {
				t.Fatalf("round trip mismatch: got %s, want %s", Render(got), Render(tc.node))
			}
		})
	}
}

func TestEncodeBERNilNode(t *testing.T) {
	if _, err := EncodeBER(nil); err == nil {
		t.Fatalf("EncodeBER(nil): expected error")
	}
}

func TestDecodeBERMalformed(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"truncated tag", []byte{0xA3}},
		{"unknown tag number", []byte{0x8F, 0x00}},
		{"truncated length", []byte{0xA3, 0x05, 0x04}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeBER(tc.data); err == nil {
				t.Fatalf("DecodeBER(%v): expected error", tc.data)
			}
		})
	}
}

func TestDecodeBERPresentMustBePrimitive(t *testing.T) {
	data, err := EncodeBER(NewAndNode(NewPresentNode("cn")))
	if err != nil {
		t.Fatalf("EncodeBER: %v", err)
	}
	// Corrupt the inner Present tag's constructed bit (0x87 -> 0xA7).
	for i, b := range data {
		if b == 0x87 {
			data[i] = 0xA7
			break
		}
	}
	if _, err := DecodeBER(data); err == nil {
		t.Fatalf("DecodeBER: expected error for constructed present")
	}
}

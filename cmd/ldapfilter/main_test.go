package main

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/oba-filter/ldapfilter/internal/filter"
)

func TestRun_NoArgs(t *testing.T) {
	exitCode := run([]string{"ldapfilter"})
	if exitCode != 1 {
		t.Errorf("expected exit code 1 for no args, got %d", exitCode)
	}
}

func TestRun_Help(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"help command", []string{"ldapfilter", "help"}},
		{"short flag", []string{"ldapfilter", "-h"}},
		{"long flag", []string{"ldapfilter", "--help"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if exitCode := run(tt.args); exitCode != 0 {
				t.Errorf("expected exit code 0 for help, got %d", exitCode)
			}
		})
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	exitCode := run([]string{"ldapfilter", "unknown"})
	if exitCode != 1 {
		t.Errorf("expected exit code 1 for unknown command, got %d", exitCode)
	}
}

func TestRun_Version(t *testing.T) {
	if exitCode := run([]string{"ldapfilter", "version"}); exitCode != 0 {
		t.Errorf("expected exit code 0 for version, got %d", exitCode)
	}
}

func TestRun_VersionShort(t *testing.T) {
	if exitCode := run([]string{"ldapfilter", "version", "-short"}); exitCode != 0 {
		t.Errorf("expected exit code 0 for version -short, got %d", exitCode)
	}
}

func TestRun_VersionHelp(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"short flag", []string{"ldapfilter", "version", "-h"}},
		{"long flag", []string{"ldapfilter", "version", "-help"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if exitCode := run(tt.args); exitCode != 0 {
				t.Errorf("expected exit code 0 for version help, got %d", exitCode)
			}
		})
	}
}

func TestRun_Parse(t *testing.T) {
	exitCode := run([]string{"ldapfilter", "parse", "(cn=Babs Jensen)"})
	if exitCode != 0 {
		t.Errorf("expected exit code 0 for parse, got %d", exitCode)
	}
}

func TestRun_ParseBareFilter(t *testing.T) {
	exitCode := run([]string{"ldapfilter", "parse", "cn=Babs Jensen"})
	if exitCode != 0 {
		t.Errorf("expected exit code 0 for parse of a bare filter, got %d", exitCode)
	}
}

func TestRun_ParseWithBER(t *testing.T) {
	exitCode := run([]string{"ldapfilter", "parse", "-ber", "(cn=Babs Jensen)"})
	if exitCode != 0 {
		t.Errorf("expected exit code 0 for parse -ber, got %d", exitCode)
	}
}

func TestRun_ParseSyntaxError(t *testing.T) {
	exitCode := run([]string{"ldapfilter", "parse", "(cn=x"})
	if exitCode != 1 {
		t.Errorf("expected exit code 1 for an unbalanced filter, got %d", exitCode)
	}
}

func TestRun_ParseHelp(t *testing.T) {
	if exitCode := run([]string{"ldapfilter", "parse", "-h"}); exitCode != 0 {
		t.Errorf("expected exit code 0 for parse help, got %d", exitCode)
	}
}

func TestRun_ValidateOK(t *testing.T) {
	exitCode := run([]string{"ldapfilter", "validate", "(&(cn=a)(sn=b))"})
	if exitCode != 0 {
		t.Errorf("expected exit code 0 for a balanced filter, got %d", exitCode)
	}
}

func TestRun_ValidateUnbalanced(t *testing.T) {
	exitCode := run([]string{"ldapfilter", "validate", "(&(cn=a)(sn=b)"})
	if exitCode != 1 {
		t.Errorf("expected exit code 1 for an unbalanced filter, got %d", exitCode)
	}
}

func TestRun_ValidateHelp(t *testing.T) {
	if exitCode := run([]string{"ldapfilter", "validate", "-h"}); exitCode != 0 {
		t.Errorf("expected exit code 0 for validate help, got %d", exitCode)
	}
}

func TestRun_RenderRoundTripsParseBER(t *testing.T) {
	hexDump := parseToHex(t, "(cn=Babs Jensen)")
	exitCode := run([]string{"ldapfilter", "render", hexDump})
	if exitCode != 0 {
		t.Errorf("expected exit code 0 for render, got %d", exitCode)
	}
}

func TestRun_RenderBadHex(t *testing.T) {
	exitCode := run([]string{"ldapfilter", "render", "not-hex"})
	if exitCode != 1 {
		t.Errorf("expected exit code 1 for malformed hex, got %d", exitCode)
	}
}

func TestRun_RenderHelp(t *testing.T) {
	if exitCode := run([]string{"ldapfilter", "render", "-h"}); exitCode != 0 {
		t.Errorf("expected exit code 0 for render help, got %d", exitCode)
	}
}

// parseToHex returns the hex dump of text's BER encoding, for use as
// render's input.
func parseToHex(t *testing.T, text string) string {
	t.Helper()
	node, err := filter.Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q): %v", text, err)
	}
	data, err := filter.EncodeBER(node)
	if err != nil {
		t.Fatalf("EncodeBER: %v", err)
	}
	return hex.EncodeToString(data)
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf)
	output := buf.String()

	for _, expected := range []string{"ldapfilter", "Usage:", "parse", "render", "validate", "version"} {
		if !strings.Contains(output, expected) {
			t.Errorf("expected usage to contain %q", expected)
		}
	}
}

func TestPrintParseUsage(t *testing.T) {
	var buf bytes.Buffer
	printParseUsage(&buf)
	output := buf.String()

	for _, expected := range []string{"-ber", "-config"} {
		if !strings.Contains(output, expected) {
			t.Errorf("expected parse usage to contain %q", expected)
		}
	}
}

func TestPrintRenderUsage(t *testing.T) {
	var buf bytes.Buffer
	printRenderUsage(&buf)
	if !strings.Contains(buf.String(), "-config") {
		t.Errorf("expected render usage to contain -config")
	}
}

func TestPrintValidateUsage(t *testing.T) {
	var buf bytes.Buffer
	printValidateUsage(&buf)
	if !strings.Contains(buf.String(), "first syntax error") {
		t.Errorf("expected validate usage to describe the first-error behavior")
	}
}

func TestPrintVersionUsage(t *testing.T) {
	var buf bytes.Buffer
	printVersionUsage(&buf)
	if !strings.Contains(buf.String(), "-short") {
		t.Errorf("expected version usage to contain -short")
	}
}

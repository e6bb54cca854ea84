package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage information to the given writer.
func printUsage(w io.Writer) {
	fmt.Fprint(w, `ldapfilter - RFC 2254 LDAP search filter tool

Usage:
  ldapfilter <command> [options]

Commands:
  parse       Parse filter text and print the reconstructed filter
  render      Decode a BER hex dump and print its filter text
  validate    Check a filter's parenthesis balance only
  version     Show version information

Use "ldapfilter <command> -h" for more information about a command.
`)
}

// printParseUsage prints the parse command usage.
func printParseUsage(w io.Writer) {
	fmt.Fprint(w, `Parse filter text and print the reconstructed filter

Usage:
  ldapfilter parse [options] [filter]

Reads the filter from the argument if given, otherwise from the first line
of stdin.

Options:
  -ber
        Also print the BER encoding as a hex dump
  -config string
        Path to configuration file (default "$HOME/.ldapfilter.yaml")
  -h, -help
        Show this help message
`)
}

// printRenderUsage prints the render command usage.
func printRenderUsage(w io.Writer) {
	fmt.Fprint(w, `Decode a BER hex dump and print its filter text

Usage:
  ldapfilter render [options] [hex]

Reads the hex dump from the argument if given, otherwise from the first
line of stdin.

Options:
  -config string
        Path to configuration file (default "$HOME/.ldapfilter.yaml")
  -h, -help
        Show this help message
`)
}

// printValidateUsage prints the validate command usage.
func printValidateUsage(w io.Writer) {
	fmt.Fprint(w, `Check a filter's parenthesis balance only

Usage:
  ldapfilter validate [options] [filter]

Reads the filter from the argument if given, otherwise from the first line
of stdin. Exits 1 and prints the first syntax error, if any.

Options:
  -config string
        Path to configuration file (default "$HOME/.ldapfilter.yaml")
  -h, -help
        Show this help message
`)
}

// printVersionUsage prints the version command usage.
func printVersionUsage(w io.Writer) {
	fmt.Fprint(w, `Show version information

Usage:
  ldapfilter version [options]

Options:
  -short
        Show only version number
  -h, -help
        Show this help message
`)
}

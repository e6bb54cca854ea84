package main

import (
	"bufio"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/oba-filter/ldapfilter/internal/cliconfig"
	"github.com/oba-filter/ldapfilter/internal/filter"
)

// newLogger builds the structured logger used to trace CLI-boundary events,
// configured from cfg's log level and format.
func newLogger(cfg *cliconfig.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if strings.EqualFold(cfg.LogFormat, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	}
	return log
}

// loadConfig resolves and loads the CLI configuration file named by
// -config, falling back to cliconfig.DefaultPath() when unset.
func loadConfig(configPath string) (*cliconfig.Config, error) {
	path := configPath
	if path == "" {
		path = cliconfig.DefaultPath()
		if path == "" {
			return cliconfig.Default(), nil
		}
	}
	return cliconfig.Load(path)
}

// readInput returns args[0] if present, otherwise the first line read from
// stdin.
func readInput(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", errors.Wrap(err, "reading stdin")
		}
		return "", errors.New("no input: pass a filter as an argument or on stdin")
	}
	return scanner.Text(), nil
}

// parseCmd handles the parse command.
func parseCmd(args []string) int {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	configPath := fs.String("config", "", "Path to configuration file")
	withBER := fs.Bool("ber", false, "Also print the BER encoding as a hex dump")
	help := fs.Bool("h", false, "Show help message")
	helpLong := fs.Bool("help", false, "Show help message")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *help || *helpLong {
		printParseUsage(os.Stdout)
		return 0
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}
	log := newLogger(cfg)

	text, err := readInput(fs.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	log.WithField("command", "parse").Debug("starting")
	start := time.Now()
	node, err := filter.Parse(text)
	elapsed := time.Since(start)
	if err != nil {
		log.WithError(err).WithField("duration", elapsed).Error("parse failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", errors.Wrap(err, "parsing filter"))
		return 1
	}
	log.WithField("duration", elapsed).Debug("parse succeeded")

	fmt.Println(filter.Render(node))

	if *withBER {
		data, err := filter.EncodeBER(node)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", errors.Wrap(err, "encoding BER"))
			return 1
		}
		fmt.Println(hex.EncodeToString(data))
	}
	return 0
}

// renderCmd handles the render command.
func renderCmd(args []string) int {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	configPath := fs.String("config", "", "Path to configuration file")
	help := fs.Bool("h", false, "Show help message")
	helpLong := fs.Bool("help", false, "Show help message")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *help || *helpLong {
		printRenderUsage(os.Stdout)
		return 0
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}
	log := newLogger(cfg)

	hexDump, err := readInput(fs.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	data, err := hex.DecodeString(strings.TrimSpace(hexDump))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", errors.Wrap(err, "decoding hex dump"))
		return 1
	}

	log.WithField("command", "render").Debug("starting")
	start := time.Now()
	node, err := filter.DecodeBER(data)
	elapsed := time.Since(start)
	if err != nil {
		log.WithError(err).WithField("duration", elapsed).Error("decode failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", errors.Wrap(err, "decoding BER"))
		return 1
	}
	log.WithField("duration", elapsed).Debug("decode succeeded")

	fmt.Println(filter.Render(node))
	return 0
}

// validateCmd handles the validate command.
func validateCmd(args []string) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	configPath := fs.String("config", "", "Path to configuration file")
	help := fs.Bool("h", false, "Show help message")
	helpLong := fs.Bool("help", false, "Show help message")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *help || *helpLong {
		printValidateUsage(os.Stdout)
		return 0
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}
	log := newLogger(cfg)

	text, err := readInput(fs.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	log.WithField("command", "validate").Debug("starting")
	if err := filter.ValidateParens(text); err != nil {
		log.WithError(err).Error("validation failed")
		fmt.Fprintf(os.Stderr, "Invalid: %v\n", err)
		return 1
	}

	fmt.Println("Valid")
	return 0
}

// Command analyze rates one policy from a JSON file or stdin and writes the
// analysis to stdout. Intended for quick checks and pipeline use without
// running the HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/policy-rating-engine/internal/domain"
	"github.com/policy-rating-engine/internal/metrics"
	"github.com/policy-rating-engine/internal/rules"
	"github.com/policy-rating-engine/internal/service"
)

type excludeFlags []string

func (e *excludeFlags) String() string {
	return strings.Join(*e, ",")
}

func (e *excludeFlags) Set(value string) error {
	*e = append(*e, value)
	return nil
}

func main() {
	var (
		input    = flag.String("input", "-", "policy JSON file, or - for stdin")
		pretty   = flag.Bool("pretty", false, "indent the output JSON")
		logLevel = flag.String("log-level", "warn", "log level (debug, info, warn, error)")
		excludes excludeFlags
	)
	flag.Var(&excludes, "exclude", "category to exclude from the overall tier (repeatable)")
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if level, err := logrus.ParseLevel(*logLevel); err == nil {
		logger.SetLevel(level)
	}

	raw, err := readPolicy(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}

	analyzer, err := service.NewAnalyzerService(
		rules.NewEngine(logger),
		service.NewNormalizer(logger),
		metrics.New(),
		logger,
		service.DefaultCacheSize,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	analysis, err := analyzer.AnalyzeRaw(ctx, raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}

	if len(excludes) > 0 {
		analysis, err = analyzer.RectifyResults(ctx, analysis.Categories, excludes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
			os.Exit(1)
		}
	}

	if err := writeAnalysis(os.Stdout, analysis, *pretty); err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}
}

func readPolicy(input string) (map[string]any, error) {
	var (
		data []byte
		err  error
	)
	if input == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		return nil, fmt.Errorf("reading policy: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing policy JSON: %w", err)
	}
	return raw, nil
}

func writeAnalysis(w io.Writer, analysis *domain.InsuranceAnalysis, pretty bool) error {
	encoder := json.NewEncoder(w)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(analysis)
}

// Command evaluate runs the entry decision engine on a JSON input file and
// prints the decision to stdout. Useful for scripting and for reproducing a
// past decision with a frozen clock.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"spread-entry-engine/internal/engine"
)

func main() {
	inputPath := flag.String("input", "-", "path to the evaluation input JSON, '-' for stdin")
	nowOverride := flag.String("now", "", "evaluate as of this RFC3339 time instead of the wall clock")
	pretty := flag.Bool("pretty", true, "indent the output JSON")
	flag.Parse()

	var reader io.Reader
	if *inputPath == "-" {
		reader = os.Stdin
	} else {
		f, err := os.Open(*inputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open input: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		reader = f
	}

	var input engine.Input
	if err := json.NewDecoder(reader).Decode(&input); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse input JSON: %v\n", err)
		os.Exit(1)
	}

	eng := engine.New()
	if *nowOverride != "" {
		at, err := time.Parse(time.RFC3339, *nowOverride)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid -now value, expected RFC3339: %v\n", err)
			os.Exit(1)
		}
		eng = engine.NewWithClock(func() time.Time { return at })
	}

	decision := eng.Evaluate(input)

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(decision); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode decision: %v\n", err)
		os.Exit(1)
	}
}

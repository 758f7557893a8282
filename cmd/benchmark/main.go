// Relevance gate probe: runs queries through the concept analyzer and
// query expander without touching any backend, so dictionary changes
// can be checked offline.
//
// Usage:
//
//	go run cmd/benchmark/main.go "تدقيق داخلي" "What is the weather?"
//	go run cmd/benchmark/main.go -f queries.txt
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"auditrag/internal/adapter/lang"
)

func main() {
	queriesFile := flag.String("f", "", "File with one query per line")
	conceptsFile := flag.String("concepts", "", "Concept dictionary override (YAML)")
	flag.Parse()

	queries := flag.Args()
	if *queriesFile != "" {
		fileQueries, err := readQueries(*queriesFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading queries: %v\n", err)
			os.Exit(1)
		}
		queries = append(queries, fileQueries...)
	}
	if len(queries) == 0 {
		fmt.Println("Usage: go run cmd/benchmark/main.go [-f queries.txt] \"query\" ...")
		os.Exit(1)
	}

	var dict *lang.Dictionary
	var err error
	if *conceptsFile != "" {
		dict, err = lang.LoadDictionary(*conceptsFile)
	} else {
		dict, err = lang.BuiltinDictionary()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading dictionary: %v\n", err)
		os.Exit(1)
	}

	expander := lang.NewExpander(lang.NewAnalyzer(dict))

	fmt.Println("RELEVANCE GATE PROBE")
	fmt.Println(strings.Repeat("=", 70))

	accepted := 0
	for _, q := range queries {
		expanded := expander.Expand(q)
		a := expanded.Analysis

		verdict := "REJECT"
		if a.AuditRelated {
			verdict = "ACCEPT"
			accepted++
		}

		fmt.Printf("\n[%s] %s\n", verdict, q)
		fmt.Printf("  language:  %s\n", a.Language)
		fmt.Printf("  strategy:  %s\n", expanded.Strategy)
		if len(a.Concepts) > 0 {
			fmt.Printf("  concepts:  %s\n", strings.Join(a.Concepts, ", "))
		}
		if expanded.Enhanced != q {
			fmt.Printf("  expanded:  %s\n", expanded.Enhanced)
		}
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Accepted %d of %d queries\n", accepted, len(queries))
}

func readQueries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var queries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			queries = append(queries, line)
		}
	}
	return queries, scanner.Err()
}

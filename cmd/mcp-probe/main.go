// mcp-probe runs the scripted MCP conformance scenario against a server and
// reports one outcome per step. Step failures are reported, never fatal: the
// process exits 0 once the scenario completes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/vcto/mcp-probe/internal/client"
	"github.com/vcto/mcp-probe/internal/config"
	"github.com/vcto/mcp-probe/internal/harness"
	"github.com/vcto/mcp-probe/internal/record"
)

func main() {
	cfg := config.Load()

	url := flag.String("url", cfg.TargetURL, "base URL of the MCP server under test")
	timeout := flag.Duration("timeout", cfg.Timeout, "per-request HTTP timeout")
	query := flag.String("query", cfg.SearchQuery, "query for the search tool step")
	fetchID := flag.String("fetch-id", cfg.FetchID, "document id for the fixed fetch step")
	flag.Parse()

	c := client.New(*url, *timeout)
	defer c.Close()

	runner := harness.NewRunner(c, harness.Scenario{
		Query:   *query,
		FetchID: *fetchID,
	})

	log.Printf("probing %s", *url)
	started := time.Now().UTC()
	outcomes := runner.Run(context.Background())
	finished := time.Now().UTC()

	printOutcomes(outcomes)

	if cfg.Record {
		store, err := record.NewRunStore(cfg.RecordPath)
		if err != nil {
			log.Printf("run recording unavailable: %v", err)
			return
		}
		defer store.Close()
		runID, err := store.SaveRun(*url, outcomes, started, finished)
		if err != nil {
			log.Printf("failed to record run: %v", err)
			return
		}
		log.Printf("recorded run %s", runID)
	}
}

func printOutcomes(outcomes []harness.Outcome) {
	passed := 0
	for _, o := range outcomes {
		switch o.Status {
		case harness.StatusSuccess:
			passed++
			fmt.Fprintf(os.Stdout, "ok      %-28s %s\n", o.Step, o.Duration.Round(time.Millisecond))
		case harness.StatusSkipped:
			fmt.Fprintf(os.Stdout, "skip    %-28s %s\n", o.Step, o.Err)
		default:
			fmt.Fprintf(os.Stdout, "fail    %-28s [%s] %s\n", o.Step, o.Kind, o.Err)
		}
	}
	fmt.Fprintf(os.Stdout, "%d/%d steps passed\n", passed, len(outcomes))
}

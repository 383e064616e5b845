// Package harness drives the scripted conformance scenario against an MCP
// endpoint: initialize, list tools, search, a fetch chained off the first
// search hit, and a fetch of a fixed document. Every step runs best-effort;
// a failed step is recorded and the run continues.
package harness

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/spf13/cast"

	"github.com/vcto/mcp-probe/internal/client"
	"github.com/vcto/mcp-probe/internal/mcp"
	"github.com/vcto/mcp-probe/internal/sse"
)

// Caller is the one network dependency of the sequencer, satisfied by
// *client.Client and by test doubles.
type Caller interface {
	Call(ctx context.Context, method string, params interface{}) (*mcp.Response, error)
}

// Status tags how a step ended.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Error kinds recorded on failed outcomes.
const (
	KindTransport   = "transport"
	KindDecode      = "decode"
	KindApplication = "application"
	KindParse       = "parse"
)

// Step names, in scenario order.
const (
	StepInitialize   = "initialize"
	StepListTools    = "tools/list"
	StepSearch       = "tools/call search"
	StepChainedFetch = "tools/call fetch (chained)"
	StepFixedFetch   = "tools/call fetch (fixed)"
)

// Outcome is the recorded result of one step.
type Outcome struct {
	Step     string          `json:"step"`
	Status   Status          `json:"status"`
	Kind     string          `json:"error_kind,omitempty"`
	Err      string          `json:"error,omitempty"`
	Detail   json.RawMessage `json:"detail,omitempty"`
	Duration time.Duration   `json:"duration"`
}

// State is the sequencer's position in the run. Transitions are forward
// only; Completed is terminal no matter how many steps failed.
type State int

const (
	StateNotStarted State = iota
	StateInitializing
	StateListingTools
	StateSearching
	StateChainedFetch
	StateSkippedChainedFetch
	StateFixedFetch
	StateCompleted
)

// Scenario fixes the inputs of a run.
type Scenario struct {
	Query         string
	FetchID       string
	ClientName    string
	ClientVersion string
}

// Runner executes the five-step scenario exactly once.
type Runner struct {
	caller   Caller
	scenario Scenario
	state    State
	outcomes []Outcome
}

// NewRunner builds a single-use runner. Callers own the Caller's lifecycle.
func NewRunner(c Caller, s Scenario) *Runner {
	if s.ClientName == "" {
		s.ClientName = "mcp-probe"
	}
	if s.ClientVersion == "" {
		s.ClientVersion = "1.0.0"
	}
	return &Runner{caller: c, scenario: s}
}

// State reports the runner's current position.
func (r *Runner) State() State { return r.state }

// Run executes all five steps and returns exactly five outcomes. No step
// error aborts the sequence.
func (r *Runner) Run(ctx context.Context) []Outcome {
	r.state = StateInitializing
	r.exec(ctx, StepInitialize, "initialize", map[string]interface{}{
		"protocolVersion": mcp.ProtocolVersion,
		"capabilities":    map[string]interface{}{"tools": map[string]interface{}{}},
		"clientInfo": map[string]interface{}{
			"name":    r.scenario.ClientName,
			"version": r.scenario.ClientVersion,
		},
	})

	r.state = StateListingTools
	r.exec(ctx, StepListTools, "tools/list", map[string]interface{}{})

	r.state = StateSearching
	search := r.exec(ctx, StepSearch, "tools/call", toolCallParams("search", map[string]interface{}{
		"query": r.scenario.Query,
	}))

	r.chainedFetch(ctx, search)

	r.state = StateFixedFetch
	r.exec(ctx, StepFixedFetch, "tools/call", toolCallParams("fetch", map[string]interface{}{
		"id": r.scenario.FetchID,
	}))

	r.state = StateCompleted
	return r.outcomes
}

// chainedFetch issues the fetch for the first search hit, or records a skip
// when the search step left nothing to chain from.
func (r *Runner) chainedFetch(ctx context.Context, search Outcome) {
	if search.Status != StatusSuccess {
		r.skip(StepChainedFetch, "", "search step did not succeed")
		return
	}
	id, err := firstHitID(search.Detail)
	if err != nil {
		log.Printf("could not parse search results for chained fetch: %v", err)
		r.skip(StepChainedFetch, KindParse, err.Error())
		return
	}
	if id == "" {
		r.skip(StepChainedFetch, "", "no search results to fetch")
		return
	}
	r.state = StateChainedFetch
	r.exec(ctx, StepChainedFetch, "tools/call", toolCallParams("fetch", map[string]interface{}{
		"id": id,
	}))
}

// exec runs one call, converts any failure into a recorded outcome, and
// never propagates an error.
func (r *Runner) exec(ctx context.Context, step, method string, params interface{}) Outcome {
	start := time.Now()
	resp, err := r.caller.Call(ctx, method, params)
	if err == nil && resp.Error != nil {
		err = &client.ApplicationError{RPC: resp.Error}
	}
	var out Outcome
	if err != nil {
		log.Printf("step %q failed: %v", step, err)
		out = Outcome{
			Step:     step,
			Status:   StatusFailed,
			Kind:     errorKind(err),
			Err:      err.Error(),
			Duration: time.Since(start),
		}
	} else {
		log.Printf("step %q ok", step)
		out = Outcome{
			Step:     step,
			Status:   StatusSuccess,
			Detail:   resp.Result,
			Duration: time.Since(start),
		}
	}
	r.outcomes = append(r.outcomes, out)
	return out
}

// skip records a step that was not attempted.
func (r *Runner) skip(step, kind, reason string) {
	if step == StepChainedFetch {
		r.state = StateSkippedChainedFetch
	}
	log.Printf("step %q skipped: %s", step, reason)
	r.outcomes = append(r.outcomes, Outcome{
		Step:   step,
		Status: StatusSkipped,
		Kind:   kind,
		Err:    reason,
	})
}

func toolCallParams(name string, args map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
}

// firstHitID digs the first hit id out of a search tools/call result. An
// empty id with nil error means the result set was well-formed but empty.
func firstHitID(result json.RawMessage) (string, error) {
	var call mcp.CallResult
	if err := json.Unmarshal(result, &call); err != nil {
		return "", &client.ParseError{What: "tool call content", Err: err}
	}
	text, ok := call.FirstText()
	if !ok {
		return "", &client.ParseError{What: "text content block"}
	}
	var set map[string]interface{}
	if err := json.Unmarshal([]byte(text), &set); err != nil {
		return "", &client.ParseError{What: "search result set", Err: err}
	}
	hits := cast.ToSlice(set["results"])
	if len(hits) == 0 {
		return "", nil
	}
	id := cast.ToString(cast.ToStringMap(hits[0])["id"])
	if id == "" {
		return "", &client.ParseError{What: "search hit id"}
	}
	return id, nil
}

// errorKind maps the error taxonomy onto outcome tags. Anything the HTTP
// client fails before a status line lands in the transport bucket.
func errorKind(err error) string {
	var te *client.TransportError
	var de *sse.DecodeError
	var ae *client.ApplicationError
	var pe *client.ParseError
	switch {
	case errors.As(err, &ae):
		return KindApplication
	case errors.As(err, &de):
		return KindDecode
	case errors.As(err, &pe):
		return KindParse
	case errors.As(err, &te):
		return KindTransport
	default:
		return KindTransport
	}
}

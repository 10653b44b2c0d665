package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TraceSnapshot is the serialized form compared against golden files.
type TraceSnapshot struct {
	Scenario string       `json:"scenario"`
	Events   []TraceEvent `json:"events"`
	Final    FinalState   `json:"final"`
}

// FinalState summarizes the state after the last step.
type FinalState struct {
	Count       int    `json:"count"`
	Total       string `json:"total"`
	Pushes      int    `json:"pushes"`
	RemoteItems int    `json:"remote_items"`
}

// RunWithGolden executes a scenario and compares the trace against the
// golden file testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	snapshot := TraceSnapshot{
		Scenario: scenario.Name,
		Events:   result.Events,
		Final: FinalState{
			Count:       result.Count,
			Total:       result.Total.StringFixed(2),
			Pushes:      result.Pushes,
			RemoteItems: result.RemoteItems,
		},
	}
	data, err := json.MarshalIndent(&snapshot, "", "  ")
	if err != nil {
		return nil, err
	}
	data = append(data, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return result, nil
}

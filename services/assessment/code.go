package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	courseModels "abhyasi/models/course"
	"abhyasi/services/execution"
)

var (
	// ErrNoCodingTask means the module has no coding exercise to run against
	ErrNoCodingTask = errors.New("no coding task available for this module")
	// ErrLanguageNotAllowed means the language is not in the task's allowed list
	// or the execution gateway cannot run it
	ErrLanguageNotAllowed = errors.New("language not supported for this task")
)

// CodeOutcome is the scored result of running a code submission against all
// of a task's testcases. Passed requires every single testcase to pass.
// Logs keeps the unredacted execution errors of every testcase, hidden ones
// included; it is stored on the submission but never shown to learners.
type CodeOutcome struct {
	Score   float64 // percentage of passing testcases, 0..100
	Passed  bool
	Results []courseModels.TestResult
	Logs    string
}

// RunCodingTask executes the submitted code against every testcase of the
// task, in the task's defined order. A gateway failure on one testcase is
// folded into that testcase's result; the remaining testcases still run.
// Failing hidden testcases are redacted to {testcaseId, passed, flags}.
func RunCodingTask(ctx context.Context, gw execution.Gateway, task courseModels.CodingTask, code, lang string) (CodeOutcome, error) {
	if len(task.Testcases) == 0 {
		return CodeOutcome{}, ErrNoCodingTask
	}
	if !languageAllowed(task, lang) || !gw.Supports(lang) {
		return CodeOutcome{}, ErrLanguageNotAllowed
	}

	cases := make([]courseModels.Testcase, len(task.Testcases))
	copy(cases, task.Testcases)
	sort.SliceStable(cases, func(i, j int) bool {
		return cases[i].OrderIndex < cases[j].OrderIndex
	})

	outcome := CodeOutcome{Results: make([]courseModels.TestResult, 0, len(cases))}
	passedCount := 0
	var logs []string

	for _, tc := range cases {
		res := gw.Execute(ctx, lang, code, tc.Input, task.TimeoutSeconds)
		passed := res.Err == "" && execution.ValidateOutput(res.Output, tc.ExpectedOutput)
		if passed {
			passedCount++
		}
		if res.Err != "" {
			logs = append(logs, tc.Label+": "+res.Err)
		}

		result := courseModels.TestResult{
			Label:          tc.Label,
			Passed:         passed,
			Hidden:         tc.Hidden,
			ExecutionError: res.Err != "",
		}
		// A failing hidden testcase must not leak its input, expected
		// output or raw error.
		if !tc.Hidden || passed {
			result.Input = tc.Input
			result.Expected = tc.ExpectedOutput
			result.Output = res.Output
			result.Error = res.Err
		}
		outcome.Results = append(outcome.Results, result)
	}

	outcome.Score = float64(passedCount) / float64(len(cases)) * 100
	outcome.Passed = passedCount == len(cases)
	outcome.Logs = strings.Join(logs, "\n")
	return outcome, nil
}

func languageAllowed(task courseModels.CodingTask, lang string) bool {
	var allowed []string
	if len(task.Languages) > 0 {
		if err := json.Unmarshal(task.Languages, &allowed); err != nil {
			return false
		}
	}
	// An empty list means the task accepts any gateway-supported language
	if len(allowed) == 0 {
		return true
	}
	for _, l := range allowed {
		if strings.EqualFold(l, lang) {
			return true
		}
	}
	return false
}

package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Result is the outcome of running submitted code against one testcase
// input. Err is non-empty on compile errors, runtime errors and timeouts;
// the submission pipeline folds it into that testcase's result instead of
// aborting the run.
type Result struct {
	Output string
	Err    string
}

// Gateway executes submitted code against a testcase input. Implementations
// must bound each call by timeoutSeconds.
type Gateway interface {
	Supports(language string) bool
	Execute(ctx context.Context, language, code, input string, timeoutSeconds int) Result
}

// ValidateOutput compares actual and expected program output after
// whitespace normalization: lines are trimmed, empty lines dropped. This
// tolerates trailing whitespace and blank-line differences but not
// reordering.
func ValidateOutput(actual, expected string) bool {
	return normalize(actual) == normalize(expected)
}

func normalize(s string) string {
	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

type language struct {
	file    string   // source file name written into the scratch dir
	run     []string // run command; %d is replaced by the scratch dir
	compile []string // optional compile step
}

var languages = map[string]language{
	"javascript": {file: "main.js", run: []string{"node", "main.js"}},
	"python":     {file: "main.py", run: []string{"python3", "main.py"}},
	"java": {
		file:    "Main.java",
		compile: []string{"javac", "Main.java"},
		run:     []string{"java", "Main"},
	},
	"cpp": {
		file:    "main.cpp",
		compile: []string{"g++", "-O2", "-o", "prog", "main.cpp"},
		run:     []string{"./prog"},
	},
}

// LocalRunner runs code in a scratch directory via subprocesses. It is a
// best-effort runner, not a hardened sandbox.
type LocalRunner struct {
	WorkDir string // empty = os temp dir
}

func NewLocalRunner(workDir string) *LocalRunner {
	return &LocalRunner{WorkDir: workDir}
}

func (r *LocalRunner) Supports(lang string) bool {
	_, ok := languages[strings.ToLower(lang)]
	return ok
}

func (r *LocalRunner) Execute(ctx context.Context, lang, code, input string, timeoutSeconds int) Result {
	cfg, ok := languages[strings.ToLower(lang)]
	if !ok {
		return Result{Err: fmt.Sprintf("unsupported language: %s", lang)}
	}

	if timeoutSeconds <= 0 {
		timeoutSeconds = 10
	}

	base := r.WorkDir
	if base == "" {
		base = os.TempDir()
	}
	dir := filepath.Join(base, "code-execution-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{Err: "failed to create scratch dir: " + err.Error()}
	}
	defer os.RemoveAll(dir)

	if err := os.WriteFile(filepath.Join(dir, cfg.file), []byte(code), 0o644); err != nil {
		return Result{Err: "failed to write source file: " + err.Error()}
	}

	if len(cfg.compile) > 0 {
		if out, err := r.runCommand(ctx, dir, cfg.compile, "", timeoutSeconds); err != nil {
			return Result{Err: compactError(out, err)}
		}
	}

	out, err := r.runCommand(ctx, dir, cfg.run, input, timeoutSeconds)
	if err != nil {
		return Result{Err: compactError(out, err)}
	}
	return Result{Output: out}
}

func (r *LocalRunner) runCommand(ctx context.Context, dir string, args []string, input string, timeoutSeconds int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSeconds)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return stdout.String(), errors.New("execution timed out")
	}
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return stdout.String(), errors.New(msg)
		}
		return stdout.String(), err
	}
	return stdout.String(), nil
}

func compactError(out string, err error) string {
	msg := err.Error()
	if out = strings.TrimSpace(out); out != "" {
		msg = msg + "\n" + out
	}
	return msg
}

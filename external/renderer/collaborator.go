// Package renderer calls the out-of-process collaborator that drives a browser for
// terminals whose schedule only exists after client-side rendering.
package renderer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/neckchi/vesseleta/internal/exceptions"
	"github.com/neckchi/vesseleta/internal/schema"
	log "github.com/sirupsen/logrus"
)

// stderrExcerptLen caps how much collaborator stderr is kept as evidence.
const stderrExcerptLen = 500

// waitDelay bounds how long Wait blocks on pipes held open by grandchildren after a kill.
const waitDelay = 2 * time.Second

// Request is one rendering call.
type Request struct {
	Terminal   schema.TerminalCode
	VesselName string
	VoyageCode string
	Timeout    time.Duration
}

// Result carries the parsed output plus the stderr excerpt kept as evidence.
type Result struct {
	Output   schema.RenderedOutcome
	Stderr   string
	ExitCode int
}

type Renderer interface {
	Render(ctx context.Context, command []string, req Request) (Result, error)
}

// CommandRenderer runs the configured command as a child process. The terminal code,
// vessel name, voyage code and timeout in whole seconds are appended to its argv.
// A terminal without its own command uses DefaultCommand.
type CommandRenderer struct {
	DefaultCommand []string
	DefaultTimeout time.Duration
}

func NewCommandRenderer(defaultCommand []string, defaultTimeout time.Duration) *CommandRenderer {
	return &CommandRenderer{DefaultCommand: defaultCommand, DefaultTimeout: defaultTimeout}
}

func timeoutSeconds(d time.Duration) string {
	secs := int(d / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// excerpt keeps the tail of b, where the collaborator prints its failure.
func excerpt(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= stderrExcerptLen {
		return s
	}
	start := len(s) - stderrExcerptLen
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return s[start:]
}

// Render never outlives req.Timeout: the context deadline kills the process and the
// call is reported as a fetch failure.
func (r *CommandRenderer) Render(ctx context.Context, command []string, req Request) (Result, error) {
	terminal := string(req.Terminal)
	if len(command) == 0 {
		command = r.DefaultCommand
	}
	if len(command) == 0 {
		return Result{}, &exceptions.FetchError{Terminal: terminal, Err: errors.New("no renderer command configured")}
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = r.DefaultTimeout
	}
	childCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string(nil), command[1:]...), terminal, req.VesselName, req.VoyageCode, timeoutSeconds(timeout))
	cmd := exec.CommandContext(childCtx, command[0], args...)
	cmd.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	result := Result{Stderr: excerpt(stderr.Bytes()), ExitCode: cmd.ProcessState.ExitCode()}
	log.Infof("Renderer: %s %s exit=%d %.3fs", command[0], terminal, result.ExitCode, time.Since(start).Seconds())

	if errors.Is(childCtx.Err(), context.DeadlineExceeded) {
		return result, &exceptions.FetchError{Terminal: terminal, Err: fmt.Errorf("renderer timed out after %s", timeout)}
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return result, &exceptions.FetchError{Terminal: terminal, Err: fmt.Errorf("start renderer: %w", err)}
		}
		if len(bytes.TrimSpace(stdout.Bytes())) == 0 {
			return result, &exceptions.FetchError{Terminal: terminal, Err: fmt.Errorf("renderer exited with status %d: %s", result.ExitCode, result.Stderr)}
		}
	}

	out, err := parseOutput(stdout.Bytes())
	if err != nil {
		return result, &exceptions.FetchError{Terminal: terminal, Err: err}
	}
	result.Output = out
	return result, nil
}

// parseOutput accepts stdout that is one JSON object, or log lines followed by one.
func parseOutput(stdout []byte) (schema.RenderedOutcome, error) {
	var out schema.RenderedOutcome
	trimmed := bytes.TrimSpace(stdout)
	if len(trimmed) == 0 {
		return out, exceptions.ErrRendererOutput
	}
	if err := json.Unmarshal(trimmed, &out); err == nil {
		return out, nil
	}

	var last string
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); strings.HasPrefix(line, "{") {
			last = line
		}
	}
	if last == "" {
		return out, exceptions.ErrRendererOutput
	}
	if err := json.Unmarshal([]byte(last), &out); err != nil {
		return schema.RenderedOutcome{}, fmt.Errorf("%w: %v", exceptions.ErrRendererOutput, err)
	}
	return out, nil
}

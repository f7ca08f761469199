package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/scendiff/scendiff/schema"
)

// LocalEngineClient runs the projection engine as a subprocess on the
// local machine. It is stateless and safe for concurrent use.
type LocalEngineClient struct{}

// Compile-time check that LocalEngineClient implements EngineClient.
var _ EngineClient = &LocalEngineClient{}

// Invoke runs the engine binary and waits for it to exit.
func (c *LocalEngineClient) Invoke(ctx context.Context, req EngineRequest) error {
	cmd := exec.CommandContext(ctx, req.Command, BuildEngineArgs(req)...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s did not finish before the deadline", schema.ErrEngineTimeout, req.Command)
	}
	if ctx.Err() != nil {
		// Caller-initiated cancellation is not an engine failure.
		return ctx.Err()
	}
	msg := strings.TrimSpace(stderr.String())
	if msg == "" {
		msg = err.Error()
	}
	return fmt.Errorf("%w: %s: %s", schema.ErrEngineInvocation, req.Command, msg)
}

// BuildEngineArgs renders the flag vector for one engine invocation.
// Exposed so tests and the benchmark harness can assert on the exact
// command line.
func BuildEngineArgs(req EngineRequest) []string {
	vars := make([]string, len(req.Variables))
	for i, v := range req.Variables {
		vars[i] = string(v)
	}
	return []string{
		"--scenario", req.ScenarioPath,
		"--outdir", req.OutDir,
		"--start-year", formatYear(req.StartYear),
		"--end-year", formatYear(req.EndYear),
		"--timestep", formatYear(req.Timestep),
		"--vars", strings.Join(vars, ","),
	}
}

func formatYear(y float64) string {
	return strconv.FormatFloat(y, 'f', -1, 64)
}

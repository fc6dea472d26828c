package component

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// UserError marks a failure as user-attributable: caused by the component's
// configuration or input data rather than a bug. The process should exit
// with code 1 for these and code 2 for everything else.
type UserError struct {
	Err error
}

func (e *UserError) Error() string { return e.Err.Error() }

func (e *UserError) Unwrap() error { return e.Err }

// NewUserError wraps err as user-attributable.
func NewUserError(err error) *UserError {
	return &UserError{Err: err}
}

// UserErrorf builds a user-attributable error from a format string.
func UserErrorf(format string, args ...any) *UserError {
	return &UserError{Err: fmt.Errorf(format, args...)}
}

// ExitCode maps an execution error to the process exit status the host
// interprets: 0 success, 1 user error, 2 internal failure.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ue *UserError
	if errors.As(err, &ue) {
		return 1
	}
	return 2
}

// RunAction is the reserved name of the default action.
const RunAction = "run"

// Component is the main execution code of the default run action.
type Component interface {
	Run(ctx context.Context, ci *CommonInterface) error
}

// ActionFunc handles one named sync action. Its result is rendered as JSON
// on stdout when the action succeeds.
type ActionFunc func(ctx context.Context, ci *CommonInterface) (any, error)

// Runner routes the configured action to the component's run method or to a
// registered sync action.
type Runner struct {
	ci      *CommonInterface
	comp    Component
	actions map[string]ActionFunc
	stdout  io.Writer
	stderr  io.Writer
}

// NewRunner builds a runner for the component.
func NewRunner(ci *CommonInterface, comp Component) *Runner {
	return &Runner{
		ci:      ci,
		comp:    comp,
		actions: map[string]ActionFunc{},
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
}

// RegisterAction registers a named sync action. The name "run" is reserved
// for the default action.
func (r *Runner) RegisterAction(name string, fn ActionFunc) error {
	if name == RunAction {
		return fmt.Errorf("action name %q is the reserved default action, use a different name", RunAction)
	}
	if _, ok := r.actions[name]; ok {
		return fmt.Errorf("action %q is already registered", name)
	}
	r.actions[name] = fn
	return nil
}

// Execute dispatches the action named in the configuration, defaulting to
// run. Sync actions print their JSON result to stdout and their failure to
// stderr; the returned error carries the user/internal distinction either
// way.
func (r *Runner) Execute(ctx context.Context) error {
	action := r.ci.Config.Action
	if action == "" {
		slog.Warn("no action defined in the configuration, using the default run action")
		action = RunAction
	}

	if action == RunAction {
		return r.comp.Run(ctx, r.ci)
	}

	fn, ok := r.actions[action]
	if !ok {
		return UserErrorf("the defined action %q is not implemented", action)
	}

	// Logging is muted during sync actions; stdout must carry only the
	// action's JSON result.
	restore := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer slog.SetDefault(restore)

	result, err := fn(ctx, r.ci)
	if err != nil {
		fmt.Fprint(r.stderr, err.Error())
		return err
	}
	rendered, err := RenderSyncActionResult(result)
	if err != nil {
		fmt.Fprint(r.stderr, err.Error())
		return err
	}
	_, err = r.stdout.Write(rendered)
	return err
}

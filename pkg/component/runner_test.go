package component

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeComponent struct {
	runs int
	err  error
}

func (f *fakeComponent) Run(ctx context.Context, ci *CommonInterface) error {
	f.runs++
	return f.err
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(UserErrorf("bad dsn")))
	assert.Equal(t, 1, ExitCode(fmt.Errorf("run failed: %w", NewUserError(errors.New("bad input")))),
		"wrapped user errors stay user errors")
	assert.Equal(t, 2, ExitCode(errors.New("nil pointer dereference")))
}

func TestRegisterAction(t *testing.T) {
	ci := newTestInterface(t, `{}`)
	r := NewRunner(ci, &fakeComponent{})

	noop := func(ctx context.Context, ci *CommonInterface) (any, error) { return nil, nil }
	require.NoError(t, r.RegisterAction("testConnection", noop))
	assert.Error(t, r.RegisterAction("testConnection", noop), "duplicate registration")
	assert.Error(t, r.RegisterAction(RunAction, noop), "run is reserved")
}

func TestExecute_DefaultsToRun(t *testing.T) {
	for _, action := range []string{"", "run"} {
		t.Run("action_"+action, func(t *testing.T) {
			ci := newTestInterface(t, fmt.Sprintf(`{"action": %q}`, action))
			comp := &fakeComponent{}
			r := NewRunner(ci, comp)
			require.NoError(t, r.Execute(context.Background()))
			assert.Equal(t, 1, comp.runs)
		})
	}
}

func TestExecute_RunErrorPropagates(t *testing.T) {
	ci := newTestInterface(t, `{}`)
	comp := &fakeComponent{err: UserErrorf("no rows")}
	err := NewRunner(ci, comp).Execute(context.Background())
	assert.Equal(t, 1, ExitCode(err))
}

func TestExecute_SyncAction(t *testing.T) {
	ci := newTestInterface(t, `{"action": "testConnection"}`)
	comp := &fakeComponent{}
	r := NewRunner(ci, comp)

	var stdout, stderr bytes.Buffer
	r.stdout = &stdout
	r.stderr = &stderr

	require.NoError(t, r.RegisterAction("testConnection", func(ctx context.Context, ci *CommonInterface) (any, error) {
		return ValidationResult{Message: "connected"}, nil
	}))

	require.NoError(t, r.Execute(context.Background()))
	assert.Equal(t, 0, comp.runs, "sync actions never invoke the run action")
	assert.JSONEq(t, `{"message": "connected", "type": "info", "status": "success"}`, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestExecute_SyncActionFailure(t *testing.T) {
	ci := newTestInterface(t, `{"action": "testConnection"}`)
	r := NewRunner(ci, &fakeComponent{})

	var stdout, stderr bytes.Buffer
	r.stdout = &stdout
	r.stderr = &stderr

	require.NoError(t, r.RegisterAction("testConnection", func(ctx context.Context, ci *CommonInterface) (any, error) {
		return nil, UserErrorf("connection refused")
	}))

	err := r.Execute(context.Background())
	assert.Equal(t, 1, ExitCode(err))
	assert.Empty(t, stdout.String(), "stdout stays clean on failure")
	assert.Contains(t, stderr.String(), "connection refused")
}

func TestExecute_UnknownAction(t *testing.T) {
	ci := newTestInterface(t, `{"action": "doesNotExist"}`)
	err := NewRunner(ci, &fakeComponent{}).Execute(context.Background())
	assert.Equal(t, 1, ExitCode(err), "an unimplemented action is the user's mistake")
}

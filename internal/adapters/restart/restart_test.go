package restart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRestarter_ReexecsSelf(t *testing.T) {
	r := NewExecRestarter(nil)
	r.executable = func() (string, error) { return "/usr/bin/modemprov", nil }
	r.args = []string{"modemprov", "--log-level", "debug"}

	var gotPath string
	var gotArgs []string
	r.exec = func(argv0 string, argv, envv []string) error {
		gotPath, gotArgs = argv0, argv
		return nil
	}

	require.NoError(t, r.Restart(context.Background()))
	assert.Equal(t, "/usr/bin/modemprov", gotPath)
	assert.Equal(t, []string{"modemprov", "--log-level", "debug"}, gotArgs)
}

func TestExecRestarter_Errors(t *testing.T) {
	r := NewExecRestarter(nil)
	r.executable = func() (string, error) { return "", errors.New("no proc") }
	assert.ErrorContains(t, r.Restart(context.Background()), "resolve executable")

	r.executable = func() (string, error) { return "/bin/x", nil }
	r.exec = func(string, []string, []string) error { return errors.New("permission denied") }
	assert.ErrorContains(t, r.Restart(context.Background()), "permission denied")
}

func TestExitRestarter(t *testing.T) {
	r := NewExitRestarter(0, nil)
	var code int
	r.exit = func(c int) { code = c }

	require.NoError(t, r.Restart(context.Background()))
	assert.Equal(t, DefaultExitCode, code)

	r = NewExitRestarter(3, nil)
	r.exit = func(c int) { code = c }
	require.NoError(t, r.Restart(context.Background()))
	assert.Equal(t, 3, code)
}

package cmd

import (
	"bytes"
	"context"
	"io"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/pseudomuto/reformat-sql/pkg/cmd/testutil"
	"github.com/pseudomuto/reformat-sql/pkg/config"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func testApp(cfg *config.Config, in string) (*bytes.Buffer, func(...string) error) {
	var out bytes.Buffer

	app := newApp(Params{
		Commands: []*cli.Command{fmtCmd(cfg)},
		Config:   cfg,
		Version:  &Version{Version: "1.2.3", Commit: "abc123", Timestamp: "2025-01-01"},
	})
	app.Reader = strings.NewReader(in)
	app.Writer = &out
	app.ErrWriter = io.Discard

	return &out, func(args ...string) error {
		return app.Run(context.Background(), append([]string{"reformat-sql"}, args...))
	}
}

func TestFilter_Stdio(t *testing.T) {
	out, run := testApp(config.Defaults(), "SELECT t.a, t.b FROM t\n\nSELECT 1\n")

	require.NoError(t, run())
	require.Equal(t, "SELECT t.*\n        FROM t\n\nSELECT 1\n", out.String())
}

func TestFilter_DashMeansStdio(t *testing.T) {
	out, run := testApp(config.Defaults(), "SELECT 1")

	require.NoError(t, run("-", "-"))
	require.Equal(t, "SELECT 1\n", out.String())
}

func TestFilter_Files(t *testing.T) {
	fixture := testutil.NewFixture(t).WithFiles(map[string]string{
		"in.sql": "  SELECT * FROM t WHERE a = 1\n",
	})

	out, run := testApp(fixture.Config, "")
	require.NoError(t, run(fixture.Path("in.sql"), fixture.Path("out.sql")))
	require.Empty(t, out.String())

	testutil.RequireFileExists(t, fixture.Path("out.sql"),
		testutil.RequireFileEquals(t, "  SELECT *\n          FROM t\n      WHERE a = 1\n"),
	)
}

func TestFilter_InputFileToStdout(t *testing.T) {
	fixture := testutil.NewFixture(t).WithFiles(map[string]string{
		"in.sql": "SELECT 1\n",
	})

	out, run := testApp(fixture.Config, "")
	require.NoError(t, run(fixture.Path("in.sql")))
	require.Equal(t, "SELECT 1\n", out.String())
}

func TestFilter_Errors(t *testing.T) {
	t.Run("too many arguments", func(t *testing.T) {
		_, run := testApp(config.Defaults(), "")
		testutil.RequireError(t, run("a", "b", "c"), "expected at most 2 arguments")
	})

	t.Run("missing input file", func(t *testing.T) {
		_, run := testApp(config.Defaults(), "")
		testutil.RequireError(t, run("/nonexistent/in.sql"), "failed to open input file")
	})

	t.Run("invalid SQL", func(t *testing.T) {
		out, run := testApp(config.Defaults(), "SELECT 1\nSELECT CASE WHEN a THEN b\n")
		testutil.RequireError(t, run(), "line 2")
		require.Equal(t, "SELECT 1\n", out.String())
	})
}

func TestFilter_ConfigFlag(t *testing.T) {
	fixture := testutil.NewFixture(t).WithConfig(func(c *config.Config) {
		c.CollapseWildcards = false
		c.IndentSize = 2
	})

	cfg := config.Defaults()
	out, run := testApp(cfg, "SELECT t.a, t.b FROM t\n")

	require.NoError(t, run("--config", fixture.ConfigPath()))
	require.Equal(t, "SELECT t.a,\n    t.b\n    FROM t\n", out.String())
	require.Equal(t, 2, cfg.IndentSize)
}

func TestFilter_ConfigFlagInvalid(t *testing.T) {
	_, run := testApp(config.Defaults(), "")
	testutil.RequireError(t, run("-c", "/nonexistent/config.yaml"), "failed to open file")
}

func TestFilter_Version(t *testing.T) {
	out, run := testApp(config.Defaults(), "")

	require.NoError(t, run("--version"))
	require.Equal(t, "Version: 1.2.3\nCommit: abc123\nDate: 2025-01-01\n", out.String())
}

func TestFilter_FmtSubcommand(t *testing.T) {
	fixture := testutil.NewFixture(t).WithFiles(map[string]string{
		"test.sql": "SELECT t.a, t.b FROM t\n",
	})

	out, run := testApp(fixture.Config, "")
	require.NoError(t, run("fmt", fixture.Path("test.sql")))
	require.Equal(t, "SELECT t.*\n        FROM t\n", out.String())
}

func TestRun(t *testing.T) {
	fixture := testutil.NewFixture(t).WithFiles(map[string]string{
		"in.sql": "SELECT t.a, t.b FROM t\n",
	})

	app := fxtest.New(t,
		fx.Supply(
			[]string{"reformat-sql", fixture.Path("in.sql"), fixture.Path("out.sql")},
			fixture.Config,
			&Version{Version: "test"},
			fx.Annotate(context.Background(), fx.As(new(context.Context))),
		),
		Module,
	)

	app.RequireStart()
	defer app.RequireStop()

	select {
	case sig := <-app.Wait():
		require.Equal(t, 0, sig.ExitCode)
	case <-time.After(5 * time.Second):
		t.Fatal("application did not shut down")
	}

	testutil.RequireFileExists(t, fixture.Path("out.sql"),
		testutil.RequireFileEquals(t, "SELECT t.*\n        FROM t\n"),
	)
}

func TestExitCode(t *testing.T) {
	require.Equal(t, 0, ExitCode(nil))
	require.Equal(t, 1, ExitCode(errors.New("boom")))
	require.Equal(t, int(syscall.EPIPE), ExitCode(syscall.EPIPE))
	require.Equal(t, int(syscall.EPIPE), ExitCode(errors.Wrap(syscall.EPIPE, "failed to write line")))
}

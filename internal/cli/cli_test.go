package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/equipt/internal/ledger"
	"github.com/idilsaglam/equipt/internal/sites"
	"github.com/idilsaglam/equipt/internal/tui"
	"github.com/idilsaglam/equipt/internal/ui"
)

type harness struct {
	t      *testing.T
	db     string
	env    string
	opened []string
	tuiCfg *tui.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Cleanup(func() { ui.SetTheme("classic") })
	dir := t.TempDir()
	env := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(env, nil, 0o600))
	return &harness{
		t:   t,
		db:  filepath.Join(dir, "data", "equipt.db"),
		env: env,
	}
}

// run executes the CLI with hermetic flags and returns exit code, stdout, stderr.
func (h *harness) run(args ...string) (int, string, string) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	full := append([]string{"--env-file", h.env, "--db", h.db, "--theme", "mono", "--currency", "USD"}, args...)
	code := Run(full, Env{
		Out: &out,
		Err: &errOut,
		Opener: sites.OpenerFunc(func(u string) error {
			h.opened = append(h.opened, u)
			return nil
		}),
		RunTUI: func(_ context.Context, cfg tui.Config) error {
			h.tuiCfg = &cfg
			return nil
		},
	})
	return code, out.String(), errOut.String()
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCommand(&app{opts: &Options{}})
	assert.Equal(t, "equipt", cmd.Use)

	for _, name := range []string{"add", "ls", "total", "clear", "sites", "open"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	for _, flag := range []string{"db", "theme", "sites", "currency", "verbose", "env-file"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestAddListTotal(t *testing.T) {
	h := newHarness(t)

	code, out, _ := h.run("add", "Dumbbells", "45.50")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "ok added Dumbbells ($45.50)")

	code, _, _ = h.run("add", "Adjustable", "bench", "120")
	require.Equal(t, ExitOK, code)

	code, out, _ = h.run("ls")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "Dumbbells")
	assert.Contains(t, out, "Adjustable bench")
	assert.Contains(t, out, "Items 2")
	assert.Contains(t, out, "$165.50")

	code, out, _ = h.run("total")
	require.Equal(t, ExitOK, code)
	assert.Equal(t, "All item Total: $165.50\n", out)

	code, out, _ = h.run("total", "--plain")
	require.Equal(t, ExitOK, code)
	assert.Equal(t, "165.50\n", out)
}

func TestAdd_InvalidInput(t *testing.T) {
	h := newHarness(t)

	code, _, errOut := h.run("add", "Mat", "abc")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, errOut, "Please enter a valid item and cost.")

	code, _, errOut = h.run("add", "Mat")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, errOut, "usage: equipt add")

	code, out, _ := h.run("ls")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "no items")
}

func TestClear(t *testing.T) {
	h := newHarness(t)
	h.run("add", "Mat", "20")
	h.run("add", "Rope", "15")

	code, out, _ := h.run("clear")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "cleared 2 items")

	_, out, _ = h.run("total", "--plain")
	assert.Equal(t, "0.00\n", out)
}

func TestSitesAndOpen(t *testing.T) {
	h := newHarness(t)
	list, err := sites.Default()
	require.NoError(t, err)

	code, out, _ := h.run("sites")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, list[0].Title)

	code, _, _ = h.run("open", "1")
	require.Equal(t, ExitOK, code)
	assert.Equal(t, []string{list[0].URL}, h.opened)

	code, _, errOut := h.run("open", "99")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, errOut, "index out of range")

	code, _, errOut = h.run("open", "x")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, errOut, "not a number")
}

func TestSites_FromYAMLFile(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "sites.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- title: Corner Shop\n  web: https://corner.example.com\n"), 0o644))

	code, out, _ := h.run("--sites", path, "sites")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "Corner Shop")
}

func TestRootRunsTUI(t *testing.T) {
	h := newHarness(t)
	h.run("add", "Bench", "120")

	code, _, _ := h.run()
	require.Equal(t, ExitOK, code)
	require.NotNil(t, h.tuiCfg)
	assert.Equal(t, ledger.Loaded, h.tuiCfg.Ledger.State())
	assert.Equal(t, 1, h.tuiCfg.Ledger.Len())
	assert.Equal(t, "USD", h.tuiCfg.Currency)
	assert.NotEmpty(t, h.tuiCfg.Sites)
}

func TestUsageErrors(t *testing.T) {
	h := newHarness(t)

	code, _, _ := h.run("frobnicate")
	assert.Equal(t, ExitUsage, code)

	code, _, errOut := h.run("--theme", "pastel", "ls")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, errOut, "unknown theme")
}

func TestStorageFailureExitCode(t *testing.T) {
	h := newHarness(t)
	// a directory where the database file should be
	require.NoError(t, os.MkdirAll(h.db, 0o755))

	code, _, _ := h.run("ls")
	assert.Equal(t, ExitError, code)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, exitCode(nil))
	assert.Equal(t, ExitUsage, exitCode(usageError("x")))
	assert.Equal(t, ExitError, exitCode(&ExitErr{Code: ExitError, Message: "x"}))
	assert.Equal(t, ExitUsage, exitCode(ledger.ErrInvalidInput))
	assert.Equal(t, ExitError, exitCode(ledger.ErrHalted))
	assert.Equal(t, ExitError, exitCode(errors.New("program exited")))
}

func TestUsageErrors_FlagsAndArgs(t *testing.T) {
	h := newHarness(t)

	code, _, errOut := h.run("ls", "--bogus")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, errOut, "unknown flag")

	code, _, _ = h.run("total", "extra")
	assert.Equal(t, ExitUsage, code)
}

func TestRootTUIFailureIsRuntimeError(t *testing.T) {
	h := newHarness(t)
	var errOut bytes.Buffer
	code := Run([]string{"--env-file", h.env, "--db", h.db, "--theme", "mono", "--currency", "USD"}, Env{
		Out: &bytes.Buffer{},
		Err: &errOut,
		RunTUI: func(context.Context, tui.Config) error {
			return errors.New("could not open a new TTY")
		},
	})
	assert.Equal(t, ExitError, code)
	assert.Contains(t, errOut.String(), "could not open a new TTY")
}

func TestEnvFile_MissingIsUsageError(t *testing.T) {
	h := newHarness(t)
	h.env = filepath.Join(t.TempDir(), "nope.env")

	code, _, errOut := h.run("ls")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, errOut, "nope.env")
}

func TestEnvFile_FlagsOverrideInvalidValues(t *testing.T) {
	h := newHarness(t)
	for _, k := range []string{"EQUIPT_THEME", "EQUIPT_CURRENCY"} {
		// restored after the test; godotenv only fills unset keys
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	require.NoError(t, os.WriteFile(h.env, []byte("EQUIPT_THEME=pastel\nEQUIPT_CURRENCY=dollars\n"), 0o600))

	code, _, errOut := h.run("ls")
	assert.Equal(t, ExitOK, code, errOut)
}

func TestTotal_LargeCosts(t *testing.T) {
	h := newHarness(t)

	code, _, _ := h.run("add", "Warehouse", "1e17")
	require.Equal(t, ExitOK, code)

	_, out, _ := h.run("total")
	assert.Equal(t, "All item Total: $100,000,000,000,000,000.00\n", out)

	_, out, _ = h.run("--currency", "JPY", "total")
	assert.Equal(t, "All item Total: ¥100,000,000,000,000,000.00\n", out)
}

package cmd

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dstockto/brewctl/fakebackend"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newTestBackend serves a seeded fake backend and points Cfg at it.
func newTestBackend(t *testing.T) *fakebackend.Store {
	t.Helper()
	store := fakebackend.NewStore()
	store.Seed()
	srv := httptest.NewServer(fakebackend.NewServer(store, nil).Handler())
	t.Cleanup(srv.Close)

	oldCfg := Cfg
	t.Cleanup(func() { Cfg = oldCfg })
	Cfg = &Config{
		ApiBase:  srv.URL + "/",
		Database: filepath.Join(t.TempDir(), "journal.db"),
	}
	return store
}

// resetFlags puts every flag back to its default so runs do not leak into each other.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func stockOf(t *testing.T, store *fakebackend.Store, id int) decimal.Decimal {
	t.Helper()
	ing, ok := store.Ingredient(id)
	if !ok {
		t.Fatalf("ingredient %d missing", id)
	}
	return ing.Stock
}

func TestInventoryListCommand(t *testing.T) {
	newTestBackend(t)

	out, err := runCLI(t, "inventory", "list", "saaz")
	if err != nil {
		t.Fatalf("inventory list: %v", err)
	}
	if !strings.Contains(out, "#4 Saaz") {
		t.Errorf("expected Saaz in output, got %q", out)
	}

	out, err = runCLI(t, "inventory", "list", "-k", "yeast")
	if err != nil {
		t.Fatalf("inventory list -k yeast: %v", err)
	}
	if !strings.Contains(out, "Found 2 ingredients") || strings.Contains(out, "Pilsen") {
		t.Errorf("unexpected yeast listing %q", out)
	}
}

func TestInventoryAdjustCommand(t *testing.T) {
	store := newTestBackend(t)

	out, err := runCLI(t, "inventory", "adjust", "Pilsen", "5", "4", "0,5")
	if err != nil {
		t.Fatalf("inventory adjust: %v", err)
	}
	if !strings.Contains(out, "Pilsen: 20.000 -> 25.000 kg") {
		t.Errorf("unexpected output %q", out)
	}
	if got := stockOf(t, store, 1); !got.Equal(decimal.NewFromInt(25)) {
		t.Errorf("Pilsen stock = %s, want 25", got)
	}
	if got := stockOf(t, store, 4); !got.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("Saaz stock = %s, want 2.5", got)
	}

	_, err = runCLI(t, "inventory", "adjust", "--dry-run", "--set", "1", "0")
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if got := stockOf(t, store, 1); !got.Equal(decimal.NewFromInt(25)) {
		t.Errorf("dry run changed Pilsen to %s", got)
	}

	if _, err := runCLI(t, "inventory", "adjust", "nothing-like-this", "1"); err == nil {
		t.Errorf("expected an error for an unknown ingredient")
	}
}

func TestRecipeCheckCommand(t *testing.T) {
	newTestBackend(t)

	out, err := runCLI(t, "recipe", "check", "Abadía")
	if err != nil {
		t.Fatalf("recipe check: %v", err)
	}
	if !strings.Contains(out, "All requirements met.") {
		t.Errorf("expected all requirements met, got %q", out)
	}

	out, err = runCLI(t, "recipe", "check", "-b", "2")
	if err != nil {
		t.Fatalf("recipe check -b 2: %v", err)
	}
	if !strings.Contains(out, "Some ingredients are missing or low.") {
		t.Errorf("expected a shortage at two batches of everything, got %q", out)
	}
}

func TestRecipeShowCommand(t *testing.T) {
	newTestBackend(t)

	out, err := runCLI(t, "recipe", "show", "2")
	if err != nil {
		t.Fatalf("recipe show: %v", err)
	}
	for _, want := range []string{"Scotch", "Munich", "Can produce 1 batch(es).", "Stock covers 1 batch(es)."} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestRecipeProduceCommand(t *testing.T) {
	store := newTestBackend(t)

	out, err := runCLI(t, "recipe", "produce", "abadia", "--yes")
	if err != nil {
		t.Fatalf("recipe produce: %v", err)
	}
	if store.ProduceCalls() != 1 {
		t.Errorf("produce calls = %d, want 1", store.ProduceCalls())
	}
	if got := stockOf(t, store, 1); !got.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Pilsen stock = %s, want 10", got)
	}
	if !strings.Contains(out, "Stock now:") || !strings.Contains(out, "10.000") {
		t.Errorf("expected refreshed stock in %q", out)
	}

	out, err = runCLI(t, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "#1 Abadía") || !strings.Contains(out, "ok") {
		t.Errorf("expected the production in the journal, got %q", out)
	}
}

func TestRecipeProduceInfeasible(t *testing.T) {
	store := newTestBackend(t)

	out, err := runCLI(t, "recipe", "produce", "1", "-b", "3", "--yes")
	if err == nil {
		t.Fatalf("expected infeasible production to fail")
	}
	if store.ProduceCalls() != 0 {
		t.Errorf("backend was called %d time(s) for an infeasible request", store.ProduceCalls())
	}
	if !strings.Contains(out, "Cannot produce 3 batch(es) of Abadía") || !strings.Contains(out, "Pilsen") {
		t.Errorf("expected shortfalls in %q", out)
	}
}

func TestRecipeProduceDryRun(t *testing.T) {
	store := newTestBackend(t)

	out, err := runCLI(t, "recipe", "produce", "1", "--dry-run")
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if store.ProduceCalls() != 0 {
		t.Errorf("dry run sent %d production request(s)", store.ProduceCalls())
	}
	if !strings.Contains(out, "Stock after production (preview):") {
		t.Errorf("expected a preview in %q", out)
	}
}

func TestRecipeCreateAndDeleteCommands(t *testing.T) {
	store := newTestBackend(t)

	path := filepath.Join(t.TempDir(), "pale.yaml")
	draft := `name: Pale
style: Pale Ale
malts:
  - name: pilsen
    quantity: "4,5"
  - name: Unknown Malt
    quantity: "1"
hops:
  - name: Saaz
    quantity: "0.2"
yeasts: []
`
	if err := os.WriteFile(path, []byte(draft), 0644); err != nil {
		t.Fatalf("write draft: %v", err)
	}

	out, err := runCLI(t, "recipe", "create", "-f", path)
	if err != nil {
		t.Fatalf("recipe create: %v", err)
	}
	if !strings.Contains(out, "Unknown Malt") || !strings.Contains(out, "created") {
		t.Errorf("expected the dropped row and a created message, got %q", out)
	}
	if len(store.Recipes()) != 3 {
		t.Fatalf("recipes = %d, want 3", len(store.Recipes()))
	}

	out, err = runCLI(t, "recipe", "delete", "Pale", "--yes")
	if err != nil {
		t.Fatalf("recipe delete: %v", err)
	}
	if !strings.Contains(out, "deleted successfully") {
		t.Errorf("unexpected delete output %q", out)
	}
	if len(store.Recipes()) != 2 {
		t.Errorf("recipes after delete = %d, want 2", len(store.Recipes()))
	}
}

func TestCommandsNeedAnEndpoint(t *testing.T) {
	oldCfg := Cfg
	t.Cleanup(func() { Cfg = oldCfg })
	Cfg = &Config{}

	_, err := runCLI(t, "recipe", "list")
	if err == nil || !strings.Contains(err.Error(), "api endpoint not configured") {
		t.Errorf("expected a configuration error, got %v", err)
	}
}

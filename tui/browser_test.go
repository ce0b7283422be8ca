package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dstockto/brewctl/brewery"
	"github.com/dstockto/brewctl/models"
)

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out
}

func TestStaleDetailIsIgnored(t *testing.T) {
	view := brewery.NewView(models.Snapshot{})
	m := New(context.Background(), Deps{}, view)

	first := view.Select()
	second := view.Select()
	m = update(t, m, detailMsg{token: second, recipe: models.Recipe{ID: 2, Name: "Scotch"}})
	m = update(t, m, detailMsg{token: first, recipe: models.Recipe{ID: 1, Name: "Abadía"}})

	got, ok := view.Detail()
	if !ok || got.Name != "Scotch" {
		t.Errorf("Detail() = %+v, %v; the slow response for the old selection must be dropped", got, ok)
	}
}

func TestStaleReloadIsIgnored(t *testing.T) {
	view := brewery.NewView(models.Snapshot{})
	m := New(context.Background(), Deps{}, view)

	old := view.Begin()
	view.Begin()
	m = update(t, m, loadedMsg{token: old, recipes: []models.Recipe{{ID: 1, Name: "Abadía"}}})
	if len(view.Recipes()) != 0 {
		t.Errorf("recipes installed from a superseded reload")
	}
	if !m.loading {
		t.Errorf("a superseded reload must not end the loading state")
	}
}

func TestStaleErrorsAreIgnored(t *testing.T) {
	view := brewery.NewView(models.Snapshot{})
	m := New(context.Background(), Deps{}, view)

	old := view.Begin()
	view.Begin()
	m = update(t, m, loadedMsg{token: old, err: errors.New("connection reset")})
	if !m.loading || m.statusErr {
		t.Errorf("loading = %v, statusErr = %v after a superseded reload failed", m.loading, m.statusErr)
	}

	first := view.Select()
	view.Select()
	m = update(t, m, detailMsg{token: first, err: errors.New("not found")})
	if m.statusErr || m.status != "" {
		t.Errorf("status = %q after a superseded detail failed", m.status)
	}
}

func TestBatchKeys(t *testing.T) {
	m := New(context.Background(), Deps{}, brewery.NewView(models.Snapshot{}))
	m = update(t, m, key('b'))
	m = update(t, m, key('b'))
	if m.batches != 3 {
		t.Errorf("batches = %d, want 3", m.batches)
	}
	for i := 0; i < 5; i++ {
		m = update(t, m, key('B'))
	}
	if m.batches != 1 {
		t.Errorf("batches = %d, want 1", m.batches)
	}
}

func TestProduceAsksFirst(t *testing.T) {
	view := brewery.NewView(models.Snapshot{})
	m := New(context.Background(), Deps{}, view)
	m.loading = false

	m = update(t, m, key('p'))
	if m.confirming {
		t.Fatal("nothing selected yet, p must do nothing")
	}

	view.ApplyDetail(view.Select(), models.Recipe{ID: 1, Name: "Abadía"})
	m = update(t, m, key('p'))
	if !m.confirming || m.status != "Produce 1 batch(es) of Abadía? (y/n)" {
		t.Fatalf("confirming = %v, status = %q", m.confirming, m.status)
	}
	m = update(t, m, key('n'))
	if m.confirming || m.status != "Production cancelled" {
		t.Errorf("confirming = %v, status = %q", m.confirming, m.status)
	}
}

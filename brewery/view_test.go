package brewery

import (
	"testing"

	"github.com/dstockto/brewctl/models"
)

func TestViewDropsStaleSnapshots(t *testing.T) {
	v := NewView(stock("1", "1", "1"))
	first := v.Begin()
	second := v.Begin()

	if !v.ApplySnapshot(second, stock("2", "2", "2")) {
		t.Fatal("latest token must be applied")
	}
	if v.ApplySnapshot(first, stock("9", "9", "9")) {
		t.Error("stale token must be dropped")
	}
	if !v.Snapshot().Equal(stock("2", "2", "2")) {
		t.Errorf("snapshot changed by a stale response")
	}

	pending := v.Begin()
	v.Replace(stock("3", "3", "3"))
	if v.ApplySnapshot(pending, stock("4", "4", "4")) {
		t.Error("Replace must invalidate pending reloads")
	}
}

func TestViewDropsStaleSelections(t *testing.T) {
	v := NewView(models.Snapshot{})
	slow := v.Select()
	fast := v.Select()

	if !v.ApplyDetail(fast, models.Recipe{ID: 2, Name: "Scotch"}) {
		t.Fatal("latest selection must be applied")
	}
	if v.ApplyDetail(slow, models.Recipe{ID: 1, Name: "Abadía"}) {
		t.Error("superseded selection must be dropped")
	}
	got, ok := v.Detail()
	if !ok || got.ID != 2 {
		t.Errorf("Detail() = %+v, %v", got, ok)
	}

	v.Select()
	if _, ok := v.Detail(); ok {
		t.Error("a new selection clears the previous detail")
	}
}

func TestViewReportsCurrentTokens(t *testing.T) {
	v := NewView(models.Snapshot{})
	reload := v.Begin()
	sel := v.Select()
	if !v.IsCurrentReload(reload) || !v.IsCurrentSelection(sel) {
		t.Fatal("fresh tokens must be current")
	}
	v.Begin()
	v.Select()
	if v.IsCurrentReload(reload) || v.IsCurrentSelection(sel) {
		t.Error("superseded tokens must not be current")
	}
}

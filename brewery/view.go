package brewery

import (
	"sync"

	"github.com/dstockto/brewctl/models"
)

// Token identifies one outstanding request. Only the newest token may install its response.
type Token uint64

// View is the state one screen or command works from: the current stock snapshot, the recipe
// list and the detail of the selected recipe. Stock reloads and recipe selections each carry a
// generation token so that a slow response to a superseded request is dropped.
type View struct {
	mu        sync.Mutex
	snapshot  models.Snapshot
	recipes   []models.Recipe
	detail    models.Recipe
	hasDetail bool
	stockGen  Token
	selectGen Token
}

func NewView(s models.Snapshot) *View {
	return &View{snapshot: s}
}

func (v *View) Snapshot() models.Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshot
}

// Begin starts a stock reload and returns its token.
func (v *View) Begin() Token {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stockGen++
	return v.stockGen
}

// ApplySnapshot installs s only when t is the latest reload token.
func (v *View) ApplySnapshot(t Token, s models.Snapshot) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if t != v.stockGen {
		return false
	}
	v.snapshot = s
	return true
}

// IsCurrentReload reports whether t is the latest reload token.
func (v *View) IsCurrentReload(t Token) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return t == v.stockGen
}

// Replace installs s unconditionally and invalidates pending reloads.
func (v *View) Replace(s models.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stockGen++
	v.snapshot = s
}

func (v *View) Recipes() []models.Recipe {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.recipes
}

func (v *View) SetRecipes(r []models.Recipe) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.recipes = r
}

// Select starts loading the detail of a newly selected recipe.
func (v *View) Select() Token {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selectGen++
	v.hasDetail = false
	return v.selectGen
}

// ApplyDetail installs r only when t is the latest selection token.
func (v *View) ApplyDetail(t Token, r models.Recipe) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if t != v.selectGen {
		return false
	}
	v.detail = r
	v.hasDetail = true
	return true
}

// IsCurrentSelection reports whether t is the latest selection token.
func (v *View) IsCurrentSelection(t Token) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return t == v.selectGen
}

// Detail returns the selected recipe's detail, if it has arrived.
func (v *View) Detail() (models.Recipe, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.detail, v.hasDetail
}

package fakebackend

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dstockto/brewctl/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Server exposes a Store over the backend's REST routes.
type Server struct {
	Store *Store
	log   *slog.Logger
}

func NewServer(store *Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{Store: store, log: log}
}

// Handler builds the gin engine with every route registered.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog)

	r.GET("/ingredientes/", s.listIngredients)
	r.POST("/ingredientes/", s.createIngredient)
	r.PATCH("/ingredientes/:id/", s.patchIngredient)
	r.DELETE("/ingredientes/:id/", s.deleteIngredient)
	r.GET("/tipos-con-ingredientes/", s.listCategories)

	r.GET("/recetas/", s.listRecipes(false))
	r.GET("/recetas-con-ingredientes/", s.listRecipes(true))
	r.GET("/recetas/:id/", s.getRecipe)
	r.POST("/recetas/crear-con-ingredientes/", s.createRecipe)
	r.PUT("/recetas/:id/editar-con-ingredientes/", s.updateRecipe)
	r.DELETE("/recetas/:id/", s.deleteRecipe)

	r.POST("/preparar-bebida/", s.produce)
	return r
}

func (s *Server) requestLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.log.Debug("fake backend request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"request_id", c.GetHeader("X-Request-ID"),
		"duration", time.Since(start),
	)
}

// fail maps store errors onto the status codes the real backend uses.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var se *StatusError
	if errors.As(err, &se) {
		status = se.Status
	}
	c.JSON(status, gin.H{"detail": err.Error()})
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return 0, false
	}
	return id, true
}

func (s *Server) ingredientJSON(ing Ingredient) gin.H {
	unit := s.Store.Unit(ing.UnitID)
	return gin.H{
		"id":                 ing.ID,
		"nombre_ingrediente": ing.Name,
		"stock":              models.FormatQuantity(ing.Stock),
		"unidad":             gin.H{"id": unit.ID, "nombre": unit.Name},
		"tipo":               gin.H{"id": ing.Category.BackendID(), "nombre_tipo": ing.Category.BackendLabel()},
	}
}

func (s *Server) listIngredients(c *gin.Context) {
	var want models.Category
	if raw := c.Query("tipo"); raw != "" {
		id, _ := strconv.Atoi(raw)
		want, _ = models.CategoryByID(id)
	}
	out := []gin.H{}
	for _, ing := range s.Store.Ingredients() {
		if want != "" && ing.Category != want {
			continue
		}
		out = append(out, s.ingredientJSON(ing))
	}
	c.JSON(http.StatusOK, out)
}

type ingredientBody struct {
	Name       string          `json:"nombre_ingrediente"`
	Stock      decimal.Decimal `json:"stock"`
	UnitID     int             `json:"unidad_id"`
	CategoryID int             `json:"tipo_id"`
}

func (s *Server) createIngredient(c *gin.Context) {
	var body ingredientBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	cat, _ := models.CategoryByID(body.CategoryID)
	id, err := s.Store.AddIngredient(body.Name, cat, body.Stock, body.UnitID)
	if err != nil {
		fail(c, err)
		return
	}
	ing, _ := s.Store.Ingredient(id)
	c.JSON(http.StatusCreated, s.ingredientJSON(ing))
}

func (s *Server) patchIngredient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body struct {
		Stock *decimal.Decimal `json:"stock"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Stock == nil {
		c.JSON(http.StatusBadRequest, gin.H{"stock": []string{"A valid number is required."}})
		return
	}
	if err := s.Store.SetStock(id, *body.Stock); err != nil {
		fail(c, err)
		return
	}
	ing, _ := s.Store.Ingredient(id)
	c.JSON(http.StatusOK, s.ingredientJSON(ing))
}

func (s *Server) deleteIngredient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.Store.DeleteIngredient(id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listCategories(c *gin.Context) {
	ings := s.Store.Ingredients()
	out := make([]gin.H, 0, len(models.Categories))
	for _, cat := range models.Categories {
		group := []gin.H{}
		for _, ing := range ings {
			if ing.Category == cat {
				group = append(group, s.ingredientJSON(ing))
			}
		}
		out = append(out, gin.H{"id": cat.BackendID(), "nombre_tipo": cat.BackendLabel(), "ingredientes": group})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) recipeJSON(r Recipe, detail bool) gin.H {
	out := gin.H{
		"id":            r.ID,
		"nombre_receta": r.Name,
		"estilo":        r.Style,
		"descripcion":   r.Description,
	}
	for key, v := range map[string]*decimal.Decimal{"porcentaje_alcohol": r.ABV, "ibu": r.IBU, "contenido_neto": r.Volume} {
		if v != nil {
			out[key] = v.String()
		}
	}
	if !detail {
		return out
	}
	tipos := make([]gin.H, 0, len(models.Categories))
	for _, cat := range models.Categories {
		items := []gin.H{}
		for _, it := range r.Items {
			ing, ok := s.Store.Ingredient(it.IngredientID)
			if !ok || ing.Category != cat {
				continue
			}
			items = append(items, gin.H{
				"id":                 ing.ID,
				"nombre_ingrediente": ing.Name,
				"cantidad":           models.FormatQuantity(it.Quantity),
			})
		}
		tipos = append(tipos, gin.H{"nombre_tipo": cat.BackendLabel(), "ingredientes": items})
	}
	out["tipos"] = tipos
	return out
}

func (s *Server) listRecipes(detail bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		out := []gin.H{}
		for _, r := range s.Store.Recipes() {
			out = append(out, s.recipeJSON(r, detail))
		}
		c.JSON(http.StatusOK, out)
	}
}

func (s *Server) getRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	r, found := s.Store.Recipe(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	c.JSON(http.StatusOK, s.recipeJSON(r, true))
}

type recipeBody struct {
	Name        string           `json:"nombre_receta"`
	Description string           `json:"descripcion"`
	Style       string           `json:"estilo"`
	ABV         *decimal.Decimal `json:"porcentaje_alcohol"`
	Volume      *decimal.Decimal `json:"contenido_neto"`
	IBU         *decimal.Decimal `json:"ibu"`
	Ingredients []struct {
		IngredientID int             `json:"ingrediente_id"`
		Quantity     decimal.Decimal `json:"cantidad"`
	} `json:"ingredientes"`
}

func (b recipeBody) recipe(id int) Recipe {
	r := Recipe{ID: id, Name: b.Name, Style: b.Style, Description: b.Description, ABV: b.ABV, Volume: b.Volume, IBU: b.IBU}
	for _, it := range b.Ingredients {
		r.Items = append(r.Items, Item{IngredientID: it.IngredientID, Quantity: it.Quantity})
	}
	return r
}

func (s *Server) saveRecipe(c *gin.Context, id int, status int) {
	var body recipeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if body.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"nombre_receta": []string{"This field is required."}})
		return
	}
	saved, err := s.Store.SaveRecipe(body.recipe(id))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(status, s.recipeJSON(saved, true))
}

func (s *Server) createRecipe(c *gin.Context) {
	s.saveRecipe(c, 0, http.StatusCreated)
}

func (s *Server) updateRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.saveRecipe(c, id, http.StatusOK)
}

func (s *Server) deleteRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.Store.DeleteRecipe(id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) produce(c *gin.Context) {
	var body struct {
		RecipeID int `json:"recetaId"`
		Batches  int `json:"cantidad"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "detail": err.Error()})
		return
	}
	r, err := s.Store.Produce(body.RecipeID, body.Batches)
	if err != nil {
		s.log.Info("production rejected", "recipe_id", body.RecipeID, "batches", body.Batches, "err", err)
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("produced %d batch(es) of %s", body.Batches, r.Name),
	})
}

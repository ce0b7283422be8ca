package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dstockto/brewctl/models"
	"github.com/go-resty/resty/v2"
	"github.com/icholy/digest"
	"github.com/shopspring/decimal"
)

// DefaultTimeout bounds every backend request unless overridden.
const DefaultTimeout = 15 * time.Second

type Client struct {
	base    string // base API endpoint
	rc      *resty.Client
	log     *slog.Logger
	metrics *Metrics
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.rc.SetTimeout(d)
		}
	}
}

// WithDigestAuth installs HTTP digest authentication. An empty user leaves the client anonymous.
func WithDigestAuth(user, password string) Option {
	return func(c *Client) {
		if strings.TrimSpace(user) == "" {
			return
		}
		c.rc.SetTransport(&digest.Transport{Username: user, Password: password})
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func NewClient(base string, opts ...Option) *Client {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	c := &Client{
		base: base,
		rc:   resty.New().SetBaseURL(base).SetTimeout(DefaultTimeout),
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	c.rc.SetHeader("Accept", "application/json")
	for _, opt := range opts {
		opt(c)
	}
	c.rc.SetLogger(restyLogger{c.log})
	return c
}

// Base returns the configured backend root, without a trailing slash.
func (c *Client) Base() string { return c.base }

// send performs one request and records it. Only transport failures are returned as errors;
// status handling is left to the caller.
func (c *Client) send(ctx context.Context, op, method, path string, query map[string]string, body any, headers map[string]string) (*resty.Response, error) {
	req := c.rc.R().SetContext(ctx).SetQueryParams(query)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	for k, v := range headers {
		req.SetHeader(k, v)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	elapsed := time.Since(start)

	code := 0
	if resp != nil {
		code = resp.StatusCode()
	}
	c.metrics.observe(op, code, elapsed)
	if err != nil {
		c.log.Debug("api request failed", "op", op, "method", method, "path", path, "err", err, "duration", elapsed)
		return nil, err
	}
	c.log.Debug("api request", "op", op, "method", method, "path", path, "status", code, "duration", elapsed)
	return resp, nil
}

// read runs a GET and returns the body of a 2xx response; anything else is a *FetchError.
func (c *Client) read(ctx context.Context, op, path string, query map[string]string) ([]byte, error) {
	resp, err := c.send(ctx, op, http.MethodGet, path, query, nil, nil)
	if err != nil {
		return nil, &FetchError{Op: op, Message: "request failed", Err: err}
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, &FetchError{Op: op, StatusCode: http.StatusNotFound, Message: messageOr(resp.Body(), "not found"), Err: ErrNotFound}
	}
	if !resp.IsSuccess() {
		return nil, &FetchError{Op: op, StatusCode: resp.StatusCode(), Message: messageOr(resp.Body(), http.StatusText(resp.StatusCode()))}
	}
	return resp.Body(), nil
}

// write runs a mutating request. Rejections and transport failures are *ProductionError.
func (c *Client) write(ctx context.Context, op, method, path string, body any, headers map[string]string) ([]byte, error) {
	resp, err := c.send(ctx, op, method, path, nil, body, headers)
	if err != nil {
		return nil, &ProductionError{Op: op, Message: "request failed: " + err.Error(), Err: err}
	}
	if !resp.IsSuccess() {
		perr := &ProductionError{Op: op, StatusCode: resp.StatusCode(), Message: messageOr(resp.Body(), http.StatusText(resp.StatusCode()))}
		if resp.StatusCode() == http.StatusNotFound {
			perr.Err = ErrNotFound
		}
		return nil, perr
	}
	if failed(resp.Body()) {
		return nil, &ProductionError{Op: op, StatusCode: resp.StatusCode(), Message: messageOr(resp.Body(), "backend reported failure")}
	}
	return resp.Body(), nil
}

func messageOr(body []byte, fallback string) string {
	if msg := backendMessage(body); msg != "" {
		return msg
	}
	return fallback
}

// ListIngredients returns every ingredient, or only those of one category when cat is set.
// The category is also filtered client side since older backends ignore the query.
func (c *Client) ListIngredients(ctx context.Context, cat *models.Category) ([]models.Ingredient, error) {
	var query map[string]string
	if cat != nil {
		query = map[string]string{"tipo": strconv.Itoa(cat.BackendID())}
	}
	body, err := c.read(ctx, "list ingredients", "/ingredientes/", query)
	if err != nil {
		return nil, err
	}
	out, err := models.DecodeIngredients(body)
	if err != nil {
		return nil, &FetchError{Op: "list ingredients", Message: "failed to decode response", Err: err}
	}
	if cat != nil {
		filtered := out[:0]
		for _, ing := range out {
			if ing.Category == *cat {
				filtered = append(filtered, ing)
			}
		}
		out = filtered
	}
	return out, nil
}

// ListCategoriesWithIngredients returns the inventory grouped by category, flattened.
func (c *Client) ListCategoriesWithIngredients(ctx context.Context) ([]models.Ingredient, error) {
	body, err := c.read(ctx, "list inventory", "/tipos-con-ingredientes/", nil)
	if err != nil {
		return nil, err
	}
	out, err := models.DecodeCategoryGroups(body)
	if err != nil {
		return nil, &FetchError{Op: "list inventory", Message: "failed to decode response", Err: err}
	}
	return out, nil
}

// NewIngredient is the body of an ingredient creation.
type NewIngredient struct {
	Name       string          `json:"nombre_ingrediente"`
	Stock      decimal.Decimal `json:"stock"`
	UnitID     int             `json:"unidad_id,omitempty"`
	CategoryID int             `json:"tipo_id"`
}

func (c *Client) CreateIngredient(ctx context.Context, in NewIngredient) (models.Ingredient, error) {
	body, err := c.write(ctx, "create ingredient", http.MethodPost, "/ingredientes/", in, nil)
	if err != nil {
		return models.Ingredient{}, err
	}
	created, err := models.DecodeIngredient(body)
	if err != nil || created.ID == 0 {
		cat, _ := models.CategoryByID(in.CategoryID)
		return models.Ingredient{Name: in.Name, Stock: in.Stock, Category: cat, UnitID: in.UnitID}, nil
	}
	return created, nil
}

// PatchIngredientStock sets the absolute stock of one ingredient.
func (c *Client) PatchIngredientStock(ctx context.Context, id int, stock decimal.Decimal) error {
	payload := map[string]json.Number{"stock": json.Number(stock.String())}
	_, err := c.write(ctx, "update stock", http.MethodPatch, fmt.Sprintf("/ingredientes/%d/", id), payload, nil)
	return err
}

func (c *Client) DeleteIngredient(ctx context.Context, id int) error {
	_, err := c.write(ctx, "delete ingredient", http.MethodDelete, fmt.Sprintf("/ingredientes/%d/", id), nil, nil)
	return err
}

// ListRecipes returns recipe summaries.
func (c *Client) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	return c.recipes(ctx, "list recipes", "/recetas/")
}

// ListRecipesWithIngredients returns every recipe with its requirements.
func (c *Client) ListRecipesWithIngredients(ctx context.Context) ([]models.Recipe, error) {
	return c.recipes(ctx, "list recipes", "/recetas-con-ingredientes/")
}

func (c *Client) recipes(ctx context.Context, op, path string) ([]models.Recipe, error) {
	body, err := c.read(ctx, op, path, nil)
	if err != nil {
		return nil, err
	}
	out, err := models.DecodeRecipes(body)
	if err != nil {
		return nil, &FetchError{Op: op, Message: "failed to decode response", Err: err}
	}
	return out, nil
}

func (c *Client) GetRecipe(ctx context.Context, id int) (models.Recipe, error) {
	op := "get recipe"
	body, err := c.read(ctx, op, fmt.Sprintf("/recetas/%d/", id), nil)
	if err != nil {
		return models.Recipe{}, err
	}
	r, err := models.DecodeRecipe(body)
	if err != nil {
		return models.Recipe{}, &FetchError{Op: op, Message: "failed to decode response", Err: err}
	}
	if r.ID == 0 {
		r.ID = id
	}
	return r, nil
}

// RecipeIngredient is one requirement in a recipe write.
type RecipeIngredient struct {
	IngredientID int             `json:"ingrediente_id"`
	Quantity     decimal.Decimal `json:"cantidad"`
}

// RecipePayload is the body of a recipe creation or update.
type RecipePayload struct {
	Name        string             `json:"nombre_receta"`
	Description string             `json:"descripcion"`
	Style       string             `json:"estilo,omitempty"`
	ABV         *decimal.Decimal   `json:"porcentaje_alcohol,omitempty"`
	Volume      *decimal.Decimal   `json:"contenido_neto,omitempty"`
	IBU         *decimal.Decimal   `json:"ibu,omitempty"`
	Ingredients []RecipeIngredient `json:"ingredientes"`
}

func (c *Client) CreateRecipe(ctx context.Context, p RecipePayload) (models.Recipe, error) {
	body, err := c.write(ctx, "create recipe", http.MethodPost, "/recetas/crear-con-ingredientes/", p, nil)
	if err != nil {
		return models.Recipe{}, err
	}
	return decodeWritten(body, 0, p.Name), nil
}

func (c *Client) UpdateRecipe(ctx context.Context, id int, p RecipePayload) (models.Recipe, error) {
	body, err := c.write(ctx, "update recipe", http.MethodPut, fmt.Sprintf("/recetas/%d/editar-con-ingredientes/", id), p, nil)
	if err != nil {
		return models.Recipe{}, err
	}
	return decodeWritten(body, id, p.Name), nil
}

// decodeWritten decodes the echo of a recipe write; backends that answer with an empty or
// unrelated body still yield the id and name that were sent.
func decodeWritten(body []byte, id int, name string) models.Recipe {
	r, err := models.DecodeRecipe(body)
	if err != nil {
		r = models.Recipe{}
	}
	if r.ID == 0 {
		r.ID = id
	}
	if r.Name == "" {
		r.Name = name
	}
	return r
}

func (c *Client) DeleteRecipe(ctx context.Context, id int) error {
	_, err := c.write(ctx, "delete recipe", http.MethodDelete, fmt.Sprintf("/recetas/%d/", id), nil, nil)
	return err
}

// ProduceResponse is the backend's answer to an accepted production.
type ProduceResponse struct {
	Message string
}

type produceRequest struct {
	RecipeID int `json:"recetaId"`
	Batches  int `json:"cantidad"`
}

// Produce asks the backend to brew batches of a recipe. The backend validates stock and
// deducts it atomically; a refusal is a *ProductionError carrying the backend's message.
func (c *Client) Produce(ctx context.Context, recipeID, batches int, requestID string) (ProduceResponse, error) {
	var headers map[string]string
	if requestID != "" {
		headers = map[string]string{"X-Request-ID": requestID}
	}
	body, err := c.write(ctx, "produce", http.MethodPost, "/preparar-bebida/", produceRequest{RecipeID: recipeID, Batches: batches}, headers)
	if err != nil {
		return ProduceResponse{}, err
	}
	return ProduceResponse{Message: backendMessage(body)}, nil
}

// restyLogger routes resty's own warnings into slog.
type restyLogger struct{ l *slog.Logger }

func (r restyLogger) Errorf(format string, v ...any) { r.l.Error(fmt.Sprintf(format, v...)) }
func (r restyLogger) Warnf(format string, v ...any)  { r.l.Warn(fmt.Sprintf(format, v...)) }
func (r restyLogger) Debugf(format string, v ...any) { r.l.Debug(fmt.Sprintf(format, v...)) }

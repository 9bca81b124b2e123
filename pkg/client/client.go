// Package client cliente REST tipado para los listados de la API (envíos, transacciones,
// facturas) y Fetcher, que mantiene el estado de una tabla y descarta respuestas viejas.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Page envelope de listado: { data, totalCount, carriers? }.
type Page[T any] struct {
	Data       []T      `json:"data"`
	TotalCount int      `json:"totalCount"`
	Carriers   []string `json:"carriers,omitempty"`
}

// APIError respuesta no 2xx con el cuerpo de error de la API.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("client: HTTP %d", e.Status)
	}
	return fmt.Sprintf("client: HTTP %d %s: %s", e.Status, e.Code, e.Message)
}

// ListQuery filtros de un listado. Los campos de selección múltiple se envían unidos por comas.
type ListQuery struct {
	ClientID      string
	Limit         int
	Offset        int
	StartDate     string // YYYY-MM-DD
	EndDate       string
	Status        []string
	Carrier       []string
	Channel       []string
	Type          []string
	Age           []string
	Search        string
	SortField     string
	SortDirection string
}

// Values query string; los campos vacíos se omiten.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val = strings.TrimSpace(val); val != "" {
			v.Set(k, val)
		}
	}
	multi := func(k string, vals []string) {
		parts := make([]string, 0, len(vals))
		for _, s := range vals {
			if s = strings.TrimSpace(s); s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			v.Set(k, strings.Join(parts, ","))
		}
	}

	set("clientId", q.ClientID)
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	set("startDate", q.StartDate)
	set("endDate", q.EndDate)
	multi("status", q.Status)
	multi("carrier", q.Carrier)
	multi("channel", q.Channel)
	multi("type", q.Type)
	multi("age", q.Age)
	set("search", q.Search)
	set("sortField", q.SortField)
	set("sortDirection", q.SortDirection)
	return v
}

// Client cliente HTTP de la API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configura el cliente.
type Option func(*Client)

// WithToken envía Authorization: Bearer <token>.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient reemplaza el *http.Client por defecto (timeout 30s).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New baseURL sin barra final, p.ej. "https://api.example.com".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// List GET path?query y decodifica el JSON en out.
func (c *Client) List(ctx context.Context, path string, q ListQuery, out any) error {
	u := c.baseURL + path
	if qs := q.Values().Encode(); qs != "" {
		u += "?" + qs
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("client: request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: leer respuesta: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(body, apiErr)
		return apiErr
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("client: decodificar %s: %w", path, err)
	}
	return nil
}

// ListPage atajo tipado de List.
func ListPage[T any](ctx context.Context, c *Client, path string, q ListQuery) (*Page[T], error) {
	var p Page[T]
	if err := c.List(ctx, path, q, &p); err != nil {
		return nil, err
	}
	if p.Data == nil {
		p.Data = []T{}
	}
	return &p, nil
}

// IsStatus indica si err es un APIError con ese código HTTP.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

package routing

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Table is the root Router. It records every registered endpoint in
// registration order.
type Table struct {
	mu        sync.RWMutex
	root      *Group
	endpoints []*Endpoint
}

var _ Router = (*Table)(nil)

// NewTable returns an empty endpoint table.
func NewTable() *Table {
	t := &Table{}
	t.root = &Group{table: t}
	return t
}

func (t *Table) add(g *Group, method, pattern string, h http.Handler) *Endpoint {
	e := &Endpoint{Method: method, Pattern: pattern, Handler: h, group: g}
	t.mu.Lock()
	t.endpoints = append(t.endpoints, e)
	t.mu.Unlock()
	return e
}

// Endpoints returns a copy of the registered endpoints.
func (t *Table) Endpoints() []*Endpoint {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]*Endpoint(nil), t.endpoints...)
}

func (t *Table) Group(prefix string) *Group { return t.root.Group(prefix) }

func (t *Table) Handle(method, pattern string, h http.Handler) *Endpoint {
	return t.root.Handle(method, pattern, h)
}

func (t *Table) Get(pattern string, h http.HandlerFunc) *Endpoint   { return t.root.Get(pattern, h) }
func (t *Table) Post(pattern string, h http.HandlerFunc) *Endpoint  { return t.root.Post(pattern, h) }
func (t *Table) Put(pattern string, h http.HandlerFunc) *Endpoint   { return t.root.Put(pattern, h) }
func (t *Table) Patch(pattern string, h http.HandlerFunc) *Endpoint { return t.root.Patch(pattern, h) }
func (t *Table) Delete(pattern string, h http.HandlerFunc) *Endpoint {
	return t.root.Delete(pattern, h)
}

// Lookup returns the first endpoint registered for method whose pattern
// matches path, with the values of its {name} placeholders. Literal segments
// are matched case-insensitively.
func (t *Table) Lookup(method, path string) (*Endpoint, map[string]string) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for _, e := range t.Endpoints() {
		if e.Method != method {
			continue
		}
		patternParts := strings.Split(strings.Trim(e.Pattern, "/"), "/")
		if len(patternParts) != len(parts) {
			continue
		}
		params := map[string]string{}
		ok := true
		for i := range parts {
			seg := patternParts[i]
			if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
				name, _, _ := strings.Cut(seg[1:len(seg)-1], ":")
				params[name] = parts[i]
				continue
			}
			if !strings.EqualFold(seg, parts[i]) {
				ok = false
				break
			}
		}
		if ok {
			return e, params
		}
	}
	return nil, nil
}

// Mount registers every endpoint on r. Filters are applied as per-route
// middleware, group filters first.
func (t *Table) Mount(r chi.Router) {
	for _, e := range t.Endpoints() {
		r.Method(e.Method, e.Pattern, e.Wrapped())
	}
}

// Handler returns a chi router serving every endpoint of the table. Requests
// are logged at debug level.
func (t *Table) Handler(logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	if logger != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				logger.Debug("request", "method", req.Method, "path", req.URL.Path)
				next.ServeHTTP(w, req)
			})
		})
	}
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, ErrNotFound("no endpoint matches the request"))
	})
	t.Mount(r)
	return r
}

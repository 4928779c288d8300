// Package routing is the host-side builder API that routegen output registers
// endpoints with. Endpoints are recorded in a Table which can be queried
// directly or mounted onto a chi router.
package routing

import (
	"net/http"
	"strings"
)

// Router is the registration surface of generated code.
type Router interface {
	Group(prefix string) *Group
	Handle(method, pattern string, h http.Handler) *Endpoint
	Get(pattern string, h http.HandlerFunc) *Endpoint
	Post(pattern string, h http.HandlerFunc) *Endpoint
	Put(pattern string, h http.HandlerFunc) *Endpoint
	Patch(pattern string, h http.HandlerFunc) *Endpoint
	Delete(pattern string, h http.HandlerFunc) *Endpoint
}

// JoinPattern joins a group prefix and a route pattern with exactly one
// slash between them.
func JoinPattern(prefix, pattern string) string {
	prefix = strings.Trim(prefix, "/")
	pattern = strings.TrimPrefix(pattern, "/")
	switch {
	case prefix == "":
		return "/" + pattern
	case pattern == "":
		return "/" + prefix
	}
	return "/" + prefix + "/" + pattern
}

// Group is a set of endpoints sharing a pattern prefix and conventions.
type Group struct {
	conventions
	table  *Table
	parent *Group
	prefix string
}

var _ Router = (*Group)(nil)

// Prefix returns the full pattern prefix of the group.
func (g *Group) Prefix() string {
	if g.parent == nil {
		return JoinPattern("", g.prefix)
	}
	return JoinPattern(g.parent.Prefix(), g.prefix)
}

// Metadata returns the group's conventions merged with its ancestors'.
func (g *Group) Metadata() Metadata {
	if g.parent == nil {
		return Metadata{}.merge(g.meta)
	}
	return g.parent.Metadata().merge(g.meta)
}

func (g *Group) Group(prefix string) *Group {
	return &Group{table: g.table, parent: g, prefix: prefix}
}

func (g *Group) Handle(method, pattern string, h http.Handler) *Endpoint {
	return g.table.add(g, method, JoinPattern(g.Prefix(), pattern), h)
}

func (g *Group) Get(pattern string, h http.HandlerFunc) *Endpoint {
	return g.Handle(http.MethodGet, pattern, h)
}

func (g *Group) Post(pattern string, h http.HandlerFunc) *Endpoint {
	return g.Handle(http.MethodPost, pattern, h)
}

func (g *Group) Put(pattern string, h http.HandlerFunc) *Endpoint {
	return g.Handle(http.MethodPut, pattern, h)
}

func (g *Group) Patch(pattern string, h http.HandlerFunc) *Endpoint {
	return g.Handle(http.MethodPatch, pattern, h)
}

func (g *Group) Delete(pattern string, h http.HandlerFunc) *Endpoint {
	return g.Handle(http.MethodDelete, pattern, h)
}

func (g *Group) AddFilter(f Filter) *Group { g.addFilter(f); return g }

func (g *Group) WithTags(tags ...string) *Group {
	g.meta.Tags = append(g.meta.Tags, tags...)
	return g
}

func (g *Group) WithSummary(s string) *Group     { g.meta.Summary = s; return g }
func (g *Group) WithDescription(s string) *Group { g.meta.Description = s; return g }
func (g *Group) WithName(s string) *Group        { g.meta.Name = s; return g }
func (g *Group) WithDisplayName(s string) *Group { g.meta.DisplayName = s; return g }
func (g *Group) AllowAnonymous() *Group          { g.meta.AllowAnonymous = true; return g }

func (g *Group) RequireAuthorization(policies ...string) *Group {
	g.requireAuthorization(policies)
	return g
}

func (g *Group) RequireAuthorizationPolicy(policy any) *Group {
	g.requireAuthorizationPolicy(policy)
	return g
}

func (g *Group) RequireAuthorizationData(data ...any) *Group {
	g.requireAuthorizationData(data)
	return g
}

func (g *Group) Produces(status int, response any, contentType ...string) *Group {
	g.produces(status, response, contentType)
	return g
}

func (g *Group) Accepts(request any, contentType string, additional ...string) *Group {
	g.accepts(request, contentType, additional)
	return g
}

func (g *Group) RequireCors(policy string) *Group {
	g.meta.Cors = append(g.meta.Cors, policy)
	return g
}

// Endpoint is one registered route.
type Endpoint struct {
	conventions
	Method  string
	Pattern string
	Handler http.Handler
	group   *Group
}

// Metadata returns the endpoint's metadata, group conventions first.
func (e *Endpoint) Metadata() Metadata {
	if e.group == nil {
		return Metadata{}.merge(e.meta)
	}
	return e.group.Metadata().merge(e.meta)
}

// Wrapped returns the handler with every filter applied; the first filter is
// the outermost.
func (e *Endpoint) Wrapped() http.Handler {
	h := e.Handler
	filters := e.Metadata().Filters
	for i := len(filters) - 1; i >= 0; i-- {
		h = filters[i].Wrap(h)
	}
	return h
}

func (e *Endpoint) AddFilter(f Filter) *Endpoint { e.addFilter(f); return e }

func (e *Endpoint) WithTags(tags ...string) *Endpoint {
	e.meta.Tags = append(e.meta.Tags, tags...)
	return e
}

func (e *Endpoint) WithSummary(s string) *Endpoint     { e.meta.Summary = s; return e }
func (e *Endpoint) WithDescription(s string) *Endpoint { e.meta.Description = s; return e }
func (e *Endpoint) WithName(s string) *Endpoint        { e.meta.Name = s; return e }
func (e *Endpoint) WithDisplayName(s string) *Endpoint { e.meta.DisplayName = s; return e }
func (e *Endpoint) AllowAnonymous() *Endpoint          { e.meta.AllowAnonymous = true; return e }

func (e *Endpoint) RequireAuthorization(policies ...string) *Endpoint {
	e.requireAuthorization(policies)
	return e
}

func (e *Endpoint) RequireAuthorizationPolicy(policy any) *Endpoint {
	e.requireAuthorizationPolicy(policy)
	return e
}

func (e *Endpoint) RequireAuthorizationData(data ...any) *Endpoint {
	e.requireAuthorizationData(data)
	return e
}

func (e *Endpoint) Produces(status int, response any, contentType ...string) *Endpoint {
	e.produces(status, response, contentType)
	return e
}

func (e *Endpoint) Accepts(request any, contentType string, additional ...string) *Endpoint {
	e.accepts(request, contentType, additional)
	return e
}

func (e *Endpoint) RequireCors(policy string) *Endpoint {
	e.meta.Cors = append(e.meta.Cors, policy)
	return e
}

package routing

import (
	"net/http"
	"reflect"
)

// Filter wraps an endpoint's handler. Filters run in the order they were
// added, group filters before endpoint filters.
type Filter interface {
	Wrap(next http.Handler) http.Handler
}

// FilterFunc adapts a middleware function to Filter.
type FilterFunc func(next http.Handler) http.Handler

func (f FilterFunc) Wrap(next http.Handler) http.Handler { return f(next) }

// Authorization is one authorization requirement. Exactly one field is set.
type Authorization struct {
	Policies []string
	Policy   any
	Data     []any
}

// Response describes one declared response.
type Response struct {
	StatusCode  int
	Type        reflect.Type
	ContentType string
}

// Request describes one accepted request body.
type Request struct {
	Type         reflect.Type
	ContentTypes []string
}

// Metadata is the descriptive information attached to a group or endpoint.
// An empty Cors entry selects the host's default policy.
type Metadata struct {
	Filters        []Filter
	Tags           []string
	Summary        string
	Description    string
	Name           string
	Authorization  []Authorization
	AllowAnonymous bool
	DisplayName    string
	Produces       []Response
	Accepts        []Request
	Cors           []string
}

// merge layers m over base: lists are appended, strings override when set.
func (base Metadata) merge(m Metadata) Metadata {
	out := base
	out.Filters = append(append([]Filter(nil), base.Filters...), m.Filters...)
	out.Tags = append(append([]string(nil), base.Tags...), m.Tags...)
	out.Authorization = append(append([]Authorization(nil), base.Authorization...), m.Authorization...)
	out.Produces = append(append([]Response(nil), base.Produces...), m.Produces...)
	out.Accepts = append(append([]Request(nil), base.Accepts...), m.Accepts...)
	out.Cors = append(append([]string(nil), base.Cors...), m.Cors...)
	out.AllowAnonymous = base.AllowAnonymous || m.AllowAnonymous
	if m.Summary != "" {
		out.Summary = m.Summary
	}
	if m.Description != "" {
		out.Description = m.Description
	}
	if m.Name != "" {
		out.Name = m.Name
	}
	if m.DisplayName != "" {
		out.DisplayName = m.DisplayName
	}
	return out
}

// typeOf returns the type v points to; new(T) yields T.
func typeOf(v any) reflect.Type {
	if v == nil {
		return nil
	}
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}

// conventions is the shared modifier state of groups and endpoints.
type conventions struct {
	meta Metadata
}

func (c *conventions) addFilter(f Filter) {
	if f != nil {
		c.meta.Filters = append(c.meta.Filters, f)
	}
}

func (c *conventions) requireAuthorization(policies []string) {
	c.meta.Authorization = append(c.meta.Authorization, Authorization{Policies: policies})
}

func (c *conventions) requireAuthorizationPolicy(policy any) {
	c.meta.Authorization = append(c.meta.Authorization, Authorization{Policy: policy})
}

func (c *conventions) requireAuthorizationData(data []any) {
	c.meta.Authorization = append(c.meta.Authorization, Authorization{Data: data})
}

func (c *conventions) produces(status int, response any, contentType []string) {
	r := Response{StatusCode: status, Type: typeOf(response)}
	if len(contentType) > 0 {
		r.ContentType = contentType[0]
	}
	c.meta.Produces = append(c.meta.Produces, r)
}

func (c *conventions) accepts(request any, contentType string, additional []string) {
	c.meta.Accepts = append(c.meta.Accepts, Request{
		Type:         typeOf(request),
		ContentTypes: append([]string{contentType}, additional...),
	})
}

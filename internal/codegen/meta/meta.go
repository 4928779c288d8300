package meta

import (
	"fmt"
	"go/token"
	"unicode"
	"unicode/utf8"
)

// Metadata holds all extracted containers of one run, in discovery order.
// Shared between the pipeline stages and the scan command.
type Metadata struct {
	Module     string       `json:"module" yaml:"module"`
	Containers []*Container `json:"containers" yaml:"containers"`
}

// Verb is an HTTP method bound by a verb directive.
type Verb string

const (
	VerbGet    Verb = "GET"
	VerbPost   Verb = "POST"
	VerbPut    Verb = "PUT"
	VerbPatch  Verb = "PATCH"
	VerbDelete Verb = "DELETE"
)

// Position is a resolved source location.
type Position struct {
	Filename string `json:"filename" yaml:"filename"`
	Line     int    `json:"line" yaml:"line"`
	Column   int    `json:"column" yaml:"column"`
}

func NewPosition(p token.Position) Position {
	return Position{Filename: p.Filename, Line: p.Line, Column: p.Column}
}

func (p Position) String() string {
	if p.Filename == "" {
		return "-"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// TypeRef is an opaque reference to a Go type. Package is the import path of
// the declaring package and is empty for predeclared types. Prefix carries
// pointer and slice markers, e.g. "*" or "[]*".
type TypeRef struct {
	Package string `json:"package,omitempty" yaml:"package,omitempty"`
	Name    string `json:"name" yaml:"name"`
	Prefix  string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

func (t TypeRef) String() string {
	if t.Package == "" {
		return t.Prefix + t.Name
	}
	return t.Prefix + t.Package + "." + t.Name
}

// AuthorizationMode tags which variant of Authorization is populated.
type AuthorizationMode string

const (
	AuthPolicyNames   AuthorizationMode = "policyNames"
	AuthPolicyType    AuthorizationMode = "policyType"
	AuthAuthorizeData AuthorizationMode = "authorizeData"
)

// Authorization is a tagged variant; only the field matching Mode is set.
type Authorization struct {
	Mode               AuthorizationMode `json:"mode" yaml:"mode"`
	PolicyNames        []string          `json:"policyNames,omitempty" yaml:"policyNames,omitempty"`
	PolicyType         *TypeRef          `json:"policyType,omitempty" yaml:"policyType,omitempty"`
	AuthorizeDataTypes []TypeRef         `json:"authorizeDataTypes,omitempty" yaml:"authorizeDataTypes,omitempty"`
}

func PolicyNames(names ...string) *Authorization {
	return &Authorization{Mode: AuthPolicyNames, PolicyNames: names}
}

func PolicyType(t TypeRef) *Authorization {
	return &Authorization{Mode: AuthPolicyType, PolicyType: &t}
}

func AuthorizeData(types ...TypeRef) *Authorization {
	return &Authorization{Mode: AuthAuthorizeData, AuthorizeDataTypes: types}
}

// Produces describes one declared response.
type Produces struct {
	StatusCode   int      `json:"statusCode" yaml:"statusCode"`
	ResponseType *TypeRef `json:"responseType,omitempty" yaml:"responseType,omitempty"`
	ContentType  string   `json:"contentType,omitempty" yaml:"contentType,omitempty"`
}

// Accepts describes one accepted request body.
type Accepts struct {
	RequestType            TypeRef  `json:"requestType" yaml:"requestType"`
	ContentType            string   `json:"contentType" yaml:"contentType"`
	AdditionalContentTypes []string `json:"additionalContentTypes,omitempty" yaml:"additionalContentTypes,omitempty"`
}

// Modifiers are the optional pieces of metadata shared by containers and
// handlers. An empty Cors entry selects the default policy.
type Modifiers struct {
	Filters        []TypeRef      `json:"filters,omitempty" yaml:"filters,omitempty"`
	Tags           []string       `json:"tags,omitempty" yaml:"tags,omitempty"`
	Summary        string         `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description    string         `json:"description,omitempty" yaml:"description,omitempty"`
	Name           string         `json:"name,omitempty" yaml:"name,omitempty"`
	Authorization  *Authorization `json:"authorization,omitempty" yaml:"authorization,omitempty"`
	AllowAnonymous bool           `json:"allowAnonymous,omitempty" yaml:"allowAnonymous,omitempty"`
	DisplayName    string         `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Produces       []Produces     `json:"produces,omitempty" yaml:"produces,omitempty"`
	Accepts        []Accepts      `json:"accepts,omitempty" yaml:"accepts,omitempty"`
	Cors           []string       `json:"cors,omitempty" yaml:"cors,omitempty"`
}

// Empty reports whether no modifier is set.
func (m Modifiers) Empty() bool {
	return len(m.Filters) == 0 &&
		len(m.Tags) == 0 &&
		m.Summary == "" &&
		m.Description == "" &&
		m.Name == "" &&
		m.Authorization == nil &&
		!m.AllowAnonymous &&
		m.DisplayName == "" &&
		len(m.Produces) == 0 &&
		len(m.Accepts) == 0 &&
		len(m.Cors) == 0
}

// Handler is one verb-annotated member of a container. Only handlers for
// which Qualifies reports true are emitted.
type Handler struct {
	Name            string   `json:"name" yaml:"name"`
	Pos             Position `json:"pos" yaml:"pos"`
	Verbs           []Verb   `json:"verbs" yaml:"verbs"`
	Route           string   `json:"route" yaml:"route"`
	HasBody         bool     `json:"hasBody" yaml:"hasBody"`
	PointerReceiver bool     `json:"pointerReceiver,omitempty" yaml:"pointerReceiver,omitempty"`
	Async           bool     `json:"async,omitempty" yaml:"async,omitempty"`
	// BadSignature is set when the method is not an http.HandlerFunc, with or
	// without a trailing error result.
	BadSignature bool `json:"badSignature,omitempty" yaml:"badSignature,omitempty"`
	Modifiers    `yaml:",inline"`
}

// Verb returns the handler's first verb.
func (h *Handler) Verb() Verb {
	if len(h.Verbs) == 0 {
		return ""
	}
	return h.Verbs[0]
}

// Qualifies reports whether the handler has exactly one verb, a body and a
// handler signature.
func (h *Handler) Qualifies() bool {
	return len(h.Verbs) == 1 && h.HasBody && !h.BadSignature
}

// Container is a stateless grouping type marked as an endpoint container.
type Container struct {
	Name        string   `json:"name" yaml:"name"`
	Package     string   `json:"package" yaml:"package"`
	PackageName string   `json:"packageName" yaml:"packageName"`
	Dir         string   `json:"dir" yaml:"dir"`
	Pos         Position `json:"pos" yaml:"pos"`
	Static      bool     `json:"static" yaml:"static"`
	Group       string   `json:"group,omitempty" yaml:"group,omitempty"`
	Modifiers   `yaml:",inline"`
	Handlers    []*Handler `json:"handlers" yaml:"handlers"`
}

// QualifiedName returns "<package>.<Name>".
func (c *Container) QualifiedName() string {
	return c.Package + "." + c.Name
}

// RegistrationFunc is the name of the generated registration procedure.
func (c *Container) RegistrationFunc() string {
	r, size := utf8.DecodeRuneInString(c.Name)
	return "Map" + string(unicode.ToUpper(r)) + c.Name[size:]
}

// WithHandlers returns a copy of c holding only hs.
func (c *Container) WithHandlers(hs []*Handler) *Container {
	cp := *c
	cp.Handlers = hs
	return &cp
}

package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/routegen/internal/codegen/meta"
	"github.com/Alia5/routegen/internal/codegen/scanner"
)

const module = "example.com/shop"

func extract(t *testing.T, src string) *meta.Container {
	t.Helper()
	snap := scanner.NewSnapshot(module)
	require.NoError(t, snap.AddFile("api", "users.go", []byte(src)))
	cands := scanner.Scan(snap)
	require.Len(t, cands, 1)
	return Extract(snap, cands[0])
}

// handler extracts a single handler whose directives are given as lines.
func handler(t *testing.T, directives string) *meta.Handler {
	t.Helper()
	c := extract(t, `package api

import (
	"net/http"

	"example.com/shop/internal/audit"
	authz "example.com/shop/internal/auth"
)

//route:endpoint
type Users struct{}

`+directives+`
func (Users) H(w http.ResponseWriter, r *http.Request) {}

var _ audit.Filter
var _ authz.Policy
`)
	require.Len(t, c.Handlers, 1)
	return c.Handlers[0]
}

func local(name string) meta.TypeRef {
	return meta.TypeRef{Package: module + "/api", Name: name}
}

func TestExtractUsersScenario(t *testing.T) {
	c := extract(t, `package api

import "net/http"

// Users is the user API.
//
//route:endpoint
//route:group("/users")
type Users struct{}

//route:get("/{id}")
//route:authorize("Admin")
//route:tags("users", "admin")
func (Users) GetByID(w http.ResponseWriter, r *http.Request) {}

func (Users) helper() {}
`)

	assert.Equal(t, "Users", c.Name)
	assert.Equal(t, module+"/api", c.Package)
	assert.Equal(t, "api", c.PackageName)
	assert.Equal(t, "/users", c.Group)
	assert.True(t, c.Static)
	assert.True(t, c.Modifiers.Empty())

	require.Len(t, c.Handlers, 1)
	h := c.Handlers[0]
	assert.Equal(t, "GetByID", h.Name)
	assert.Equal(t, []meta.Verb{meta.VerbGet}, h.Verbs)
	assert.Equal(t, "/{id}", h.Route)
	assert.True(t, h.HasBody)
	assert.True(t, h.Qualifies())
	assert.Equal(t, meta.PolicyNames("Admin"), h.Authorization)
	assert.Equal(t, []string{"users", "admin"}, h.Tags)
}

func TestExtractRoute(t *testing.T) {
	tests := []struct {
		name      string
		directive string
		want      string
	}{
		{name: "bare verb", directive: "//route:post", want: "/"},
		{name: "empty call", directive: "//route:put()", want: "/"},
		{name: "string", directive: `//route:patch("/{id}/name")`, want: "/{id}/name"},
		{name: "raw string", directive: "//route:delete(`/x`)", want: "/x"},
		{name: "other literal", directive: "//route:get(42)", want: "42"},
		{name: "identifier", directive: "//route:get(somePath)", want: "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, handler(t, tt.directive).Route)
		})
	}
}

func TestExtractAuthorization(t *testing.T) {
	tests := []struct {
		name      string
		directive string
		want      *meta.Authorization
	}{
		{name: "single policy", directive: `//route:authorize("Admin")`, want: meta.PolicyNames("Admin")},
		{name: "several policies", directive: `//route:authorize("A", "B")`, want: meta.PolicyNames("A", "B")},
		{name: "string slice", directive: `//route:authorize([]string{"A", "B"})`, want: meta.PolicyNames("A", "B")},
		{name: "empty string slice", directive: `//route:authorize([]string{})`, want: nil},
		{name: "string slice without literals", directive: `//route:authorize([]string{admin})`, want: nil},
		{name: "policy type", directive: `//route:authorize(AdminPolicy)`, want: meta.PolicyType(local("AdminPolicy"))},
		{name: "qualified policy type", directive: `//route:authorize(authz.Policy)`, want: meta.PolicyType(meta.TypeRef{Package: module + "/internal/auth", Name: "Policy"})},
		{name: "generic policy type", directive: `//route:authorize[AdminPolicy]()`, want: meta.PolicyType(local("AdminPolicy"))},
		{name: "authorize data", directive: `//route:authorize([]any{RoleA, RoleB})`, want: meta.AuthorizeData(local("RoleA"), local("RoleB"))},
		{name: "empty authorize data", directive: `//route:authorize([]any{})`, want: nil},
		{name: "no arguments", directive: `//route:authorize`, want: nil},
		{name: "unknown import", directive: `//route:authorize(nope.Policy)`, want: nil},
		{name: "numeric", directive: `//route:authorize(1)`, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler(t, "//route:get\n"+tt.directive)
			assert.Equal(t, tt.want, h.Authorization)
		})
	}
}

func TestExtractFiltersKeepOrderAndDuplicates(t *testing.T) {
	h := handler(t, `//route:get
//route:filter[audit.Filter]()
//route:filter(RateLimit)
//route:filter[audit.Filter]()
//route:filter()
//route:filter(*Tracing)`)

	auditRef := meta.TypeRef{Package: module + "/internal/audit", Name: "Filter"}
	assert.Equal(t, []meta.TypeRef{
		auditRef,
		local("RateLimit"),
		auditRef,
		{Package: module + "/api", Name: "Tracing", Prefix: "*"},
	}, h.Filters)
}

func TestExtractTagsAndNaming(t *testing.T) {
	h := handler(t, `//route:get
//route:tags([]string{"a", "b"})
//route:tags("ignored")
//route:summary("Short")
//route:summary("Second")
//route:description("Long text")
//route:name("GetUser")
//route:displayname("Get user")
//route:allowanonymous`)

	assert.Equal(t, []string{"a", "b"}, h.Tags)
	assert.Equal(t, "Short", h.Summary)
	assert.Equal(t, "Long text", h.Description)
	assert.Equal(t, "GetUser", h.Name)
	assert.Equal(t, "Get user", h.DisplayName)
	assert.True(t, h.AllowAnonymous)
}

func TestExtractProduces(t *testing.T) {
	user := local("User")
	str := meta.TypeRef{Name: "string"}
	users := meta.TypeRef{Package: module + "/api", Name: "User", Prefix: "[]"}
	tests := []struct {
		name      string
		directive string
		want      []meta.Produces
	}{
		{name: "generic", directive: `//route:produces[User](200, "application/json")`, want: []meta.Produces{{StatusCode: 200, ResponseType: &user, ContentType: "application/json"}}},
		{name: "generic without content type", directive: `//route:produces[[]User](200)`, want: []meta.Produces{{StatusCode: 200, ResponseType: &users}}},
		{name: "typed", directive: `//route:produces(201, User, "application/json")`, want: []meta.Produces{{StatusCode: 201, ResponseType: &user, ContentType: "application/json"}}},
		{name: "nil type", directive: `//route:produces(204, nil, "text/plain")`, want: []meta.Produces{{StatusCode: 204, ContentType: "text/plain"}}},
		{name: "content type as second argument", directive: `//route:produces(404, "application/problem+json")`, want: []meta.Produces{{StatusCode: 404, ContentType: "application/problem+json"}}},
		{name: "predeclared type", directive: `//route:produces(200, string)`, want: []meta.Produces{{StatusCode: 200, ResponseType: &str}}},
		{name: "status only", directive: `//route:produces(500)`, want: []meta.Produces{{StatusCode: 500}}},
		{name: "missing status", directive: `//route:produces[User]()`, want: nil},
		{name: "non literal status", directive: `//route:produces(http.StatusOK)`, want: nil},
		{name: "several", directive: "//route:produces(200)\n//route:produces(404)", want: []meta.Produces{{StatusCode: 200}, {StatusCode: 404}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler(t, "//route:get\n"+tt.directive)
			assert.Equal(t, tt.want, h.Produces)
		})
	}
}

func TestExtractAccepts(t *testing.T) {
	payload := local("Payload")
	tests := []struct {
		name      string
		directive string
		want      []meta.Accepts
	}{
		{
			name:      "generic with additional",
			directive: `//route:accepts[Payload]("application/json", "application/xml")`,
			want:      []meta.Accepts{{RequestType: payload, ContentType: "application/json", AdditionalContentTypes: []string{"application/xml"}}},
		},
		{
			name:      "typed with string slice",
			directive: `//route:accepts(Payload, "application/json", []string{"a/b", "c/d"})`,
			want:      []meta.Accepts{{RequestType: payload, ContentType: "application/json", AdditionalContentTypes: []string{"a/b", "c/d"}}},
		},
		{
			name:      "typed without additional",
			directive: `//route:accepts(*Payload, "application/json")`,
			want:      []meta.Accepts{{RequestType: meta.TypeRef{Package: module + "/api", Name: "Payload", Prefix: "*"}, ContentType: "application/json"}},
		},
		{name: "missing content type", directive: `//route:accepts[Payload]()`, want: nil},
		{name: "missing type", directive: `//route:accepts("application/json")`, want: nil},
		{name: "empty content type", directive: `//route:accepts(Payload, "")`, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler(t, "//route:post\n"+tt.directive)
			assert.Equal(t, tt.want, h.Accepts)
		})
	}
}

func TestExtractCors(t *testing.T) {
	h := handler(t, `//route:get
//route:cors
//route:cors(nil)
//route:cors("strict")`)
	assert.Equal(t, []string{"", "", "strict"}, h.Cors)
}

func TestExtractHandlerShapes(t *testing.T) {
	c := extract(t, `package api

import "net/http"

//route:endpoint
//route:group("/orders")
//route:tags("orders")
//route:filter(Audit)
//route:get("/ignored")
type Orders struct{}

//route:get
//route:post
func (Orders) Both(w http.ResponseWriter, r *http.Request) {}

//route:delete("/{id}")
func (*Orders) Remove(w http.ResponseWriter, r *http.Request) error { return nil }

//route:get("/missing")
func (Orders) Missing(w http.ResponseWriter, r *http.Request)

//route:group("/not-a-handler")
func (Orders) Plain() {}
`)

	assert.Equal(t, "/orders", c.Group)
	assert.Equal(t, []string{"orders"}, c.Tags)
	assert.Equal(t, []meta.TypeRef{local("Audit")}, c.Filters)

	require.Len(t, c.Handlers, 3)

	both := c.Handlers[0]
	assert.Equal(t, []meta.Verb{meta.VerbGet, meta.VerbPost}, both.Verbs)
	assert.False(t, both.Qualifies())

	remove := c.Handlers[1]
	assert.True(t, remove.PointerReceiver)
	assert.True(t, remove.Async)
	assert.Equal(t, meta.VerbDelete, remove.Verb())
	assert.True(t, remove.Qualifies())

	missing := c.Handlers[2]
	assert.False(t, missing.HasBody)
	assert.False(t, missing.Qualifies())
}

func TestExtractHandlerSignature(t *testing.T) {
	tests := []struct {
		name string
		sig  string
		bad  bool
	}{
		{name: "plain", sig: "(w http.ResponseWriter, r *http.Request)"},
		{name: "error result", sig: "(w http.ResponseWriter, r *http.Request) error"},
		{name: "named error result", sig: "(w http.ResponseWriter, r *http.Request) (err error)"},
		{name: "grouped parameters", sig: "(http.ResponseWriter, *http.Request)"},
		{name: "no parameters", sig: "() ([]string, error)", bad: true},
		{name: "request by value", sig: "(w http.ResponseWriter, r http.Request)", bad: true},
		{name: "swapped", sig: "(r *http.Request, w http.ResponseWriter)", bad: true},
		{name: "extra parameter", sig: "(w http.ResponseWriter, r *http.Request, id string)", bad: true},
		{name: "non error result", sig: "(w http.ResponseWriter, r *http.Request) int", bad: true},
		{name: "two results", sig: "(w http.ResponseWriter, r *http.Request) (int, error)", bad: true},
		{name: "local lookalike", sig: "(w ResponseWriter, r *Request)", bad: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := extract(t, `package api

import "net/http"

//route:endpoint
type Users struct{}

//route:get
func (Users) H`+tt.sig+` { panic(0) }

var _ http.Handler
`)
			require.Len(t, c.Handlers, 1)
			h := c.Handlers[0]
			assert.Equal(t, tt.bad, h.BadSignature)
			assert.Equal(t, !tt.bad, h.Qualifies())
		})
	}
}

func TestExtractHandlerSignatureWithAliasedImport(t *testing.T) {
	c := extract(t, `package api

import nethttp "net/http"

//route:endpoint
type Users struct{}

//route:get
func (Users) H(w nethttp.ResponseWriter, r *nethttp.Request) {}
`)
	require.Len(t, c.Handlers, 1)
	assert.False(t, c.Handlers[0].BadSignature)
}

func TestExtractResolvesDeclaredPackageName(t *testing.T) {
	snap := scanner.NewSnapshot(module)
	require.NoError(t, snap.AddFile("internal/handlers", "audit.go", []byte(`package api

import "net/http"

type Audit struct{}

func (Audit) Filter(next http.Handler) http.Handler { return next }
`)))
	require.NoError(t, snap.AddFile("users", "users.go", []byte(`package users

import (
	"net/http"

	"example.com/shop/internal/handlers"
)

//route:endpoint
//route:filter(api.Audit)
type Users struct{}

//route:get
//route:authorize(api.Audit)
func (Users) List(w http.ResponseWriter, r *http.Request) {}

var _ api.Audit
`)))
	cands := scanner.Scan(snap)
	require.Len(t, cands, 1)
	c := Extract(snap, cands[0])

	audit := meta.TypeRef{Package: module + "/internal/handlers", Name: "Audit"}
	assert.Equal(t, []meta.TypeRef{audit}, c.Filters)
	require.Len(t, c.Handlers, 1)
	assert.Equal(t, meta.PolicyType(audit), c.Handlers[0].Authorization)
}

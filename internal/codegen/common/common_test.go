package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Users", "users_endpoints.gen.go"},
		{"UserAdmin", "user_admin_endpoints.gen.go"},
		{"HTTPStatus", "http_status_endpoints.gen.go"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, UnitFileName(tt.in))
		})
	}
}

func TestImportName(t *testing.T) {
	tests := []struct {
		path, want string
	}{
		{"net/http", "http"},
		{"github.com/go-chi/chi/v5", "chi"},
		{"gopkg.in/yaml.v3", "yaml"},
		{"github.com/stoewer/go-strcase", "strcase"},
		{"github.com/pelletier/go-toml", "toml"},
		{"example.com/kong-go", "kong"},
		{"example.com/my.pkg", "mypkg"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ImportName(tt.path))
		})
	}
}

func TestPackageName(t *testing.T) {
	assert.Equal(t, "routes", PackageName("."))
	assert.Equal(t, "routes", PackageName("routes"))
	assert.Equal(t, "httpapi", PackageName("internal/http-api"))
	assert.Equal(t, "p2fa", PackageName("2fa"))
}

func TestGeneratedHeader(t *testing.T) {
	assert.Equal(t, "// Code generated by routegen. DO NOT EDIT.", GeneratedHeader())
}

func TestBuildVersion(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	tests := []struct {
		stamp   string
		want    string
		release []int
		wantErr bool
	}{
		{stamp: "v1.2.3-dirty", want: "v1.2.3-dirty", release: []int{1, 2, 3}},
		{stamp: "1.4.0", want: "v1.4.0", release: []int{1, 4, 0}},
		{stamp: "v2.0.1+build.7", want: "v2.0.1+build.7", release: []int{2, 0, 1}},
		{stamp: "v0.3", want: "v0.3", release: []int{0, 3, 0}},
		{stamp: "nonsense", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.stamp, func(t *testing.T) {
			Version = tt.stamp
			v, err := BuildVersion()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)

			major, minor, patch := Release(v)
			assert.Equal(t, tt.release, []int{major, minor, patch})
		})
	}
}

func TestReleaseOfInvalidVersion(t *testing.T) {
	major, minor, patch := Release("dev")
	assert.Equal(t, []int{0, 0, 0}, []int{major, minor, patch})
}

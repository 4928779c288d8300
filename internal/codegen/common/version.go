package common

import (
	"fmt"
	"runtime/debug"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is stamped by the release build:
//
//	-ldflags "-X github.com/Alia5/routegen/internal/codegen/common.Version=v1.2.3"
var Version = ""

const devVersion = "v0.0.0-dev"

// BuildVersion returns the semantic version of the running binary. An
// unstamped binary reports the module version go install recorded, or a
// development placeholder when built from a checkout.
func BuildVersion() (string, error) {
	v := Version
	if v == "" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	if v == "" {
		return devVersion, nil
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("%q is not a semantic version", v)
	}
	return v, nil
}

// Release returns the major.minor.patch triple of v, dropping pre-release and
// build metadata. Missing components are zero.
func Release(v string) (major, minor, patch int) {
	core, _, _ := strings.Cut(strings.TrimPrefix(semver.Canonical(v), "v"), "-")
	_, _ = fmt.Sscanf(core, "%d.%d.%d", &major, &minor, &patch)
	return major, minor, patch
}

// Package diag holds the fixed diagnostic catalog and the diagnostic records
// produced by the validator.
package diag

import (
	"fmt"

	"github.com/Alia5/routegen/internal/codegen/meta"
)

// Code is a stable rule identifier.
type Code string

func (c Code) String() string { return string(c) }

const (
	CodeContainerMustBeStatic          Code = "RG0001"
	CodeContainerHasNoHandlers         Code = "RG0002"
	CodeHandlerMissingBody             Code = "RG0003"
	CodeHandlerMultipleVerbs           Code = "RG0004"
	CodeContainerModifiersWithoutGroup Code = "RG0005"
	CodeHandlerInvalidSignature        Code = "RG0006"
	CodeContainerInMainPackage         Code = "RG0007"
)

// Severity of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Effect describes what a diagnostic does to emission.
type Effect int

const (
	// EffectNone is advisory only.
	EffectNone Effect = iota
	// EffectSkipHandler drops the offending handler from its container.
	EffectSkipHandler
	// EffectSkipContainer drops the container and its aggregator call.
	EffectSkipContainer
	// EffectAbortBatch suppresses every generated unit of the run.
	EffectAbortBatch
)

func (e Effect) String() string {
	switch e {
	case EffectSkipHandler:
		return "skip-handler"
	case EffectSkipContainer:
		return "skip-container"
	case EffectAbortBatch:
		return "abort-batch"
	default:
		return "none"
	}
}

// Rule is one entry of the catalog.
type Rule struct {
	Code          Code
	Name          string
	Title         string
	MessageFormat string
	Severity      Severity
	Effect        Effect
}

var (
	ContainerMustBeStatic = &Rule{
		Code:          CodeContainerMustBeStatic,
		Name:          "container-must-be-static",
		Title:         "Container must be stateless",
		MessageFormat: "the type %q marked with route:endpoint must be an empty struct without type parameters",
		Severity:      SeverityError,
		Effect:        EffectAbortBatch,
	}
	ContainerHasNoHandlers = &Rule{
		Code:          CodeContainerHasNoHandlers,
		Name:          "container-has-no-handlers",
		Title:         "Container has no endpoint handlers",
		MessageFormat: "the type %q does not declare any valid handler and will be ignored",
		Severity:      SeverityWarning,
		Effect:        EffectSkipContainer,
	}
	HandlerMissingBody = &Rule{
		Code:          CodeHandlerMissingBody,
		Name:          "handler-missing-body",
		Title:         "Handler has no body",
		MessageFormat: "the method %q must have a body to be registered as an endpoint",
		Severity:      SeverityError,
		Effect:        EffectSkipHandler,
	}
	HandlerMultipleVerbs = &Rule{
		Code:          CodeHandlerMultipleVerbs,
		Name:          "handler-multiple-verb-annotations",
		Title:         "Multiple HTTP verb directives",
		MessageFormat: "the method %q must have only one HTTP verb directive, found %s",
		Severity:      SeverityError,
		Effect:        EffectAbortBatch,
	}
	ContainerModifiersWithoutGroup = &Rule{
		Code:          CodeContainerModifiersWithoutGroup,
		Name:          "container-modifiers-without-group",
		Title:         "Container modifiers require a group",
		MessageFormat: "the type %q declares container-level modifiers without route:group; they are not applied",
		Severity:      SeverityInfo,
		Effect:        EffectNone,
	}
	HandlerInvalidSignature = &Rule{
		Code:          CodeHandlerInvalidSignature,
		Name:          "handler-invalid-signature",
		Title:         "Handler signature is not an HTTP handler",
		MessageFormat: "the method %q must have the signature func(http.ResponseWriter, *http.Request) with an optional error result",
		Severity:      SeverityError,
		Effect:        EffectSkipHandler,
	}
	ContainerInMainPackage = &Rule{
		Code:          CodeContainerInMainPackage,
		Name:          "container-in-main-package",
		Title:         "Container cannot be aggregated from package main",
		MessageFormat: "the type %q is declared in package main, which cannot be imported by the aggregator in %s; it will be ignored",
		Severity:      SeverityWarning,
		Effect:        EffectSkipContainer,
	}
)

// Catalog lists every rule in code order.
var Catalog = []*Rule{
	ContainerMustBeStatic,
	ContainerHasNoHandlers,
	HandlerMissingBody,
	HandlerMultipleVerbs,
	ContainerModifiersWithoutGroup,
	HandlerInvalidSignature,
	ContainerInMainPackage,
}

// RuleFor returns the catalog entry for a code.
func RuleFor(c Code) (*Rule, bool) {
	for _, r := range Catalog {
		if r.Code == c {
			return r, true
		}
	}
	return nil, false
}

// Diagnostic is one reported rule violation.
type Diagnostic struct {
	Rule   *Rule
	Pos    meta.Position
	Params []any
}

// New creates a diagnostic for rule at pos.
func New(rule *Rule, pos meta.Position, params ...any) Diagnostic {
	return Diagnostic{Rule: rule, Pos: pos, Params: params}
}

func (d Diagnostic) Code() Code         { return d.Rule.Code }
func (d Diagnostic) Severity() Severity { return d.Rule.Severity }

// Message renders the rule's message template with the parameters.
func (d Diagnostic) Message() string {
	return fmt.Sprintf(d.Rule.MessageFormat, d.Params...)
}

// String formats the diagnostic in the usual compiler style.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s %s: %s", d.Pos, d.Rule.Severity, d.Rule.Code, d.Message())
}

// Diagnostics is an append-only collection in report order.
type Diagnostics []Diagnostic

// HasEffect reports whether any diagnostic has effect e.
func (ds Diagnostics) HasEffect(e Effect) bool {
	for _, d := range ds {
		if d.Rule.Effect == e {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics with severity s.
func (ds Diagnostics) Count(s Severity) int {
	n := 0
	for _, d := range ds {
		if d.Rule.Severity == s {
			n++
		}
	}
	return n
}

// ByCode returns the diagnostics reported for code c.
func (ds Diagnostics) ByCode(c Code) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Rule.Code == c {
			out = append(out, d)
		}
	}
	return out
}

// Record is the serializable form of a diagnostic.
type Record struct {
	Code     Code     `json:"code" yaml:"code"`
	Rule     string   `json:"rule" yaml:"rule"`
	Severity Severity `json:"severity" yaml:"severity"`
	Pos      string   `json:"pos" yaml:"pos"`
	Message  string   `json:"message" yaml:"message"`
}

func (d Diagnostic) Record() Record {
	return Record{
		Code:     d.Rule.Code,
		Rule:     d.Rule.Name,
		Severity: d.Rule.Severity,
		Pos:      d.Pos.String(),
		Message:  d.Message(),
	}
}

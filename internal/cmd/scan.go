package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/Alia5/routegen/internal/codegen/diag"
	"github.com/Alia5/routegen/internal/codegen/generator"
	"github.com/Alia5/routegen/internal/codegen/meta"
	"github.com/Alia5/routegen/internal/codegen/pipeline"
	"github.com/Alia5/routegen/internal/configpaths"
)

// Scan prints the extracted endpoint model without writing generated code.
type Scan struct {
	Target `embed:""`
	Format string `help:"Output format" enum:"json,yaml" default:"json" env:"ROUTEGEN_SCAN_FORMAT"`
	Output string `help:"Destination file path (defaults to stdout)" env:"ROUTEGEN_SCAN_OUTPUT"`
}

type scanReport struct {
	Module      string            `json:"module" yaml:"module"`
	Hash        string            `json:"hash" yaml:"hash"`
	Containers  []*meta.Container `json:"containers" yaml:"containers"`
	Diagnostics []diag.Record     `json:"diagnostics" yaml:"diagnostics"`
	Units       []string          `json:"units" yaml:"units"`
	Aborted     bool              `json:"aborted" yaml:"aborted"`
}

// Run is called by Kong when the scan command is executed.
func (s *Scan) Run(logger *slog.Logger) error {
	cfg := generator.Config{Root: s.Root, Options: s.options()}
	res, _, err := generator.New(cfg, logger).Scan(context.Background())
	if err != nil {
		return err
	}

	data, err := s.encode(newScanReport(res))
	if err != nil {
		return err
	}

	if s.Output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := configpaths.EnsureDir(s.Output); err != nil {
		return err
	}
	if err := os.WriteFile(s.Output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.Output, err)
	}
	logger.Info("Wrote scan report", "output", s.Output)
	return nil
}

func newScanReport(res *pipeline.Result) scanReport {
	rep := scanReport{
		Module:      res.Metadata.Module,
		Hash:        fmt.Sprintf("%016x", res.Hash),
		Containers:  res.Metadata.Containers,
		Diagnostics: make([]diag.Record, 0, len(res.Diagnostics)),
		Units:       make([]string, 0, len(res.Units)),
		Aborted:     res.Aborted,
	}
	for _, d := range res.Diagnostics {
		rep.Diagnostics = append(rep.Diagnostics, d.Record())
	}
	for _, u := range res.Units {
		rep.Units = append(rep.Units, u.Path)
	}
	return rep
}

func (s *Scan) encode(rep scanReport) ([]byte, error) {
	switch s.Format {
	case "yaml":
		return yaml.Marshal(rep)
	default:
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

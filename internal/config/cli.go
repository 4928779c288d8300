// Package config declares the routegen command line.
package config

import "github.com/Alia5/routegen/internal/cmd"

type CLI struct {
	Config string `help:"Path to a json, yaml or toml configuration file" type:"path" env:"ROUTEGEN_CONFIG"`
	Log    Log    `embed:"" prefix:"log."`

	Generate  cmd.Generate      `cmd:"" default:"withargs" help:"Generate route registration code for every endpoint container"`
	Scan      cmd.Scan          `cmd:"" help:"Print the extracted endpoint model and diagnostics"`
	ConfigCmd cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration helpers"`
	Version   cmd.Version       `cmd:"" help:"Print the routegen version"`
}

type Log struct {
	Level   string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"ROUTEGEN_LOG_LEVEL"`
	File    string `help:"Write logs to this file; the console then only shows warnings and errors" type:"path" env:"ROUTEGEN_LOG_FILE"`
	RawFile string `help:"Dump every rendered unit to this file" type:"path" env:"ROUTEGEN_LOG_RAW_FILE"`
}

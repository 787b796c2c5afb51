package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/park285/uciwire/pkg/uci"
)

// OptionSpec describes one engine option in the configuration catalog.
// Min and Max apply to spin options, Var to combo options.
type OptionSpec struct {
	Name    string   `yaml:"name"`
	Type    string   `yaml:"type"`
	Default string   `yaml:"default"`
	Min     int64    `yaml:"min"`
	Max     int64    `yaml:"max"`
	Var     []string `yaml:"var"`
}

// Msg converts the spec into its wire descriptor. Option names must be a
// single token: the setoption grammar consumes exactly one token per id.
func (s OptionSpec) Msg() (uci.OptionMsg, error) {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return uci.OptionMsg{}, fmt.Errorf("option with type %q has no name", s.Type)
	}
	if strings.ContainsAny(name, " \t") {
		return uci.OptionMsg{}, fmt.Errorf("option %q: name must be a single token", name)
	}

	switch strings.ToLower(strings.TrimSpace(s.Type)) {
	case "check":
		def := false
		if v := strings.TrimSpace(s.Default); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return uci.OptionMsg{}, fmt.Errorf("option %q: default %q is not a boolean", name, s.Default)
			}
			def = b
		}
		return uci.NewCheckOption(name, def), nil
	case "spin":
		if s.Min > s.Max {
			return uci.OptionMsg{}, fmt.Errorf("option %q: min %d exceeds max %d", name, s.Min, s.Max)
		}
		return uci.NewSpinOption(name, s.Default, s.Min, s.Max), nil
	case "combo":
		return uci.NewComboOption(name, s.Default, s.Var), nil
	case "button":
		return uci.NewButtonOption(name), nil
	case "string":
		return uci.NewStringOption(name, s.Default), nil
	}
	return uci.OptionMsg{}, fmt.Errorf("option %q: unknown type %q", name, s.Type)
}

// OptionMsgs converts the full catalog, failing on the first invalid spec.
func (c *Config) OptionMsgs() ([]uci.OptionMsg, error) {
	msgs := make([]uci.OptionMsg, 0, len(c.Options))
	for _, spec := range c.Options {
		m, err := spec.Msg()
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

package main

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/xpbridge/schema"
	"github.com/wippyai/xpbridge/value"
)

var errMissingWIT = errors.New("--wasm requires --wit")

func parseArgs(args []string) ([]value.Value, error) {
	vals := make([]value.Value, len(args))
	for i, a := range args {
		v, err := parseArg(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		vals[i] = v
	}
	return vals, nil
}

// parseArg reads one command line argument. "_" leaves the parameter
// unset, a braced identifier is an interface identifier and everything
// else is decoded as YAML.
func parseArg(s string) (value.Value, error) {
	if s == "_" {
		return value.Unset(), nil
	}
	if len(s) == 38 && strings.HasPrefix(s, "{") && strings.Count(s, "-") == 4 {
		id, err := schema.ParseIID(s)
		if err != nil {
			return value.Value{}, err
		}
		return value.ID(id), nil
	}
	var x any
	if err := yaml.Unmarshal([]byte(s), &x); err != nil {
		return value.Value{}, fmt.Errorf("parse %q: %w", s, err)
	}
	return value.FromGo(x)
}

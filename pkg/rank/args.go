package rank

import (
	"sort"
	"strconv"
	"strings"

	"github.com/yumyai/generanker/pkg/errs"
)

// Args are method options given as key=value pairs.
type Args map[string]string

// Option describes one option a method accepts.
type Option struct {
	Name    string `yaml:"name"`
	Usage   string `yaml:"usage"`
	Default string `yaml:"default"`
}

// withDefaults rejects keys outside opts and fills in missing defaults.
func withDefaults(opts []Option, args Args) (Args, error) {
	known := make(map[string]bool, len(opts))
	out := make(Args, len(opts))
	for _, o := range opts {
		known[o.Name] = true
		out[o.Name] = o.Default
	}

	var unknown []string
	for k, v := range args {
		if !known[k] {
			unknown = append(unknown, k)
			continue
		}
		out[k] = v
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, errs.Configf("unknown option(s): %s", strings.Join(unknown, ", "))
	}
	return out, nil
}

// Float parses option name as a number.
func (a Args) Float(name string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(a[name]), 64)
	if err != nil {
		return 0, errs.Configf("option %s=%q is not a number", name, a[name])
	}
	return v, nil
}

// OneOf returns option name after checking it against allowed.
func (a Args) OneOf(name string, allowed ...string) (string, error) {
	v := a[name]
	for _, x := range allowed {
		if v == x {
			return v, nil
		}
	}
	return "", errs.Configf("option %s=%q must be one of %s", name, v, strings.Join(allowed, ", "))
}

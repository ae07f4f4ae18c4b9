// Package env resolves the variables tested by conditional directives.
//
// Values come from three layers, highest priority first: explicit
// defines, dotenv files, and the process environment.
package env

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Vars is a layered variable source.
type Vars struct {
	defines map[string]string
	files   map[string]string
	environ func(string) (string, bool)
}

// New returns Vars backed by the process environment only.
func New() *Vars {
	return &Vars{
		defines: map[string]string{},
		files:   map[string]string{},
		environ: os.LookupEnv,
	}
}

// Define sets name to value, overriding every other layer.
func (v *Vars) Define(name, value string) {
	v.defines[name] = value
}

// ParseDefine splits a NAME[=VALUE] argument. A bare name is defined
// as "1".
func ParseDefine(s string) (name, value string, err error) {
	name, value, found := strings.Cut(s, "=")
	if name == "" {
		return "", "", fmt.Errorf("invalid define %q: empty name", s)
	}
	if !found {
		value = "1"
	}
	return name, value, nil
}

// LoadFiles reads dotenv files. Later files override earlier ones.
func (v *Vars) LoadFiles(paths ...string) error {
	for _, p := range paths {
		m, err := godotenv.Read(p)
		if err != nil {
			return fmt.Errorf("reading env file %s: %w", p, err)
		}
		for k, val := range m {
			v.files[k] = val
		}
	}
	return nil
}

// Lookup resolves name through the layers.
func (v *Vars) Lookup(name string) (string, bool) {
	if val, ok := v.defines[name]; ok {
		return val, true
	}
	if val, ok := v.files[name]; ok {
		return val, true
	}
	return v.environ(name)
}

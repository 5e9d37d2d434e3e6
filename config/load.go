// Copyright 2025 by Harald Albrecht
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy
// of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations
// under the License.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/thediveo/nexcas/interpolate"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	log "github.com/sirupsen/logrus"
)

// EnvConfig names the environment variable pointing to the configuration file
// when none has been specified explicitly.
const EnvConfig = "NEXUS_CASC_CONFIG"

// redactedPassword replaces passwords when saving configurations.
const redactedPassword = "********"

// Locate returns the path of the configuration file: the explicitly specified
// path, if any, otherwise the path in the NEXUS_CASC_CONFIG environment
// variable.
func Locate(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	if path = os.Getenv(EnvConfig); path != "" {
		return path, nil
	}
	return "", fmt.Errorf("no configuration file specified and env var %s not set", EnvConfig)
}

// LoadOption configures how Load loads a configuration.
type LoadOption func(*loader)

type loader struct {
	ip     *interpolate.Interpolator
	strict bool
}

// Strict rejects configurations still containing placeholders after
// interpolation.
func Strict() LoadOption {
	return func(l *loader) { l.strict = true }
}

// WithInterpolator interpolates using the specified interpolator instead of
// one using the process environment and file system.
func WithInterpolator(ip *interpolate.Interpolator) LoadOption {
	return func(l *loader) { l.ip = ip }
}

// Load reads the configuration file at the specified path, interpolates it,
// and returns the decoded configuration.
func Load(path string, opts ...LoadOption) (*Config, error) {
	l := &loader{}
	for _, opt := range opts {
		opt(l)
	}
	if l.ip == nil {
		l.ip = interpolate.New()
	}
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read configuration, reason: %w", err)
	}
	log.Info(fmt.Sprintf("📜 loading configuration from %s", path))
	yamltext := []byte(l.ip.Interpolate(string(text)))
	if l.strict {
		if err := checkResolved(yamltext); err != nil {
			return nil, err
		}
	}
	return Parse(yamltext)
}

// checkResolved returns an error listing the places in the YAML text that
// still contain placeholders.
func checkResolved(yamltext []byte) error {
	var tree any
	if err := yaml.Unmarshal(yamltext, &tree); err != nil {
		return fmt.Errorf("malformed configuration, reason: %w", err)
	}
	paths := interpolate.Unresolved(tree)
	if len(paths) == 0 {
		return nil
	}
	where := make([]string, 0, len(paths))
	for _, path := range paths {
		where = append(where, string(path))
	}
	return fmt.Errorf("unresolved placeholders in configuration at %s",
		strings.Join(where, ", "))
}

// Parse decodes an already interpolated configuration and fills in defaults.
// An empty document results in an empty configuration.
func Parse(yamltext []byte) (*Config, error) {
	c := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(yamltext))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("malformed configuration, reason: %w", err)
	}
	c.setDefaults()
	return c, nil
}

// Save writes the configuration as YAML to the specified io.Writer, with user
// passwords redacted.
func (c *Config) Save(w io.Writer) error {
	b, err := yaml.Marshal(c.redacted())
	if err != nil {
		return fmt.Errorf("cannot write configuration, reason: %w", err)
	}
	_, err = w.Write(b)
	if err != nil {
		return fmt.Errorf("cannot write configuration, reason: %w", err)
	}
	return nil
}

// redacted returns a shallow copy of the configuration where user passwords
// have been replaced.
func (c *Config) redacted() *Config {
	if c.Security == nil || len(c.Security.Users) == 0 {
		return c
	}
	security := *c.Security
	security.Users = slices.Clone(security.Users)
	for idx := range security.Users {
		if security.Users[idx].Password != "" {
			security.Users[idx].Password = redactedPassword
		}
	}
	rc := *c
	rc.Security = &security
	return &rc
}

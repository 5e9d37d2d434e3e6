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

package interpolate

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
)

// fileName is the special placeholder name for reading file contents.
const fileName = "file"

// maxPasses limits how often values containing further placeholders get
// expanded in turn, in order to stop cyclic values.
const maxPasses = 100

// Interpolator replaces placeholders in text with values taken from
// environment variables and files.
type Interpolator struct {
	env   Env
	files FileReader
}

// Option configures an Interpolator.
type Option func(*Interpolator)

// WithEnv sets the source of environment variables, instead of the process
// environment.
func WithEnv(env Env) Option {
	return func(i *Interpolator) { i.env = env }
}

// WithFiles sets the reader for ${file:...} placeholders, instead of the OS
// file system.
func WithFiles(files FileReader) Option {
	return func(i *Interpolator) { i.files = files }
}

// New returns a new Interpolator, by default using the process environment
// and OS file system.
func New(opts ...Option) *Interpolator {
	i := &Interpolator{
		env:   OSEnv,
		files: OSFiles,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Interpolate returns the specified text with all resolvable placeholders
// replaced by their values. Placeholders that cannot be resolved are left as
// they are and get logged.
func (i *Interpolator) Interpolate(text string) string {
	skip := map[string]struct{}{}
	for n := 0; n < maxPasses; n++ {
		var again bool
		text, again = i.pass(text, skip)
		if !again {
			return text
		}
	}
	log.Errorf("giving up interpolation after %d passes", maxPasses)
	return text
}

// pass resolves each distinct placeholder in text once and substitutes all
// resolved placeholders in a single sweep. Text outside placeholders stays
// untouched. Unresolvable placeholders are added to skip. pass reports
// whether any substituted value contains further placeholders.
func (i *Interpolator) pass(text string, skip map[string]struct{}) (string, bool) {
	matches := placeholderRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, false
	}
	values := map[string]string{}
	var out strings.Builder
	out.Grow(len(text))
	last := 0
	for _, m := range matches {
		ph := newPlaceholder(text, m)
		value, ok := values[ph.Text]
		if !ok {
			if _, skipped := skip[ph.Text]; skipped {
				continue
			}
			if value, ok = i.resolve(ph); !ok {
				skip[ph.Text] = struct{}{}
				continue
			}
			values[ph.Text] = value
		}
		out.WriteString(text[last:m[0]])
		out.WriteString(value)
		last = m[1]
	}
	if len(values) == 0 {
		return text, false
	}
	out.WriteString(text[last:])
	again := false
	for literal, value := range values {
		if !HasPlaceholder(value) {
			continue
		}
		if strings.Contains(value, literal) {
			log.Warnf("placeholder %s expands to itself", literal)
			skip[literal] = struct{}{}
		}
		again = true
	}
	return out.String(), again
}

// resolve returns the value of the placeholder and true, or false if it
// cannot be resolved.
func (i *Interpolator) resolve(ph placeholder) (string, bool) {
	if strings.EqualFold(ph.Name, fileName) {
		return i.readFile(ph)
	}
	if value, ok := i.env.LookupEnv(strings.ToUpper(ph.Name)); ok {
		return value, true
	}
	if !ph.HasDefault {
		log.Warnf("found no value to interpolate variable %s", ph.Name)
		return "", false
	}
	log.Debugf("variable %s falls back to its default", ph.Name)
	return ph.Default, true
}

// readFile returns the contents of the file named in the placeholder.
func (i *Interpolator) readFile(ph placeholder) (string, bool) {
	if !ph.HasDefault || strings.TrimSpace(ph.Default) == "" {
		log.Errorf("missing filename in %s", ph.Text)
		return "", false
	}
	contents, err := i.files.ReadFile(ph.Default)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Errorf("file %s does not exist", absPath(ph.Default))
			return "", false
		}
		log.Errorf("failed to read file %s, reason: %s", ph.Default, err.Error())
		return "", false
	}
	log.Debugf("read %s from file %s", humanize.Bytes(uint64(len(contents))), ph.Default)
	return strings.ToValidUTF8(string(contents), "�"), true
}

// absPath returns the absolute path for logging purposes, falling back to the
// path as is.
func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

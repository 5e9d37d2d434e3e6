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

import "regexp"

// placeholderRe matches either an unbraced $NAME or a braced ${NAME},
// ${NAME:default}, or ${NAME:"default"}. The submatches are:
//  1. unbraced name
//  2. braced name
//  3. quoted default, without its quotes
//  4. unquoted default
var placeholderRe = regexp.MustCompile(
	`\$(?:([A-Za-z0-9_]+)|\{([^:}]+)(?::(?:"([^"}]*)"|([^}]*)))?\})`)

// placeholder is a single placeholder found in some text.
type placeholder struct {
	Text       string // exact text of the placeholder, the unit of replacement
	Name       string // variable name, or "file"
	Default    string // default value or file path
	HasDefault bool   // a default was specified, even if empty
}

// placeholders returns all placeholders found in the specified text, in the
// order of their appearance. The same placeholder text may occur multiple
// times.
func placeholders(text string) []placeholder {
	matches := placeholderRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}
	phs := make([]placeholder, 0, len(matches))
	for _, m := range matches {
		phs = append(phs, newPlaceholder(text, m))
	}
	return phs
}

// newPlaceholder returns the placeholder described by the submatch indices m
// into text.
func newPlaceholder(text string, m []int) placeholder {
	submatch := func(group int) (string, bool) {
		start, end := m[2*group], m[2*group+1]
		if start < 0 {
			return "", false
		}
		return text[start:end], true
	}
	ph := placeholder{Text: text[m[0]:m[1]]}
	if name, ok := submatch(1); ok {
		ph.Name = name
		return ph
	}
	ph.Name, _ = submatch(2)
	if def, ok := submatch(3); ok {
		ph.Default, ph.HasDefault = def, true
	} else if def, ok := submatch(4); ok {
		ph.Default, ph.HasDefault = def, true
	}
	return ph
}

// HasPlaceholder returns true if the specified text contains at least one
// placeholder.
func HasPlaceholder(text string) bool {
	return placeholderRe.MatchString(text)
}

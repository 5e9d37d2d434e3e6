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

import "os"

// Env looks up the values of environment variables.
type Env interface {
	// LookupEnv returns the value of the named variable and true, or false
	// if the variable isn't set.
	LookupEnv(name string) (string, bool)
}

// EnvFunc adapts an ordinary function to the Env interface.
type EnvFunc func(name string) (string, bool)

// LookupEnv calls f(name).
func (f EnvFunc) LookupEnv(name string) (string, bool) { return f(name) }

// OSEnv looks up variables in the process environment.
var OSEnv Env = EnvFunc(os.LookupEnv)

// Vars is a fixed set of variables, mostly useful for testing.
type Vars map[string]string

// LookupEnv returns the value of the named variable, if present.
func (v Vars) LookupEnv(name string) (string, bool) {
	value, ok := v[name]
	return value, ok
}

// FileReader reads whole files. Please note that testing/fstest.MapFS
// satisfies this interface.
type FileReader interface {
	ReadFile(name string) ([]byte, error)
}

// OSFiles reads files from the OS file system, resolving relative paths
// against the current working directory.
var OSFiles FileReader = osFiles{}

type osFiles struct{}

func (osFiles) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

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

package nexus

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// serverHeaderRe matches the Server header of Nexus responses, such as
// “Nexus/3.61.0-02 (OSS)”; the build number is dropped.
var serverHeaderRe = regexp.MustCompile(`Nexus/(\d+\.\d+\.\d+)`)

// ServerVersion returns the version of the Nexus instance as reported in the
// Server header of its status endpoint.
func (c *Client) ServerVersion(ctx context.Context) (*semver.Version, error) {
	resp, err := c.request(ctx, http.MethodGet, "/status", "", nil)
	if err != nil {
		return nil, err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return parseServerHeader(resp.Header.Get("Server"))
}

func parseServerHeader(server string) (*semver.Version, error) {
	m := serverHeaderRe.FindStringSubmatch(server)
	if m == nil {
		return nil, fmt.Errorf("no Nexus version in server header %q", server)
	}
	v, err := semver.NewVersion(m[1])
	if err != nil {
		return nil, fmt.Errorf("invalid Nexus version %q, reason: %w", m[1], err)
	}
	return v, nil
}

// RequireVersion checks that the version of the Nexus instance satisfies the
// specified semver constraint, such as “>= 3.40”, returning the version
// found. The version is nil whenever an error is returned.
func (c *Client) RequireVersion(ctx context.Context, constraint string) (*semver.Version, error) {
	constr, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, fmt.Errorf("invalid version constraint %q, reason: %w", constraint, err)
	}
	v, err := c.ServerVersion(ctx)
	if err != nil {
		return nil, err
	}
	if !constr.Check(v) {
		return nil, fmt.Errorf("server version %s doesn't satisfy %q", v, constraint)
	}
	return v, nil
}

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

package nexcas

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/thediveo/nexcas/config"
)

func (r *run) core(ctx context.Context, core *config.Core) {
	if baseURL := strings.TrimSpace(core.BaseURL); baseURL != "" {
		r.log.Debug(fmt.Sprintf("setting base URL to %s", baseURL))
		if err := r.m.SetBaseURL(ctx, baseURL); err != nil {
			r.failed(err, "cannot set base URL")
		}
	}
	r.proxy(ctx, "HTTP", core.HTTPProxy, r.m.SetHTTPProxy)
	r.proxy(ctx, "HTTPS", core.HTTPSProxy, r.m.SetHTTPSProxy)
	if hosts := nonProxyHosts(core.NonProxyHosts); len(hosts) > 0 {
		r.log.Info(fmt.Sprintf("🚫 setting non-proxy hosts to %s", strings.Join(hosts, ",")))
		if err := r.m.SetNonProxyHosts(ctx, hosts); err != nil {
			r.failed(err, "cannot set non-proxy hosts")
		}
	}
}

// proxy sets the proxy of the specified kind, if any.
func (r *run) proxy(
	ctx context.Context,
	kind string,
	proxyURL string,
	set func(ctx context.Context, host string, port int) error,
) {
	proxyURL = strings.TrimSpace(proxyURL)
	if proxyURL == "" {
		return
	}
	host, port, err := proxyHostPort(proxyURL)
	if err != nil {
		r.invalid("invalid %s proxy URL %q, reason: %s", kind, proxyURL, err.Error())
		return
	}
	r.log.Info(fmt.Sprintf("🔀 setting %s proxy to %s:%d", kind, host, port))
	if err := set(ctx, host, port); err != nil {
		r.failed(err, "cannot set %s proxy", kind)
	}
}

// proxyHostPort returns the host and port of the specified proxy URL. When
// the URL lacks an explicit port, the default port of its scheme is used.
func proxyHostPort(proxyURL string) (string, int, error) {
	u, err := url.Parse(proxyURL)
	if err != nil {
		return "", 0, err
	}
	host := u.Hostname()
	if host == "" {
		return "", 0, fmt.Errorf("missing host in %q", proxyURL)
	}
	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "http":
			return host, 80, nil
		case "https":
			return host, 443, nil
		}
		return "", 0, fmt.Errorf("missing port in %q", proxyURL)
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port in %q", proxyURL)
	}
	return host, p, nil
}

// nonProxyHosts splits a comma-separated host list, dropping empty elements.
func nonProxyHosts(hosts string) []string {
	var nph []string
	for _, host := range strings.Split(hosts, ",") {
		if host = strings.TrimSpace(host); host != "" {
			nph = append(nph, host)
		}
	}
	return nph
}

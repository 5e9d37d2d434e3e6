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
)

// The OSS REST API neither exposes the base URL and HTTP client settings, nor
// capabilities.

func (c *Client) SetBaseURL(context.Context, string) error {
	return fmt.Errorf("setting base URL: %w", ErrUnsupported)
}

func (c *Client) SetHTTPProxy(context.Context, string, int) error {
	return fmt.Errorf("setting HTTP proxy: %w", ErrUnsupported)
}

func (c *Client) SetHTTPSProxy(context.Context, string, int) error {
	return fmt.Errorf("setting HTTPS proxy: %w", ErrUnsupported)
}

func (c *Client) SetNonProxyHosts(context.Context, []string) error {
	return fmt.Errorf("setting non-proxy hosts: %w", ErrUnsupported)
}

func (c *Client) Capabilities(context.Context) ([]Capability, error) {
	return nil, fmt.Errorf("listing capabilities: %w", ErrUnsupported)
}

func (c *Client) CreateCapability(context.Context, Capability) error {
	return fmt.Errorf("creating capability: %w", ErrUnsupported)
}

func (c *Client) UpdateCapability(context.Context, Capability) error {
	return fmt.Errorf("updating capability: %w", ErrUnsupported)
}

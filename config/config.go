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

// Defaults filled in after decoding a configuration.
const (
	DefaultBlobStoreType     = "File"
	DefaultCleanupPolicyMode = "delete"
)

// Config represents a complete Nexus configuration document. Absent sections
// are left alone.
type Config struct {
	Core         *Core        `yaml:"core,omitempty"`
	Security     *Security    `yaml:"security,omitempty"`
	Repository   *Repository  `yaml:"repository,omitempty"`
	Capabilities []Capability `yaml:"capabilities,omitempty"`
}

// Core contains the base URL and outbound proxy settings. Proxies are given as
// URLs, such as “http://proxy.example.org:3128”; the non-proxy hosts are a
// comma-separated list.
type Core struct {
	BaseURL       string `yaml:"baseUrl,omitempty"`
	HTTPProxy     string `yaml:"httpProxy,omitempty"`
	HTTPSProxy    string `yaml:"httpsProxy,omitempty"`
	NonProxyHosts string `yaml:"nonProxyHosts,omitempty"`
}

// Security contains anonymous access, realm and user settings.
type Security struct {
	AnonymousAccess *bool   `yaml:"anonymousAccess,omitempty"`
	PruneUsers      *bool   `yaml:"pruneUsers,omitempty"`
	Realms          []Realm `yaml:"realms,omitempty"`
	Users           []User  `yaml:"users,omitempty"`
}

// Realm enables or disables a security realm.
type Realm struct {
	Name    string `yaml:"name"`
	Enabled *bool  `yaml:"enabled,omitempty"`
}

// User describes a user of the default source, as well as its roles.
type User struct {
	Username               string `yaml:"username"`
	FirstName              string `yaml:"firstName,omitempty"`
	LastName               string `yaml:"lastName,omitempty"`
	Email                  string `yaml:"email,omitempty"`
	Password               string `yaml:"password,omitempty"`
	UpdateExistingPassword *bool  `yaml:"updateExistingPassword,omitempty"`
	Active                 *bool  `yaml:"active,omitempty"`
	Roles                  []Role `yaml:"roles,omitempty"`
}

// Role references a role from a particular source.
type Role struct {
	Source string `yaml:"source"`
	Role   string `yaml:"role"`
}

// Repository contains the blob stores, cleanup policies, and repositories, as
// well as whether to prune existing ones not mentioned in the configuration.
type Repository struct {
	PruneBlobStores      *bool             `yaml:"pruneBlobStores,omitempty"`
	BlobStores           []BlobStore       `yaml:"blobStores,omitempty"`
	PruneCleanupPolicies *bool             `yaml:"pruneCleanupPolicies,omitempty"`
	CleanupPolicies      []CleanupPolicy   `yaml:"cleanupPolicies,omitempty"`
	PruneRepositories    *bool             `yaml:"pruneRepositories,omitempty"`
	Repositories         []RepositoryEntry `yaml:"repositories,omitempty"`
}

// BlobStore describes a blob store; its attributes are organized in sections,
// such as “file” with its “path”.
type BlobStore struct {
	Name       string                    `yaml:"name"`
	Type       string                    `yaml:"type,omitempty"`
	Attributes map[string]map[string]any `yaml:"attributes,omitempty"`
}

// CleanupPolicy describes a cleanup policy for a particular repository format.
type CleanupPolicy struct {
	Name     string            `yaml:"name"`
	Format   string            `yaml:"format,omitempty"`
	Notes    string            `yaml:"notes,omitempty"`
	Mode     string            `yaml:"mode,omitempty"`
	Criteria map[string]string `yaml:"criteria,omitempty"`
}

// RepositoryEntry describes a single repository of a particular recipe, such
// as “maven2-hosted”.
type RepositoryEntry struct {
	Name       string                    `yaml:"name"`
	RecipeName string                    `yaml:"recipeName"`
	Online     *bool                     `yaml:"online,omitempty"`
	Attributes map[string]map[string]any `yaml:"attributes,omitempty"`
}

// Capability describes a capability, identified by its type.
type Capability struct {
	Type       string            `yaml:"type"`
	Enabled    *bool             `yaml:"enabled,omitempty"`
	Notes      string            `yaml:"notes,omitempty"`
	Attributes map[string]string `yaml:"attributes,omitempty"`
}

// True returns true only if the optional boolean is set and true.
func True(b *bool) bool {
	return b != nil && *b
}

// BoolOr returns the value of the optional boolean if set, otherwise the
// specified default.
func BoolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// setDefaults fills in the blob store types and cleanup policy modes left
// unspecified.
func (c *Config) setDefaults() {
	if c.Repository == nil {
		return
	}
	for idx := range c.Repository.BlobStores {
		if c.Repository.BlobStores[idx].Type == "" {
			c.Repository.BlobStores[idx].Type = DefaultBlobStoreType
		}
	}
	for idx := range c.Repository.CleanupPolicies {
		if c.Repository.CleanupPolicies[idx].Mode == "" {
			c.Repository.CleanupPolicies[idx].Mode = DefaultCleanupPolicyMode
		}
	}
}

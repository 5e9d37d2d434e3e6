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
	"errors"
)

// ErrUnsupported signals that a particular management operation isn't
// supported by a Manager implementation.
var ErrUnsupported = errors.New("unsupported management operation")

// FileBlobStoreType is the type of blob stores living in the file system of
// the Nexus instance.
const FileBlobStoreType = "File"

// BlobStore describes a blob store. Attributes are grouped by sections, such
// as “file” with its “path” attribute.
type BlobStore struct {
	Name       string
	Type       string
	Attributes map[string]map[string]any
}

// CleanupPolicy describes a cleanup policy for components of a particular
// (repository) format.
type CleanupPolicy struct {
	Name     string
	Format   string
	Notes    string
	Mode     string
	Criteria map[string]string
}

// Repository describes a repository configuration. The recipe combines the
// repository format with its type, such as “maven2-hosted”.
type Repository struct {
	Name       string
	Recipe     string
	Online     bool
	Attributes map[string]map[string]any
}

// UserStatus is the status of a user account.
type UserStatus string

const (
	UserActive         UserStatus = "active"
	UserDisabled       UserStatus = "disabled"
	UserLocked         UserStatus = "locked"
	UserChangePassword UserStatus = "changepassword"
)

// RoleID identifies a role in a particular source (realm).
type RoleID struct {
	Source string
	Role   string
}

// User describes a user account.
type User struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Source    string
	Status    UserStatus
	Roles     []RoleID
}

// Capability describes a configured capability instance.
type Capability struct {
	ID         string
	Type       string
	Enabled    bool
	Notes      string
	Properties map[string]string
}

// Core manages the base URL and outbound proxy settings.
type Core interface {
	SetBaseURL(ctx context.Context, url string) error
	SetHTTPProxy(ctx context.Context, host string, port int) error
	SetHTTPSProxy(ctx context.Context, host string, port int) error
	SetNonProxyHosts(ctx context.Context, hosts []string) error
}

// BlobStores manages blob stores. BlobStore returns a nil blob store together
// with a nil error if there is no blob store with the specified name.
type BlobStores interface {
	BlobStores(ctx context.Context) ([]BlobStore, error)
	BlobStore(ctx context.Context, name string) (*BlobStore, error)
	CreateBlobStore(ctx context.Context, bs BlobStore) error
	UpdateBlobStore(ctx context.Context, bs BlobStore) error
	DeleteBlobStore(ctx context.Context, name string) error
}

// CleanupPolicies manages cleanup policies. CleanupPolicy returns nil
// together with a nil error if there is no policy with the specified name.
type CleanupPolicies interface {
	CleanupPolicies(ctx context.Context) ([]CleanupPolicy, error)
	CleanupPolicy(ctx context.Context, name string) (*CleanupPolicy, error)
	CreateCleanupPolicy(ctx context.Context, cp CleanupPolicy) error
	UpdateCleanupPolicy(ctx context.Context, cp CleanupPolicy) error
	DeleteCleanupPolicy(ctx context.Context, name string) error
}

// Repositories manages repositories. Repository returns nil together with a
// nil error if there is no repository with the specified name.
type Repositories interface {
	Repositories(ctx context.Context) ([]Repository, error)
	Repository(ctx context.Context, name string) (*Repository, error)
	CreateRepository(ctx context.Context, repo Repository) error
	UpdateRepository(ctx context.Context, repo Repository) error
	DeleteRepository(ctx context.Context, name string) error
}

// Security manages anonymous access, realms, and users. User returns nil
// together with a nil error if there is no user with the specified ID.
type Security interface {
	SetAnonymousAccess(ctx context.Context, enabled bool) error
	ActiveRealms(ctx context.Context) ([]string, error)
	SetActiveRealms(ctx context.Context, realms []string) error
	Users(ctx context.Context) ([]User, error)
	User(ctx context.Context, id string) (*User, error)
	CreateUser(ctx context.Context, user User, password string) error
	UpdateUser(ctx context.Context, user User) error
	ChangePassword(ctx context.Context, id string, password string) error
	DeleteUser(ctx context.Context, id string, source string) error
}

// Capabilities manages capabilities.
type Capabilities interface {
	Capabilities(ctx context.Context) ([]Capability, error)
	CreateCapability(ctx context.Context, capability Capability) error
	UpdateCapability(ctx context.Context, capability Capability) error
}

// Manager manages all aspects of a Nexus instance that can be configured as
// code.
type Manager interface {
	Core
	BlobStores
	CleanupPolicies
	Repositories
	Security
	Capabilities
}

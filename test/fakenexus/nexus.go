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

package fakenexus

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"sync"

	"github.com/thediveo/nexcas/nexus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Proxy is a proxy host and port.
type Proxy struct {
	Host string
	Port int
}

// Nexus is an in-memory nexus.Manager. It counts the changes actually made to
// its state, so that repeated identical operations count only once. Specific
// operations can be made to fail using FailOn.
type Nexus struct {
	mu sync.Mutex

	baseURL       string
	httpProxy     Proxy
	httpsProxy    Proxy
	nonProxyHosts []string
	anonymous     bool
	realms        []string

	blobStores      map[string]nexus.BlobStore
	cleanupPolicies map[string]nexus.CleanupPolicy
	repositories    map[string]nexus.Repository
	users           map[string]nexus.User
	passwords       map[string]string
	capabilities    []nexus.Capability

	changes int
	failOn  map[string]error
}

var _ nexus.Manager = (*Nexus)(nil)

// New returns a new, empty fake Nexus instance.
func New() *Nexus {
	return &Nexus{
		blobStores:      map[string]nexus.BlobStore{},
		cleanupPolicies: map[string]nexus.CleanupPolicy{},
		repositories:    map[string]nexus.Repository{},
		users:           map[string]nexus.User{},
		passwords:       map[string]string{},
		failOn:          map[string]error{},
	}
}

// FailOn makes the named operation, such as “CreateBlobStore”, fail with the
// specified error. A nil error makes the operation succeed again.
func (n *Nexus) FailOn(op string, err error) *Nexus {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err == nil {
		delete(n.failOn, op)
	} else {
		n.failOn[op] = err
	}
	return n
}

// Changes returns the number of changes made so far.
func (n *Nexus) Changes() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.changes
}

// ResetChanges resets the change counter, such as after seeding.
func (n *Nexus) ResetChanges() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = 0
}

// BaseURL returns the base URL set.
func (n *Nexus) BaseURL() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.baseURL
}

// HTTPProxy returns the HTTP proxy set.
func (n *Nexus) HTTPProxy() Proxy {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.httpProxy
}

// HTTPSProxy returns the HTTPS proxy set.
func (n *Nexus) HTTPSProxy() Proxy {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.httpsProxy
}

// NonProxyHosts returns the hosts to reach without a proxy.
func (n *Nexus) NonProxyHosts() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.nonProxyHosts)
}

// AnonymousAccess returns whether anonymous access is enabled.
func (n *Nexus) AnonymousAccess() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.anonymous
}

// Password returns the password of the specified user.
func (n *Nexus) Password(id string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.passwords[id]
}

// fail returns the error to fail the specified operation with, if any. It
// must be called with the lock held.
func (n *Nexus) fail(op string) error {
	if err := n.failOn[op]; err != nil {
		return fmt.Errorf("%s failed, reason: %w", op, err)
	}
	return nil
}

// change sets *field to value, counting it as a change only when the value
// differs. It must be called with the lock held.
func change[T any](n *Nexus, field *T, value T) {
	if reflect.DeepEqual(*field, value) {
		return
	}
	*field = value
	n.changes++
}

// put stores the value under the specified key, counting it as a change only
// when the value differs. It must be called with the lock held.
func put[T any](n *Nexus, m map[string]T, key string, value T) {
	if old, ok := m[key]; ok && reflect.DeepEqual(old, value) {
		return
	}
	m[key] = value
	n.changes++
}

// sorted returns the map values in the order of their keys.
func sorted[T any](m map[string]T) []T {
	keys := maps.Keys(m)
	slices.Sort(keys)
	values := make([]T, 0, len(keys))
	for _, key := range keys {
		values = append(values, m[key])
	}
	return values
}

func (n *Nexus) SetBaseURL(ctx context.Context, url string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("SetBaseURL"); err != nil {
		return err
	}
	change(n, &n.baseURL, url)
	return nil
}

func (n *Nexus) SetHTTPProxy(ctx context.Context, host string, port int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("SetHTTPProxy"); err != nil {
		return err
	}
	change(n, &n.httpProxy, Proxy{Host: host, Port: port})
	return nil
}

func (n *Nexus) SetHTTPSProxy(ctx context.Context, host string, port int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("SetHTTPSProxy"); err != nil {
		return err
	}
	change(n, &n.httpsProxy, Proxy{Host: host, Port: port})
	return nil
}

func (n *Nexus) SetNonProxyHosts(ctx context.Context, hosts []string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("SetNonProxyHosts"); err != nil {
		return err
	}
	change(n, &n.nonProxyHosts, slices.Clone(hosts))
	return nil
}

func (n *Nexus) BlobStores(ctx context.Context) ([]nexus.BlobStore, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("BlobStores"); err != nil {
		return nil, err
	}
	return sorted(n.blobStores), nil
}

func (n *Nexus) BlobStore(ctx context.Context, name string) (*nexus.BlobStore, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("BlobStore"); err != nil {
		return nil, err
	}
	bs, ok := n.blobStores[name]
	if !ok {
		return nil, nil
	}
	return &bs, nil
}

func (n *Nexus) CreateBlobStore(ctx context.Context, bs nexus.BlobStore) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("CreateBlobStore"); err != nil {
		return err
	}
	if _, ok := n.blobStores[bs.Name]; ok {
		return fmt.Errorf("blob store %q already exists", bs.Name)
	}
	put(n, n.blobStores, bs.Name, bs)
	return nil
}

func (n *Nexus) UpdateBlobStore(ctx context.Context, bs nexus.BlobStore) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("UpdateBlobStore"); err != nil {
		return err
	}
	if _, ok := n.blobStores[bs.Name]; !ok {
		return fmt.Errorf("no blob store %q", bs.Name)
	}
	put(n, n.blobStores, bs.Name, bs)
	return nil
}

func (n *Nexus) DeleteBlobStore(ctx context.Context, name string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("DeleteBlobStore"); err != nil {
		return err
	}
	if _, ok := n.blobStores[name]; !ok {
		return fmt.Errorf("no blob store %q", name)
	}
	delete(n.blobStores, name)
	n.changes++
	return nil
}

func (n *Nexus) CleanupPolicies(ctx context.Context) ([]nexus.CleanupPolicy, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("CleanupPolicies"); err != nil {
		return nil, err
	}
	return sorted(n.cleanupPolicies), nil
}

func (n *Nexus) CleanupPolicy(ctx context.Context, name string) (*nexus.CleanupPolicy, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("CleanupPolicy"); err != nil {
		return nil, err
	}
	cp, ok := n.cleanupPolicies[name]
	if !ok {
		return nil, nil
	}
	return &cp, nil
}

func (n *Nexus) CreateCleanupPolicy(ctx context.Context, cp nexus.CleanupPolicy) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("CreateCleanupPolicy"); err != nil {
		return err
	}
	if _, ok := n.cleanupPolicies[cp.Name]; ok {
		return fmt.Errorf("cleanup policy %q already exists", cp.Name)
	}
	put(n, n.cleanupPolicies, cp.Name, cp)
	return nil
}

func (n *Nexus) UpdateCleanupPolicy(ctx context.Context, cp nexus.CleanupPolicy) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("UpdateCleanupPolicy"); err != nil {
		return err
	}
	if _, ok := n.cleanupPolicies[cp.Name]; !ok {
		return fmt.Errorf("no cleanup policy %q", cp.Name)
	}
	put(n, n.cleanupPolicies, cp.Name, cp)
	return nil
}

func (n *Nexus) DeleteCleanupPolicy(ctx context.Context, name string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("DeleteCleanupPolicy"); err != nil {
		return err
	}
	if _, ok := n.cleanupPolicies[name]; !ok {
		return fmt.Errorf("no cleanup policy %q", name)
	}
	delete(n.cleanupPolicies, name)
	n.changes++
	return nil
}

func (n *Nexus) Repositories(ctx context.Context) ([]nexus.Repository, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("Repositories"); err != nil {
		return nil, err
	}
	return sorted(n.repositories), nil
}

func (n *Nexus) Repository(ctx context.Context, name string) (*nexus.Repository, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("Repository"); err != nil {
		return nil, err
	}
	repo, ok := n.repositories[name]
	if !ok {
		return nil, nil
	}
	return &repo, nil
}

func (n *Nexus) CreateRepository(ctx context.Context, repo nexus.Repository) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("CreateRepository"); err != nil {
		return err
	}
	if _, ok := n.repositories[repo.Name]; ok {
		return fmt.Errorf("repository %q already exists", repo.Name)
	}
	if _, _, err := nexus.SplitRecipe(repo.Recipe); err != nil {
		return err
	}
	put(n, n.repositories, repo.Name, repo)
	return nil
}

func (n *Nexus) UpdateRepository(ctx context.Context, repo nexus.Repository) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("UpdateRepository"); err != nil {
		return err
	}
	old, ok := n.repositories[repo.Name]
	if !ok {
		return fmt.Errorf("no repository %q", repo.Name)
	}
	if old.Recipe != repo.Recipe {
		return fmt.Errorf("cannot change recipe of repository %q", repo.Name)
	}
	put(n, n.repositories, repo.Name, repo)
	return nil
}

func (n *Nexus) DeleteRepository(ctx context.Context, name string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("DeleteRepository"); err != nil {
		return err
	}
	if _, ok := n.repositories[name]; !ok {
		return fmt.Errorf("no repository %q", name)
	}
	delete(n.repositories, name)
	n.changes++
	return nil
}

func (n *Nexus) SetAnonymousAccess(ctx context.Context, enabled bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("SetAnonymousAccess"); err != nil {
		return err
	}
	change(n, &n.anonymous, enabled)
	return nil
}

func (n *Nexus) ActiveRealms(ctx context.Context) ([]string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("ActiveRealms"); err != nil {
		return nil, err
	}
	return slices.Clone(n.realms), nil
}

func (n *Nexus) SetActiveRealms(ctx context.Context, realms []string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("SetActiveRealms"); err != nil {
		return err
	}
	change(n, &n.realms, slices.Clone(realms))
	return nil
}

func (n *Nexus) Users(ctx context.Context) ([]nexus.User, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("Users"); err != nil {
		return nil, err
	}
	return sorted(n.users), nil
}

func (n *Nexus) User(ctx context.Context, id string) (*nexus.User, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("User"); err != nil {
		return nil, err
	}
	u, ok := n.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (n *Nexus) CreateUser(ctx context.Context, u nexus.User, password string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("CreateUser"); err != nil {
		return err
	}
	if _, ok := n.users[u.ID]; ok {
		return fmt.Errorf("user %q already exists", u.ID)
	}
	if u.Source == "" {
		u.Source = nexus.DefaultUserSource
	}
	if u.Status == "" {
		u.Status = nexus.UserActive
	}
	put(n, n.users, u.ID, u)
	n.passwords[u.ID] = password
	return nil
}

func (n *Nexus) UpdateUser(ctx context.Context, u nexus.User) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("UpdateUser"); err != nil {
		return err
	}
	if _, ok := n.users[u.ID]; !ok {
		return fmt.Errorf("no user %q", u.ID)
	}
	put(n, n.users, u.ID, u)
	return nil
}

func (n *Nexus) ChangePassword(ctx context.Context, id string, password string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("ChangePassword"); err != nil {
		return err
	}
	if _, ok := n.users[id]; !ok {
		return fmt.Errorf("no user %q", id)
	}
	put(n, n.passwords, id, password)
	return nil
}

func (n *Nexus) DeleteUser(ctx context.Context, id string, source string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("DeleteUser"); err != nil {
		return err
	}
	u, ok := n.users[id]
	if !ok || u.Source != source {
		return fmt.Errorf("no user %q in source %q", id, source)
	}
	delete(n.users, id)
	delete(n.passwords, id)
	n.changes++
	return nil
}

func (n *Nexus) Capabilities(ctx context.Context) ([]nexus.Capability, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("Capabilities"); err != nil {
		return nil, err
	}
	return slices.Clone(n.capabilities), nil
}

func (n *Nexus) CreateCapability(ctx context.Context, capability nexus.Capability) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("CreateCapability"); err != nil {
		return err
	}
	capability.ID = strconv.Itoa(len(n.capabilities) + 1)
	n.capabilities = append(n.capabilities, capability)
	n.changes++
	return nil
}

func (n *Nexus) UpdateCapability(ctx context.Context, capability nexus.Capability) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail("UpdateCapability"); err != nil {
		return err
	}
	idx := slices.IndexFunc(n.capabilities, func(c nexus.Capability) bool {
		return c.ID == capability.ID
	})
	if idx < 0 {
		return fmt.Errorf("no capability with ID %q", capability.ID)
	}
	change(n, &n.capabilities[idx], capability)
	return nil
}

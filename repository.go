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

	"github.com/thediveo/nexcas/config"
	"github.com/thediveo/nexcas/nexus"
	"golang.org/x/exp/slices"
)

func (r *run) repository(ctx context.Context, repository *config.Repository) {
	if repository.BlobStores != nil {
		for _, bs := range repository.BlobStores {
			r.blobStore(ctx, bs)
		}
	} else if config.True(repository.PruneBlobStores) {
		r.log.Warn("repository.pruneBlobStores has no effect when no blob stores are configured")
	}

	if repository.CleanupPolicies != nil {
		for _, cp := range repository.CleanupPolicies {
			r.cleanupPolicy(ctx, cp)
		}
		if config.True(repository.PruneCleanupPolicies) {
			r.pruneCleanupPolicies(ctx, repository.CleanupPolicies)
		}
	} else if config.True(repository.PruneCleanupPolicies) {
		r.log.Warn("repository.pruneCleanupPolicies has no effect when no cleanup policies are configured")
	}

	if repository.Repositories != nil {
		for _, repo := range repository.Repositories {
			r.repo(ctx, repo)
		}
		if config.True(repository.PruneRepositories) {
			r.pruneRepositories(ctx, repository.Repositories)
		}
	} else if config.True(repository.PruneRepositories) {
		r.log.Warn("repository.pruneRepositories has no effect when no repositories are configured")
	}

	// pruned repositories might have used blob stores to be pruned.
	if repository.BlobStores != nil && config.True(repository.PruneBlobStores) {
		r.pruneBlobStores(ctx, repository.BlobStores)
	}
}

// filePath returns the file system path attribute of a blob store, if any.
func filePath(attrs map[string]map[string]any) (string, bool) {
	path, ok := attrs[nexus.FileSection][nexus.PathAttr].(string)
	return path, ok
}

// blobStore creates or updates a blob store. The path and type of existing
// blob stores cannot be changed.
func (r *run) blobStore(ctx context.Context, bs config.BlobStore) {
	path, ok := filePath(bs.Attributes)
	if bs.Type == nexus.FileBlobStoreType && !ok {
		r.invalid(".attributes.file.path of blob store %s must be a string", bs.Name)
		return
	}
	existing, err := r.m.BlobStore(ctx, bs.Name)
	if err != nil {
		r.failed(err, "cannot look up blob store %s", bs.Name)
		return
	}
	want := nexus.BlobStore{Name: bs.Name, Type: bs.Type, Attributes: bs.Attributes}
	if existing == nil {
		r.log.Info(fmt.Sprintf("🪣  creating blob store %s", bs.Name))
		if err := r.m.CreateBlobStore(ctx, want); err != nil {
			r.failed(err, "cannot create blob store %s", bs.Name)
		}
		return
	}
	if existing.Type != bs.Type {
		r.invalid("cannot change type of blob store %s from %s to %s",
			bs.Name, existing.Type, bs.Type)
		return
	}
	if existingPath, _ := filePath(existing.Attributes); ok && existingPath != path {
		r.invalid("cannot change .attributes.file.path of blob store %s from %q to %q",
			bs.Name, existingPath, path)
		return
	}
	r.log.Info(fmt.Sprintf("🪣  updating blob store %s", bs.Name))
	if err := r.m.UpdateBlobStore(ctx, want); err != nil {
		r.failed(err, "cannot update blob store %s", bs.Name)
	}
}

func (r *run) pruneBlobStores(ctx context.Context, keep []config.BlobStore) {
	bss, err := r.m.BlobStores(ctx)
	if err != nil {
		r.failed(err, "cannot list blob stores for pruning")
		return
	}
	for _, bs := range bss {
		if slices.ContainsFunc(keep, func(k config.BlobStore) bool { return k.Name == bs.Name }) {
			continue
		}
		r.log.Info(fmt.Sprintf("🗑  pruning blob store %s", bs.Name))
		if err := r.m.DeleteBlobStore(ctx, bs.Name); err != nil {
			r.failed(err, "cannot prune blob store %s", bs.Name)
		}
	}
}

func (r *run) cleanupPolicy(ctx context.Context, cp config.CleanupPolicy) {
	existing, err := r.m.CleanupPolicy(ctx, cp.Name)
	if err != nil {
		r.failed(err, "cannot look up cleanup policy %s", cp.Name)
		return
	}
	want := nexus.CleanupPolicy{
		Name:     cp.Name,
		Format:   cp.Format,
		Notes:    cp.Notes,
		Mode:     cp.Mode,
		Criteria: cp.Criteria,
	}
	if existing == nil {
		r.log.Info(fmt.Sprintf("🧹 creating cleanup policy %s", cp.Name))
		if err := r.m.CreateCleanupPolicy(ctx, want); err != nil {
			r.failed(err, "cannot create cleanup policy %s", cp.Name)
		}
		return
	}
	r.log.Info(fmt.Sprintf("🧹 updating cleanup policy %s", cp.Name))
	if err := r.m.UpdateCleanupPolicy(ctx, want); err != nil {
		r.failed(err, "cannot update cleanup policy %s", cp.Name)
	}
}

func (r *run) pruneCleanupPolicies(ctx context.Context, keep []config.CleanupPolicy) {
	cps, err := r.m.CleanupPolicies(ctx)
	if err != nil {
		r.failed(err, "cannot list cleanup policies for pruning")
		return
	}
	for _, cp := range cps {
		if slices.ContainsFunc(keep, func(k config.CleanupPolicy) bool { return k.Name == cp.Name }) {
			continue
		}
		r.log.Info(fmt.Sprintf("🗑  pruning cleanup policy %s", cp.Name))
		if err := r.m.DeleteCleanupPolicy(ctx, cp.Name); err != nil {
			r.failed(err, "cannot prune cleanup policy %s", cp.Name)
		}
	}
}

// repo creates or updates a repository. The recipe of an existing repository
// cannot be changed. New repositories are online unless configured otherwise,
// while existing repositories keep their online state unless configured.
func (r *run) repo(ctx context.Context, repo config.RepositoryEntry) {
	existing, err := r.m.Repository(ctx, repo.Name)
	if err != nil {
		r.failed(err, "cannot look up repository %s", repo.Name)
		return
	}
	if existing == nil {
		r.log.Info(fmt.Sprintf("📦 creating %s repository %s", repo.RecipeName, repo.Name))
		err := r.m.CreateRepository(ctx, nexus.Repository{
			Name:       repo.Name,
			Recipe:     repo.RecipeName,
			Online:     config.BoolOr(repo.Online, true),
			Attributes: repo.Attributes,
		})
		if err != nil {
			r.failed(err, "cannot create repository %s", repo.Name)
		}
		return
	}
	if existing.Recipe != repo.RecipeName {
		r.invalid("cannot change recipe of repository %s from %s to %s",
			repo.Name, existing.Recipe, repo.RecipeName)
		return
	}
	r.log.Info(fmt.Sprintf("📦 updating %s repository %s", repo.RecipeName, repo.Name))
	err = r.m.UpdateRepository(ctx, nexus.Repository{
		Name:       repo.Name,
		Recipe:     repo.RecipeName,
		Online:     config.BoolOr(repo.Online, existing.Online),
		Attributes: repo.Attributes,
	})
	if err != nil {
		r.failed(err, "cannot update repository %s", repo.Name)
	}
}

func (r *run) pruneRepositories(ctx context.Context, keep []config.RepositoryEntry) {
	repos, err := r.m.Repositories(ctx)
	if err != nil {
		r.failed(err, "cannot list repositories for pruning")
		return
	}
	for _, repo := range repos {
		if slices.ContainsFunc(keep, func(k config.RepositoryEntry) bool { return k.Name == repo.Name }) {
			continue
		}
		r.log.Info(fmt.Sprintf("🗑  pruning repository %s", repo.Name))
		if err := r.m.DeleteRepository(ctx, repo.Name); err != nil {
			r.failed(err, "cannot prune repository %s", repo.Name)
		}
	}
}

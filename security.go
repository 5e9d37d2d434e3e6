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
	"strings"

	"github.com/thediveo/nexcas/config"
	"github.com/thediveo/nexcas/nexus"
	"golang.org/x/exp/slices"
)

func (r *run) security(ctx context.Context, security *config.Security) {
	if security.AnonymousAccess != nil {
		r.log.Info(fmt.Sprintf("🕶  setting anonymous access to %t", *security.AnonymousAccess))
		if err := r.m.SetAnonymousAccess(ctx, *security.AnonymousAccess); err != nil {
			r.failed(err, "cannot set anonymous access")
		}
	}
	if security.Realms != nil {
		r.realms(ctx, security.Realms)
	}
	if security.Users == nil {
		if config.True(security.PruneUsers) {
			r.log.Warn("security.pruneUsers has no effect when not specifying any users")
		}
		return
	}
	for _, user := range security.Users {
		r.user(ctx, user)
	}
	if config.True(security.PruneUsers) {
		r.pruneUsers(ctx, security.Users)
	}
}

// realms enables and disables realms, keeping the order of the already
// active realms and appending newly enabled ones.
func (r *run) realms(ctx context.Context, realms []config.Realm) {
	active, err := r.m.ActiveRealms(ctx)
	if err != nil {
		r.failed(err, "cannot determine active realms")
		return
	}
	updated := slices.Clone(active)
	for _, realm := range realms {
		if realm.Enabled == nil {
			r.log.Warn(fmt.Sprintf("realm %s without enabled setting, skipping", realm.Name))
			continue
		}
		idx := slices.Index(updated, realm.Name)
		switch {
		case *realm.Enabled && idx < 0:
			updated = append(updated, realm.Name)
		case !*realm.Enabled && idx >= 0:
			updated = slices.Delete(updated, idx, idx+1)
		}
	}
	if slices.Equal(active, updated) {
		r.log.Debug("active realms unchanged")
		return
	}
	r.log.Info(fmt.Sprintf("🏰 setting active realms to %s", strings.Join(updated, ", ")))
	if err := r.m.SetActiveRealms(ctx, updated); err != nil {
		r.failed(err, "cannot set active realms")
	}
}

// user creates the specified user if it doesn't exist yet, otherwise patches
// the existing user.
func (r *run) user(ctx context.Context, user config.User) {
	existing, err := r.m.User(ctx, user.Username)
	if err != nil {
		r.failed(err, "cannot look up user %s", user.Username)
		return
	}
	roles := make([]nexus.RoleID, 0, len(user.Roles))
	for _, role := range user.Roles {
		roles = append(roles, nexus.RoleID{Source: role.Source, Role: role.Role})
	}

	if existing == nil {
		r.log.Info(fmt.Sprintf("👤 creating user %s", user.Username))
		status := nexus.UserActive
		if !config.BoolOr(user.Active, true) {
			status = nexus.UserDisabled
		}
		err := r.m.CreateUser(ctx, nexus.User{
			ID:        user.Username,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
			Source:    nexus.DefaultUserSource,
			Status:    status,
			Roles:     roles,
		}, user.Password)
		if err != nil {
			r.failed(err, "cannot create user %s", user.Username)
		}
		return
	}

	r.log.Info(fmt.Sprintf("👤 patching existing user %s", user.Username))
	patched := *existing
	patched.FirstName = user.FirstName
	patched.LastName = user.LastName
	patched.Email = user.Email
	if user.Active != nil {
		switch {
		case *user.Active && patched.Status == nexus.UserDisabled:
			r.log.Info(fmt.Sprintf("reactivating user %s", user.Username))
			patched.Status = nexus.UserActive
		case *user.Active && patched.Status != nexus.UserActive:
			r.invalid("cannot activate user %s (%s) with status %s",
				user.Username, patched.Source, patched.Status)
		case !*user.Active && patched.Status != nexus.UserDisabled:
			r.log.Info(fmt.Sprintf("disabling user %s (%s) with status %s",
				user.Username, patched.Source, patched.Status))
			patched.Status = nexus.UserDisabled
		}
	}
	if config.True(user.UpdateExistingPassword) {
		if user.Password == "" {
			r.log.Warn(fmt.Sprintf("user %s without password, not updating password", user.Username))
		} else if err := r.m.ChangePassword(ctx, user.Username, user.Password); err != nil {
			r.failed(err, "cannot update password of user %s", user.Username)
		}
	}
	patched.Roles = roles
	if err := r.m.UpdateUser(ctx, patched); err != nil {
		r.failed(err, "cannot update user %s", user.Username)
	}
}

// pruneUsers deletes all users not in the specified list of users.
func (r *run) pruneUsers(ctx context.Context, keep []config.User) {
	users, err := r.m.Users(ctx)
	if err != nil {
		r.failed(err, "cannot list users for pruning")
		return
	}
	for _, user := range users {
		if slices.ContainsFunc(keep, func(u config.User) bool { return u.Username == user.ID }) {
			continue
		}
		r.log.Info(fmt.Sprintf("🗑  pruning user %s (%s)", user.ID, user.Source))
		if err := r.m.DeleteUser(ctx, user.ID, user.Source); err != nil {
			r.failed(err, "cannot prune user %s (%s)", user.ID, user.Source)
		}
	}
}

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
	"net/http"
	"net/url"
	"strings"
)

// DefaultUserSource is the source of users managed by Nexus itself.
const DefaultUserSource = "default"

type anonymousSettings struct {
	Enabled   bool   `json:"enabled"`
	UserID    string `json:"userId"`
	RealmName string `json:"realmName"`
}

type user struct {
	UserID       string   `json:"userId"`
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	EmailAddress string   `json:"emailAddress"`
	Password     string   `json:"password,omitempty"`
	Source       string   `json:"source,omitempty"`
	Status       string   `json:"status"`
	ReadOnly     bool     `json:"readOnly"`
	Roles        []string `json:"roles"`
}

// SetAnonymousAccess enables or disables anonymous access, keeping the
// anonymous user and realm as they are.
func (c *Client) SetAnonymousAccess(ctx context.Context, enabled bool) error {
	var settings anonymousSettings
	if err := c.doJSON(ctx, http.MethodGet, "/security/anonymous", nil, &settings); err != nil {
		return fmt.Errorf("cannot get anonymous access settings, reason: %w", err)
	}
	settings.Enabled = enabled
	if err := c.doJSON(ctx, http.MethodPut, "/security/anonymous", settings, nil); err != nil {
		return fmt.Errorf("cannot set anonymous access, reason: %w", err)
	}
	return nil
}

// ActiveRealms returns the IDs of the active realms, in order.
func (c *Client) ActiveRealms(ctx context.Context) ([]string, error) {
	var realms []string
	if err := c.doJSON(ctx, http.MethodGet, "/security/realms/active", nil, &realms); err != nil {
		return nil, fmt.Errorf("cannot get active realms, reason: %w", err)
	}
	return realms, nil
}

// SetActiveRealms sets the active realms, in order.
func (c *Client) SetActiveRealms(ctx context.Context, realms []string) error {
	if realms == nil {
		realms = []string{}
	}
	if err := c.doJSON(ctx, http.MethodPut, "/security/realms/active", realms, nil); err != nil {
		return fmt.Errorf("cannot set active realms, reason: %w", err)
	}
	return nil
}

// Users returns all users of all sources.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	return c.users(ctx, "")
}

// User returns the user with the specified ID, or nil if there is none.
func (c *Client) User(ctx context.Context, id string) (*User, error) {
	users, err := c.users(ctx, id)
	if err != nil {
		return nil, err
	}
	// the REST API searches for user IDs starting with the specified ID, so
	// we need to pick the exact match.
	for idx := range users {
		if users[idx].ID == id {
			return &users[idx], nil
		}
	}
	return nil, nil
}

func (c *Client) users(ctx context.Context, id string) ([]User, error) {
	path := "/security/users"
	if id != "" {
		path += "?userId=" + url.QueryEscape(id)
	}
	var rusers []user
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &rusers); err != nil {
		return nil, fmt.Errorf("cannot list users, reason: %w", err)
	}
	users := make([]User, 0, len(rusers))
	for _, ruser := range rusers {
		users = append(users, ruser.user())
	}
	return users, nil
}

// CreateUser creates a new user in the default source.
func (c *Client) CreateUser(ctx context.Context, u User, password string) error {
	ruser := toUser(u)
	ruser.Source = ""
	ruser.Password = password
	if err := c.doJSON(ctx, http.MethodPost, "/security/users", ruser, nil); err != nil {
		return fmt.Errorf("cannot create user %q, reason: %w", u.ID, err)
	}
	return nil
}

// UpdateUser updates an existing user.
func (c *Client) UpdateUser(ctx context.Context, u User) error {
	err := c.doJSON(ctx, http.MethodPut, "/security/users/"+url.PathEscape(u.ID), toUser(u), nil)
	if err != nil {
		return fmt.Errorf("cannot update user %q, reason: %w", u.ID, err)
	}
	return nil
}

// ChangePassword changes the password of the user with the specified ID.
func (c *Client) ChangePassword(ctx context.Context, id string, password string) error {
	resp, err := c.request(ctx, http.MethodPut,
		"/security/users/"+url.PathEscape(id)+"/change-password",
		"text/plain", strings.NewReader(password))
	if err != nil {
		return fmt.Errorf("cannot change password of user %q, reason: %w", id, err)
	}
	resp.Body.Close()
	return nil
}

// DeleteUser deletes the user with the specified ID. The source is passed on
// as the realm to delete the user from, unless it is the default source.
func (c *Client) DeleteUser(ctx context.Context, id string, source string) error {
	path := "/security/users/" + url.PathEscape(id)
	if source != "" && source != DefaultUserSource {
		path += "?realm=" + url.QueryEscape(source)
	}
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("cannot delete user %q, reason: %w", id, err)
	}
	return nil
}

func (ruser user) user() User {
	u := User{
		ID:        ruser.UserID,
		FirstName: ruser.FirstName,
		LastName:  ruser.LastName,
		Email:     ruser.EmailAddress,
		Source:    ruser.Source,
		Status:    UserStatus(ruser.Status),
	}
	for _, role := range ruser.Roles {
		u.Roles = append(u.Roles, RoleID{Source: ruser.Source, Role: role})
	}
	return u
}

// toUser returns the REST representation of a user; the REST API only knows
// about role IDs.
func toUser(u User) user {
	ruser := user{
		UserID:       u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		EmailAddress: u.Email,
		Source:       u.Source,
		Status:       string(u.Status),
		Roles:        []string{},
	}
	if ruser.Status == "" {
		ruser.Status = string(UserActive)
	}
	for _, role := range u.Roles {
		ruser.Roles = append(ruser.Roles, role.Role)
	}
	return ruser
}

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

// restFormats maps repository formats to their REST API path segments, where
// they differ.
var restFormats = map[string]string{
	"maven2": "maven",
}

// SplitRecipe splits a recipe name, such as “maven2-hosted”, into its format
// and type.
func SplitRecipe(recipe string) (format string, typ string, err error) {
	idx := strings.LastIndex(recipe, "-")
	if idx <= 0 || idx == len(recipe)-1 {
		return "", "", fmt.Errorf("invalid recipe %q", recipe)
	}
	return recipe[:idx], recipe[idx+1:], nil
}

// Repositories returns all repositories with their settings.
func (c *Client) Repositories(ctx context.Context) ([]Repository, error) {
	var settings []map[string]any
	if err := c.doJSON(ctx, http.MethodGet, "/repositorySettings", nil, &settings); err != nil {
		return nil, fmt.Errorf("cannot list repositories, reason: %w", err)
	}
	repos := make([]Repository, 0, len(settings))
	for _, s := range settings {
		repos = append(repos, repositoryFromSettings(s))
	}
	return repos, nil
}

// Repository returns the named repository, or nil if there is none.
func (c *Client) Repository(ctx context.Context, name string) (*Repository, error) {
	repos, err := c.Repositories(ctx)
	if err != nil {
		return nil, err
	}
	for idx := range repos {
		if repos[idx].Name == name {
			return &repos[idx], nil
		}
	}
	return nil, nil
}

// CreateRepository creates a new repository.
func (c *Client) CreateRepository(ctx context.Context, repo Repository) error {
	path, err := repositoryPath(repo.Recipe)
	if err != nil {
		return err
	}
	if err := c.doJSON(ctx, http.MethodPost, path, repositorySettings(repo), nil); err != nil {
		return fmt.Errorf("cannot create repository %q, reason: %w", repo.Name, err)
	}
	return nil
}

// UpdateRepository updates an existing repository.
func (c *Client) UpdateRepository(ctx context.Context, repo Repository) error {
	path, err := repositoryPath(repo.Recipe)
	if err != nil {
		return err
	}
	err = c.doJSON(ctx, http.MethodPut, path+"/"+url.PathEscape(repo.Name), repositorySettings(repo), nil)
	if err != nil {
		return fmt.Errorf("cannot update repository %q, reason: %w", repo.Name, err)
	}
	return nil
}

// DeleteRepository deletes the named repository.
func (c *Client) DeleteRepository(ctx context.Context, name string) error {
	err := c.doJSON(ctx, http.MethodDelete, "/repositories/"+url.PathEscape(name), nil, nil)
	if err != nil {
		return fmt.Errorf("cannot delete repository %q, reason: %w", name, err)
	}
	return nil
}

// repositoryPath returns the REST API path for creating repositories of the
// specified recipe.
func repositoryPath(recipe string) (string, error) {
	format, typ, err := SplitRecipe(recipe)
	if err != nil {
		return "", err
	}
	if f, ok := restFormats[format]; ok {
		format = f
	}
	return "/repositories/" + format + "/" + typ, nil
}

// repositorySettings returns the REST representation of a repository, where
// the attribute sections become top-level fields.
func repositorySettings(repo Repository) map[string]any {
	settings := make(map[string]any, len(repo.Attributes)+2)
	for section, attrs := range repo.Attributes {
		settings[section] = attrs
	}
	settings["name"] = repo.Name
	settings["online"] = repo.Online
	return settings
}

// repositoryFromSettings returns the repository for its REST representation,
// picking up all object-valued fields as attribute sections.
func repositoryFromSettings(settings map[string]any) Repository {
	repo := Repository{Attributes: map[string]map[string]any{}}
	repo.Name, _ = settings["name"].(string)
	repo.Online, _ = settings["online"].(bool)
	format, _ := settings["format"].(string)
	typ, _ := settings["type"].(string)
	repo.Recipe = format + "-" + typ
	for key, value := range settings {
		if section, ok := value.(map[string]any); ok {
			repo.Attributes[key] = section
		}
	}
	return repo
}

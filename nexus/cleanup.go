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
	"strconv"

	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Cleanup policy criteria names.
const (
	CriterionLastBlobUpdated = "lastBlobUpdated" // days
	CriterionLastDownloaded  = "lastDownloaded"  // days
	CriterionReleaseType     = "releaseType"
	CriterionRegex           = "regex"
)

// CleanupModeDelete is the only cleanup mode the REST API supports.
const CleanupModeDelete = "delete"

const cleanupRESTAPI = "/cleanup-policies"

type cleanupPolicy struct {
	Name                    string `json:"name"`
	Notes                   string `json:"notes"`
	Format                  string `json:"format"`
	CriteriaLastBlobUpdated *int   `json:"criteriaLastBlobUpdated,omitempty"`
	CriteriaLastDownloaded  *int   `json:"criteriaLastDownloaded,omitempty"`
	CriteriaReleaseType     string `json:"criteriaReleaseType,omitempty"`
	CriteriaAssetRegex      string `json:"criteriaAssetRegex,omitempty"`
}

// CleanupPolicies returns all cleanup policies.
func (c *Client) CleanupPolicies(ctx context.Context) ([]CleanupPolicy, error) {
	var rcps []cleanupPolicy
	if err := c.doJSON(ctx, http.MethodGet, cleanupRESTAPI, nil, &rcps); err != nil {
		return nil, fmt.Errorf("cannot list cleanup policies, reason: %w", err)
	}
	cps := make([]CleanupPolicy, 0, len(rcps))
	for _, rcp := range rcps {
		cps = append(cps, rcp.policy())
	}
	return cps, nil
}

// CleanupPolicy returns the named cleanup policy, or nil if there is none.
func (c *Client) CleanupPolicy(ctx context.Context, name string) (*CleanupPolicy, error) {
	var rcp cleanupPolicy
	err := c.doJSON(ctx, http.MethodGet, cleanupRESTAPI+"/"+url.PathEscape(name), nil, &rcp)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get cleanup policy %q, reason: %w", name, err)
	}
	cp := rcp.policy()
	return &cp, nil
}

// CreateCleanupPolicy creates a new cleanup policy.
func (c *Client) CreateCleanupPolicy(ctx context.Context, cp CleanupPolicy) error {
	rcp, err := toCleanupPolicy(cp)
	if err != nil {
		return err
	}
	if err := c.doJSON(ctx, http.MethodPost, cleanupRESTAPI, rcp, nil); err != nil {
		return fmt.Errorf("cannot create cleanup policy %q, reason: %w", cp.Name, err)
	}
	return nil
}

// UpdateCleanupPolicy updates an existing cleanup policy.
func (c *Client) UpdateCleanupPolicy(ctx context.Context, cp CleanupPolicy) error {
	rcp, err := toCleanupPolicy(cp)
	if err != nil {
		return err
	}
	err = c.doJSON(ctx, http.MethodPut, cleanupRESTAPI+"/"+url.PathEscape(cp.Name), rcp, nil)
	if err != nil {
		return fmt.Errorf("cannot update cleanup policy %q, reason: %w", cp.Name, err)
	}
	return nil
}

// DeleteCleanupPolicy deletes the named cleanup policy.
func (c *Client) DeleteCleanupPolicy(ctx context.Context, name string) error {
	err := c.doJSON(ctx, http.MethodDelete, cleanupRESTAPI+"/"+url.PathEscape(name), nil, nil)
	if err != nil {
		return fmt.Errorf("cannot delete cleanup policy %q, reason: %w", name, err)
	}
	return nil
}

// policy returns the cleanup policy for its REST representation. The REST
// API doesn't know about modes.
func (rcp cleanupPolicy) policy() CleanupPolicy {
	cp := CleanupPolicy{
		Name:     rcp.Name,
		Format:   rcp.Format,
		Notes:    rcp.Notes,
		Criteria: map[string]string{},
	}
	if rcp.CriteriaLastBlobUpdated != nil {
		cp.Criteria[CriterionLastBlobUpdated] = strconv.Itoa(*rcp.CriteriaLastBlobUpdated)
	}
	if rcp.CriteriaLastDownloaded != nil {
		cp.Criteria[CriterionLastDownloaded] = strconv.Itoa(*rcp.CriteriaLastDownloaded)
	}
	if rcp.CriteriaReleaseType != "" {
		cp.Criteria[CriterionReleaseType] = rcp.CriteriaReleaseType
	}
	if rcp.CriteriaAssetRegex != "" {
		cp.Criteria[CriterionRegex] = rcp.CriteriaAssetRegex
	}
	return cp
}

// toCleanupPolicy returns the REST representation of a cleanup policy. Modes
// other than “delete” and unknown criteria get logged and are then ignored.
func toCleanupPolicy(cp CleanupPolicy) (*cleanupPolicy, error) {
	if cp.Mode != "" && cp.Mode != CleanupModeDelete {
		log.Warnf("cleanup policy %q: ignoring unsupported mode %q", cp.Name, cp.Mode)
	}
	criteria := maps.Keys(cp.Criteria)
	slices.Sort(criteria)
	for _, criterion := range criteria {
		switch criterion {
		case CriterionLastBlobUpdated, CriterionLastDownloaded, CriterionReleaseType, CriterionRegex:
		default:
			log.Warnf("cleanup policy %q: ignoring unknown criterion %q", cp.Name, criterion)
		}
	}
	rcp := &cleanupPolicy{
		Name:                cp.Name,
		Notes:               cp.Notes,
		Format:              cp.Format,
		CriteriaReleaseType: cp.Criteria[CriterionReleaseType],
		CriteriaAssetRegex:  cp.Criteria[CriterionRegex],
	}
	for criterion, days := range map[string]**int{
		CriterionLastBlobUpdated: &rcp.CriteriaLastBlobUpdated,
		CriterionLastDownloaded:  &rcp.CriteriaLastDownloaded,
	} {
		value, ok := cp.Criteria[criterion]
		if !ok {
			continue
		}
		d, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("cleanup policy %q with invalid %s criterion %q",
				cp.Name, criterion, value)
		}
		*days = &d
	}
	return rcp, nil
}

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

// capabilities creates or updates capabilities, matching them by type with
// the first existing capability of the same type.
func (r *run) capabilities(ctx context.Context, capabilities []config.Capability) {
	existing, err := r.m.Capabilities(ctx)
	if err != nil {
		r.failed(err, "cannot list capabilities")
		return
	}
	for _, capability := range capabilities {
		idx := slices.IndexFunc(existing, func(c nexus.Capability) bool {
			return c.Type == capability.Type
		})
		if idx < 0 {
			r.log.Info(fmt.Sprintf("🔌 creating capability of type %s", capability.Type))
			err := r.m.CreateCapability(ctx, nexus.Capability{
				Type:       capability.Type,
				Enabled:    config.BoolOr(capability.Enabled, true),
				Notes:      capability.Notes,
				Properties: capability.Attributes,
			})
			if err != nil {
				r.failed(err, "cannot create capability of type %s", capability.Type)
			}
			continue
		}
		updated := existing[idx]
		r.log.Info(fmt.Sprintf("🔌 updating capability of type %s with ID %s", updated.Type, updated.ID))
		updated.Enabled = config.BoolOr(capability.Enabled, updated.Enabled)
		updated.Notes = capability.Notes
		updated.Properties = capability.Attributes
		if err := r.m.UpdateCapability(ctx, updated); err != nil {
			r.failed(err, "cannot update capability of type %s", capability.Type)
		}
	}
}

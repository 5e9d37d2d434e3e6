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
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/thediveo/nexcas/config"
	"github.com/thediveo/nexcas/nexus"

	log "github.com/sirupsen/logrus"
)

// Reconciler applies configurations to a Nexus instance.
type Reconciler struct {
	m nexus.Manager
}

// NewReconciler returns a Reconciler for the Nexus instance managed by the
// specified Manager.
func NewReconciler(m nexus.Manager) *Reconciler {
	return &Reconciler{m: m}
}

// run keeps track of a single application of a configuration.
type run struct {
	m        nexus.Manager
	log      *log.Entry
	failures int
}

// Apply applies the specified configuration, section by section in the order
// of core, security, repository, and capabilities. Failing steps are logged
// and don't stop the remaining steps; Apply then returns an error telling
// the number of failed steps. Operations the Nexus instance doesn't support
// are logged as warnings only. A nil configuration is an error.
func (r *Reconciler) Apply(ctx context.Context, c *config.Config) error {
	if c == nil {
		return errors.New("no configuration to apply")
	}
	rn := &run{
		m:   r.m,
		log: log.WithField("run", uuid.NewString()),
	}
	rn.log.Info("🚀 applying configuration")
	if c.Core != nil {
		rn.core(ctx, c.Core)
	}
	if c.Security != nil {
		rn.security(ctx, c.Security)
	}
	if c.Repository != nil {
		rn.repository(ctx, c.Repository)
	}
	if c.Capabilities != nil {
		rn.capabilities(ctx, c.Capabilities)
	}
	if rn.failures > 0 {
		rn.log.Error(fmt.Sprintf("💥 %d configuration step(s) failed", rn.failures))
		return fmt.Errorf("%d configuration step(s) failed", rn.failures)
	}
	rn.log.Info("✅ configuration applied")
	return nil
}

// failed logs a failed operation and counts it, unless the operation isn't
// supported.
func (r *run) failed(err error, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if errors.Is(err, nexus.ErrUnsupported) {
		r.log.Warn(fmt.Sprintf("🤷 %s, reason: %s", msg, err.Error()))
		return
	}
	r.failures++
	r.log.WithError(err).Error("💥 " + msg)
}

// invalid logs and counts a configuration that cannot be applied.
func (r *run) invalid(format string, args ...any) {
	r.failures++
	r.log.Error("💥 " + fmt.Sprintf(format, args...))
}

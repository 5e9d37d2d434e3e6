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

	"github.com/sirupsen/logrus"
	"github.com/thediveo/nexcas/config"
	"github.com/thediveo/nexcas/nexus"
	"github.com/thediveo/nexcas/test/fakenexus"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

const completeConfig = `
core:
  baseUrl: "  https://nexus.example.org  "
  httpProxy: http://proxy.example.org:3128
  httpsProxy: https://secure-proxy.example.org
  nonProxyHosts: " localhost, ,.example.org"
security:
  anonymousAccess: true
  pruneUsers: true
  realms:
    - name: DockerToken
      enabled: false
    - name: NpmToken
      enabled: true
    - name: LdapRealm
  users:
    - username: admin
      firstName: Ad
      lastName: Min
      email: admin@example.org
      password: sesame
      updateExistingPassword: true
      roles:
        - {source: default, role: nx-admin}
    - username: jdoe
      password: secret
      active: false
      roles:
        - {source: default, role: nx-anonymous}
repository:
  pruneBlobStores: true
  blobStores:
    - name: default
      attributes:
        file: {path: default}
  pruneCleanupPolicies: true
  cleanupPolicies:
    - name: stale
      format: maven2
      criteria: {lastDownloaded: "30"}
  pruneRepositories: true
  repositories:
    - name: releases
      recipeName: maven2-hosted
      attributes:
        storage: {blobStoreName: default}
    - name: offline
      recipeName: raw-hosted
      online: false
capabilities:
  - type: rapture.settings
    notes: UI settings
    attributes: {title: Hellorld}
`

var _ = Describe("reconciling", func() {

	var fake *fakenexus.Nexus

	BeforeEach(func(ctx context.Context) {
		fake = fakenexus.New()
		Expect(fake.SetActiveRealms(ctx, []string{"NexusAuthenticatingRealm", "DockerToken"})).To(Succeed())
		Expect(fake.CreateUser(ctx, nexus.User{ID: "admin", Roles: []nexus.RoleID{}}, "admin123")).To(Succeed())
		Expect(fake.CreateUser(ctx, nexus.User{ID: "obsolete"}, "foobar")).To(Succeed())
		Expect(fake.CreateBlobStore(ctx, nexus.BlobStore{
			Name:       "old",
			Type:       nexus.FileBlobStoreType,
			Attributes: map[string]map[string]any{"file": {"path": "old"}},
		})).To(Succeed())
		Expect(fake.CreateCleanupPolicy(ctx, nexus.CleanupPolicy{Name: "gone"})).To(Succeed())
		Expect(fake.CreateRepository(ctx, nexus.Repository{Name: "legacy", Recipe: "npm-proxy"})).To(Succeed())
		fake.ResetChanges()
	})

	parse := func(yamltext string) *config.Config {
		GinkgoHelper()
		return Successful(config.Parse([]byte(yamltext)))
	}

	It("applies a complete configuration idempotently", func(ctx context.Context) {
		logs := GrabLog(logrus.InfoLevel)
		c := parse(completeConfig)
		r := NewReconciler(fake)

		By("applying the configuration for the first time")
		Expect(r.Apply(ctx, c)).To(Succeed())
		Expect(fake.Changes()).NotTo(BeZero())
		Expect(logs.String()).To(And(
			MatchRegexp(`"run":"[0-9a-f-]{36}"`),
			ContainSubstring("configuration applied"),
			ContainSubstring("realm LdapRealm without enabled setting"),
		))

		Expect(fake.BaseURL()).To(Equal("https://nexus.example.org"))
		Expect(fake.HTTPProxy()).To(Equal(fakenexus.Proxy{Host: "proxy.example.org", Port: 3128}))
		Expect(fake.HTTPSProxy()).To(Equal(fakenexus.Proxy{Host: "secure-proxy.example.org", Port: 443}))
		Expect(fake.NonProxyHosts()).To(HaveExactElements("localhost", ".example.org"))

		Expect(fake.AnonymousAccess()).To(BeTrue())
		Expect(fake.ActiveRealms(ctx)).To(HaveExactElements("NexusAuthenticatingRealm", "NpmToken"))
		Expect(fake.Users(ctx)).To(HaveExactElements(
			And(HaveField("ID", "admin"),
				HaveField("FirstName", "Ad"),
				HaveField("Status", nexus.UserActive),
				HaveField("Roles", ConsistOf(nexus.RoleID{Source: "default", Role: "nx-admin"}))),
			And(HaveField("ID", "jdoe"),
				HaveField("Source", nexus.DefaultUserSource),
				HaveField("Status", nexus.UserDisabled)),
		))
		Expect(fake.Password("admin")).To(Equal("sesame"))
		Expect(fake.Password("jdoe")).To(Equal("secret"))

		Expect(fake.BlobStores(ctx)).To(HaveExactElements(HaveField("Name", "default")))
		Expect(fake.CleanupPolicies(ctx)).To(HaveExactElements(nexus.CleanupPolicy{
			Name:     "stale",
			Format:   "maven2",
			Mode:     config.DefaultCleanupPolicyMode,
			Criteria: map[string]string{nexus.CriterionLastDownloaded: "30"},
		}))
		Expect(fake.Repositories(ctx)).To(HaveExactElements(
			And(HaveField("Name", "offline"), HaveField("Online", BeFalse())),
			And(HaveField("Name", "releases"), HaveField("Online", BeTrue())),
		))
		Expect(fake.Capabilities(ctx)).To(HaveExactElements(nexus.Capability{
			ID:         "1",
			Type:       "rapture.settings",
			Enabled:    true,
			Notes:      "UI settings",
			Properties: map[string]string{"title": "Hellorld"},
		}))

		By("applying the same configuration again")
		fake.ResetChanges()
		Expect(r.Apply(ctx, c)).To(Succeed())
		Expect(fake.Changes()).To(BeZero())
	})

	It("applies nothing for an empty configuration", func(ctx context.Context) {
		_ = GrabLog(logrus.InfoLevel)
		Expect(NewReconciler(fake).Apply(ctx, &config.Config{})).To(Succeed())
		Expect(fake.Changes()).To(BeZero())
	})

	It("rejects a missing configuration", func(ctx context.Context) {
		Expect(NewReconciler(fake).Apply(ctx, nil)).To(MatchError("no configuration to apply"))
		Expect(fake.Changes()).To(BeZero())
	})

	It("carries on after failures and reports them", func(ctx context.Context) {
		logs := GrabLog(logrus.InfoLevel)
		fake.FailOn("CreateBlobStore", errors.New("disk full")).
			FailOn("SetAnonymousAccess", errors.New("D'OH!"))
		Expect(NewReconciler(fake).Apply(ctx, parse(completeConfig))).To(
			MatchError("2 configuration step(s) failed"))
		Expect(logs.String()).To(And(
			ContainSubstring("cannot create blob store default"),
			ContainSubstring("disk full"),
			ContainSubstring("cannot set anonymous access"),
		))
		Expect(fake.Repository(ctx, "releases")).NotTo(BeNil())
		Expect(fake.AnonymousAccess()).To(BeFalse())
	})

	It("only warns about unsupported operations", func(ctx context.Context) {
		logs := GrabLog(logrus.InfoLevel)
		fake.FailOn("SetBaseURL", nexus.ErrUnsupported).
			FailOn("SetHTTPProxy", nexus.ErrUnsupported).
			FailOn("SetHTTPSProxy", nexus.ErrUnsupported).
			FailOn("SetNonProxyHosts", nexus.ErrUnsupported).
			FailOn("Capabilities", nexus.ErrUnsupported)
		Expect(NewReconciler(fake).Apply(ctx, parse(completeConfig))).To(Succeed())
		Expect(logs.String()).To(And(
			ContainSubstring(`"level":"warning"`),
			ContainSubstring("cannot set base URL"),
			ContainSubstring("cannot list capabilities"),
		))
		Expect(fake.BaseURL()).To(BeEmpty())
	})

	It("warns about prune flags without anything configured", func(ctx context.Context) {
		logs := GrabLog(logrus.InfoLevel)
		Expect(NewReconciler(fake).Apply(ctx, parse(`
security:
  pruneUsers: true
repository:
  pruneBlobStores: true
  pruneCleanupPolicies: true
  pruneRepositories: true
`))).To(Succeed())
		Expect(fake.Changes()).To(BeZero())
		for _, flag := range []string{
			"security.pruneUsers",
			"repository.pruneBlobStores",
			"repository.pruneCleanupPolicies",
			"repository.pruneRepositories",
		} {
			Expect(logs.String()).To(ContainSubstring(flag + " has no effect"))
		}
	})

	It("doesn't prune without being told so", func(ctx context.Context) {
		_ = GrabLog(logrus.InfoLevel)
		Expect(NewReconciler(fake).Apply(ctx, parse(`
security:
  users: [{username: admin}]
repository:
  blobStores:
    - name: default
      attributes: {file: {path: default}}
  cleanupPolicies: [{name: stale}]
  repositories: [{name: releases, recipeName: raw-hosted}]
`))).To(Succeed())
		Expect(fake.User(ctx, "obsolete")).NotTo(BeNil())
		Expect(fake.BlobStore(ctx, "old")).NotTo(BeNil())
		Expect(fake.CleanupPolicy(ctx, "gone")).NotTo(BeNil())
		Expect(fake.Repository(ctx, "legacy")).NotTo(BeNil())
	})

	Context("blob stores", func() {

		It("refuses to change path and type", func(ctx context.Context) {
			logs := GrabLog(logrus.InfoLevel)
			err := NewReconciler(fake).Apply(ctx, parse(`
repository:
  blobStores:
    - name: old
      attributes: {file: {path: new}}
    - name: old
      type: S3
      attributes: {s3: {bucket: old}}
`))
			Expect(err).To(MatchError("2 configuration step(s) failed"))
			Expect(logs.String()).To(And(
				ContainSubstring("cannot change .attributes.file.path of blob store old"),
				ContainSubstring("cannot change type of blob store old from File to S3"),
			))
			Expect(fake.Changes()).To(BeZero())
		})

		It("requires file blob stores to have a path", func(ctx context.Context) {
			logs := GrabLog(logrus.InfoLevel)
			Expect(NewReconciler(fake).Apply(ctx, parse(`
repository:
  blobStores:
    - name: nopath
    - name: badpath
      attributes: {file: {path: 42}}
    - name: cloudy
      type: S3
      attributes: {s3: {bucket: cloudy}}
`))).To(MatchError("2 configuration step(s) failed"))
			Expect(logs.String()).To(ContainSubstring(".attributes.file.path of blob store nopath must be a string"))
			Expect(fake.BlobStore(ctx, "cloudy")).To(HaveField("Type", "S3"))
		})

		It("updates attributes", func(ctx context.Context) {
			_ = GrabLog(logrus.InfoLevel)
			Expect(NewReconciler(fake).Apply(ctx, parse(`
repository:
  blobStores:
    - name: old
      attributes:
        file: {path: old}
        blobStoreQuotaConfig: {quotaType: spaceUsedQuota, quotaLimitBytes: 1GiB}
`))).To(Succeed())
			Expect(Successful(fake.BlobStore(ctx, "old")).Attributes).To(
				HaveKeyWithValue("blobStoreQuotaConfig", HaveKeyWithValue("quotaLimitBytes", "1GiB")))
		})

	})

	Context("repositories", func() {

		It("refuses to change recipes", func(ctx context.Context) {
			logs := GrabLog(logrus.InfoLevel)
			Expect(NewReconciler(fake).Apply(ctx, parse(`
repository:
  repositories: [{name: legacy, recipeName: npm-hosted}]
`))).NotTo(Succeed())
			Expect(logs.String()).To(ContainSubstring("cannot change recipe of repository legacy from npm-proxy to npm-hosted"))
		})

		It("keeps the online state unless configured", func(ctx context.Context) {
			_ = GrabLog(logrus.InfoLevel)
			r := NewReconciler(fake)
			Expect(r.Apply(ctx, parse(`
repository:
  repositories: [{name: legacy, recipeName: npm-proxy}]
`))).To(Succeed())
			Expect(fake.Repository(ctx, "legacy")).To(HaveField("Online", BeFalse()))
			Expect(r.Apply(ctx, parse(`
repository:
  repositories: [{name: legacy, recipeName: npm-proxy, online: true}]
`))).To(Succeed())
			Expect(fake.Repository(ctx, "legacy")).To(HaveField("Online", BeTrue()))
		})

	})

	Context("users", func() {

		BeforeEach(func(ctx context.Context) {
			Expect(fake.CreateUser(ctx, nexus.User{ID: "sleepy", Status: nexus.UserDisabled}, "zzz")).To(Succeed())
			Expect(fake.CreateUser(ctx, nexus.User{ID: "locked", Status: nexus.UserLocked}, "123")).To(Succeed())
			fake.ResetChanges()
		})

		It("reactivates disabled users", func(ctx context.Context) {
			_ = GrabLog(logrus.InfoLevel)
			Expect(NewReconciler(fake).Apply(ctx, parse(`
security:
  users: [{username: sleepy, active: true, password: new}]
`))).To(Succeed())
			Expect(fake.User(ctx, "sleepy")).To(HaveField("Status", nexus.UserActive))
			Expect(fake.Password("sleepy")).To(Equal("zzz"))
		})

		It("doesn't update passwords without a password", func(ctx context.Context) {
			logs := GrabLog(logrus.InfoLevel)
			fake.FailOn("ChangePassword", errors.New("empty password"))
			Expect(NewReconciler(fake).Apply(ctx, parse(`
security:
  users: [{username: sleepy, updateExistingPassword: true}]
`))).To(Succeed())
			Expect(fake.Password("sleepy")).To(Equal("zzz"))
			Expect(logs.String()).To(ContainSubstring("user sleepy without password, not updating password"))
		})

		It("disables users", func(ctx context.Context) {
			_ = GrabLog(logrus.InfoLevel)
			Expect(NewReconciler(fake).Apply(ctx, parse(`
security:
  users: [{username: locked, active: false}]
`))).To(Succeed())
			Expect(fake.User(ctx, "locked")).To(HaveField("Status", nexus.UserDisabled))
		})

		It("cannot activate locked users", func(ctx context.Context) {
			logs := GrabLog(logrus.InfoLevel)
			Expect(NewReconciler(fake).Apply(ctx, parse(`
security:
  users: [{username: locked, active: true, firstName: Lock}]
`))).To(MatchError("1 configuration step(s) failed"))
			Expect(logs.String()).To(ContainSubstring("cannot activate user locked"))
			Expect(fake.User(ctx, "locked")).To(And(
				HaveField("Status", nexus.UserLocked),
				HaveField("FirstName", "Lock")))
		})

		It("prunes users from their sources", func(ctx context.Context) {
			_ = GrabLog(logrus.InfoLevel)
			Expect(NewReconciler(fake).Apply(ctx, parse(`
security:
  pruneUsers: true
  users: [{username: admin}]
`))).To(Succeed())
			Expect(fake.Users(ctx)).To(HaveExactElements(HaveField("ID", "admin")))
		})

	})

	Context("capabilities", func() {

		It("keeps the enabled state of existing capabilities unless configured", func(ctx context.Context) {
			_ = GrabLog(logrus.InfoLevel)
			Expect(fake.CreateCapability(ctx, nexus.Capability{Type: "healthcheck", Enabled: false})).To(Succeed())
			Expect(NewReconciler(fake).Apply(ctx, parse(`
capabilities:
  - type: healthcheck
    notes: checked
  - type: webhook.global
    enabled: false
`))).To(Succeed())
			Expect(fake.Capabilities(ctx)).To(HaveExactElements(
				And(HaveField("Type", "healthcheck"), HaveField("Enabled", BeFalse()), HaveField("Notes", "checked")),
				And(HaveField("Type", "webhook.global"), HaveField("Enabled", BeFalse())),
			))
		})

	})

	Context("core", func() {

		DescribeTable("proxy URLs",
			func(proxyURL string, host string, port int) {
				h, p, err := proxyHostPort(proxyURL)
				Expect(err).NotTo(HaveOccurred())
				Expect(h).To(Equal(host))
				Expect(p).To(Equal(port))
			},
			Entry(nil, "http://proxy:3128", "proxy", 3128),
			Entry(nil, "http://proxy", "proxy", 80),
			Entry(nil, "https://proxy", "proxy", 443),
			Entry(nil, "socks5://user:pw@[::1]:1080", "::1", 1080),
		)

		It("rejects invalid proxy URLs", func() {
			for _, proxyURL := range []string{"proxy:3128", "socks5://proxy", "http://:8080", "http://proxy:port", "%%"} {
				_, _, err := proxyHostPort(proxyURL)
				Expect(err).To(HaveOccurred(), "proxy URL %q", proxyURL)
			}
		})

		It("splits non-proxy hosts", func() {
			Expect(nonProxyHosts("")).To(BeEmpty())
			Expect(nonProxyHosts(" , ")).To(BeEmpty())
			Expect(nonProxyHosts("a, b ,,c")).To(HaveExactElements("a", "b", "c"))
		})

		It("counts invalid proxy URLs as failures", func(ctx context.Context) {
			_ = GrabLog(logrus.InfoLevel)
			Expect(NewReconciler(fake).Apply(ctx, parse(`
core:
  httpProxy: "proxy:3128"
`))).To(MatchError("1 configuration step(s) failed"))
			Expect(fake.HTTPProxy()).To(BeZero())
		})

	})

})

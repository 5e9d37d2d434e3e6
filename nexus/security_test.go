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
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("security", func() {

	var srv *restServer
	var c *Client

	BeforeEach(func() {
		srv = newRESTServer(map[string]reply{
			"GET /security/anonymous":     {Body: `{"enabled":false,"userId":"anonymous","realmName":"NexusAuthorizingRealm"}`},
			"PUT /security/anonymous":     {Body: `{}`},
			"GET /security/realms/active": {Body: `["NexusAuthenticatingRealm","NexusAuthorizingRealm"]`},
			"PUT /security/realms/active": {Status: http.StatusNoContent},
			"GET /security/users?userId=jdoe": {Body: `[
				{"userId":"jdoe2","firstName":"Jane","lastName":"Doe","emailAddress":"jane@example.org","source":"default","status":"active","roles":["nx-admin"]},
				{"userId":"jdoe","firstName":"John","lastName":"Doe","emailAddress":"john@example.org","source":"default","status":"disabled","roles":["nx-anonymous","dev"]}]`},
			"GET /security/users?userId=nada":           {Body: `[]`},
			"POST /security/users":                      {Body: `{}`},
			"PUT /security/users/jdoe":                  {Status: http.StatusNoContent},
			"PUT /security/users/jdoe/change-password":  {Status: http.StatusNoContent},
			"DELETE /security/users/jdoe":               {Status: http.StatusNoContent},
			"DELETE /security/users/ldapper?realm=LDAP": {Status: http.StatusNoContent},
		})
		c = NewClient(srv.URL)
	})

	It("toggles anonymous access, keeping user and realm", func(ctx context.Context) {
		Expect(c.SetAnonymousAccess(ctx, true)).To(Succeed())
		Expect(srv.Requests()).To(HaveExactElements(
			HaveField("Method", http.MethodGet),
			And(HaveField("Method", http.MethodPut),
				HaveField("Body", MatchJSON(`{"enabled":true,"userId":"anonymous","realmName":"NexusAuthorizingRealm"}`))),
		))
	})

	It("gets and sets active realms", func(ctx context.Context) {
		Expect(c.ActiveRealms(ctx)).To(HaveExactElements(
			"NexusAuthenticatingRealm", "NexusAuthorizingRealm"))
		Expect(c.SetActiveRealms(ctx, []string{"NexusAuthenticatingRealm"})).To(Succeed())
		Expect(srv.Requests()).To(ContainElement(And(
			HaveField("Method", http.MethodPut),
			HaveField("Body", MatchJSON(`["NexusAuthenticatingRealm"]`)))))
	})

	It("picks the exact user", func(ctx context.Context) {
		Expect(c.User(ctx, "jdoe")).To(HaveValue(Equal(User{
			ID:        "jdoe",
			FirstName: "John",
			LastName:  "Doe",
			Email:     "john@example.org",
			Source:    DefaultUserSource,
			Status:    UserDisabled,
			Roles: []RoleID{
				{Source: DefaultUserSource, Role: "nx-anonymous"},
				{Source: DefaultUserSource, Role: "dev"},
			},
		})))
		Expect(c.User(ctx, "nada")).To(BeNil())
	})

	It("creates users with their initial password", func(ctx context.Context) {
		Expect(c.CreateUser(ctx, User{
			ID:     "jdoe",
			Source: "foo",
			Roles:  []RoleID{{Source: DefaultUserSource, Role: "dev"}},
		}, "sesame")).To(Succeed())
		Expect(srv.Requests()).To(HaveExactElements(And(
			HaveField("URI", "/security/users"),
			HaveField("Body", MatchJSON(`{
				"userId":"jdoe","firstName":"","lastName":"","emailAddress":"",
				"password":"sesame","status":"active","readOnly":false,"roles":["dev"]}`)))))
	})

	It("updates users", func(ctx context.Context) {
		Expect(c.UpdateUser(ctx, User{
			ID:     "jdoe",
			Source: DefaultUserSource,
			Status: UserLocked,
		})).To(Succeed())
		Expect(srv.Requests()).To(HaveExactElements(HaveField("Body", MatchJSON(`{
			"userId":"jdoe","firstName":"","lastName":"","emailAddress":"",
			"source":"default","status":"locked","readOnly":false,"roles":[]}`))))
	})

	It("changes passwords as plain text", func(ctx context.Context) {
		Expect(c.ChangePassword(ctx, "jdoe", "sesame")).To(Succeed())
		Expect(srv.Requests()).To(HaveExactElements(And(
			HaveField("URI", "/security/users/jdoe/change-password"),
			HaveField("ContentType", "text/plain"),
			HaveField("Body", "sesame"))))
		Expect(c.ChangePassword(ctx, "nada", "sesame")).NotTo(Succeed())
	})

	It("deletes users from their realms", func(ctx context.Context) {
		Expect(c.DeleteUser(ctx, "jdoe", DefaultUserSource)).To(Succeed())
		Expect(c.DeleteUser(ctx, "ldapper", "LDAP")).To(Succeed())
		Expect(c.DeleteUser(ctx, "ldapper", "")).NotTo(Succeed())
	})

})

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
	. "github.com/thediveo/success"
)

var _ = Describe("repositories", func() {

	DescribeTable("splitting recipes",
		func(recipe, format, typ string) {
			f, t := Successful2R(SplitRecipe(recipe))
			Expect(f).To(Equal(format))
			Expect(t).To(Equal(typ))
		},
		Entry(nil, "maven2-hosted", "maven2", "hosted"),
		Entry(nil, "docker-proxy", "docker", "proxy"),
		Entry(nil, "raw-group", "raw", "group"),
		Entry(nil, "foo-bar-group", "foo-bar", "group"),
	)

	It("rejects invalid recipes", func() {
		for _, recipe := range []string{"", "maven2", "-hosted", "maven2-"} {
			_, _, err := SplitRecipe(recipe)
			Expect(err).To(HaveOccurred(), "recipe %q", recipe)
		}
	})

	It("maps recipes to REST paths", func() {
		Expect(repositoryPath("maven2-hosted")).To(Equal("/repositories/maven/hosted"))
		Expect(repositoryPath("npm-proxy")).To(Equal("/repositories/npm/proxy"))
		Expect(repositoryPath("nada")).Error().To(HaveOccurred())
	})

	When("talking to Nexus", func() {

		var srv *restServer
		var c *Client

		BeforeEach(func() {
			srv = newRESTServer(map[string]reply{
				"GET /repositorySettings": {Body: `[
					{"name":"releases","format":"maven2","type":"hosted","url":"http://nexus/repository/releases","online":true,
					 "storage":{"blobStoreName":"default","writePolicy":"allow_once"},
					 "maven":{"versionPolicy":"RELEASE"}}]`},
				"POST /repositories/maven/hosted":         {Status: http.StatusCreated},
				"PUT /repositories/maven/hosted/releases": {Status: http.StatusNoContent},
				"DELETE /repositories/releases":           {Status: http.StatusNoContent},
			})
			c = NewClient(srv.URL)
		})

		It("lists repositories", func(ctx context.Context) {
			Expect(c.Repositories(ctx)).To(HaveExactElements(Repository{
				Name:   "releases",
				Recipe: "maven2-hosted",
				Online: true,
				Attributes: map[string]map[string]any{
					"storage": {"blobStoreName": "default", "writePolicy": "allow_once"},
					"maven":   {"versionPolicy": "RELEASE"},
				},
			}))
		})

		It("gets a single repository", func(ctx context.Context) {
			Expect(c.Repository(ctx, "releases")).To(HaveField("Recipe", "maven2-hosted"))
			Expect(c.Repository(ctx, "nada")).To(BeNil())
		})

		It("creates and updates repositories", func(ctx context.Context) {
			repo := Repository{
				Name:   "releases",
				Recipe: "maven2-hosted",
				Online: false,
				Attributes: map[string]map[string]any{
					"storage": {"blobStoreName": "default"},
				},
			}
			Expect(c.CreateRepository(ctx, repo)).To(Succeed())
			Expect(c.UpdateRepository(ctx, repo)).To(Succeed())
			body := `{"name":"releases","online":false,"storage":{"blobStoreName":"default"}}`
			Expect(srv.Requests()).To(HaveExactElements(
				And(HaveField("URI", "/repositories/maven/hosted"), HaveField("Body", MatchJSON(body))),
				And(HaveField("URI", "/repositories/maven/hosted/releases"), HaveField("Body", MatchJSON(body))),
			))
		})

		It("rejects invalid recipes without talking to Nexus", func(ctx context.Context) {
			Expect(c.CreateRepository(ctx, Repository{Name: "foo", Recipe: "foo"})).NotTo(Succeed())
			Expect(c.UpdateRepository(ctx, Repository{Name: "foo", Recipe: "foo"})).NotTo(Succeed())
			Expect(srv.Requests()).To(BeEmpty())
		})

		It("deletes repositories", func(ctx context.Context) {
			Expect(c.DeleteRepository(ctx, "releases")).To(Succeed())
			Expect(c.DeleteRepository(ctx, "nada")).NotTo(Succeed())
		})

	})

})

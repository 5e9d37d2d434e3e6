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

package interpolate

import (
	"gopkg.in/yaml.v3"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("unresolved placeholders", func() {

	It("finds leftovers in YAML", func() {
		var yammel map[string]any
		Expect(yaml.Unmarshal([]byte(`
foo:
  fool: 42
  bar:
    - baz
    - baz=***$FOO***
  zoo: ${file:}
security:
  users:
    - username: admin
      password: ${ADMIN_PASSWORD}
`),
			&yammel)).To(Succeed())
		Expect(Unresolved(yammel)).To(HaveExactElements(
			Path("foo.bar[1]"),
			Path("foo.zoo"),
			Path("security.users[0].password"),
		))
	})

	It("returns nil when there are no leftovers", func() {
		Expect(Unresolved(map[string]any{
			"foo": []any{"bar", 42, map[string]any{"baz": "$"}},
		})).To(BeNil())
	})

	It("returns a value as is if it isn't a string or something we can explore further", func() {
		Expect(Unresolved(42)).To(BeNil())
		Expect(Unresolved(nil)).To(BeNil())
	})

	It("reports a top-level string", func() {
		Expect(Unresolved("$FOO")).To(HaveExactElements(Path("")))
	})

	It("handles non-string mapping keys", func() {
		Expect(Unresolved(map[any]any{
			1:    "${ONE}",
			"ok": "fine",
		})).To(HaveExactElements(Path("1")))
	})

	Context("paths", func() {

		It("appends names", func() {
			Expect(Path("").Append("foo")).To(Equal(Path("foo")))
			Expect(Path("foo").Append("bar")).To(Equal(Path("foo.bar")))
		})

		It("appends indices", func() {
			Expect(Path("").AppendIndex(1)).To(Equal(Path("[1]")))
			Expect(Path("foo").AppendIndex(42)).To(Equal(Path("foo[42]")))
			Expect(Path("foo").AppendIndex(0).Append("bar")).To(Equal(Path("foo[0].bar")))
		})

	})

})

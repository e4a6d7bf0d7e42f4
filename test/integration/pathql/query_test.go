// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package pathql_test

import (
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/pathql/pathql/internal/eval"
	"github.com/pathql/pathql/internal/jsonbridge"
	"github.com/pathql/pathql/internal/luamodifier"
	"github.com/pathql/pathql/internal/modifier"
	"github.com/pathql/pathql/internal/serialize"
)

const friendsDocument = `{
	"name": {"first": "Tom", "last": "Anderson"},
	"age": 37,
	"children": ["Sara", "Alex", "Jack"],
	"friends": [
		{"first": "Dale", "age": 44},
		{"first": "Roger", "age": 68},
		{"first": "Jane", "age": 47}
	]
}`

var _ = Describe("end-to-end path evaluation", func() {
	var reg *modifier.Registry

	BeforeEach(func() {
		reg = modifier.Builtins()
	})

	evaluate := func(doc, path string) (string, error) {
		v, err := jsonbridge.DecodeString(doc)
		if err != nil {
			return "", err
		}
		result, err := eval.EvaluatePath(v, path, reg)
		if err != nil {
			return "", err
		}
		return serialize.Render(result), nil
	}

	It("selects a nested field", func() {
		out, err := evaluate(friendsDocument, "name.last")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(`"Anderson"`))
	})

	It("dot-projects a field across a sequence using a bare #", func() {
		out, err := evaluate(friendsDocument, "friends.#.first")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(`["Dale", "Roger", "Jane"]`))
	})

	It("filters with a predicate query and projects the match", func() {
		out, err := evaluate(friendsDocument, "friends.#(age>45).first")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(`"Roger"`))
	})

	It("collects all matches with a non-terminal predicate query", func() {
		out, err := evaluate(friendsDocument, "friends.#(age>45)#.first")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(`["Roger", "Jane"]`))
	})

	It("chains a built-in modifier after a projection", func() {
		out, err := evaluate(friendsDocument, "friends.#.age|@sort")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(`[44, 47, 68]`))
	})

	It("renders ugly output with no whitespace", func() {
		out, err := evaluate(friendsDocument, "name|@ugly")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(`{"first":"Tom","last":"Anderson"}`))
	})

	It("evaluates a JSON-Lines document with the leading .. operator", func() {
		out, err := evaluate(friendsDocument, "..name.first")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(`["Tom"]`))
	})

	It("surfaces a not-found error for a missing field", func() {
		_, err := evaluate(friendsDocument, "name.middle")
		Expect(err).To(HaveOccurred())
	})

	It("runs a registered Lua modifier alongside the built-ins", func() {
		host := luamodifier.NewHost()
		Expect(host.RegisterScript(reg, "double", `
			function modify(current, options)
				return current * 2
			end
		`)).To(Succeed())

		out, err := evaluate(friendsDocument, "age.@double")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("74"))
	})
})

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

// Package pathql_test provides end-to-end integration tests exercising the
// full decode, evaluate, and serialize pipeline together.
package pathql_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
)

func TestPathql(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Pathql Integration Suite")
}

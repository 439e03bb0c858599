// Copyright 2026 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package exchange

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsOverflow(t *testing.T) {
	testCases := []struct {
		name     string
		value    string
		limit    int64
		overflow bool
	}{
		{"empty", "", 1000, false},
		{"whitespace only", "   ", 1000, false},
		{"not digits", "abc", 1000, false},
		{"mixed", "12a4", 1000, false},
		{"negative", "-1", 1000, false},
		{"under limit", "999", 1000, false},
		{"at limit", "1000", 1000, false},
		{"over limit", "1001", 1000, true},
		{"trimmed", " 1001 ", 1000, true},
		{"leading zeros under", "0000999", 1000, false},
		{"leading zeros over", "0001001", 1000, true},
		{"all zeros", "00000", 1000, false},
		{"leading zeros pad past 15", strings.Repeat("0", 20) + "999", 1000, false},
		{"16 digits", "1000000000000000", 1000, true},
		{"19 digits", "9999999999999999999", 1000, true},
		{"absurdly long", strings.Repeat("9", 400), 1000, true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.overflow, isOverflow(testCase.value, testCase.limit))
		})
	}
}

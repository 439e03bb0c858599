// Copyright 2026 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package exchange

import (
	"strconv"
	"strings"
)

// maxLengthDigits bounds the digit strings isOverflow will parse. A
// declared length longer than this is not a meaningful number for any
// real payload and is treated conservatively as an overflow, which
// also keeps absurd headers away from the integer parser.
const maxLengthDigits = 15

// isOverflow pre-validates a Content-Length header value against the
// byte limit, before any body bytes are read. A value that is not all
// digits after trimming is not treated as an overflow (the live byte
// counter still protects against the actual payload); a parseable
// value is compared numerically against limit.
func isOverflow(value string, limit int64) bool {
	s := strings.TrimSpace(value)
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	s = strings.TrimLeft(s, "0")
	if s == "" {
		s = "0"
	}
	if len(s) > maxLengthDigits {
		return true
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return true
	}
	return n > limit
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert turns form text into typed values.

Conversions are fault-tolerant: malformed input yields the zero value rather
than an error. Callers that must tell malformed input apart from zero validate
first (see validate.Validator.WholeNumber).
*/
package convert

import (
	"strconv"
	"strings"
)

// ToInt converts a string to an integer, silencing parsing errors.
// It returns 0 if the string is empty or cannot be parsed.
func ToInt(s string) int {
	if s == "" {
		return 0
	}

	v, _ := strconv.Atoi(strings.TrimSpace(s))
	return v
}

// ToDecimalText normalizes a typed amount into the text form the database
// accepts for numeric columns. A decimal comma becomes a point and digit
// grouping spaces are removed. Empty input stays empty.
func ToDecimalText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	s = strings.ReplaceAll(s, " ", "")
	if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	}
	return s
}

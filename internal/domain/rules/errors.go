package rules

import "errors"

var (
	ErrFormat         = errors.New("FORMAT_ERROR")
	ErrRangeExhausted = errors.New("RANGE_EXHAUSTED")
	ErrIO             = errors.New("IO_ERROR")
	ErrRuleConfig     = errors.New("RULE_CONFIG")
)

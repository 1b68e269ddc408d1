// Package naming composes naming-rule fragments into complete file names.
package naming

import (
	"context"
	"errors"
	"strings"

	"renamer/internal/domain/model"
	"renamer/internal/domain/rules"
)

var renderRule = rules.Render

// Synthesize concatenates the fragments of rules for entry at position index.
//
// When a number segment runs past its range the returned name is always empty
// and the error wraps rules.ErrRangeExhausted. Other failures are returned
// as-is so the caller can record them against this entry and move on.
// Placeholder entries produce an empty name and no error.
func Synthesize(ctx context.Context, ruleSet []model.NamingRule, entry *model.FileRenameEntry, index int) (string, error) {
	if entry == nil || entry.Dummy {
		return "", nil
	}

	var b strings.Builder
	for _, rule := range ruleSet {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		part, err := renderRule(ctx, rule, entry, index)
		if err != nil {
			return "", err
		}
		b.WriteString(part)
	}
	return b.String(), nil
}

func IsExhausted(err error) bool {
	return errors.Is(err, rules.ErrRangeExhausted)
}

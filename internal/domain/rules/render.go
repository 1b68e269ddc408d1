package rules

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"renamer/internal/domain/model"
	"renamer/internal/infra/hashing"
)

var computeDigest = hashing.Compute

// maxDigits is the widest zero-padded number whose capacity fits in int64.
const maxDigits = 18

// Validate reports inconsistent fields for the rule's kind. Fields of other
// kinds are ignored.
func Validate(rule model.NamingRule) error {
	switch rule.Kind {
	case model.RuleConstantString, model.RuleExtension:
		return nil
	case model.RuleOrderedNumber:
		if rule.StartNumber < 0 {
			return fmt.Errorf("%w: negative start number %d", ErrFormat, rule.StartNumber)
		}
		if rule.EndNumber != nil && *rule.EndNumber < 0 {
			return fmt.Errorf("%w: negative end number %d", ErrFormat, *rule.EndNumber)
		}
		if rule.NumberLength < 0 {
			return fmt.Errorf("%w: negative number length %d", ErrRuleConfig, rule.NumberLength)
		}
		if rule.NumberLength > 0 && rule.StartNumber > digitCapacity(rule.NumberLength) {
			return fmt.Errorf("%w: start number %d does not fit in %d digits", ErrRuleConfig, rule.StartNumber, rule.NumberLength)
		}
		return nil
	case model.RuleFileHash:
		if _, err := hashing.ParseKind(string(rule.HashKind)); err != nil {
			return fmt.Errorf("%w: %v", ErrRuleConfig, err)
		}
		return nil
	case model.RuleFileNamePart:
		if rule.StartIndex < 0 {
			return fmt.Errorf("%w: negative start index %d", ErrRuleConfig, rule.StartIndex)
		}
		if rule.EndIndex < -1 {
			return fmt.Errorf("%w: end index %d below -1", ErrRuleConfig, rule.EndIndex)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown rule kind %q", ErrRuleConfig, rule.Kind)
	}
}

// Render produces the fragment of the new name contributed by rule for the
// entry at sequence position index.
func Render(ctx context.Context, rule model.NamingRule, entry *model.FileRenameEntry, index int) (string, error) {
	if err := Validate(rule); err != nil {
		return "", err
	}
	switch rule.Kind {
	case model.RuleConstantString:
		return rule.ConstantText, nil
	case model.RuleOrderedNumber:
		return renderNumber(rule, index)
	case model.RuleFileHash:
		d, err := computeDigest(ctx, entry.OriginalPath, rule.HashKind)
		if err != nil {
			if cerr := ctx.Err(); cerr != nil && errors.Is(err, cerr) {
				return "", cerr
			}
			return "", fmt.Errorf("%w: %s: %w", ErrIO, entry.OriginalPath, err)
		}
		return d.Hex(), nil
	case model.RuleFileNamePart:
		return renderNamePart(rule, entry), nil
	case model.RuleExtension:
		return renderExtension(rule, entry), nil
	}
	return "", nil
}

func digitCapacity(length int) int64 {
	if length <= 0 || length > maxDigits {
		return math.MaxInt64
	}
	c := int64(1)
	for i := 0; i < length; i++ {
		c *= 10
	}
	return c - 1
}

// EffectiveEnd is the last value the sequence may produce.
func EffectiveEnd(rule model.NamingRule) int64 {
	end := digitCapacity(rule.NumberLength)
	if rule.EndNumber != nil && *rule.EndNumber < end {
		end = *rule.EndNumber
	}
	return end
}

func renderNumber(rule model.NamingRule, index int) (string, error) {
	if index < 0 {
		return "", fmt.Errorf("%w: negative sequence index %d", ErrRuleConfig, index)
	}
	start := rule.StartNumber
	end := EffectiveEnd(rule)
	i := int64(index)

	var n int64
	if start <= end {
		if i > end-start {
			return "", fmt.Errorf("%w: %d + %d passes %d", ErrRangeExhausted, start, i, end)
		}
		n = start + i
	} else {
		if i > start-end {
			return "", fmt.Errorf("%w: %d - %d passes %d", ErrRangeExhausted, start, i, end)
		}
		n = start - i
	}

	if rule.NumberLength > 0 {
		return fmt.Sprintf("%0*d", rule.NumberLength, n), nil
	}
	return strconv.FormatInt(n, 10), nil
}

// renderNamePart bounds the indexes by the name without its extension but
// slices the full file name.
func renderNamePart(rule model.NamingRule, entry *model.FileRenameEntry) string {
	stem := []rune(entry.NameWithoutExtension())
	full := []rune(entry.OriginalName)
	if len(stem) == 0 {
		return ""
	}

	last := len(stem) - 1
	end := rule.EndIndex
	if end < 0 || end > last {
		end = last
	}
	start := rule.StartIndex
	if start > end {
		start = end
	}
	return string(full[start : end+1])
}

func renderExtension(rule model.NamingRule, entry *model.FileRenameEntry) string {
	if !rule.IsCustomExtension {
		return entry.Extension
	}
	ext := strings.Join(strings.Fields(rule.CustomExtension), "")
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

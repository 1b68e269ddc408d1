package rules

import (
	"fmt"
	"strconv"
	"strings"

	"renamer/internal/domain/model"
	"renamer/internal/infra/hashing"
)

// Parse reads one rule from its command-line form:
//
//	const:<text>
//	num[:start=N][,end=N][,len=N]
//	hash[:<algo>]
//	name[:<start>[:<end>]]
//	ext[:<custom extension>]
func Parse(spec string) (model.NamingRule, error) {
	head, arg, hasArg := strings.Cut(spec, ":")
	head = strings.ToLower(strings.TrimSpace(head))

	var rule model.NamingRule
	switch head {
	case "const", "text":
		rule = model.NewNamingRule(model.RuleConstantString)
		rule.ConstantText = arg
	case "num", "number":
		rule = model.NewNamingRule(model.RuleOrderedNumber)
		if hasArg {
			if err := parseNumberOptions(&rule, arg); err != nil {
				return model.NamingRule{}, err
			}
		}
	case "hash":
		rule = model.NewNamingRule(model.RuleFileHash)
		if hasArg {
			kind, err := hashing.ParseKind(arg)
			if err != nil {
				return model.NamingRule{}, fmt.Errorf("%w: %v", ErrRuleConfig, err)
			}
			rule.HashKind = kind
		}
	case "name":
		rule = model.NewNamingRule(model.RuleFileNamePart)
		if hasArg {
			startStr, endStr, hasEnd := strings.Cut(arg, ":")
			start, err := parseInt(startStr, "start index")
			if err != nil {
				return model.NamingRule{}, err
			}
			rule.StartIndex = int(start)
			if hasEnd {
				end, err := parseInt(endStr, "end index")
				if err != nil {
					return model.NamingRule{}, err
				}
				rule.EndIndex = int(end)
			}
		}
	case "ext":
		rule = model.NewNamingRule(model.RuleExtension)
		if hasArg && strings.TrimSpace(arg) != "" {
			rule.IsCustomExtension = true
			rule.CustomExtension = arg
		}
	default:
		return model.NamingRule{}, fmt.Errorf("%w: unknown rule %q", ErrRuleConfig, head)
	}

	if err := Validate(rule); err != nil {
		return model.NamingRule{}, err
	}
	return rule, nil
}

func ParseAll(specs []string) ([]model.NamingRule, error) {
	out := make([]model.NamingRule, 0, len(specs))
	for i, s := range specs {
		r, err := Parse(s)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%q): %w", i+1, s, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func parseNumberOptions(rule *model.NamingRule, arg string) error {
	for _, part := range strings.Split(arg, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return fmt.Errorf("%w: expected key=value, got %q", ErrRuleConfig, part)
		}
		n, err := parseInt(val, key)
		if err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "start":
			rule.StartNumber = n
		case "end":
			end := n
			rule.EndNumber = &end
		case "len", "length":
			rule.NumberLength = int(n)
		default:
			return fmt.Errorf("%w: unknown number option %q", ErrRuleConfig, key)
		}
	}
	return nil
}

func parseInt(s, field string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", ErrFormat, field, s)
	}
	return n, nil
}

// Describe renders rule back into its command-line form.
func Describe(rule model.NamingRule) string {
	switch rule.Kind {
	case model.RuleConstantString:
		return "const:" + rule.ConstantText
	case model.RuleOrderedNumber:
		s := fmt.Sprintf("num:start=%d", rule.StartNumber)
		if rule.EndNumber != nil {
			s += fmt.Sprintf(",end=%d", *rule.EndNumber)
		}
		if rule.NumberLength > 0 {
			s += fmt.Sprintf(",len=%d", rule.NumberLength)
		}
		return s
	case model.RuleFileHash:
		return "hash:" + string(rule.HashKind)
	case model.RuleFileNamePart:
		return fmt.Sprintf("name:%d:%d", rule.StartIndex, rule.EndIndex)
	case model.RuleExtension:
		if rule.IsCustomExtension {
			return "ext:" + rule.CustomExtension
		}
		return "ext"
	}
	return string(rule.Kind)
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"renamer/internal/domain/model"
	"renamer/internal/domain/rules"
	"renamer/internal/infra/hashing"
)

type ruleFlags struct {
	specs     []string
	recursive bool
}

func (f *ruleFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.specs, "rule", "r", nil, "Naming rule, repeatable and applied in order (const:TEXT, num[:start=N,end=N,len=N], hash[:ALGO], name[:START[:END]], ext[:CUSTOM])")
	cmd.Flags().BoolVar(&f.recursive, "recursive", false, "Descend into directory arguments")
}

func (f *ruleFlags) rules() ([]model.NamingRule, error) {
	return rules.ParseAll(f.specs)
}

// parseKinds reads a comma separated algorithm list; an empty value yields nil.
func parseKinds(list string) ([]model.HashKind, error) {
	var kinds []model.HashKind
	seen := make(map[model.HashKind]bool)
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, err := hashing.ParseKind(part)
		if err != nil {
			return nil, fmt.Errorf("--algo: %w", err)
		}
		if !seen[k] {
			seen[k] = true
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

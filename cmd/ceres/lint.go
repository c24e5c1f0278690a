package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"meridian-data/ceres/pkg/cli"
	"meridian-data/ceres/pkg/quality/compiler"
	"meridian-data/ceres/pkg/quality/engine"
)

var lintFlags struct {
	file   string
	dir    string
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate rule files",
	Long: `Validate quality rule files without evaluating any data.

The lint command parses rule files and checks each entry:
  - YAML syntax validation
  - Required fields (id, expression)
  - Expression compilation

Examples:
  # Lint a single file
  ceres lint --file rules.yaml

  # Lint a directory of rule files
  ceres lint --dir rules/

  # JSON output for CI/CD
  ceres lint --file rules.yaml --format json`,
	RunE: lintRules,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "rule file to validate")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of rule files")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

// ValidationResult is the lint outcome for a single rule file.
type ValidationResult struct {
	File      string            `json:"file"`
	Valid     bool              `json:"valid"`
	RuleCount int               `json:"rule_count"`
	Errors    []ValidationError `json:"errors,omitempty"`
}

// ValidationError is one problem found in a rule file.
type ValidationError struct {
	Rule    string `json:"rule,omitempty"`
	Message string `json:"message"`
}

func lintRules(cmd *cobra.Command, args []string) error {
	if lintFlags.file == "" && lintFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}

	var files []string
	if lintFlags.file != "" {
		files = append(files, lintFlags.file)
	}
	if lintFlags.dir != "" {
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(lintFlags.dir, pattern))
			if err != nil {
				return fmt.Errorf("failed to list rule files: %w", err)
			}
			files = append(files, matches...)
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no rule files found")
	}

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, validateRuleFile(file))
	}

	if lintFlags.format == "json" {
		return outputJSON(results)
	}
	return outputText(results)
}

func validateRuleFile(path string) ValidationResult {
	result := ValidationResult{File: path, Valid: true}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{Message: err.Error()})
		return result
	}

	var rf struct {
		QualityRules []map[string]any `yaml:"quality_rules"`
	}
	if err := yaml.Unmarshal(data, &rf); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Message: fmt.Sprintf("invalid YAML: %v", err),
		})
		return result
	}
	result.RuleCount = len(rf.QualityRules)

	for i, raw := range rf.QualityRules {
		def, err := engine.ParseDefinition(raw, nil)
		if err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, ValidationError{
				Rule:    ruleLabel(raw, i),
				Message: err.Error(),
			})
			continue
		}
		if _, err := compiler.Compile(def.Expression); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, ValidationError{
				Rule:    def.ID,
				Message: err.Error(),
			})
		}
	}

	return result
}

// ruleLabel names a rule for error output, falling back to its position
// when the entry has no id.
func ruleLabel(raw map[string]any, index int) string {
	if id, ok := raw["id"].(string); ok && id != "" {
		return id
	}
	return fmt.Sprintf("#%d", index+1)
}

func outputText(results []ValidationResult) error {
	totalErrors := 0

	for _, result := range results {
		fmt.Printf("Validating %s...\n", result.File)

		if result.Valid {
			fmt.Printf("✓ %d rules valid\n", result.RuleCount)
			continue
		}
		for _, e := range result.Errors {
			if e.Rule != "" {
				fmt.Printf("✗ Error in rule %s: %s\n", e.Rule, e.Message)
			} else {
				fmt.Printf("✗ Error: %s\n", e.Message)
			}
			totalErrors++
		}
	}

	if totalErrors > 0 {
		fmt.Printf("\n%d errors found\n", totalErrors)
		return cli.NewCommandError("lint", fmt.Errorf("validation failed"))
	}
	fmt.Println("\nAll rule files valid")
	return nil
}

func outputJSON(results []ValidationResult) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	for _, result := range results {
		if !result.Valid {
			return cli.NewCommandError("lint", fmt.Errorf("validation failed"))
		}
	}
	return nil
}

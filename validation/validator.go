// Package validation provides data validation functionality for the consultation API.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Christ-Poyah/e-sante-ENTREPRISE/catalog"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/interfaces"
)

// Pre-compiled regex patterns for performance optimization
// Compiled once at package initialization and reused for all validations
var (
	// Input validation: alphanumeric + French accents + safe punctuation
	inputRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-\.\+'àâäéèêëïîôöùûüÿç]+$`)

	// CMU numbers: "CMU" followed by exactly 6 digits
	cmuRegex = regexp.MustCompile(`^CMU[0-9]{6}$`)

	// Dangerous patterns as strings (faster than regex for simple substring matching)
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"onclick=", "onmouseover=", "onfocus=", "onblur=", "onchange=", "onsubmit=",
		"eval(", "expression(", "url(", "import ", "@import", "binding(", "behavior(",
		// SQL injection patterns
		"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
		"update set", "--", "/*", "*/", "xp_", "sp_", "exec(", "execute(",
		// Command injection patterns
		"; ", "| ", "& ", "`", "$(", "${",
		// Path traversal patterns
		"../", "..\\", "%2e%2e", "file://",
		// LDAP injection patterns
		"*)(", "*|(", "*)%",
		// NoSQL injection patterns
		"{$ne:", "{$gt:", "{$where:", "{$or:", "{$regex:", "{$expr:",
	}
)

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// ValidateCatalogItem checks if a single catalog item is valid
func (v *DataValidatorImpl) ValidateCatalogItem(item *catalog.Item) error {
	if item == nil {
		return fmt.Errorf("catalog item is nil")
	}

	if item.ID <= 0 {
		return fmt.Errorf("invalid catalog item id: %d", item.ID)
	}

	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("empty name for catalog item %d", item.ID)
	}

	if len(item.Name) > 200 {
		return fmt.Errorf("name too long for catalog item %d: %d characters", item.ID, len(item.Name))
	}

	// Every detail specification must offer at least one option, otherwise
	// the entry holding it could never reach the complete state
	for _, detail := range item.Details {
		if strings.TrimSpace(detail.Name) == "" {
			return fmt.Errorf("empty detail name for catalog item %d", item.ID)
		}
		if len(detail.Options) == 0 {
			return fmt.Errorf("detail %q of catalog item %d has no options", detail.Name, item.ID)
		}
	}

	// Result kind is only meaningful on analyses, but when present it must
	// be a known kind
	switch item.ResultKind {
	case "", catalog.ResultBoolean, catalog.ResultNumeric, catalog.ResultText:
	default:
		return fmt.Errorf("unknown result kind %q for catalog item %d", item.ResultKind, item.ID)
	}

	return nil
}

// ValidateCatalogs performs comprehensive validation over the full data set
func (v *DataValidatorImpl) ValidateCatalogs(catalogs catalog.Catalogs, patients []catalog.Patient) error {
	sections := []struct {
		kind  catalog.SectionKind
		items []catalog.Item
	}{
		{catalog.Symptoms, catalogs.Symptoms},
		{catalog.Antecedents, catalogs.Antecedents},
		{catalog.Analyses, catalogs.Analyses},
	}

	for _, section := range sections {
		if len(section.items) == 0 {
			return fmt.Errorf("no items found in %s catalog", section.kind)
		}

		// Ids must be unique within a section
		idMap := make(map[int]bool)
		for _, item := range section.items {
			if idMap[item.ID] {
				return fmt.Errorf("duplicate id %d in %s catalog", item.ID, section.kind)
			}
			idMap[item.ID] = true

			if err := v.ValidateCatalogItem(&item); err != nil {
				return fmt.Errorf("invalid item in %s catalog: %w", section.kind, err)
			}
		}
	}

	if len(patients) == 0 {
		return fmt.Errorf("no patients found")
	}

	cmuMap := make(map[string]bool)
	for _, patient := range patients {
		if !cmuRegex.MatchString(patient.CMUNumber) {
			return fmt.Errorf("invalid CMU number %q for patient %s", patient.CMUNumber, patient.ID)
		}
		if cmuMap[patient.CMUNumber] {
			return fmt.Errorf("duplicate CMU number found: %s", patient.CMUNumber)
		}
		cmuMap[patient.CMUNumber] = true

		if strings.TrimSpace(patient.FirstName) == "" || strings.TrimSpace(patient.LastName) == "" {
			return fmt.Errorf("empty name for patient %s", patient.ID)
		}
	}

	return nil
}

// ValidateLabel validates free-text entry labels with enhanced security
func (v *DataValidatorImpl) ValidateLabel(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("input cannot be empty")
	}

	if len(input) > 100 {
		return fmt.Errorf("input too long: maximum 100 characters")
	}

	// Check for potentially dangerous patterns using string matching (faster than regex)
	lowerInput := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowerInput, pattern) {
			return fmt.Errorf("input contains potentially dangerous content")
		}
	}

	// Allow only letters, numbers, spaces, and safe punctuation
	if !inputRegex.MatchString(input) {
		return fmt.Errorf("input contains invalid characters. Only letters, numbers, spaces, hyphens, apostrophes, periods, plus sign, and common French accented characters are allowed")
	}

	// Additional check for repeated characters (potential DoS)
	if v.hasExcessiveRepetition(input) {
		return fmt.Errorf("input contains excessive character repetition")
	}

	return nil
}

// ValidateCMU validates CMU numbers used for patient lookup
// CMU numbers are the literal prefix "CMU" followed by 6 digits
func (v *DataValidatorImpl) ValidateCMU(input string) (string, error) {
	trimmedInput := strings.TrimSpace(input)
	if trimmedInput == "" {
		return "", fmt.Errorf("input cannot be empty")
	}

	// Reject if original input contained whitespace (spaces, tabs, etc.)
	if len(input) != len(trimmedInput) {
		return "", fmt.Errorf("input contains invalid characters")
	}

	if !cmuRegex.MatchString(trimmedInput) {
		return "", fmt.Errorf("CMU number should be CMU followed by 6 digits")
	}

	return trimmedInput, nil
}

// hasExcessiveRepetition checks for potential DoS patterns with excessive character repetition
func (v *DataValidatorImpl) hasExcessiveRepetition(input string) bool {
	// Check for the same character repeated more than 10 times consecutively
	for i := 0; i < len(input)-10; i++ {
		allSame := true
		for j := 1; j <= 10; j++ {
			if input[i] != input[i+j] {
				allSame = false
				break
			}
		}
		if allSame {
			return true
		}
	}
	return false
}

package catalog

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/suren2787/contextmap/pkg/model"
)

// validate is a singleton validator instance
var validate = validator.New()

// ValidateComponents checks component records at the source boundary so the
// discovery engine can assume well-typed input: required fields present and
// ids unique within the snapshot.
func ValidateComponents(components []model.ComponentRecord) error {
	seen := make(map[string]bool, len(components))
	for i := range components {
		if err := validate.Struct(&components[i]); err != nil {
			return fmt.Errorf("component %q: %w", components[i].ID, err)
		}
		if seen[components[i].ID] {
			return fmt.Errorf("component %q: duplicate id in snapshot", components[i].ID)
		}
		seen[components[i].ID] = true
	}
	return nil
}

// ValidateApis checks API records the same way
func ValidateApis(apis []model.ApiRecord) error {
	seen := make(map[string]bool, len(apis))
	for i := range apis {
		if err := validate.Struct(&apis[i]); err != nil {
			return fmt.Errorf("api %q: %w", apis[i].ID, err)
		}
		if seen[apis[i].ID] {
			return fmt.Errorf("api %q: duplicate id in snapshot", apis[i].ID)
		}
		seen[apis[i].ID] = true
	}
	return nil
}

package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidScenario is wrapped by every error returned from Validate.
var ErrInvalidScenario = errors.New("invalid scenario")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field shapes and name uniqueness. Dangling references
// between blocks (an ability naming an unknown recipe, a building naming an
// unknown project) are accepted; the resolver skips them.
func (s *Scenario) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: field %s failed %q (value %v)", ErrInvalidScenario, fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	if err := unique("product", len(s.Products), func(i int) string { return s.Products[i].ID }); err != nil {
		return err
	}
	if err := unique("recipe", len(s.Recipes), func(i int) string { return s.Recipes[i].Name }); err != nil {
		return err
	}
	if err := unique("project", len(s.Projects), func(i int) string { return s.Projects[i].Name }); err != nil {
		return err
	}
	return unique("building", len(s.Buildings), func(i int) string { return s.Buildings[i].Name })
}

func unique(kind string, n int, name func(int) string) error {
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		key := name(i)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate %s %q", ErrInvalidScenario, kind, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

var errNoInput = errors.New("missing input")

// prompter asks for inputs the flags left empty.
type prompter struct{ enabled bool }

func (p prompter) input(value *string, flag, message string) error {
	if strings.TrimSpace(*value) != "" {
		return nil
	}
	if !p.enabled {
		return fmt.Errorf("%w: --%s", errNoInput, flag)
	}
	q := &survey.Input{Message: message}
	if err := survey.AskOne(q, value, survey.WithValidator(survey.Required)); err != nil {
		return fmt.Errorf("read %s: %w", flag, err)
	}
	*value = strings.Trim(strings.TrimSpace(*value), `"'`)
	return nil
}

// choose canonicalises *value against options, case-insensitively, or asks
// for one when it is empty.
func (p prompter) choose(value *string, flag, message string, options []string) error {
	if v := strings.TrimSpace(*value); v != "" {
		for _, o := range options {
			if strings.EqualFold(v, o) {
				*value = o
				return nil
			}
		}
		return fmt.Errorf("invalid --%s %q (want one of %s)", flag, v, strings.Join(options, ", "))
	}
	if !p.enabled {
		return fmt.Errorf("%w: --%s", errNoInput, flag)
	}
	q := &survey.Select{Message: message, Options: options}
	if err := survey.AskOne(q, value); err != nil {
		return fmt.Errorf("read %s: %w", flag, err)
	}
	return nil
}

// confirm asks a yes/no question; without prompts it answers def.
func (p prompter) confirm(message string, def bool) (bool, error) {
	if !p.enabled {
		return def, nil
	}
	ok := def
	if err := survey.AskOne(&survey.Confirm{Message: message, Default: def}, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

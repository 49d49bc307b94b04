package catalog

import (
	"fmt"
	"regexp"
)

// validCodeRE matches the character set allowed for plan and feature codes
// typed by a user.
var validCodeRE = regexp.MustCompile(`^[a-zA-Z0-9]{1,16}$`)

// ValidateCode checks that code is a well-formed plan or feature code.
// It says nothing about whether the code exists.
func ValidateCode(code string) error {
	if code == "" {
		return fmt.Errorf("code must not be empty")
	}
	if !validCodeRE.MatchString(code) {
		return fmt.Errorf("code %q is invalid (allowed: a-z A-Z 0-9, up to 16 chars)", code)
	}
	return nil
}

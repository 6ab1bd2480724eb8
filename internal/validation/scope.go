// Package validation valida valores de configuración que llegan a los providers.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Scope name rules:
//   - Lowercase only.
//   - Start and end with [a-z0-9].
//   - Middle chars may include [a-z0-9:_./-], so URL scopes like
//     https://www.googleapis.com/auth/userinfo.email pass.
//   - Length 1..128.
//   - Excludes semicolon, comma and whitespace explicitly.
//
// Examples valid: profile, public_profile, read:user, user:email
// Examples invalid: ;hack, BAD, "a,b", :leader, trailer:, "", 129+ chars.
var scopeNameRe = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9:_\./-]{0,126}[a-z0-9])?$`)

// ValidScopeName returns true if the provided scope name matches the allowed pattern.
func ValidScopeName(name string) bool {
	return scopeNameRe.MatchString(name)
}

// ValidateScopeList checks a space-separated scope. An empty list is valid
// (the provider default applies).
func ValidateScopeList(scope string) error {
	for _, s := range strings.Fields(scope) {
		if !ValidScopeName(s) {
			return fmt.Errorf("invalid scope %q", s)
		}
	}
	return nil
}

// Package util tiene helpers chicos para logs.
package util

import "strings"

// MaskEmail deja la primera letra del usuario y del dominio: a…@e….com
func MaskEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	i := strings.IndexByte(s, '@')
	if i <= 0 {
		return Mask(s)
	}
	user, dom := s[:i], s[i+1:]
	if len(user) > 1 {
		user = user[:1] + "…"
	}
	dparts := strings.Split(dom, ".")
	if len(dparts) > 0 && len(dparts[0]) > 1 {
		dparts[0] = dparts[0][:1] + "…"
	}
	return user + "@" + strings.Join(dparts, ".")
}

// Mask deja el primer y último carácter de s (app ids, ids de sesión).
func Mask(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) <= 3:
		return "***"
	default:
		return s[:1] + "…" + s[len(s)-1:]
	}
}

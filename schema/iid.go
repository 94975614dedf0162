package schema

import (
	"strings"

	"github.com/google/uuid"

	"github.com/wippyai/xpbridge/errors"
)

// ParseIID parses an interface identifier in the canonical bracketed form
// {xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx}. The braces may be omitted; every
// other spelling accepted by uuid.Parse (urn prefix, bare hex) is rejected.
func ParseIID(s string) (uuid.UUID, error) {
	body := s
	if strings.HasPrefix(s, "{") || strings.HasSuffix(s, "}") {
		if len(s) != 38 || s[0] != '{' || s[37] != '}' {
			return uuid.Nil, errors.MalformedIdentifier(errors.PhaseCoerce, nil, s, nil)
		}
		body = s[1:37]
	}
	if len(body) != 36 {
		return uuid.Nil, errors.MalformedIdentifier(errors.PhaseCoerce, nil, s, nil)
	}
	id, err := uuid.Parse(body)
	if err != nil {
		return uuid.Nil, errors.MalformedIdentifier(errors.PhaseCoerce, nil, s, err)
	}
	return id, nil
}

// MustIID is ParseIID that panics, for package-level identifiers.
func MustIID(s string) uuid.UUID {
	id, err := ParseIID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// FormatIID renders id in the canonical bracketed form.
func FormatIID(id uuid.UUID) string {
	return "{" + id.String() + "}"
}

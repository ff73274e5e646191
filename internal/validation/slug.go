package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxSlugBaseLength bounds the human-readable part of a company slug.
const MaxSlugBaseLength = 48

var companySlugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var reservedCompanySlugs = map[string]struct{}{
	"admin":     {},
	"api":       {},
	"auth":      {},
	"oauth":     {},
	"login":     {},
	"signup":    {},
	"dashboard": {},
	"employer":  {},
	"jobs":      {},
	"companies": {},
	"swagger":   {},
	"metrics":   {},
}

// Slugify lowercases name, strips accents and joins alphanumeric runs with hyphens.
// It returns "company" when nothing usable remains.
func Slugify(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range norm.NFKD.String(name) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingHyphen = true
		}
		if b.Len() >= MaxSlugBaseLength {
			break
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > MaxSlugBaseLength {
		slug = strings.Trim(slug[:MaxSlugBaseLength], "-")
	}
	if slug == "" {
		return "company"
	}
	if _, reserved := reservedCompanySlugs[slug]; reserved {
		return slug + "-co"
	}
	return slug
}

// ValidateCompanySlug validates slug format and reserved names.
func ValidateCompanySlug(slug string) error {
	if len(slug) < 3 || len(slug) > 120 || !companySlugRegex.MatchString(slug) {
		return fmt.Errorf("slug must be 3-120 characters of lowercase letters and digits separated by single hyphens")
	}
	if _, exists := reservedCompanySlugs[slug]; exists {
		return fmt.Errorf("slug is reserved")
	}
	return nil
}

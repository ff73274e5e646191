package oauth

import "strings"

// Intent is the login purpose carried through the provider round trip in the
// state parameter.
type Intent string

const (
	IntentNone     Intent = ""
	IntentEmployer Intent = "employer"
	IntentGulf     Intent = "gulf"
)

// ParseIntent normalizes a raw state value. Unknown values carry no intent.
func ParseIntent(raw string) Intent {
	switch Intent(strings.ToLower(strings.TrimSpace(raw))) {
	case IntentEmployer:
		return IntentEmployer
	case IntentGulf:
		return IntentGulf
	default:
		return IntentNone
	}
}

func (i Intent) IsEmployer() bool { return i == IntentEmployer }

func (i Intent) String() string { return string(i) }

package validator

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Required fails on empty or whitespace-only values.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{Field: field, Message: "field is required"},
	}
}

// MaxLen fails when value is longer than max characters.
func MaxLen(field, value string, max int) Rule {
	return Rule{
		Check: func() bool {
			return utf8.RuneCountInString(value) <= max
		},
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters long", max)},
	}
}

// HTTPURL fails unless value is an absolute http or https URL.
func HTTPURL(field, value string) Rule {
	return Rule{
		Check: func() bool {
			u, err := url.ParseRequestURI(value)
			if err != nil {
				return false
			}
			return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
		},
		Error: ValidationError{Field: field, Message: "must be an absolute http(s) URL"},
	}
}

// When applies rule only if cond holds.
func When(cond bool, rule Rule) Rule {
	if cond {
		return rule
	}
	return Rule{Check: func() bool { return true }}
}

// Package rules provides the built-in value-level validators attached to
// fields. Each rule reports a coded, translated issue; comparable rule
// values keep projection memoization effective.
package rules

import (
	"fmt"
	"net/mail"
	"net/url"
	"reflect"
	"regexp"
	"strconv"

	"github.com/cockroachdb/apd/v3"

	mondoc "github.com/mondoc/mondoc"
	"github.com/mondoc/mondoc/i18n"
)

func issue(code string, data map[string]string) mondoc.Issues {
	return mondoc.Issues{{Code: code, Message: i18n.T(code, data)}}
}

// Length constrains the length of strings, slices and maps. A zero bound is
// unconstrained.
type Length struct {
	Min int
	Max int // 0 means unbounded unless Equal is set
	// Equal, when >0, requires the exact length and overrides Min/Max.
	Equal int
}

func (r Length) Validate(v any) error {
	n, ok := lengthOf(v)
	if !ok {
		return nil
	}
	if r.Equal > 0 {
		if n != r.Equal {
			if n < r.Equal {
				return issue(mondoc.CodeTooShort, map[string]string{"equal": strconv.Itoa(r.Equal)})
			}
			return issue(mondoc.CodeTooLong, map[string]string{"equal": strconv.Itoa(r.Equal)})
		}
		return nil
	}
	if n < r.Min {
		return issue(mondoc.CodeTooShort, map[string]string{"min": strconv.Itoa(r.Min)})
	}
	if r.Max > 0 && n > r.Max {
		return issue(mondoc.CodeTooLong, map[string]string{"max": strconv.Itoa(r.Max)})
	}
	return nil
}

func lengthOf(v any) (int, bool) {
	switch t := v.(type) {
	case string:
		return len([]rune(t)), true
	case []any:
		return len(t), true
	case map[string]any:
		return len(t), true
	case interface{ Len() int }:
		return t.Len(), true
	}
	return 0, false
}

// Range constrains numeric values inclusively. Unset bounds (nil) are
// unconstrained.
type Range struct {
	Min *float64
	Max *float64
}

// Bound is a convenience constructor for pointer bounds.
func Bound(v float64) *float64 { return &v }

func (r Range) Validate(v any) error {
	f, ok := floatOf(v)
	if !ok {
		return nil
	}
	if r.Min != nil && f < *r.Min {
		return issue(mondoc.CodeTooSmall, map[string]string{"min": fmt.Sprint(*r.Min)})
	}
	if r.Max != nil && f > *r.Max {
		return issue(mondoc.CodeTooBig, map[string]string{"max": fmt.Sprint(*r.Max)})
	}
	return nil
}

func floatOf(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	case *apd.Decimal:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	}
	return 0, false
}

// Regexp requires string values to match the pattern.
type Regexp struct {
	Pattern string
}

func (r Regexp) Validate(v any) error {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		return mondoc.Contractf("invalid validation pattern %q: %v", r.Pattern, err)
	}
	if !re.MatchString(s) {
		return issue(mondoc.CodePattern, map[string]string{"pattern": r.Pattern})
	}
	return nil
}

// OneOf requires the value to be one of the listed choices.
type OneOf struct {
	Choices []any
}

func (r OneOf) Validate(v any) error {
	for _, c := range r.Choices {
		if reflect.DeepEqual(v, c) {
			return nil
		}
	}
	return issue(mondoc.CodeInvalidEnum, nil)
}

// Email requires string values to be a parseable address.
type Email struct{}

func (Email) Validate(v any) error {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return issue(mondoc.CodeInvalidFormat, nil)
	}
	return nil
}

// URL requires string values to be an absolute URL.
type URL struct{}

func (URL) Validate(v any) error {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return issue(mondoc.CodeInvalidFormat, nil)
	}
	return nil
}

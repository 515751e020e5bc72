package validate

import (
	"net/mail"
	"strconv"
	"strings"
)

type ErrField struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type Errs []ErrField

func (e Errs) Error() string { // error interface
	var b strings.Builder
	for i, ef := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ef.Field + ": " + ef.Msg)
	}
	return b.String()
}

// Rule is one predicate of a field; Msg is reported when Check fails.
type Rule[T any] struct {
	Check func(T) bool
	Msg   string
}

// Field runs rules in order and stops at the first failure.
func Field[T any](field string, v T, rules ...Rule[T]) *ErrField {
	for _, r := range rules {
		if !r.Check(v) {
			return &ErrField{Field: field, Msg: r.Msg}
		}
	}
	return nil
}

// Collect drops nil results and returns nil when nothing failed.
func Collect(results ...*ErrField) error {
	var out Errs
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Helpers

func Required() Rule[string] {
	return Rule[string]{
		Check: func(s string) bool { return strings.TrimSpace(s) != "" },
		Msg:   "required",
	}
}

func MinLen(n int) Rule[string] {
	return Rule[string]{
		Check: func(s string) bool { return len([]rune(s)) >= n },
		Msg:   "must be at least " + strconv.Itoa(n) + " characters",
	}
}

// MaxBytes bounds the encoded length, not the rune count.
func MaxBytes(n int) Rule[string] {
	return Rule[string]{
		Check: func(s string) bool { return len(s) <= n },
		Msg:   "must be at most " + strconv.Itoa(n) + " bytes",
	}
}

func NotContainsFold(sub string) Rule[string] {
	return Rule[string]{
		Check: func(s string) bool { return !strings.Contains(strings.ToLower(s), strings.ToLower(sub)) },
		Msg:   `cannot contain "` + sub + `"`,
	}
}

func Email() Rule[string] {
	return Rule[string]{
		Check: func(s string) bool {
			a, err := mail.ParseAddress(s)
			return err == nil && a.Address == s && strings.Contains(s[strings.LastIndex(s, "@")+1:], ".")
		},
		Msg: "is invalid",
	}
}

func MinInt(min int) Rule[int] {
	return Rule[int]{
		Check: func(v int) bool { return v >= min },
		Msg:   "must be >= " + strconv.Itoa(min),
	}
}

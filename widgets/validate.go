package widgets

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Validator checks a text value. The error message is meant for the user.
type Validator func(value string) error

func message(custom []string, def string) error {
	if len(custom) > 0 {
		return errors.New(custom[0])
	}
	return errors.New(def)
}

// All runs validators in order and returns the first failure.
func All(validators ...Validator) Validator {
	return func(value string) error {
		for _, v := range validators {
			if err := v(value); err != nil {
				return err
			}
		}
		return nil
	}
}

// Required rejects empty or blank values.
func Required(msg ...string) Validator {
	err := message(msg, "This field is required")
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return err
		}
		return nil
	}
}

// MinLength rejects values shorter than n runes.
func MinLength(n int, msg ...string) Validator {
	err := message(msg, fmt.Sprintf("Must be at least %d characters", n))
	return func(value string) error {
		if utf8.RuneCountInString(value) < n {
			return err
		}
		return nil
	}
}

// MaxLength rejects values longer than n runes.
func MaxLength(n int, msg ...string) Validator {
	err := message(msg, fmt.Sprintf("Must be at most %d characters", n))
	return func(value string) error {
		if utf8.RuneCountInString(value) > n {
			return err
		}
		return nil
	}
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Email rejects values that do not look like an email address. Empty
// values pass; combine with Required.
func Email(msg ...string) Validator {
	err := message(msg, "Invalid email address")
	return func(value string) error {
		if value != "" && !emailRegex.MatchString(value) {
			return err
		}
		return nil
	}
}

// Pattern rejects non-empty values the regular expression does not match.
// It panics if pattern does not compile.
func Pattern(pattern string, msg ...string) Validator {
	re := regexp.MustCompile(pattern)
	err := message(msg, "Invalid format")
	return func(value string) error {
		if value != "" && !re.MatchString(value) {
			return err
		}
		return nil
	}
}

// Min rejects numbers below min. Empty values pass.
func Min(min float64, msg ...string) Validator {
	err := message(msg, fmt.Sprintf("Must be at least %v", min))
	return number(func(v float64) bool { return v >= min }, err)
}

// Max rejects numbers above max. Empty values pass.
func Max(max float64, msg ...string) Validator {
	err := message(msg, fmt.Sprintf("Must be at most %v", max))
	return number(func(v float64) bool { return v <= max }, err)
}

var errNotNumber = errors.New("Must be a number")

func number(ok func(float64) bool, err error) Validator {
	return func(value string) error {
		value = strings.TrimSpace(value)
		if value == "" {
			return nil
		}
		v, perr := strconv.ParseFloat(value, 64)
		if perr != nil {
			return errNotNumber
		}
		if !ok(v) {
			return err
		}
		return nil
	}
}

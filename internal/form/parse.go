package form

import (
	"context"
	"strconv"
	"strings"

	"github.com/bossnaboss212/center/internal/model"
)

// ValidationError rejects an answer. Message is shown to the user as the
// re-prompt.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Invalid returns a ValidationError with the given message.
func Invalid(message string) error {
	return &ValidationError{Message: message}
}

// Text accepts any answer that is not blank once trimmed.
func Text(message string) Parser {
	if message == "" {
		message = "Réponse vide, essayez encore."
	}
	return func(_ context.Context, input string) (string, error) {
		v := strings.TrimSpace(input)
		if v == "" {
			return "", Invalid(message)
		}
		return v, nil
	}
}

// Optional accepts anything. A blank answer or "-" yields "".
func Optional() Parser {
	return func(_ context.Context, input string) (string, error) {
		v := strings.TrimSpace(input)
		if v == "-" {
			return "", nil
		}
		return v, nil
	}
}

// Upper is Text with the answer upper-cased.
func Upper(message string) Parser {
	text := Text(message)
	return func(ctx context.Context, input string) (string, error) {
		v, err := text(ctx, input)
		return strings.ToUpper(v), err
	}
}

// Amount accepts a decimal number, with either a dot or a comma, rounded to
// two places.
func Amount(message string) Parser {
	return func(_ context.Context, input string) (string, error) {
		d, err := model.ParseAmount(input)
		if err != nil {
			return "", Invalid(message)
		}
		return d.StringFixed(2), nil
	}
}

// Int accepts a whole number.
func Int(message string) Parser {
	return func(_ context.Context, input string) (string, error) {
		n, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil {
			return "", Invalid(message)
		}
		return strconv.Itoa(n), nil
	}
}

// OneOf accepts one of the given lower-case choices, in any case.
func OneOf(message string, choices ...string) Parser {
	return func(_ context.Context, input string) (string, error) {
		v := strings.ToLower(strings.TrimSpace(input))
		for _, c := range choices {
			if v == c {
				return v, nil
			}
		}
		return "", Invalid(message)
	}
}

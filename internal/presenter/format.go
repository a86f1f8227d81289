package presenter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultDateLayout is the medium date format used on cards: "Jan 5, 2024".
const DefaultDateLayout = "Jan 2, 2006"

// DateRangeSeparator joins the start and end of a reservation label
const DateRangeSeparator = " - "

var ErrMissingDate = errors.New("date is missing")

var dateInputLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FormatError reports a reservation date that could not be turned into a label.
type FormatError struct {
	Field string
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("format %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("format %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// ParseDate accepts RFC3339 timestamps and plain calendar dates.
func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, &FormatError{Field: field, Err: ErrMissingDate}
	}

	var lastErr error
	for _, layout := range dateInputLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, &FormatError{Field: field, Value: value, Err: lastErr}
}

func formatDate(field string, t time.Time, layout string) (string, error) {
	if t.IsZero() {
		return "", &FormatError{Field: field, Err: ErrMissingDate}
	}
	return t.Format(layout), nil
}

// PriceFormatter renders prices with a currency symbol and locale digit grouping
type PriceFormatter struct {
	symbol  string
	printer *message.Printer
}

func NewPriceFormatter(symbol, locale string) *PriceFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	return &PriceFormatter{
		symbol:  symbol,
		printer: message.NewPrinter(tag),
	}
}

func (f *PriceFormatter) Format(price float64) string {
	return f.symbol + f.printer.Sprint(number.Decimal(price, number.MaxFractionDigits(2)))
}

package project

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Validatable is a single labeled value and the constraints it must meet.
// Nil bounds are not checked. Length bounds only apply to string values and
// numeric bounds only apply to numeric values; a mismatched bound is skipped.
type Validatable struct {
	Value     any
	Required  bool
	MinLength *int
	MaxLength *int
	Min       *float64
	Max       *float64
}

// Validate reports whether v satisfies every present constraint.
// All bounds are exclusive: a value equal to a bound fails.
func Validate(v Validatable) bool {
	text, isText := v.Value.(string)
	num, isNum := toFloat(v.Value)

	valid := true
	if v.Required {
		if isText {
			valid = valid && len(strings.TrimSpace(text)) != 0
		} else {
			valid = valid && v.Value != nil
		}
	}
	if v.MinLength != nil && isText {
		valid = valid && utf8.RuneCountInString(strings.TrimSpace(text)) > *v.MinLength
	}
	if v.MaxLength != nil && isText {
		valid = valid && utf8.RuneCountInString(strings.TrimSpace(text)) < *v.MaxLength
	}
	if v.Min != nil && isNum {
		valid = valid && num > *v.Min
	}
	if v.Max != nil && isNum {
		valid = valid && num < *v.Max
	}
	return valid
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// Rules holds the constraints applied to the project form.
type Rules struct {
	TitleMinLength       int
	DescriptionMinLength int
	PeopleMin            int
	PeopleMax            int
}

// DefaultRules returns the stock form constraints.
func DefaultRules() Rules {
	return Rules{
		TitleMinLength:       5,
		DescriptionMinLength: 5,
		PeopleMin:            1,
		PeopleMax:            5,
	}
}

// ValidateCreateInput checks a form submission against the rules.
func (r Rules) ValidateCreateInput(req CreateRequest) error {
	title := Validatable{Value: req.Title, Required: true, MinLength: intPtr(r.TitleMinLength)}
	description := Validatable{Value: req.Description, Required: true, MinLength: intPtr(r.DescriptionMinLength)}
	people := Validatable{Value: req.People, Required: true, Min: floatPtr(r.PeopleMin), Max: floatPtr(r.PeopleMax)}

	if !Validate(title) || !Validate(description) || !Validate(people) {
		return ErrInvalidInput
	}
	return nil
}

// ParsePeople converts a form field to a people count.
func ParsePeople(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: people must be a number", ErrInvalidInput)
	}
	return n, nil
}

func intPtr(v int) *int { return &v }

func floatPtr(v int) *float64 {
	f := float64(v)
	return &f
}

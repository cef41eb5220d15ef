package validate

import (
	"fmt"
	"sort"
)

// Check validates a single field value.
type Check func(v any) Result

// Rules maps a field name to its checks, run in order.
type Rules map[string][]Check

// FormResult holds the first failing message per field.
type FormResult struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// Fields returns the failing field names in sorted order.
func (r FormResult) Fields() []string {
	names := make([]string, 0, len(r.Errors))
	for k := range r.Errors {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Form runs rules against data, stopping at the first failure for each field.
func Form(data map[string]any, rules Rules) FormResult {
	res := FormResult{Valid: true, Errors: map[string]string{}}
	for field, checks := range rules {
		value := data[field]
		for _, check := range checks {
			if r := check(value); !r.Valid {
				res.Errors[field] = r.Error
				res.Valid = false
				break
			}
		}
	}
	return res
}

func requiredWith(msg string) Check {
	return func(v any) Result { return Required(v, msg) }
}

func stringCheck(fn func(string) Result) Check {
	return func(v any) Result {
		switch t := v.(type) {
		case nil:
			return fn("")
		case string:
			return fn(t)
		default:
			return fn(fmt.Sprint(t))
		}
	}
}

// QuoteData validates a quote request form. The discount value is checked as
// a percentage or an amount depending on discount_type.
func QuoteData(data map[string]any) FormResult {
	rules := Rules{
		"client_name":         {requiredWith("Le nom du client est requis")},
		"client_email":        {stringCheck(func(s string) Result { return Email(s, true) })},
		"client_phone":        {stringCheck(func(s string) Result { return Phone(s, false) })},
		"project_description": {requiredWith("La description du projet est requise")},
		"project_type":        {requiredWith("Le type de projet est requis")},
	}
	switch data["discount_type"] {
	case "percent":
		rules["discount_value"] = []Check{func(v any) Result { return Percentage(v, true) }}
	case "fixed":
		rules["discount_value"] = []Check{func(v any) Result { return Amount(v, true) }}
	}
	return Form(data, rules)
}

// ContactData validates the contact form. The phone is only checked when given.
func ContactData(data map[string]any) FormResult {
	rules := Rules{
		"name":    {requiredWith("Le nom est requis")},
		"email":   {stringCheck(func(s string) Result { return Email(s, true) })},
		"subject": {requiredWith("Le sujet est requis")},
		"message": {
			requiredWith("Le message est requis"),
			stringCheck(func(s string) Result { return MinLength(s, 10) }),
		},
	}
	if phone, _ := data["phone"].(string); phone != "" {
		rules["phone"] = []Check{stringCheck(func(s string) Result { return Phone(s, false) })}
	}
	return Form(data, rules)
}

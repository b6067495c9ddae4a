package candidate

import (
	"fmt"
	"strings"
)

// Field names as they appear in forms, validation messages and the stored log.
const (
	FieldFullName        = "full_name"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldYearsExperience = "years_experience"
	FieldDesiredPosition = "desired_position"
	FieldCurrentLocation = "current_location"
	FieldTechStack       = "tech_stack"
	FieldConsent         = "consent"
)

// RequiredFields lists the fields a record needs before questions can be generated, in form order.
var RequiredFields = []string{
	FieldFullName,
	FieldEmail,
	FieldPhone,
	FieldYearsExperience,
	FieldDesiredPosition,
	FieldCurrentLocation,
	FieldTechStack,
}

// Labels are the human readable prompts for each field.
var Labels = map[string]string{
	FieldFullName:        "Full Name",
	FieldEmail:           "Email",
	FieldPhone:           "Phone",
	FieldYearsExperience: "Years of Experience",
	FieldDesiredPosition: "Desired Position",
	FieldCurrentLocation: "Location",
	FieldTechStack:       "Tech Stack (comma separated)",
	FieldConsent:         "Consent to anonymized storage",
}

// Draft is a candidate record under construction. An empty string or nil
// slice means the field has not been provided yet.
type Draft struct {
	FullName        string   `json:"full_name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	YearsExperience string   `json:"years_experience"`
	DesiredPosition string   `json:"desired_position"`
	CurrentLocation string   `json:"current_location"`
	TechStack       []string `json:"tech_stack"`
	Consent         bool     `json:"consent"`
}

// Complete is a record with every required field present. Build it with Draft.Complete.
type Complete struct {
	Draft
}

// MissingFieldsError reports the required fields a draft still lacks.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// Merge copies every field present in other over d. Consent is only ever raised, never cleared.
func (d *Draft) Merge(other Draft) {
	if other.FullName != "" {
		d.FullName = other.FullName
	}
	if other.Email != "" {
		d.Email = other.Email
	}
	if other.Phone != "" {
		d.Phone = other.Phone
	}
	if other.YearsExperience != "" {
		d.YearsExperience = other.YearsExperience
	}
	if other.DesiredPosition != "" {
		d.DesiredPosition = other.DesiredPosition
	}
	if other.CurrentLocation != "" {
		d.CurrentLocation = other.CurrentLocation
	}
	if len(other.TechStack) > 0 {
		d.TechStack = append([]string(nil), other.TechStack...)
	}
	if other.Consent {
		d.Consent = true
	}
}

// Value returns the textual value of a named field, tech stack joined by ", ".
func (d *Draft) Value(field string) string {
	switch field {
	case FieldFullName:
		return d.FullName
	case FieldEmail:
		return d.Email
	case FieldPhone:
		return d.Phone
	case FieldYearsExperience:
		return d.YearsExperience
	case FieldDesiredPosition:
		return d.DesiredPosition
	case FieldCurrentLocation:
		return d.CurrentLocation
	case FieldTechStack:
		return strings.Join(d.TechStack, ", ")
	case FieldConsent:
		if d.Consent {
			return "true"
		}
		return "false"
	}
	return ""
}

// Complete validates the draft and freezes a copy of it.
func (d Draft) Complete() (Complete, error) {
	if missing := Missing(d); len(missing) > 0 {
		return Complete{}, &MissingFieldsError{Fields: missing}
	}
	d.TechStack = append([]string(nil), d.TechStack...)
	return Complete{Draft: d}, nil
}

// DisplayName is the name used in prompts.
func (c Complete) DisplayName() string {
	if c.FullName == "" {
		return "Candidate"
	}
	return c.FullName
}

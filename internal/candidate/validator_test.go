package candidate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeDraft() Draft {
	return Draft{
		FullName:        "Jane Doe",
		Email:           "jane@example.com",
		Phone:           "+15551234567",
		YearsExperience: "5",
		DesiredPosition: "Backend Engineer",
		CurrentLocation: "Berlin",
		TechStack:       []string{"Python", "Go"},
	}
}

func TestMissingCompleteDraft(t *testing.T) {
	missing := Missing(completeDraft())
	assert.NotNil(t, missing)
	assert.Empty(t, missing)
}

func TestMissingSingleField(t *testing.T) {
	tests := []struct {
		name  string
		clear func(*Draft)
		want  string
	}{
		{"Full name", func(d *Draft) { d.FullName = "" }, FieldFullName},
		{"Email", func(d *Draft) { d.Email = "" }, FieldEmail},
		{"Phone", func(d *Draft) { d.Phone = "" }, FieldPhone},
		{"Years", func(d *Draft) { d.YearsExperience = "" }, FieldYearsExperience},
		{"Position", func(d *Draft) { d.DesiredPosition = "" }, FieldDesiredPosition},
		{"Location", func(d *Draft) { d.CurrentLocation = "" }, FieldCurrentLocation},
		{"Tech stack", func(d *Draft) { d.TechStack = nil }, FieldTechStack},
		{"Whitespace name", func(d *Draft) { d.FullName = "   " }, FieldFullName},
		{"Blank tech entries", func(d *Draft) { d.TechStack = []string{" ", ""} }, FieldTechStack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := completeDraft()
			tt.clear(&d)
			assert.Equal(t, []string{tt.want}, Missing(d))
		})
	}
}

func TestMissingEmptyDraftFollowsFormOrder(t *testing.T) {
	assert.Equal(t, RequiredFields, Missing(Draft{}))
}

func TestMissingIgnoresConsent(t *testing.T) {
	d := completeDraft()
	d.Consent = false
	assert.Empty(t, Missing(d))
}

func TestDraftComplete(t *testing.T) {
	d := completeDraft()
	c, err := d.Complete()
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", c.DisplayName())

	// the frozen copy does not share the tech stack
	d.TechStack[0] = "Rust"
	assert.Equal(t, "Python", c.TechStack[0])

	_, err = Draft{Email: "a@b.com"}.Complete()
	var missing *MissingFieldsError
	require.True(t, errors.As(err, &missing))
	assert.NotContains(t, missing.Fields, FieldEmail)
	assert.Contains(t, err.Error(), FieldFullName)
}

func TestDraftMerge(t *testing.T) {
	d := Draft{FullName: "Jane", Consent: true}
	d.Merge(Draft{Email: "jane@example.com", TechStack: []string{"Go"}})

	assert.Equal(t, "Jane", d.FullName)
	assert.Equal(t, "jane@example.com", d.Email)
	assert.Equal(t, []string{"Go"}, d.TechStack)
	assert.True(t, d.Consent)

	d.Merge(Draft{FullName: "Jane Doe"})
	assert.Equal(t, "Jane Doe", d.FullName)
	assert.True(t, d.Consent)
}

func TestDisplayNameDefault(t *testing.T) {
	assert.Equal(t, "Candidate", Complete{}.DisplayName())
}

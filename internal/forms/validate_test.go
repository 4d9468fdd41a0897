package forms

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koen-wskcorporation/sportssass-sub002/internal/models"
)

func registrationSchema() []models.FormField {
	return []models.FormField{
		{Key: "name", Label: "Name", Type: FieldText, Required: true},
		{Key: "email", Label: "Email", Type: FieldEmail, Required: true},
		{Key: "notes", Label: "Notes", Type: FieldTextarea},
		{Key: "division", Label: "Division", Type: FieldSelect, Required: true, Options: []string{"u8", "u10", "u12"}},
		{Key: "waiver", Label: "Waiver", Type: FieldCheckbox, Required: true},
	}
}

func TestValidateAnswersHappyPath(t *testing.T) {
	doc, errs := ValidateAnswers(registrationSchema(), map[string]interface{}{
		"name":     "  Pat Jones ",
		"email":    "pat@example.com",
		"division": "u10",
		"waiver":   true,
	})
	require.Empty(t, errs)

	var clean map[string]interface{}
	require.NoError(t, json.Unmarshal(doc, &clean))
	assert.Equal(t, "Pat Jones", clean["name"], "strings are trimmed")
	assert.Equal(t, "u10", clean["division"])
	assert.Equal(t, true, clean["waiver"])
	_, hasNotes := clean["notes"]
	assert.False(t, hasNotes, "absent optional fields stay absent")
}

func TestValidateAnswersMissingRequired(t *testing.T) {
	_, errs := ValidateAnswers(registrationSchema(), map[string]interface{}{
		"email": "pat@example.com",
	})
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "division")
	assert.Contains(t, errs, "waiver")
	assert.NotContains(t, errs, "email")
}

func TestValidateAnswersBadEmail(t *testing.T) {
	for _, bad := range []string{"not-an-email", "a@b", "a b@c.com", "@example.com"} {
		_, errs := ValidateAnswers(registrationSchema(), map[string]interface{}{
			"name": "Pat", "email": bad, "division": "u8", "waiver": true,
		})
		assert.Contains(t, errs, "email", "email %q should fail", bad)
	}
}

func TestValidateAnswersSelectOutsideOptions(t *testing.T) {
	_, errs := ValidateAnswers(registrationSchema(), map[string]interface{}{
		"name": "Pat", "email": "pat@example.com", "division": "u99", "waiver": true,
	})
	assert.Contains(t, errs, "division")
}

func TestValidateAnswersMultiSelect(t *testing.T) {
	schema := []models.FormField{
		{Key: "days", Label: "Days", Type: FieldSelect, Options: []string{"mon", "wed", "fri"}},
	}
	doc, errs := ValidateAnswers(schema, map[string]interface{}{
		"days": []interface{}{"mon", "fri"},
	})
	require.Empty(t, errs)
	var clean map[string]interface{}
	require.NoError(t, json.Unmarshal(doc, &clean))
	assert.Equal(t, []interface{}{"mon", "fri"}, clean["days"])
}

func TestValidateAnswersCheckboxRequired(t *testing.T) {
	_, errs := ValidateAnswers(registrationSchema(), map[string]interface{}{
		"name": "Pat", "email": "pat@example.com", "division": "u8", "waiver": false,
	})
	assert.Contains(t, errs, "waiver")
}

func TestValidateAnswersDropsUnknownKeys(t *testing.T) {
	doc, errs := ValidateAnswers(registrationSchema(), map[string]interface{}{
		"name": "Pat", "email": "pat@example.com", "division": "u8", "waiver": true,
		"admin": true, "injected": "x",
	})
	require.Empty(t, errs)
	var clean map[string]interface{}
	require.NoError(t, json.Unmarshal(doc, &clean))
	assert.NotContains(t, clean, "admin")
	assert.NotContains(t, clean, "injected")
}

func TestValidateAnswersNilAnswers(t *testing.T) {
	_, errs := ValidateAnswers(registrationSchema(), nil)
	assert.NotEmpty(t, errs, "required fields still enforced with no answers at all")
}

func TestValidateAnswersWrongTypes(t *testing.T) {
	_, errs := ValidateAnswers(registrationSchema(), map[string]interface{}{
		"name": 42, "email": []interface{}{"a"}, "division": 7, "waiver": "yes",
	})
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "division")
	assert.Contains(t, errs, "waiver")
}

func TestValidateSchema(t *testing.T) {
	errs := ValidateSchema([]models.FormField{
		{Key: "ok_field", Label: "OK", Type: FieldText},
		{Key: "Bad Key!", Label: "Bad", Type: FieldText},
		{Key: "ok_field", Label: "Dup", Type: FieldText},
		{Key: "no_options", Label: "Select", Type: FieldSelect},
		{Key: "mystery", Label: "Mystery", Type: "slider"},
		{Key: "unlabeled", Label: "  ", Type: FieldText},
	})
	assert.Contains(t, errs, "fields[1].key")
	assert.Contains(t, errs, "fields[2].key")
	assert.Contains(t, errs, "fields[3].options")
	assert.Contains(t, errs, "fields[4].type")
	assert.Contains(t, errs, "fields[5].label")
	assert.NotContains(t, errs, "fields[0].key")
}

func TestParseFieldsEmpty(t *testing.T) {
	fields, err := ParseFields(nil)
	require.NoError(t, err)
	assert.Empty(t, fields)

	fields, err = ParseFields(json.RawMessage("null"))
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestParseFieldsInvalid(t *testing.T) {
	_, err := ParseFields(json.RawMessage("{not json"))
	assert.Error(t, err)
}

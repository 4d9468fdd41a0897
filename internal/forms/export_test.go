package forms

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koen-wskcorporation/sportssass-sub002/internal/models"
)

func exportFixture(t *testing.T) (*models.Form, []models.Submission) {
	t.Helper()
	form := &models.Form{
		ID:   uuid.New(),
		Slug: "registration",
		Name: "Player Registration",
	}
	versionID := uuid.New()
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	subs := []models.Submission{
		{
			ID: uuid.New(), FormID: form.ID, VersionID: versionID, VersionNumber: 2,
			Status:  models.SubmissionStatusNew,
			Answers: json.RawMessage(`{"name":"Pat","waiver":true,"days":["mon","fri"]}`),
			CreatedAt: created,
		},
		{
			ID: uuid.New(), FormID: form.ID, VersionID: versionID, VersionNumber: 2,
			Status:  models.SubmissionStatusReviewed,
			Answers: json.RawMessage(`{"name":"Sam","email":"sam@example.com"}`),
			CreatedAt: created.Add(time.Hour),
		},
	}
	return form, subs
}

func TestWriteSubmissionsCSVHeader(t *testing.T) {
	form, subs := exportFixture(t)
	var buf bytes.Buffer
	require.NoError(t, WriteSubmissionsCSV(&buf, form, subs))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Answer columns are the union of keys, lexicographically sorted.
	assert.Equal(t, []string{
		"submission_id", "form_id", "form_slug", "form_name",
		"status", "created_at", "version_id", "version_number",
		"answer.days", "answer.email", "answer.name", "answer.waiver",
	}, rows[0])
}

func TestWriteSubmissionsCSVRows(t *testing.T) {
	form, subs := exportFixture(t)
	var buf bytes.Buffer
	require.NoError(t, WriteSubmissionsCSV(&buf, form, subs))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	first := rows[1]
	assert.Equal(t, subs[0].ID.String(), first[0])
	assert.Equal(t, form.ID.String(), first[1])
	assert.Equal(t, "registration", first[2])
	assert.Equal(t, "Player Registration", first[3])
	assert.Equal(t, "new", first[4])
	assert.Equal(t, "2026-03-14T09:30:00Z", first[5])
	assert.Equal(t, subs[0].VersionID.String(), first[6])
	assert.Equal(t, "2", first[7])
	assert.Equal(t, "mon | fri", first[8], "arrays join with a pipe")
	assert.Equal(t, "", first[9], "missing key leaves the cell empty")
	assert.Equal(t, "Pat", first[10])
	assert.Equal(t, "true", first[11], "booleans render as true/false")

	second := rows[2]
	assert.Equal(t, "", second[8])
	assert.Equal(t, "sam@example.com", second[9])
	assert.Equal(t, "Sam", second[10])
	assert.Equal(t, "", second[11])
}

func TestWriteSubmissionsCSVEmpty(t *testing.T) {
	form, _ := exportFixture(t)
	var buf bytes.Buffer
	require.NoError(t, WriteSubmissionsCSV(&buf, form, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
	assert.Equal(t, "submission_id", rows[0][0])
}

func TestAnswerCell(t *testing.T) {
	assert.Equal(t, "", answerCell(nil))
	assert.Equal(t, "plain", answerCell("plain"))
	assert.Equal(t, "false", answerCell(false))
	assert.Equal(t, "3", answerCell(float64(3)))
	assert.Equal(t, "1.5", answerCell(1.5))
	assert.Equal(t, "a | b", answerCell([]interface{}{"a", "b"}))
}

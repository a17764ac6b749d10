package request

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_InvalidJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/", bytes.NewBufferString("{bad json"))

	var req CreateSchedule
	err := Decode(r, &req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestDecode_MissingFieldsReturnFieldErrors(t *testing.T) {
	r := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{}`))

	var req CreateSchedule
	err := Decode(r, &req)
	require.Error(t, err)

	var fieldErrs FieldErrors
	require.True(t, errors.As(err, &fieldErrs))
	// One entry per missing field, keyed by JSON name.
	assert.Equal(t, []string{"This field is required"}, fieldErrs["taskType"])
	assert.Equal(t, []string{"This field is required"}, fieldErrs["taskParams"])
	assert.Equal(t, []string{"This field is required"}, fieldErrs["frequencyMillis"])
	assert.Len(t, fieldErrs, 3)
}

func TestDecode_NonPositiveFrequency(t *testing.T) {
	body := `{"taskType":"BackupUniverse","taskParams":{"universeUUID":"u1"},"frequencyMillis":-5}`
	r := httptest.NewRequest("POST", "/", bytes.NewBufferString(body))

	var req CreateSchedule
	err := Decode(r, &req)
	require.Error(t, err)

	var fieldErrs FieldErrors
	require.True(t, errors.As(err, &fieldErrs))
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, []string{"This field must be greater than 0"}, fieldErrs["frequencyMillis"])
}

func TestDecode_ValidCreateSchedule(t *testing.T) {
	body := `{"taskType":"BackupUniverse","taskParams":{"universeUUID":"u1","storageConfigUUID":"c1"},"frequencyMillis":1000}`
	r := httptest.NewRequest("POST", "/", bytes.NewBufferString(body))

	var req CreateSchedule
	err := Decode(r, &req)
	require.NoError(t, err)
	assert.Equal(t, "BackupUniverse", req.TaskType)
	assert.Equal(t, int64(1000), req.FrequencyMillis)
	assert.JSONEq(t, `{"universeUUID":"u1","storageConfigUUID":"c1"}`, string(req.TaskParams))
}

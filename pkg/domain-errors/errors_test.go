package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("matches wrapped domain error", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", New(CodeNotFound, "petition not found"))
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeConflict))
	})

	t.Run("plain errors have no code", func(t *testing.T) {
		err := errors.New("boom")
		assert.False(t, HasCode(err, CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(err))
	})

	t.Run("wrap keeps the cause", func(t *testing.T) {
		cause := errors.New("db down")
		err := Wrap(cause, CodeInternal, "failed to load petition")
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "failed to load petition: db down", err.Error())
	})
}

func TestFieldErrors(t *testing.T) {
	var fields FieldErrors
	require.NoError(t, fields.Err())

	fields.Add("name", "must be between 3 and 255 characters")
	fields.Add("target", "must be greater than 0")

	err := fields.Err()
	require.Error(t, err)
	assert.True(t, HasCode(err, CodeValidation))
	assert.Len(t, FieldsOf(err), 2)
	assert.Equal(t, "invalid fields: name, target", err.Error())
}

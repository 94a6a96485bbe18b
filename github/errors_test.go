package github

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *FieldError
		expected string
	}{
		{
			"missing field",
			&FieldError{Number: 42, Field: "title"},
			`issue #42: field "title" is missing`,
		},
		{
			"wrapped cause",
			&FieldError{Number: 7, Field: "pull_request", Err: ErrNotPull},
			`issue #7: field "pull_request": issue is not a pull request`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestFieldErrorUnwrap(t *testing.T) {
	cause := errors.New("bad syntax")
	err := &FieldError{Number: 1, Field: "url", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Nil(t, (&FieldError{Number: 1, Field: "url"}).Unwrap())
}

package core

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	assert.Equal(t, "validation error", NewValidationError(nil).Error())
	assert.Equal(t, "email: taken", NewValidationError(nil, FieldError{Field: "email", Error: "taken"}).Error())
	assert.Equal(t, "bad input", NewValidationError(errors.New("bad input")).Error())
}

func TestErrorKinds(t *testing.T) {
	notFound := NewNotFoundError("Fee record not found")
	wrapped := errors.Wrap(notFound, "recording payment")

	assert.True(t, IsNotFound(notFound))
	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, "recording payment: Fee record not found", wrapped.Error())
	assert.False(t, IsNotFound(NewForbiddenError("nope")))
	assert.False(t, IsNotFound(errors.New("Fee record not found")))

	assert.True(t, IsShutdown(errors.Wrap(NewShutdownError("integrity"), "committing")))
	assert.False(t, IsShutdown(wrapped))
}

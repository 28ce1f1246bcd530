package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsIdentity(t *testing.T) {
	err := Clone(ErrForbidden, "token does not match buyer")
	assert.Equal(t, "token does not match buyer", err.Message)
	assert.True(t, errors.Is(err, ErrForbidden))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "forbidden access", ErrForbidden.Message)
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	appErr := FromError(fmt.Errorf("boom"))
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, ErrInternal.Code, appErr.Code)

	wrapped := fmt.Errorf("outer: %w", Store(errors.New("conn reset"), "failed to load"))
	appErr = FromError(wrapped)
	assert.Equal(t, ErrStoreUnavailable.Code, appErr.Code)
	assert.Contains(t, appErr.Error(), "conn reset")
}

package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMyError(t *testing.T) {
	inner := errors.New("underlying")
	e := NewMyError(ErrBadParameter, "invalid input", inner)
	require.NotNil(t, e)
	assert.Equal(t, ErrBadParameter, e.Code)
	assert.Equal(t, "invalid input", e.Message)
	assert.Same(t, inner, e.Inner)
	assert.ErrorIs(t, e, inner)
}

func TestNewInternalServerError(t *testing.T) {
	e := NewInternalServerError("read failed", nil)
	require.NotNil(t, e)
	assert.Equal(t, ErrInternalServerError, e.Code)
	assert.Equal(t, "read failed", e.Message)
}

func TestNewStoreUnavailableError(t *testing.T) {
	e := NewStoreUnavailableError("query failed", errors.New("connection refused"))
	assert.True(t, IsStoreUnavailableError(e))
	assert.Contains(t, e.Error(), "connection refused")
}

func TestNewStoreUnavailableError_KeepsInnerMyError(t *testing.T) {
	inner := NewBadParameterError("unknown kind", nil)
	e := NewStoreUnavailableError("query failed", fmt.Errorf("wrapped: %w", inner))
	assert.Same(t, inner, e)
	assert.True(t, IsBadParameterError(e))
}

func TestNewConfigError(t *testing.T) {
	e := NewConfigError("SERVICE_PORT_HTTP is required", nil)
	assert.True(t, IsConfigError(e))
	assert.Equal(t, "config_error SERVICE_PORT_HTTP is required", e.Error())
}

func TestToMyError_WithMyError(t *testing.T) {
	e := NewBadParameterError("bad", nil)
	got := ToMyError(e)
	require.NotNil(t, got)
	assert.Same(t, e, got)
}

func TestToMyError_WithOrdinaryError(t *testing.T) {
	e := errors.New("plain")
	assert.Nil(t, ToMyError(e))
	assert.Equal(t, "", ToMyErrorCode(e))
}

func TestIsEntityNotFoundError(t *testing.T) {
	e := NewEntityNotFoundError("gone", nil)
	assert.True(t, IsEntityNotFoundError(e))
	assert.Equal(t, ErrEntityNotFound, ToMyErrorCode(e))
}

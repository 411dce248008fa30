package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeListingNotFound, "listing hl-4412 not found")
	require.NotNil(t, err)
	assert.Equal(t, ErrCodeListingNotFound, err.Code)
	assert.Equal(t, "listing hl-4412 not found", err.Message)
	assert.NotEmpty(t, err.Stack, "New should capture a stack trace")
	assert.Nil(t, err.Cause)
}

func TestError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without detail",
			err:  &AppError{Code: ErrCodeNotFound, Message: "resource not found"},
			want: "[COMMON_003] resource not found",
		},
		{
			name: "with detail",
			err: &AppError{
				Code:    ErrCodeInsufficientComparables,
				Message: "not enough comparable listings",
				Detail:  "city=Beograd found=2 min=3",
			},
			want: "[VAL_001] not enough comparable listings: city=Beograd found=2 min=3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	t.Run("nil input returns nil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, ErrCodeDatabaseError, "query failed"))
	})

	t.Run("wraps plain error", func(t *testing.T) {
		cause := fmt.Errorf("connection refused")
		err := Wrap(cause, ErrCodeDatabaseError, "failed to query comparables")
		require.NotNil(t, err)
		assert.Equal(t, ErrCodeDatabaseError, err.Code)
		assert.Same(t, cause, err.Cause)
		assert.True(t, stderrors.Is(err, cause))
	})

	t.Run("CodeUnknown preserves wrapped code", func(t *testing.T) {
		inner := New(ErrCodeHistoryClosed, "history closed")
		err := Wrap(inner, CodeUnknown, "track failed")
		assert.Equal(t, ErrCodeHistoryClosed, err.Code)
	})

	t.Run("explicit code overrides wrapped code", func(t *testing.T) {
		inner := New(ErrCodeHistoryClosed, "history closed")
		err := Wrap(inner, ErrCodeInternal, "track failed")
		assert.Equal(t, ErrCodeInternal, err.Code)
	})
}

func TestWithDetailAndCause(t *testing.T) {
	base := New(ErrCodeListingInactive, "listing is no longer active")
	detailed := base.WithDetail("id=halo-991")

	assert.Empty(t, base.Detail, "WithDetail must not mutate the receiver")
	assert.Equal(t, "id=halo-991", detailed.Detail)
	assert.Equal(t, base.Code, detailed.Code)

	cause := fmt.Errorf("stale snapshot")
	caused := detailed.WithCause(cause)
	assert.Nil(t, detailed.Cause, "WithCause must not mutate the receiver")
	assert.Same(t, cause, caused.Cause)

	var nilErr *AppError
	assert.Nil(t, nilErr.WithDetail("x"))
	assert.Nil(t, nilErr.WithCause(cause))
}

func TestIsCode(t *testing.T) {
	inner := New(ErrCodeTierTableMiss, "location not covered")
	outer := Wrap(inner, ErrCodeInternal, "valuation failed")
	chained := fmt.Errorf("pipeline: %w", outer)

	assert.True(t, IsCode(chained, ErrCodeTierTableMiss))
	assert.True(t, IsCode(chained, ErrCodeInternal))
	assert.False(t, IsCode(chained, ErrCodeCacheError))
	assert.False(t, IsCode(nil, ErrCodeInternal))
	assert.False(t, IsCode(fmt.Errorf("plain"), ErrCodeInternal))
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"generic not found", NotFound("gone"), true},
		{"listing not found", New(ErrCodeListingNotFound, "gone"), true},
		{"history not found", New(ErrCodeHistoryNotFound, "gone"), true},
		{"wrapped listing not found", Wrap(New(ErrCodeListingNotFound, "gone"), ErrCodeInternal, "ctx"), true},
		{"conflict is not a not-found", Conflict("dup"), false},
		{"plain error", fmt.Errorf("boom"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNotFound(tt.err))
		})
	}
}

func TestIsUnavailable(t *testing.T) {
	assert.True(t, IsUnavailable(InsufficientComparables("only 2 in window")))
	assert.True(t, IsUnavailable(EstimateUnavailable("no tier row")))
	assert.True(t, IsUnavailable(New(ErrCodeTierTableMiss, "Subotica")))
	assert.False(t, IsUnavailable(New(ErrCodeDatabaseError, "down")))
	assert.False(t, IsUnavailable(nil))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(fmt.Errorf("plain")))
	assert.Equal(t, ErrCodeMalformedInput, GetCode(MalformedInput("bad area")))

	wrapped := fmt.Errorf("outer: %w", New(ErrCodeIdentityCollision, "collision"))
	assert.Equal(t, ErrCodeIdentityCollision, GetCode(wrapped))
}

func TestConvenienceFactories(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code ErrorCode
	}{
		{"NotFound", NotFound("m"), ErrCodeNotFound},
		{"InvalidParam", InvalidParam("m"), ErrCodeBadRequest},
		{"InvalidState", InvalidState("m"), ErrCodeConflict},
		{"Internal", Internal("m"), ErrCodeInternal},
		{"Conflict", Conflict("m"), ErrCodeConflict},
		{"InsufficientComparables", InsufficientComparables("m"), ErrCodeInsufficientComparables},
		{"EstimateUnavailable", EstimateUnavailable("m"), ErrCodeEstimateUnavailable},
		{"MissingRequiredField", MissingRequiredField("m"), ErrCodeMissingRequiredField},
		{"MalformedInput", MalformedInput("m"), ErrCodeMalformedInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.err)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, "m", tt.err.Message)
		})
	}
}

//Personal.AI order the ending

package errors

import (
	"database/sql"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardError_IsMatchesByCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{
			name:   "validation matches sentinel",
			err:    NewValidationError("chara_name", "cannot be blank"),
			target: ErrValidation,
			want:   true,
		},
		{
			name:   "referential integrity matches sentinel",
			err:    NewReferentialIntegrityError(42, sql.ErrConnDone),
			target: ErrReferentialIntegrity,
			want:   true,
		},
		{
			name:   "wrapped error still matches",
			err:    fmt.Errorf("add character: %w", NewReferentialIntegrityError(7, nil)),
			target: ErrReferentialIntegrity,
			want:   true,
		},
		{
			name:   "different code does not match",
			err:    NewDuplicateFranchiseError("Naruto", nil),
			target: ErrValidation,
			want:   false,
		},
		{
			name:   "plain error does not match",
			err:    stderrors.New("boom"),
			target: ErrValidation,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stderrors.Is(tt.err, tt.target))
		})
	}
}

func TestStandardError_UnwrapExposesCause(t *testing.T) {
	cause := stderrors.New("FOREIGN KEY constraint failed")
	err := NewReferentialIntegrityError(3, cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.Contains(t, err.Error(), "REFERENTIAL_INTEGRITY")
	assert.Contains(t, err.Error(), "franchiseId: 3")
}

func TestNewValidationError_RecordsField(t *testing.T) {
	err := NewValidationError("franchise_name", "cannot be blank")

	assert.Equal(t, ErrCodeValidationFailed, err.Code)
	assert.Equal(t, "franchise_name", err.Field())
	assert.False(t, err.Timestamp.IsZero())
}

func TestNormalize(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, Normalize(nil))
		assert.Equal(t, ErrorCode(""), CodeOf(nil))
	})

	t.Run("standard error passes through wrapping", func(t *testing.T) {
		orig := NewQueryExecutionFailedError("get_all_characters", stderrors.New("disk I/O error"))
		got := Normalize(fmt.Errorf("outer: %w", orig))
		require.NotNil(t, got)
		assert.Same(t, orig, got)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		got := Normalize(stderrors.New("unexpected"))
		assert.Equal(t, ErrCodeInternal, got.Code)
		assert.Equal(t, "unexpected", got.Details)
	})
}

func TestLogFields(t *testing.T) {
	err := NewValidationError("chara_name", "cannot be blank")
	fields := err.LogFields()

	assert.Equal(t, "VALIDATION_FAILED", fields["errorCode"])
	assert.Equal(t, "cannot be blank", fields["errorDetails"])
	assert.Equal(t, "chara_name", fields["field"])
}

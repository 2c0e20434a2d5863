package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func TestClassify_SQLiteCodes(t *testing.T) {
	tests := []struct {
		code  sqlite3.ErrNo
		reset bool
	}{
		{sqlite3.ErrBusy, false},
		{sqlite3.ErrLocked, false},
		{sqlite3.ErrFull, false},
		{sqlite3.ErrIoErr, false},
		{sqlite3.ErrCorrupt, true},
		{sqlite3.ErrNotADB, true},
	}

	for _, tt := range tests {
		err := classify("insert", TableHandshakes, sqlite3.Error{Code: tt.code})
		assert.Equal(t, tt.reset, RequiresReset(err), "code %d", tt.code)
		assert.Equal(t, !tt.reset, IsRetryable(err), "code %d", tt.code)
	}
}

func TestClassify_WrappedAndUnknown(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", classify("prune", "", sqlite3.Error{Code: sqlite3.ErrCorrupt}))
	assert.True(t, RequiresReset(wrapped))

	plain := classify("query", TableContacts, errors.New("disk went away"))
	assert.True(t, IsRetryable(plain))
	assert.Contains(t, plain.Error(), "query contacts (RETRYABLE)")
}

func TestClassify_KeepsExistingClassification(t *testing.T) {
	inner := malformedRow(TableContacts, errors.New("bad"))
	out := classify("iterate", TableContacts, inner)

	assert.Same(t, inner, out)
	assert.True(t, IsMalformedRow(out))
}

func TestClassify_Nil(t *testing.T) {
	assert.NoError(t, classify("open", "", nil))
	assert.False(t, IsRetryable(nil))
	assert.False(t, RequiresReset(nil))
}

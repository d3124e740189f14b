package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAgent(t *testing.T) {
	a, err := NewAgent("t1", "  Support bot ", "u-1")
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "t1", a.TenantID)
	assert.Equal(t, "Support bot", a.Name)
	assert.Equal(t, "u-1", a.CreatedBy)
	assert.False(t, a.CreatedAt.IsZero())

	_, err = NewAgent("", "bot", "u-1")
	assert.ErrorIs(t, err, ErrTenantMandatory)

	_, err = NewAgent("t1", "   ", "u-1")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = NewAgent("t1", strings.Repeat("é", MaxNameLength), "u-1")
	assert.NoError(t, err, "length counts characters, not bytes")

	_, err = NewAgent("t1", strings.Repeat("a", MaxNameLength+1), "u-1")
	assert.ErrorIs(t, err, ErrInvalidName)
}

package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/lunchmatch/internal/utils/pagination"
)

func TestEncodeDecode(t *testing.T) {
	token, err := pagination.Encode(pagination.Cursor{ID: 42, CreatedUnix: 1700000000000})
	require.NoError(t, err)

	c, err := pagination.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), c.ID)
	assert.Equal(t, int64(1700000000000), c.CreatedUnix)
}

func TestDecode_EmptyAndInvalid(t *testing.T) {
	c, err := pagination.Decode("")
	require.NoError(t, err)
	assert.True(t, c.IsZero())

	_, err = pagination.Decode("%%%")
	assert.ErrorIs(t, err, pagination.ErrInvalidToken)

	_, err = pagination.Decode("bm90IGpzb24=")
	assert.ErrorIs(t, err, pagination.ErrInvalidToken)
}

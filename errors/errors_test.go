package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndWrap(t *testing.T) {
	err := New("base failure")
	require.NotNil(t, err)
	assert.Equal(t, "base failure", err.Error())

	wrapped := Wrap(err, "resolving constraints")
	assert.Contains(t, wrapped.Error(), "resolving constraints")
	assert.Contains(t, wrapped.Error(), "base failure")
	assert.True(t, Is(wrapped, err))
}

func TestWrapfPreservesSentinel(t *testing.T) {
	err := Wrapf(ErrUnknownUnit, "converting %q", "furlongs")
	assert.True(t, Is(err, ErrUnknownUnit))
	assert.Contains(t, err.Error(), "furlongs")
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrInvalidDocument,
		ErrUnknownUnit,
		ErrNoParcelGeometry,
		ErrUnsupportedSchema,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, Is(a, b), "sentinel %d matched sentinel %d", i, j)
		}
	}
}

func TestIsNotFound(t *testing.T) {
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(New("other")))
	assert.True(t, IsNotFound(ErrNotFound))
	assert.True(t, IsNotFound(Wrap(ErrNotFound, "district R-1")))
	assert.True(t, IsNotFound(NewNotFound("parcel %s", "P-17")))
}

func TestIsInvalidDocument(t *testing.T) {
	err := WrapInvalidDocument(New("missing uses_permitted"), "district 3")
	assert.True(t, IsInvalidDocument(err))
	assert.Contains(t, err.Error(), "district 3")
	assert.Contains(t, err.Error(), "missing uses_permitted")
}

func TestIsUnknownUnit(t *testing.T) {
	assert.False(t, IsUnknownUnit(nil))
	assert.True(t, IsUnknownUnit(Wrap(ErrUnknownUnit, "setback")))
}

func TestWithHint(t *testing.T) {
	err := WithHint(ErrInvalidDocument, "check the constraint group names")
	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "check the constraint group names", hints[0])
}

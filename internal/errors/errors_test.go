package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderPreservesWrappedError(t *testing.T) {
	t.Parallel()

	base := stderrors.New("connection refused")
	err := New(fmt.Errorf("opening database: %w", base)).
		Component("datastore").
		Category(CategoryDatabase).
		Context("operation", "open").
		Build()

	require.Error(t, err)
	assert.True(t, Is(err, base), "wrapped sentinel should survive the builder")

	var ee *EnhancedError
	require.True(t, As(err, &ee))
	assert.Equal(t, "datastore", ee.Component)
	assert.Equal(t, CategoryDatabase, ee.Category)
	assert.Equal(t, "open", ee.Context["operation"])
}

func TestBuildNilErrorReturnsNil(t *testing.T) {
	t.Parallel()

	assert.NoError(t, New(nil).Component("datastore").Build())
}

func TestCategoryOf(t *testing.T) {
	t.Parallel()

	err := Newf("bad filter key").Category(CategoryValidation).Build()
	assert.Equal(t, CategoryValidation, CategoryOf(err))
	assert.Equal(t, CategoryGeneric, CategoryOf(stderrors.New("plain")))
}

func TestIsMatchesByCategory(t *testing.T) {
	t.Parallel()

	a := Newf("one").Category(CategoryDatabase).Build()
	b := Newf("two").Category(CategoryDatabase).Build()
	assert.True(t, stderrors.Is(a, b), "errors sharing a category should match")
}

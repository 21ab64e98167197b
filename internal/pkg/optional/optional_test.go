package optional_test

import (
	"encoding/json"
	"testing"

	"pharmadelivery/internal/pkg/optional"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tourPatch struct {
	Name  optional.Field[string] `json:"name"`
	Color optional.Field[string] `json:"color"`
	Zone  optional.Field[string] `json:"zone"`
}

func TestField_States(t *testing.T) {
	t.Run("zero value is absent", func(t *testing.T) {
		var f optional.Field[int]

		assert.False(t, f.IsSet())
		assert.False(t, f.IsNull())
		_, ok := f.Value()
		assert.False(t, ok)
		assert.Nil(t, f.Ptr())
	})

	t.Run("null is set but carries no value", func(t *testing.T) {
		f := optional.Null[int]()

		assert.True(t, f.IsSet())
		assert.True(t, f.IsNull())
		assert.Nil(t, f.Ptr())
	})

	t.Run("value is set and not null", func(t *testing.T) {
		f := optional.Of(7)

		v, ok := f.Value()
		assert.True(t, f.IsSet())
		assert.False(t, f.IsNull())
		assert.True(t, ok)
		assert.Equal(t, 7, v)
		require.NotNil(t, f.Ptr())
		assert.Equal(t, 7, *f.Ptr())
	})
}

func TestField_UnmarshalJSON(t *testing.T) {
	var p tourPatch

	err := json.Unmarshal([]byte(`{"name":"North","zone":null}`), &p)

	require.NoError(t, err)
	name, ok := p.Name.Value()
	assert.True(t, ok)
	assert.Equal(t, "North", name)
	assert.True(t, p.Zone.IsSet())
	assert.True(t, p.Zone.IsNull())
	assert.False(t, p.Color.IsSet())
}

func TestField_UnmarshalJSON_InvalidType(t *testing.T) {
	var p tourPatch

	err := json.Unmarshal([]byte(`{"name":12}`), &p)

	require.Error(t, err)
}

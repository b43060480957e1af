package id

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IsUUID(t *testing.T) {
	v := New()
	_, err := uuid.Parse(v)
	assert.NoError(t, err)
	assert.NotEqual(t, v, New())
}

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	for range 1000 {
		v, err := Generate("tok")
		require.NoError(t, err)
		assert.False(t, ids[v], "duplicate id %s", v)
		ids[v] = true
	}
}

func TestGenerate_Format(t *testing.T) {
	for _, prefix := range []string{"tok", "req"} {
		t.Run(prefix, func(t *testing.T) {
			v, err := Generate(prefix)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(v, prefix+"-"))
			// prefix + hyphen + 21 char nanoid
			assert.Len(t, v, len(prefix)+1+21)
		})
	}
}

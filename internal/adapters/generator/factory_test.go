package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	gen, err := New(ProviderAnthropic, "key", testSettings)
	require.NoError(t, err)
	assert.IsType(t, &Claude{}, gen)

	gen, err = New(ProviderOpenRouter, "key", testSettings)
	require.NoError(t, err)
	assert.IsType(t, &OpenRouter{}, gen)

	_, err = New("gemini", "key", testSettings)
	assert.Error(t, err)
}

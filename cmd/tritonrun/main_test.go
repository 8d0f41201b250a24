package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVector(t *testing.T) {
	v, err := parseVector("1,2,3")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, v)

	v, err = parseVector(" 1.5, -2 ")
	require.NoError(t, err)
	assert.Equal(t, []float32{1.5, -2}, v)

	_, err = parseVector("1,x,3")
	assert.ErrorContains(t, err, "invalid element")
}

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEnvironment(t *testing.T) {
	cases := map[string]Environment{
		"production":   Production,
		" Production ": Production,
		"prod":         Production,
		"staging":      Staging,
		"stage":        Staging,
		"TEST":         Testing,
		"development":  Development,
		"":             Development,
		"qa":           Development,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseEnvironment(in), "input %q", in)
	}
	assert.True(t, Production.IsProduction())
	assert.False(t, Staging.IsProduction())
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusActive, ParseStatus("ACTIVE"))
	assert.Equal(t, StatusDeactive, ParseStatus("DEACTIVE"))

	// Anything outside the closed set falls back to active.
	assert.Equal(t, StatusActive, ParseStatus(""))
	assert.Equal(t, StatusActive, ParseStatus("active"))
	assert.Equal(t, StatusActive, ParseStatus("ARCHIVED"))
}

package enginerror

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError(t *testing.T) {
	err := &ConfigError{Component: "engine", Field: "Channel_code", Reason: "absent from the record schema"}
	assert.Contains(t, err.Error(), "engine")
	assert.Contains(t, err.Error(), "Channel_code")
	assert.Contains(t, err.Error(), "absent from the record schema")
}

func TestParseErrorUnwrap(t *testing.T) {
	inner := errors.New("not a decimal")
	err := &ParseError{Component: "recordio", Field: "Amounts_extended", Value: "abc", Err: inner}
	assert.Contains(t, err.Error(), "Amounts_extended")
	assert.Contains(t, err.Error(), "abc")
	assert.ErrorIs(t, err, inner)
}

func TestLoadErrorUnwrap(t *testing.T) {
	inner := errors.New("no such file")
	err := &LoadError{FilePath: "records.csv", Reason: "cannot read file", Err: inner}
	assert.Contains(t, err.Error(), "records.csv")
	assert.ErrorIs(t, err, inner)

	bare := &LoadError{FilePath: "rules.xlsx", Reason: "sheet is empty"}
	assert.Contains(t, bare.Error(), "sheet is empty")
}

package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "watch error wrapping a cause",
			err:      NewWatchError("failed to watch data.json", ErrWatchStdin),
			expected: "watch: failed to watch data.json: watch mode requires an input file",
		},
		{
			name:     "render error without a cause",
			err:      NewRenderError("failed to draw table", nil),
			expected: "render: failed to draw table",
		},
		{
			name:     "parsing error from the decoder",
			err:      NewParsingError("JSON syntax error at offset 9", ErrInvalidJSON),
			expected: "parsing: JSON syntax error at offset 9: invalid JSON format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_MatchesThroughWrapping(t *testing.T) {
	cause := fmt.Errorf("stat data.json: %w", ErrFileNotFound)
	err := fmt.Errorf("reload: %w", NewInputError("file 'data.json' not found", cause))

	assert.ErrorIs(t, err, ErrFileNotFound, "sentinels are reachable through Unwrap")
	assert.ErrorIs(t, err, &AppError{Type: ErrorTypeInput}, "any input error matches by type")
	assert.NotErrorIs(t, err, &AppError{Type: ErrorTypeParsing})
	assert.NotErrorIs(t, err, errors.New("file not found"), "plain errors never match by text")

	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, cause, appErr.Unwrap())
}

func TestUserFriendlyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "input error",
			err:      NewInputError("failed to read file", nil),
			expected: "Input error: failed to read file",
		},
		{
			name:     "parsing error",
			err:      NewParsingError("invalid JSON syntax", nil),
			expected: "JSON parsing error: invalid JSON syntax",
		},
		{
			name:     "config error",
			err:      NewConfigError("invalid overscan", nil),
			expected: "Configuration error: invalid overscan",
		},
		{
			name:     "render error",
			err:      NewRenderError("failed to draw table", nil),
			expected: "Render error: failed to draw table",
		},
		{
			name:     "watch error",
			err:      NewWatchError("failed to add watch", nil),
			expected: "Watch error: failed to add watch",
		},
		{
			name:     "output error",
			err:      NewOutputError("failed to write output", nil),
			expected: "Output error: failed to write output",
		},
		{
			name:     "standard error - empty input",
			err:      ErrEmptyInput,
			expected: "Error: The input is empty. Please provide valid JSON data.",
		},
		{
			name:     "standard error - invalid JSON",
			err:      ErrInvalidJSON,
			expected: "Error: The input contains invalid JSON. Please check your JSON syntax.",
		},
		{
			name:     "standard error - unknown format",
			err:      ErrUnknownFormat,
			expected: "Error: Unknown output format. Run with --help to list formats.",
		},
		{
			name:     "wrapped standard error",
			err:      fmt.Errorf("reading stdin: %w", ErrNoInput),
			expected: "Error: No input provided. Please specify a file with -i or pipe JSON data to stdin.",
		},
		{
			name:     "unknown error",
			err:      errors.New("some unknown error"),
			expected: "Error: some unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := UserFriendlyError(tt.err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestIsParseFailure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil", err: nil, expected: false},
		{name: "parsing app error", err: NewParsingError("bad", ErrInvalidJSON), expected: true},
		{name: "bare invalid json", err: ErrInvalidJSON, expected: true},
		{name: "empty input wrapped in input error", err: NewInputError("empty", ErrEmptyInput), expected: true},
		{name: "empty input file", err: NewInputError("empty", ErrFileEmpty), expected: true},
		{name: "file not found", err: NewInputError("missing", ErrFileNotFound), expected: false},
		{name: "output error", err: NewOutputError("disk full", nil), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsParseFailure(tt.err))
		})
	}
}

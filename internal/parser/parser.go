package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	stderrors "errors"

	"github.com/mcncl/jsongrid/internal/errors"
	"github.com/mcncl/jsongrid/internal/models"
)

// Parse decodes a single JSON value from reader. Object member order is
// preserved as written; a repeated key keeps its first position and its
// last value.
func Parse(reader io.Reader) (models.Value, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()

	root, err := decodeValue(decoder, 0)
	if err != nil {
		return models.Null(), classify(err)
	}

	// Anything other than EOF after the root is trailing data.
	if _, err := decoder.Token(); err != io.EOF {
		if err == nil {
			return models.Null(), errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
		}
		return models.Null(), errors.NewParsingError(
			fmt.Sprintf("invalid trailing data after first JSON value at offset %d", decoder.InputOffset()),
			errors.ErrInvalidJSON,
		)
	}

	return root, nil
}

func classify(err error) error {
	if stderrors.Is(err, io.EOF) {
		return errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}
	if stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
	}
	var syntaxError *json.SyntaxError
	if stderrors.As(err, &syntaxError) {
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
			errors.ErrInvalidJSON,
		)
	}
	return errors.NewParsingError("failed to decode JSON", err)
}

func decodeValue(decoder *json.Decoder, depth int) (models.Value, error) {
	tok, err := decoder.Token()
	if err != nil {
		if depth > 0 && stderrors.Is(err, io.EOF) {
			return models.Null(), io.ErrUnexpectedEOF
		}
		return models.Null(), err
	}

	switch t := tok.(type) {
	case nil:
		return models.Null(), nil
	case bool:
		return models.Bool(t), nil
	case json.Number:
		return models.Number(t), nil
	case string:
		return models.String(t), nil
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(decoder, depth)
		case '[':
			return decodeArray(decoder, depth)
		}
	}
	return models.Null(), fmt.Errorf("unexpected token %v at offset %d: %w", tok, decoder.InputOffset(), errors.ErrInvalidJSON)
}

func decodeObject(decoder *json.Decoder, depth int) (models.Value, error) {
	obj := models.NewObject(0)
	for decoder.More() {
		keyTok, err := decoder.Token()
		if err != nil {
			return models.Null(), eofIsUnexpected(err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return models.Null(), fmt.Errorf("object key is %T at offset %d: %w", keyTok, decoder.InputOffset(), errors.ErrInvalidJSON)
		}
		val, err := decodeValue(decoder, depth+1)
		if err != nil {
			return models.Null(), err
		}
		obj.Set(key, val)
	}
	if err := closing(decoder, '}'); err != nil {
		return models.Null(), err
	}
	return obj.Value(), nil
}

func decodeArray(decoder *json.Decoder, depth int) (models.Value, error) {
	var items []models.Value
	for decoder.More() {
		val, err := decodeValue(decoder, depth+1)
		if err != nil {
			return models.Null(), err
		}
		items = append(items, val)
	}
	if err := closing(decoder, ']'); err != nil {
		return models.Null(), err
	}
	return models.Array(items...), nil
}

func closing(decoder *json.Decoder, want json.Delim) error {
	tok, err := decoder.Token()
	if err != nil {
		return eofIsUnexpected(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q at offset %d: %w", want, decoder.InputOffset(), errors.ErrInvalidJSON)
	}
	return nil
}

func eofIsUnexpected(err error) error {
	if stderrors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.Value, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.Null(), errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseBytes parses JSON from a byte slice
func ParseBytes(data []byte) (models.Value, error) {
	return ParseString(string(data))
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.Null(), errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Null(), errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.Null(), errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return models.Null(), errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return models.Null(), errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return Parse(file)
}

package e2e_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI runs the command with stdin and returns stdout, stderr and the error.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := exec.Command("go", append([]string{"run", "../../main.go"}, args...)...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// TestEndToEnd_ComplexNestedStructures views an object of nested records
func TestEndToEnd_ComplexNestedStructures(t *testing.T) {
	tempDir := t.TempDir()

	jsonContent := `{
		"id": 12345,
		"created_at": "2023-05-20T14:56:23Z",
		"updated_at": null,
		"config": {
			"enabled": true,
			"features": ["logging", "metrics", "alerting"],
			"rate_limits": {"per_second": 100, "burst": 150}
		},
		"users": [
			{"id": 1, "name": "Alice", "roles": ["admin", "user"]},
			{"id": 2, "name": "Bob", "roles": ["user"]}
		],
		"active": true
	}`

	jsonFile := filepath.Join(tempDir, "complex.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(jsonContent), 0644))

	t.Run("object entries as csv", func(t *testing.T) {
		outputFile := filepath.Join(tempDir, "entries.csv")
		_, stderr, err := runCLI(t, "", "-i", jsonFile, "-o", outputFile, "-f", "csv")
		require.NoError(t, err, "CLI command failed: %s", stderr)
		assert.Contains(t, stderr, "Output written to")

		data, err := os.ReadFile(outputFile)
		require.NoError(t, err)
		records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		require.NoError(t, err)

		require.Len(t, records, 7)
		assert.Equal(t, []string{"key", "value"}, records[0])
		assert.Equal(t, []string{"id", "12345"}, records[1])
		assert.Equal(t, []string{"updated_at", "null"}, records[3])
		assert.Equal(t, []string{"config", "{object}"}, records[4])
		assert.Equal(t, []string{"users", "[array(2)]"}, records[5])
	})

	t.Run("collapsed tree", func(t *testing.T) {
		stdout, stderr, err := runCLI(t, "", "-i", jsonFile, "-f", "tree", "--collapse-depth", "1", "--color", "never")
		require.NoError(t, err, "CLI command failed: %s", stderr)
		assert.Contains(t, stdout, `  "config": {...}`)
		assert.Contains(t, stdout, `  "users": [...]`)
		assert.Contains(t, stdout, `  "active": true`)
		assert.NotContains(t, stdout, "Alice")
	})

	t.Run("pretty keeps key order", func(t *testing.T) {
		stdout, stderr, err := runCLI(t, "", "-i", jsonFile, "-f", "pretty", "--color", "never")
		require.NoError(t, err, "CLI command failed: %s", stderr)
		assert.Less(t, strings.Index(stdout, `"id"`), strings.Index(stdout, `"created_at"`))
		assert.Less(t, strings.Index(stdout, `"users"`), strings.Index(stdout, `"active"`))
	})
}

// TestEndToEnd_HeterogeneousArrays views an array of records with differing keys
func TestEndToEnd_HeterogeneousArrays(t *testing.T) {
	jsonContent := `[
		{"type": "user", "id": 3, "name": "Bob", "active": true},
		{"type": "group", "id": 2, "members": 5},
		{"type": "user", "id": 1, "name": "Alice"}
	]`

	stdout, stderr, err := runCLI(t, jsonContent, "-f", "csv", "--sort", "id")
	require.NoError(t, err, "CLI command failed: %s", stderr)

	records, err := csv.NewReader(strings.NewReader(stdout)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"type", "id", "name", "active", "members"}, records[0])
	assert.Equal(t, []string{"user", "1", "Alice", "", ""}, records[1])
	assert.Equal(t, []string{"group", "2", "", "", "5"}, records[2])
	assert.Equal(t, []string{"user", "3", "Bob", "true", ""}, records[3])

	stdout, stderr, err = runCLI(t, jsonContent, "-f", "json", "--filter", "GROUP")
	require.NoError(t, err, "CLI command failed: %s", stderr)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "group", rows[0]["type"])
}

// generateLargeJSON generates a large JSON file with the specified number of items
func generateLargeJSON(t testing.TB, filePath string, itemCount int) {
	// Seed random for reproducible results
	rng := rand.New(rand.NewSource(42))

	items := make([]map[string]interface{}, itemCount)
	for i := 0; i < itemCount; i++ {
		items[i] = map[string]interface{}{
			"id":          i + 1,
			"name":        fmt.Sprintf("Item %d", i+1),
			"description": fmt.Sprintf("This is item number %d in the test dataset", i+1),
			"created_at":  time.Now().Add(-time.Duration(rng.Intn(10000)) * time.Hour).Format(time.RFC3339),
			"price":       rng.Float64() * 1000,
			"quantity":    rng.Intn(100),
			"active":      rng.Intn(2) == 1,
			"tags":        []string{"tag1", "tag2", "tag3"}[0 : rng.Intn(3)+1],
			"metadata": map[string]interface{}{
				"source":   "test",
				"priority": rng.Intn(5) + 1,
			},
		}
	}

	jsonData, err := json.MarshalIndent(items, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filePath, jsonData, 0644))
}

// TestEndToEnd_LargeFilePaging prints one page of a large array
func TestEndToEnd_LargeFilePaging(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large file test in short mode")
	}

	jsonFile := filepath.Join(t.TempDir(), "large.json")
	generateLargeJSON(t, jsonFile, 5000)

	stdout, stderr, err := runCLI(t, "", "-i", jsonFile, "-f", "csv", "--sort", "id", "--desc", "--skip", "10", "--rows", "5")
	require.NoError(t, err, "CLI command failed: %s", stderr)

	records, err := csv.NewReader(strings.NewReader(stdout)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6)
	assert.Equal(t, "4990", records[1][0])
	assert.Equal(t, "4986", records[5][0])
}

// TestEndToEnd_EdgeCases tests various edge cases
func TestEndToEnd_EdgeCases(t *testing.T) {
	testCases := []struct {
		name     string
		json     string
		args     []string
		expected string
		isError  bool
	}{
		{
			name:     "EmptyObject",
			json:     `{}`,
			expected: "(0 rows)",
		},
		{
			name:     "EmptyArray",
			json:     `[]`,
			expected: "(0 rows)",
		},
		{
			name:     "SingleValue",
			json:     `"just a string"`,
			expected: `"just a string"`,
		},
		{
			name:     "SingleNumber",
			json:     `42`,
			expected: "42",
		},
		{
			name:     "SingleNull",
			json:     `null`,
			expected: "null",
		},
		{
			name:     "ArrayOfScalars",
			json:     `[3, "x", null]`,
			args:     []string{"-f", "csv"},
			expected: "value\n3\nx\nnull",
		},
		{
			name:     "InvalidJSON",
			json:     `{"name": "Invalid JSON",}`,
			expected: "Invalid JSON or Empty",
			isError:  true,
		},
		{
			name:     "TrailingValue",
			json:     `{} {}`,
			expected: "Invalid JSON or Empty",
			isError:  true,
		},
		{
			name:     "DeeplyNestedArray",
			json:     `[[[[[[42]]]]]]`,
			args:     []string{"-f", "minify"},
			expected: "[[[[[[42]]]]]]",
		},
		{
			name:    "UnknownFormat",
			json:    `[]`,
			args:    []string{"-f", "yaml"},
			isError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			args := append([]string{"--color", "never"}, tc.args...)
			stdout, stderr, err := runCLI(t, tc.json, args...)

			if tc.isError {
				assert.Error(t, err, "Expected an error for %s", tc.name)
			} else {
				assert.NoError(t, err, "Unexpected error for %s: %s", tc.name, stderr)
			}
			if tc.expected != "" {
				assert.Contains(t, stdout, tc.expected, "Expected output not found for %s", tc.name)
			}
		})
	}
}

package devutil

import (
	"reflect"
	"testing"
)

func TestPick(t *testing.T) {
	type course struct {
		Title       string `json:"title"`
		Hours       int    `json:"hours"`
		Description string `json:"description"`
	}

	testCases := []struct {
		name     string
		input    any
		keys     []string
		expected map[string]any
	}{
		{
			name: "Pick from struct",
			input: course{
				Title:       "Joining Data with pandas",
				Hours:       4,
				Description: "Combine tables with merge and concat",
			},
			keys: []string{"title", "hours"},
			expected: map[string]any{
				"title": "Joining Data with pandas",
				"hours": float64(4), // JSON unmarshaling converts numbers to float64
			},
		},
		{
			name: "Pick from map",
			input: map[string]any{
				"track":    "Data Manipulation | Python",
				"courses":  12,
				"category": "Python",
			},
			keys: []string{"track", "category"},
			expected: map[string]any{
				"track":    "Data Manipulation | Python",
				"category": "Python",
			},
		},
		{
			name:     "Pick from nil",
			input:    nil,
			keys:     []string{"title"},
			expected: map[string]any{},
		},
		{
			name:     "Pick with no keys",
			input:    course{Title: "Intro to SQL"},
			keys:     []string{},
			expected: map[string]any{},
		},
		{
			name:     "Pick non-existent keys",
			input:    course{Title: "Intro to SQL"},
			keys:     []string{"nonexistent"},
			expected: map[string]any{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := Pick(tc.input, tc.keys...)
			if !reflect.DeepEqual(result, tc.expected) {
				t.Errorf("Pick() = %v, want %v", result, tc.expected)
			}
		})
	}
}

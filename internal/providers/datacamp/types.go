package datacamp

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

type listTracksResponse struct {
	Tracks []Track `json:"tracks"`
	Next   string  `json:"next"`
	Count  int     `json:"count"`
}

type Track struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Courses  []Course `json:"courses"`
}

type Course struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Summary     string  `json:"summary"`
	Minutes     Minutes `json:"duration_minutes"`
}

// Minutes puede venir como:
// - 240 (número)
// - 240.5 (float)
// - "240" (string numérico)
type Minutes int

func (m *Minutes) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*m = 0
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*m = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("duration %q is not numeric", s)
		}
		*m = Minutes(math.Round(f))
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*m = Minutes(math.Round(f))
	return nil
}

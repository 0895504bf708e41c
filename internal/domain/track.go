package domain

import "strings"

// trackKeySep separa nombre y categoría dentro de la clave compuesta.
const trackKeySep = " | "

// TrackKey is the composite identity of a track: "<name> | <category>".
// The category is the text after the last separator; a key without a
// separator is all name and carries an empty category.
type TrackKey string

// MakeTrackKey builds the composite key from a track name and its category.
func MakeTrackKey(name, category string) TrackKey {
	return TrackKey(strings.TrimSpace(name) + trackKeySep + strings.TrimSpace(category))
}

// Name returns the part of the key before the last separator.
func (k TrackKey) Name() string {
	if i := strings.LastIndex(string(k), trackKeySep); i >= 0 {
		return string(k)[:i]
	}
	return string(k)
}

// Category returns the text after the last separator, or "" if there is none.
func (k TrackKey) Category() string {
	if i := strings.LastIndex(string(k), trackKeySep); i >= 0 {
		return string(k)[i+len(trackKeySep):]
	}
	return ""
}

// Track is a named, categorized grouping of courses. Identity is the key;
// Courses keeps insertion order and holds at most one course per title.
type Track struct {
	Key     TrackKey
	Courses []Course
}

// Upsert appends c or, when a course with the same title is already a member,
// replaces it in place so the position of first appearance is kept.
func (t *Track) Upsert(c Course) {
	for i := range t.Courses {
		if t.Courses[i].Title == c.Title {
			t.Courses[i] = c
			return
		}
	}
	t.Courses = append(t.Courses, c)
}

// Course returns the member course with the given title.
func (t *Track) Course(title string) (Course, bool) {
	for _, c := range t.Courses {
		if c.Title == title {
			return c, true
		}
	}
	return Course{}, false
}

// Hours sums the durations of every member course.
func (t *Track) Hours() int {
	total := 0
	for _, c := range t.Courses {
		total += c.Hours
	}
	return total
}

package domain

// Catalog is the full track hierarchy. It is deliberately an ordered sequence
// rather than a map: selector ties and ranker residual ties are defined in
// terms of catalog order, so the order has to be reproducible across runs and
// survive persistence round-trips.
type Catalog struct {
	Tracks []Track
}

// Track returns a pointer to the track with the given key.
func (c *Catalog) Track(key TrackKey) (*Track, bool) {
	for i := range c.Tracks {
		if c.Tracks[i].Key == key {
			return &c.Tracks[i], true
		}
	}
	return nil, false
}

// Upsert adds the course to the keyed track, creating the track on first use.
// Track creation order and course insertion order are both preserved.
func (c *Catalog) Upsert(key TrackKey, course Course) {
	if t, ok := c.Track(key); ok {
		t.Upsert(course)
		return
	}
	c.Tracks = append(c.Tracks, Track{Key: key, Courses: []Course{course}})
}

// Len returns the number of tracks.
func (c *Catalog) Len() int { return len(c.Tracks) }

// CourseTitles returns every distinct course title, in catalog order.
func (c *Catalog) CourseTitles() []string {
	seen := make(map[string]struct{})
	titles := make([]string, 0, 64)
	for _, t := range c.Tracks {
		for _, course := range t.Courses {
			if _, ok := seen[course.Title]; ok {
				continue
			}
			seen[course.Title] = struct{}{}
			titles = append(titles, course.Title)
		}
	}
	return titles
}

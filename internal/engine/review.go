package engine

import "strings"

// ReviewMatcher decides whether an output path qualifies for the
// review-submission affordance, based on review_field and
// review_field_matches.
type ReviewMatcher struct {
	field   string
	matches map[string]struct{}
	eng     *Engine
}

// ReviewMatcher returns the matcher derived from the engine settings.
func (e *Engine) ReviewMatcher() *ReviewMatcher {
	m := &ReviewMatcher{
		field:   strings.TrimSpace(e.cfg.ReviewField),
		matches: make(map[string]struct{}, len(e.cfg.ReviewFieldMatches)),
		eng:     e,
	}
	for _, v := range e.cfg.ReviewFieldMatches {
		m.matches[v] = struct{}{}
	}
	return m
}

// Enabled reports whether review matching is configured at all.
// An empty review_field or a missing review template disables it.
func (m *ReviewMatcher) Enabled() bool {
	return m.field != "" && m.eng.review != nil
}

// Matches reports whether the output path's review field value is one of the
// configured matches. Paths that do not fit the review template never match.
func (m *ReviewMatcher) Matches(outputPath string) bool {
	if !m.Enabled() {
		return false
	}
	fields, err := m.eng.review.Fields(outputPath)
	if err != nil {
		return false
	}
	_, ok := m.matches[fields[m.field]]
	return ok
}

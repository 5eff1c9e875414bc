// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package similarity

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"  A J  Institute ", "a j institute"},
		{"IIT\tBombay", "iit bombay"},
		{"", ""},
		{"   ", ""},
		{"already normal", "already normal"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScoreExactMatch(t *testing.T) {
	t.Parallel()

	if got := Score("IIT Bombay", "iit  bombay"); got != 1 {
		t.Errorf("exact match after normalization = %v, want 1", got)
	}
}

func TestScoreContainment(t *testing.T) {
	t.Parallel()

	// Query contained in candidate beats the reverse.
	got := Score("a j institute", "A J Institute of Engineering and Technology")
	if got < 0.85 {
		t.Errorf("abbreviated query score = %v, want >= 0.85", got)
	}
	if got != 0.9 {
		t.Errorf("query-in-candidate = %v, want 0.9", got)
	}

	got = Score("National Institute of Technology Surathkal", "NIT Surathkal")
	want := tokenOverlap(
		Normalize("National Institute of Technology Surathkal"),
		Normalize("NIT Surathkal"),
	)
	if got != want {
		t.Errorf("token-overlap fallback = %v, want %v", got, want)
	}
}

func TestScoreCandidateInQuery(t *testing.T) {
	t.Parallel()

	got := Score("government engineering college trivandrum campus", "engineering college trivandrum")
	if got != 0.85 {
		t.Errorf("candidate-in-query = %v, want 0.85", got)
	}
}

func TestScoreTokenOverlap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		query     string
		candidate string
		min, max  float64
	}{
		{"partial overlap", "bombay college", "pune college", 0.3, 0.5},
		{"no overlap", "xyz", "abc def", 0, 0},
		{"substring token", "tech institute", "technology institute", 0.79, 0.81},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Score(tt.query, tt.candidate)
			if got < tt.min || got > tt.max {
				t.Errorf("Score(%q, %q) = %v, want in [%v, %v]",
					tt.query, tt.candidate, got, tt.min, tt.max)
			}
		})
	}
}

func TestScoreEmptyInputs(t *testing.T) {
	t.Parallel()

	if got := Score("", "anything"); got != 0 {
		t.Errorf("empty query = %v, want 0", got)
	}
	if got := Score("anything", "  "); got != 0 {
		t.Errorf("blank candidate = %v, want 0", got)
	}
}

func TestScoreBounds(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{
		{"a", "a b c d e f"},
		{"one two three", "three two one"},
		{"x y z", "x"},
	}
	for _, p := range pairs {
		got := Score(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("Score(%q, %q) = %v out of [0,1]", p[0], p[1], got)
		}
	}
}

package model

import (
	"reflect"
	"testing"
)

func TestParseSectionNames(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Intro,  Body ,,Conclusion", []string{"Intro", "Body", "Conclusion"}},
		{"Intro", []string{"Intro"}},
		{"", nil},
		{" , ,", nil},
		{"a,b,c", []string{"a", "b", "c"}},
	}
	for _, tc := range cases {
		got := ParseSectionNames(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("ParseSectionNames(%q): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestValidFeedback(t *testing.T) {
	cases := []struct {
		in   Feedback
		want bool
	}{
		{FeedbackNone, true},
		{FeedbackLike, true},
		{FeedbackDislike, true},
		{Feedback("meh"), false},
	}
	for _, tc := range cases {
		if got := ValidFeedback(tc.in); got != tc.want {
			t.Fatalf("ValidFeedback(%q): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

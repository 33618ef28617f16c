package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectProjectLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"draftpad"},
			want: []string{"draftpad"},
		},
		{
			name: "direct project id first token",
			in:   []string{"draftpad", "7"},
			want: []string{"draftpad", "projects", "show", "7"},
		},
		{
			name: "direct project id after value flag",
			in:   []string{"draftpad", "--server", "http://localhost:9000", "7"},
			want: []string{"draftpad", "--server", "http://localhost:9000", "projects", "show", "7"},
		},
		{
			name: "direct project id after equals flag",
			in:   []string{"draftpad", "--server=http://localhost:9000", "7"},
			want: []string{"draftpad", "--server=http://localhost:9000", "projects", "show", "7"},
		},
		{
			name: "direct project id after bool flag",
			in:   []string{"draftpad", "--pretty", "7"},
			want: []string{"draftpad", "--pretty", "projects", "show", "7"},
		},
		{
			name: "direct project id after double dash",
			in:   []string{"draftpad", "--config-dir", "./tmp-test-cfg", "--", "7"},
			want: []string{"draftpad", "--config-dir", "./tmp-test-cfg", "--", "projects", "show", "7"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"draftpad", "projects", "show", "7"},
			want: []string{"draftpad", "projects", "show", "7"},
		},
		{
			name: "non-numeric token not rewritten",
			in:   []string{"draftpad", "wat"},
			want: []string{"draftpad", "wat"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectProjectLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectProjectLookupArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}

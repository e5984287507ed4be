package utils

import (
	"net/url"
	"reflect"
	"testing"
)

func TestParseQueryList(t *testing.T) {
	cases := []struct {
		name string
		q    url.Values
		want []string
	}{
		{"absent", url.Values{}, nil},
		{"comma separated", url.Values{"programs": {"p1,p2"}}, []string{"p1", "p2"}},
		{"repeated", url.Values{"programs": {"p1", "p2"}}, []string{"p1", "p2"}},
		{"whitespace", url.Values{"programs": {" p1 , p2 "}}, []string{"p1", "p2"}},
		{"empty segments", url.Values{"programs": {"p1,,p2,"}}, []string{"p1", "p2"}},
		{"single", url.Values{"programs": {"p1"}}, []string{"p1"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseQueryList(tc.q, "programs")
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Got %v, want %v", got, tc.want)
			}
		})
	}
}

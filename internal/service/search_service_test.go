package service

import (
	"testing"

	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/assert"

	"github.com/terzahh/samara-repository-sub000/internal/dto"
)

func TestCleanAbstractStripsMarkup(t *testing.T) {
	s := &meiliSearchService{sanitizer: bluemonday.StrictPolicy()}

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "A study of queueing models.", "A study of queueing models."},
		{"tags removed", "<p>A <b>bold</b> claim</p>", "A bold claim"},
		{"script dropped", `<script>alert("x")</script>safe`, "safe"},
		{"entities decoded", "fish &amp; chips", "fish & chips"},
		{"whitespace collapsed", "line one\n\n  line two", "line one line two"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, s.cleanAbstract(tc.in))
		})
	}
}

func TestSearchFilters(t *testing.T) {
	assert.Empty(t, searchFilters(dto.SearchQuery{Query: "queueing"}))

	expr := searchFilters(dto.SearchQuery{
		Query:        "queueing",
		DepartmentID: "b7f9a7f0-0000-0000-0000-000000000001",
		Type:         "thesis",
		Year:         2023,
	})
	assert.Equal(t, `department_id = "b7f9a7f0-0000-0000-0000-000000000001" AND type = "thesis" AND year = 2023`, expr)
}

// A server-side access level always narrows the expression.
func TestSearchFiltersScopeAccessLevel(t *testing.T) {
	expr := searchFilters(dto.SearchQuery{Query: "queueing", AccessLevel: "public"})
	assert.Equal(t, `access_level = "public"`, expr)

	expr = searchFilters(dto.SearchQuery{Query: "queueing", Type: "paper", AccessLevel: "public"})
	assert.Equal(t, `type = "paper" AND access_level = "public"`, expr)
}

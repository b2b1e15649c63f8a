package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffDetectsChangedFields(t *testing.T) {
	a := &Revision{ID: 1, Title: "Hello", Body: "first body", Status: strPtr("draft")}
	b := &Revision{ID: 2, Title: "Hello", Body: "second body, longer", Status: strPtr("published")}

	report := Diff(a, b)

	assert.Equal(t, uint64(1), report.RevisionA)
	assert.Equal(t, uint64(2), report.RevisionB)
	assert.False(t, report.TitleChanged)
	assert.True(t, report.BodyChanged)
	assert.False(t, report.ExcerptChanged)
	assert.True(t, report.StatusChanged)
	assert.Equal(t, len(a.Body)-len(b.Body), report.ContentLengthDiff)
}

func TestDiffIdentical(t *testing.T) {
	a := &Revision{ID: 1, Title: "Same", Body: "same"}
	report := Diff(a, a)

	assert.False(t, report.TitleChanged)
	assert.False(t, report.BodyChanged)
	assert.False(t, report.ExcerptChanged)
	assert.False(t, report.FeaturedImageChanged)
	assert.False(t, report.StatusChanged)
	assert.Zero(t, report.ContentLengthDiff)
}

func TestDiffContentLengthAntisymmetry(t *testing.T) {
	cases := []struct {
		name string
		a, b *Revision
	}{
		{"a longer", &Revision{Body: "a much longer body"}, &Revision{Body: "short"}},
		{"b longer", &Revision{Body: "x"}, &Revision{Body: "yyyyyyyyyy"}},
		{"equal length", &Revision{Body: "abc"}, &Revision{Body: "xyz"}},
		{"empty bodies", &Revision{}, &Revision{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ab := Diff(tc.a, tc.b).ContentLengthDiff
			ba := Diff(tc.b, tc.a).ContentLengthDiff
			assert.Equal(t, ab, -ba)
		})
	}
}

func TestDiffNilPointerFields(t *testing.T) {
	a := &Revision{Excerpt: nil, FeaturedImage: strPtr("/img/a.png")}
	b := &Revision{Excerpt: strPtr("summary"), FeaturedImage: strPtr("/img/a.png")}

	report := Diff(a, b)
	assert.True(t, report.ExcerptChanged)
	assert.False(t, report.FeaturedImageChanged)
}

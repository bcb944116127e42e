package frontmatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	doc, err := Parse(input)
	require.NoError(t, err)
	assert.Equal(t, input, doc.Body)
	assert.Empty(t, doc.Meta.Title)
}

func TestParse_TypedFields(t *testing.T) {
	input := []byte(`---
title: Testing Salt States
slug: testing-salt-states
date: 2017-03-11 14:30
author: Sean
category: devops
tags:
  - salt
  - testing
status: draft
---
Body here.
`)

	doc, err := Parse(input)
	require.NoError(t, err)

	assert.Equal(t, "Testing Salt States", doc.Meta.Title)
	assert.Equal(t, "testing-salt-states", doc.Meta.Slug)
	assert.Equal(t, "Sean", doc.Meta.Author)
	assert.Equal(t, "devops", doc.Meta.Category)
	assert.Equal(t, []string{"salt", "testing"}, doc.Meta.Tags)
	assert.Equal(t, StatusDraft, doc.Meta.Status)
	assert.Equal(t, []byte("Body here.\n"), doc.Body)

	want := time.Date(2017, 3, 11, 14, 30, 0, 0, time.UTC)
	assert.True(t, doc.Meta.Date.Equal(want), "got %v", doc.Meta.Date)
}

func TestParse_DateOnly(t *testing.T) {
	doc, err := Parse([]byte("---\ntitle: X\ndate: 2018-06-01\n---\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Meta.Date.Hour())
	assert.Equal(t, time.June, doc.Meta.Date.Month())
}

func TestParse_BadDate(t *testing.T) {
	_, err := Parse([]byte("---\ntitle: X\ndate: last tuesday\n---\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized date")
}

func TestParse_MissingClosingDelimiter(t *testing.T) {
	_, err := Parse([]byte("---\ntitle: X\n# no close\n"))
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
}

func TestParse_EmptyHeaderBlock(t *testing.T) {
	doc, err := Parse([]byte("---\n---\nbody\n"))
	require.NoError(t, err)
	assert.Empty(t, doc.Meta.Title)
	assert.Equal(t, []byte("body\n"), doc.Body)
}

func TestParse_CRLF(t *testing.T) {
	doc, err := Parse([]byte("---\r\ntitle: X\r\n---\r\nbody\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "X", doc.Meta.Title)
	assert.Equal(t, "\r\n", doc.Newline)
	assert.Equal(t, []byte("body\r\n"), doc.Body)
}

func TestSerialize_RoundTrip(t *testing.T) {
	doc := &Document{
		Meta: Meta{
			Title:    "Hello World",
			Slug:     "hello-world",
			Date:     Time{time.Date(2020, 5, 4, 9, 15, 0, 0, time.UTC)},
			Author:   "Sean",
			Tags:     []string{"go"},
			Status:   StatusDraft,
			UID:      "123e4567-e89b-12d3-a456-426614174000",
		},
		Body: []byte("\nFirst paragraph.\n"),
	}

	out, err := Serialize(doc)
	require.NoError(t, err)

	back, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, doc.Meta.Title, back.Meta.Title)
	assert.Equal(t, doc.Meta.Slug, back.Meta.Slug)
	assert.Equal(t, doc.Meta.UID, back.Meta.UID)
	assert.True(t, back.Meta.Date.Equal(doc.Meta.Date.Time))
	assert.Equal(t, doc.Body, back.Body)
}

func TestSerialize_Deterministic(t *testing.T) {
	doc := &Document{
		Meta: Meta{Title: "T", Slug: "t", Tags: []string{"a", "b"}},
		Body: []byte("x\n"),
	}
	a, err := Serialize(doc)
	require.NoError(t, err)
	b, err := Serialize(doc)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSerialize_OmitsEmptyFields(t *testing.T) {
	doc := &Document{Meta: Meta{Title: "Only Title"}}
	out, err := Serialize(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "modified:")
	assert.NotContains(t, string(out), "uid:")
	assert.NotContains(t, string(out), "tags:")
}

func TestTimeIn_KeepsWallClock(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	ft := Time{time.Date(2021, 1, 2, 8, 30, 0, 0, time.UTC)}
	local := ft.In(chicago)
	assert.Equal(t, 8, local.Hour())
	assert.Equal(t, chicago, local.Location())
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNoAnswer(t *testing.T) {
	assert.True(t, IsNoAnswer("I don't know."))
	assert.True(t, IsNoAnswer("i don't know."))
	assert.True(t, IsNoAnswer("  I DON'T KNOW.  "))
	assert.False(t, IsNoAnswer("I don't know"))
	assert.False(t, IsNoAnswer("I don't know. But here is a guess."))
	assert.False(t, IsNoAnswer("The midterm is on page 2."))
}

func TestDedupeCitationsFirstSeenOrder(t *testing.T) {
	citations := []Citation{
		{DocumentID: "d1", Filename: "syllabus.pdf", PageNumber: 2},
		{DocumentID: "d2", Filename: "notes.pdf", PageNumber: 5},
		{DocumentID: "d1", Filename: "syllabus.pdf", PageNumber: 2},
		{DocumentID: "d2", Filename: "notes.pdf", PageNumber: 1},
	}

	deduped := DedupeCitations(citations)
	assert.Len(t, deduped, 3)
	assert.Equal(t, "syllabus.pdf", deduped[0].Filename)
	assert.Equal(t, 2, deduped[0].PageNumber)
	assert.Equal(t, "notes.pdf", deduped[1].Filename)
	assert.Equal(t, 5, deduped[1].PageNumber)
	assert.Equal(t, 1, deduped[2].PageNumber)
}

func TestDedupeCitationsSameFileDifferentPages(t *testing.T) {
	citations := []Citation{
		{Filename: "a.pdf", PageNumber: 1},
		{Filename: "a.pdf", PageNumber: 2},
	}
	assert.Len(t, DedupeCitations(citations), 2)
}

func TestCredentialIsAuthenticated(t *testing.T) {
	var nilCred *Credential
	assert.False(t, nilCred.IsAuthenticated())
	assert.False(t, (&Credential{}).IsAuthenticated())
	assert.True(t, (&Credential{AccessToken: "tok"}).IsAuthenticated())
}

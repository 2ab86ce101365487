package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnswer_Clone(t *testing.T) {
	orig := &Answer{
		Kind: AnswerFound,
		Parts: []AnswerPart{{
			Document: Document{ID: "t", URL: "https://yoga.test/t", Title: "Timings"},
			Snippets: []Snippet{{SourceDocumentID: "t", Text: "Mornings at 6am."}},
		}},
		CandidateURLs: []string{"https://yoga.test/t"},
		Message:       "Timings: Mornings at 6am.",
	}

	clone := orig.Clone()
	assert.Equal(t, orig, clone)
	assert.NotSame(t, orig, clone)

	clone.Message = "changed"
	clone.Parts[0].Document.Title = "changed"
	clone.Parts[0].Snippets[0].Text = "changed"
	clone.CandidateURLs[0] = "changed"

	assert.Equal(t, "Timings: Mornings at 6am.", orig.Message)
	assert.Equal(t, "Timings", orig.Parts[0].Document.Title)
	assert.Equal(t, "Mornings at 6am.", orig.Parts[0].Snippets[0].Text)
	assert.Equal(t, "https://yoga.test/t", orig.CandidateURLs[0])
}

func TestAnswer_CloneNil(t *testing.T) {
	var a *Answer
	assert.Nil(t, a.Clone())

	empty := (&Answer{Kind: AnswerNoMatch}).Clone()
	assert.Nil(t, empty.Parts)
	assert.Nil(t, empty.CandidateURLs)
}

package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DivXPro/canvas-editor-sub000/internal/scene"
)

func TestSampleDocumentLoads(t *testing.T) {
	doc := NewSampleDocument("doc_sample")
	require.NoError(t, doc.Validate())

	tree := scene.NewTree()
	require.NoError(t, doc.Load(tree))
	assert.Equal(t, doc.CountNodes(), tree.Len())
	require.Len(t, tree.Roots(), 1)
	assert.Len(t, tree.Find(tree.Roots()[0]).Children(), 4)
}

func TestParseRoundTrip(t *testing.T) {
	doc := NewSampleDocument("doc_sample")
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, doc.Project, parsed.Project)
	assert.Equal(t, doc.CountNodes(), parsed.CountNodes())
}

func TestParseRejectsInvalid(t *testing.T) {
	_, err := Parse([]byte(`{"pages": 3}`))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Parse([]byte(`{"pages":[{"id":"a","type":"FRAME","children":[{"id":"a","type":"RECTANGLE"}]}]}`))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Parse([]byte(`{"pages":[{"id":"r","type":"RECTANGLE","children":[{"id":"x","type":"RECTANGLE"}]}]}`))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestUnknownKindsAreSkipped(t *testing.T) {
	doc, err := Parse([]byte(`{"pages":[{"id":"f","type":"FRAME","children":[{"id":"s","type":"STAR"},{"id":"r","type":"RECTANGLE"}]}]}`))
	require.NoError(t, err)

	tree := scene.NewTree()
	require.NoError(t, doc.Load(tree))
	assert.Equal(t, []string{"r"}, tree.Find("f").Children())
}

func TestNewEmptyDocument(t *testing.T) {
	doc := NewEmptyDocument("doc_1", "Blank", "node_page")
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, "FRAME", doc.Pages[0].Kind)
	assert.Equal(t, 1, doc.Project.Version)
}

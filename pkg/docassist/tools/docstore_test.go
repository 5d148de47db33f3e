package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corpusFixture() []Document {
	return []Document{
		{ID: "INV-001", Title: "Invoice INV-001", Type: "invoice", Content: "Invoice for consulting services. Total due: $22,000. Payment terms: net 30."},
		{ID: "INV-002", Title: "Invoice INV-002", Type: "invoice", Content: "Invoice for software licenses. Total due: $8,500."},
		{ID: "CON-001", Title: "Consulting Contract", Type: "contract", Content: "Master services agreement covering the consulting engagement."},
		{ID: "REP-001", Title: "Quarterly Report", Type: "report", Content: "Revenue grew 12% quarter over quarter."},
	}
}

// TestMemoryDocumentStore_Search verifies term matching and insertion order.
func TestMemoryDocumentStore_Search(t *testing.T) {
	store := NewMemoryDocumentStore(corpusFixture()...)

	results := store.Search("invoice")
	require.Len(t, results, 2)
	assert.Equal(t, "INV-001", results[0].ID)
	assert.Equal(t, "INV-002", results[1].ID)

	// Any term matching is enough.
	results = store.Search("nonsense contract")
	require.Len(t, results, 1)
	assert.Equal(t, "CON-001", results[0].ID)

	// Case-insensitive.
	results = store.Search("QUARTERLY")
	require.Len(t, results, 1)
	assert.Equal(t, "REP-001", results[0].ID)

	assert.Empty(t, store.Search("zebra"))
}

// TestMemoryDocumentStore_Read verifies reads and the not-found error.
func TestMemoryDocumentStore_Read(t *testing.T) {
	store := NewMemoryDocumentStore(corpusFixture()...)

	doc, err := store.Read("INV-001")
	require.NoError(t, err)
	assert.Contains(t, doc.Content, "$22,000")

	// Second read comes from the cache and must match.
	again, err := store.Read("INV-001")
	require.NoError(t, err)
	assert.Equal(t, doc, again)

	_, err = store.Read("MISSING-999")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

// TestMemoryDocumentStore_Add verifies replacement invalidates the cache.
func TestMemoryDocumentStore_Add(t *testing.T) {
	store := NewMemoryDocumentStore(corpusFixture()...)

	// Warm the cache, then replace.
	_, err := store.Read("INV-001")
	require.NoError(t, err)

	store.Add(Document{ID: "INV-001", Title: "Invoice INV-001 (revised)", Content: "Total due: $25,000."})

	doc, err := store.Read("INV-001")
	require.NoError(t, err)
	assert.Contains(t, doc.Content, "$25,000")

	// Replacement keeps the original position.
	results := store.Search("invoice")
	require.NotEmpty(t, results)
	assert.Equal(t, "INV-001", results[0].ID)
}

// TestLoadCorpus verifies YAML corpus loading.
func TestLoadCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.yaml")
	content := `documents:
  - id: INV-001
    title: Invoice INV-001
    content: "Total due: $22,000."
  - id: CON-001
    title: Consulting Contract
    content: Master services agreement.
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	docs, err := LoadCorpus(path)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "INV-001", docs[0].ID)
	assert.Contains(t, docs[0].Content, "$22,000")
}

// TestLoadCorpus_MissingID verifies documents without ids are rejected.
func TestLoadCorpus_MissingID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.yaml")
	content := `documents:
  - title: No ID Here
    content: orphan document
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadCorpus(path)
	assert.ErrorContains(t, err, "has no id")
}

// TestLoadCorpus_MissingFile verifies a useful error for missing paths.
func TestLoadCorpus_MissingFile(t *testing.T) {
	_, err := LoadCorpus(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

// TestMemoryDocumentStore_Stats verifies corpus totals and per-type
// counts, with untyped documents grouped under "unknown".
func TestMemoryDocumentStore_Stats(t *testing.T) {
	store := NewMemoryDocumentStore(corpusFixture()...)

	stats := store.Stats()
	assert.Equal(t, 4, stats.TotalDocuments)
	assert.Equal(t, map[string]int{"invoice": 2, "contract": 1, "report": 1}, stats.DocumentTypes)

	store.Add(Document{ID: "MISC-001", Title: "Untitled", Content: "no type set"})
	stats = store.Stats()
	assert.Equal(t, 5, stats.TotalDocuments)
	assert.Equal(t, 1, stats.DocumentTypes["unknown"])
}

// TestMemoryDocumentStore_SearchByType verifies the document type is
// part of the searchable text.
func TestMemoryDocumentStore_SearchByType(t *testing.T) {
	store := NewMemoryDocumentStore(corpusFixture()...)

	results := store.Search("report")
	require.Len(t, results, 1)
	assert.Equal(t, "REP-001", results[0].ID)
}

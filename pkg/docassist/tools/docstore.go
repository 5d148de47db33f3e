package tools

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"gopkg.in/yaml.v3"
)

// Tool names recorded in tools_used.
const (
	DocumentSearchName     = "document_search"
	DocumentReadName       = "document_reader"
	DocumentStatisticsName = "document_statistics"
)

// ErrDocumentNotFound indicates a read for an unknown document id.
// Callers must treat this as "no evidence found", not as a fatal error.
var ErrDocumentNotFound = errors.New("document not found")

// Document is a full corpus entry. Type is free-form ("invoice",
// "contract", ...); documents without one are counted as "unknown" in
// statistics.
type Document struct {
	ID      string `yaml:"id" json:"id"`
	Title   string `yaml:"title" json:"title"`
	Type    string `yaml:"type" json:"type,omitempty"`
	Content string `yaml:"content" json:"content"`
}

// Summary is the search-result view of a document.
type Summary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Brief string `json:"brief"`
}

// Statistics describes the corpus as a whole.
type Statistics struct {
	TotalDocuments int            `json:"total_documents"`
	DocumentTypes  map[string]int `json:"document_types"`
}

// DocumentStore is the retrieval contract the qa and summarization
// nodes depend on. Search may return an empty slice; Read may return
// ErrDocumentNotFound.
type DocumentStore interface {
	Search(query string) []Summary
	Read(id string) (Document, error)
	Stats() Statistics
}

// MemoryDocumentStore serves a fixed in-memory corpus with a
// read-through cache in front of Read. Safe for concurrent use.
type MemoryDocumentStore struct {
	mu    sync.RWMutex
	order []string
	docs  map[string]Document
	cache *gocache.Cache
}

// NewMemoryDocumentStore creates a store over the given documents.
// Insertion order is preserved in search results.
func NewMemoryDocumentStore(docs ...Document) *MemoryDocumentStore {
	s := &MemoryDocumentStore{
		docs:  make(map[string]Document, len(docs)),
		cache: gocache.New(5*time.Minute, 10*time.Minute),
	}
	for _, d := range docs {
		s.Add(d)
	}
	return s
}

// Add inserts or replaces a document.
func (s *MemoryDocumentStore) Add(d Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[d.ID]; !exists {
		s.order = append(s.order, d.ID)
	}
	s.docs[d.ID] = d
	s.cache.Delete(d.ID)
}

// Search returns summaries for documents matching the query. Every
// whitespace-separated query term is matched case-insensitively
// against id, title, and content; a document matches if any term hits.
func (s *MemoryDocumentStore) Search(query string) []Summary {
	terms := strings.Fields(strings.ToLower(query))

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []Summary
	for _, id := range s.order {
		doc := s.docs[id]
		if matchesAny(doc, terms) {
			results = append(results, Summary{
				ID:    doc.ID,
				Title: doc.Title,
				Brief: brief(doc.Content),
			})
		}
	}
	return results
}

// Read returns the full document for an id, or ErrDocumentNotFound.
func (s *MemoryDocumentStore) Read(id string) (Document, error) {
	if cached, ok := s.cache.Get(id); ok {
		return cached.(Document), nil
	}

	s.mu.RLock()
	doc, ok := s.docs[id]
	s.mu.RUnlock()

	if !ok {
		return Document{}, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}

	s.cache.Set(id, doc, gocache.DefaultExpiration)
	return doc, nil
}

// Stats returns corpus totals and per-type counts.
func (s *MemoryDocumentStore) Stats() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make(map[string]int)
	for _, doc := range s.docs {
		typ := doc.Type
		if typ == "" {
			typ = "unknown"
		}
		types[typ]++
	}
	return Statistics{
		TotalDocuments: len(s.docs),
		DocumentTypes:  types,
	}
}

// matchesAny reports whether any term appears in the document.
// An empty term list matches everything.
func matchesAny(doc Document, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	haystack := strings.ToLower(doc.ID + " " + doc.Title + " " + doc.Type + " " + doc.Content)
	for _, t := range terms {
		if strings.Contains(haystack, t) {
			return true
		}
	}
	return false
}

// brief returns the first briefLen characters of content.
const briefLen = 120

func brief(content string) string {
	content = strings.TrimSpace(content)
	if len(content) <= briefLen {
		return content
	}
	return content[:briefLen] + "..."
}

// LoadCorpus reads documents from a YAML file with a top-level
// "documents" list.
func LoadCorpus(path string) ([]Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}

	var file struct {
		Documents []Document `yaml:"documents"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse corpus file: %w", err)
	}

	for i, d := range file.Documents {
		if d.ID == "" {
			return nil, fmt.Errorf("corpus document %d has no id", i)
		}
	}
	return file.Documents, nil
}

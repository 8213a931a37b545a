// Package knowledge implements semantic FAQ retrieval: documents and queries
// are embedded with a deterministic feature-hashing encoder and ranked by
// cosine similarity. The provider is self-contained; production deployments
// can swap the corpus (LoadDocuments) without touching the agent contract.
package knowledge

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/caremesh/caremesh/core"
)

// DefaultTopK bounds result counts when the caller requests none.
const DefaultTopK = 5

// snippetLength bounds the content excerpt on a returned article.
const snippetLength = 160

// Document is one FAQ article in the corpus.
type Document struct {
	ArticleID string        `json:"article_id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Language  core.Language `json:"language"`
	Category  string        `json:"category"`
}

// Agent is the knowledge-search capability provider. Its index is built once
// at construction and read-only afterward, so it is safe for concurrent use.
type Agent struct {
	docs     []Document
	index    [][]float64
	embedder *embedder
}

// New constructs the agent over the embedded seed corpus.
func New() *Agent {
	return NewFromDocuments(seedCorpus)
}

// NewFromDocuments constructs the agent over a caller-supplied corpus.
func NewFromDocuments(docs []Document) *Agent {
	emb := newEmbedder(embeddingDims)
	index := make([][]float64, len(docs))
	for i, doc := range docs {
		index[i] = emb.Encode(doc.Title + " " + doc.Content)
	}
	return &Agent{docs: docs, index: index, embedder: emb}
}

// Name returns the agent role.
func (a *Agent) Name() string { return core.RoleKnowledge }

// Process ranks the corpus against the query and returns the top matches. An
// empty query yields no articles rather than an error: there is nothing to
// search, but nothing failed.
func (a *Agent) Process(_ context.Context, input core.KnowledgeInput) (core.KnowledgeOutput, error) {
	if strings.TrimSpace(input.Query) == "" || len(a.docs) == 0 {
		return core.KnowledgeOutput{Articles: []core.FAQArticle{}}, nil
	}

	topK := input.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	query := a.embedder.Encode(input.Query)

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, 0, len(a.docs))
	for i := range a.docs {
		if input.Language != "" && a.docs[i].Language != "" && a.docs[i].Language != input.Language {
			continue
		}
		ranked = append(ranked, scored{idx: i, score: cosine(query, a.index[i])})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	articles := make([]core.FAQArticle, 0, len(ranked))
	for _, r := range ranked {
		doc := a.docs[r.idx]
		articles = append(articles, core.FAQArticle{
			ArticleID:       doc.ArticleID,
			Title:           doc.Title,
			ContentSnippet:  snippet(doc.Content),
			ConfidenceScore: confidence(r.score),
		})
	}
	return core.KnowledgeOutput{Articles: articles}, nil
}

// confidence maps cosine similarity from [-1, 1] into [0, 1].
func confidence(cos float64) float64 {
	c := (cos + 1) / 2
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// snippet truncates content to at most snippetLength bytes, backing up to the
// nearest rune boundary so multi-byte text is never cut mid-rune.
func snippet(content string) string {
	if len(content) <= snippetLength {
		return content
	}
	cut := snippetLength
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut]
}

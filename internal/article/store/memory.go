// Package store holds the article catalog. The catalog is read-mostly: the
// platform publishes articles out of band, so the in-memory store is seeded
// at startup and only view counts change at runtime.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"quire/internal/article/models"
	"quire/pkg/platform/sentinel"
)

// Memory is the seeded in-memory article catalog.
type Memory struct {
	mu       sync.RWMutex
	byID     map[uuid.UUID]*models.Article
	ordered []uuid.UUID // newest first
}

// NewMemory creates a catalog holding the given articles.
func NewMemory(articles []*models.Article) *Memory {
	m := &Memory{byID: make(map[uuid.UUID]*models.Article, len(articles))}
	sorted := append([]*models.Article(nil), articles...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt.After(sorted[j].PublishedAt)
	})
	for _, a := range sorted {
		m.byID[a.ID] = a
		m.ordered = append(m.ordered, a.ID)
	}
	return m
}

// Get returns one article by ID.
func (m *Memory) Get(_ context.Context, id uuid.UUID) (*models.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

// Browse returns a page of articles, newest first, optionally filtered by
// subject (case-insensitive exact match).
func (m *Memory) Browse(_ context.Context, subject string, offset, limit int) (*models.Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*models.Article
	for _, id := range m.ordered {
		a := m.byID[id]
		if subject != "" && !hasSubject(a, subject) {
			continue
		}
		matched = append(matched, a)
	}
	return paginate(matched, offset, limit), nil
}

// Search matches the query as a case-insensitive substring of title,
// abstract, or any author name, newest first.
func (m *Memory) Search(_ context.Context, query string, offset, limit int) (*models.Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	var matched []*models.Article
	for _, id := range m.ordered {
		a := m.byID[id]
		if q == "" || matches(a, q) {
			matched = append(matched, a)
		}
	}
	return paginate(matched, offset, limit), nil
}

// SetViews updates an article's cached view count.
func (m *Memory) SetViews(_ context.Context, id uuid.UUID, views int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.byID[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	a.Views = views
	return nil
}

func hasSubject(a *models.Article, subject string) bool {
	for _, s := range a.Subjects {
		if strings.EqualFold(s, subject) {
			return true
		}
	}
	return false
}

func matches(a *models.Article, q string) bool {
	if strings.Contains(strings.ToLower(a.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(a.Abstract), q) {
		return true
	}
	for _, author := range a.Authors {
		if strings.Contains(strings.ToLower(author), q) {
			return true
		}
	}
	return false
}

func paginate(matched []*models.Article, offset, limit int) *models.Page {
	total := len(matched)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	page := make([]*models.Article, 0, end-offset)
	for _, a := range matched[offset:end] {
		cp := *a
		page = append(page, &cp)
	}
	return &models.Page{Articles: page, Total: total, Offset: offset, Limit: limit}
}

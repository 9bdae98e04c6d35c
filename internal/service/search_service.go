package service

import (
	"encoding/json"
	"fmt"
	"html"
	"log"
	"strings"

	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"

	"github.com/terzahh/samara-repository-sub000/internal/dto"
	"github.com/terzahh/samara-repository-sub000/internal/model"
)

const researchIndex = "research"

type SearchService interface {
	IndexResearch(research *model.Research) error
	DeleteResearch(id string) error
	Search(query dto.SearchQuery) ([]ResearchDoc, error)
}

// ResearchDoc is the shape stored in the search index.
type ResearchDoc struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Author         string `json:"author"`
	Abstract       string `json:"abstract"`
	Keywords       string `json:"keywords"`
	Type           string `json:"type"`
	Year           int    `json:"year"`
	AccessLevel    string `json:"access_level"`
	DepartmentID   string `json:"department_id"`
	DepartmentName string `json:"department_name"`
	Downloads      int    `json:"downloads"`
	CreatedAt      int64  `json:"created_at"`
}

type meiliSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewMeiliSearchService(client meilisearch.ServiceManager) SearchService {
	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndex()
	return s
}

func (s *meiliSearchService) initIndex() {
	filterableAttrs := []string{"department_id", "type", "year", "access_level"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index(researchIndex).UpdateFilterableAttributes(&filterableInterface); err != nil {
		log.Printf("Failed to update research filterable attributes: %v", err)
	}

	sortableAttrs := []string{"created_at", "downloads"}
	if _, err := s.client.Index(researchIndex).UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("Failed to update research sortable attributes: %v", err)
	}
}

// cleanAbstract strips markup and entities before indexing.
func (s *meiliSearchService) cleanAbstract(content string) string {
	sanitized := s.sanitizer.Sanitize(content)
	cleanText := html.UnescapeString(sanitized)
	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *meiliSearchService) IndexResearch(research *model.Research) error {
	doc := ResearchDoc{
		ID:             research.ID.String(),
		Title:          research.Title,
		Author:         research.Author,
		Abstract:       s.cleanAbstract(research.Abstract),
		Keywords:       research.Keywords,
		Type:           research.Type,
		Year:           research.Year,
		AccessLevel:    research.AccessLevel,
		DepartmentID:   research.DepartmentID.String(),
		DepartmentName: research.Department.Name,
		Downloads:      research.Downloads,
		CreatedAt:      research.CreatedAt.Unix(),
	}

	if _, err := s.client.Index(researchIndex).AddDocuments([]ResearchDoc{doc}, strPtr("id")); err != nil {
		return fmt.Errorf("failed to index research %s: %w", doc.ID, err)
	}

	return nil
}

func (s *meiliSearchService) DeleteResearch(id string) error {
	if _, err := s.client.Index(researchIndex).DeleteDocument(id); err != nil {
		return fmt.Errorf("failed to delete research %s from index: %w", id, err)
	}
	return nil
}

// searchFilters assembles the filter expression for a query. AccessLevel is
// only ever set server-side, so the expression cannot widen what a caller sees.
func searchFilters(query dto.SearchQuery) string {
	var filters []string
	if query.DepartmentID != "" {
		filters = append(filters, fmt.Sprintf("department_id = %q", query.DepartmentID))
	}
	if query.Type != "" {
		filters = append(filters, fmt.Sprintf("type = %q", query.Type))
	}
	if query.Year != 0 {
		filters = append(filters, fmt.Sprintf("year = %d", query.Year))
	}
	if query.AccessLevel != "" {
		filters = append(filters, fmt.Sprintf("access_level = %q", query.AccessLevel))
	}
	return strings.Join(filters, " AND ")
}

func (s *meiliSearchService) Search(query dto.SearchQuery) ([]ResearchDoc, error) {
	req := &meilisearch.SearchRequest{
		Limit: int64(query.Limit),
	}
	if expr := searchFilters(query); expr != "" {
		req.Filter = expr
	}

	resp, err := s.client.Index(researchIndex).Search(query.Query, req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	raw, err := json.Marshal(resp.Hits)
	if err != nil {
		return nil, err
	}

	var docs []ResearchDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}

	return docs, nil
}

func strPtr(s string) *string {
	return &s
}

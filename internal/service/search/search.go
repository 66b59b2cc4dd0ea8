package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/legalpadi/internal/models"
)

// CourseIndex keeps a full-text index of courses.
type CourseIndex interface {
	Index(ctx context.Context, c *models.Course) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, query string, from, size int) (int64, []string, error)
}

type courseDoc struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type ESIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func (s *ESIndex) Index(ctx context.Context, c *models.Course) error {
	doc := courseDoc{ID: c.ID, Title: c.Title, Description: c.Description}
	for _, t := range c.Tags {
		doc.Tags = append(doc.Tags, t.Name)
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("encode course doc: %w", err)
	}

	res, err := s.ES.Index(s.Index, &buf,
		s.ES.Index.WithContext(ctx),
		s.ES.Index.WithDocumentID(c.ID),
	)
	if err != nil {
		return fmt.Errorf("index course: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index course", res.Status(), res.Body)
	}
	return nil
}

func (s *ESIndex) Remove(ctx context.Context, id string) error {
	res, err := s.ES.Delete(s.Index, id, s.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("remove course: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("remove course", res.Status(), res.Body)
	}
	return nil
}

func (s *ESIndex) Search(ctx context.Context, query string, from, size int) (int64, []string, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "description", "tags"},
				"fuzziness": "AUTO",
			},
		},
		"_source": []string{"id"},
		"from":    from,
		"size":    size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode search body: %w", err)
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.Index),
		s.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search courses: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, responseError("search courses", res.Status(), res.Body)
	}

	return decodeHits(res.Body)
}

func decodeHits(r io.Reader) (int64, []string, error) {
	var out struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID     string    `json:"_id"`
				Source courseDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return 0, nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]string, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		id := h.Source.ID
		if id == "" {
			id = h.ID
		}
		ids = append(ids, id)
	}
	return out.Hits.Total.Value, ids, nil
}

func responseError(op, status string, body io.Reader) error {
	b, _ := io.ReadAll(io.LimitReader(body, 4<<10))
	return fmt.Errorf("%s: elasticsearch %s: %s", op, status, b)
}

type courseSearcher interface {
	SearchCourses(ctx context.Context, query string, offset, limit int) ([]models.Course, int64, error)
}

// DBIndex answers searches from the relational store. Index and Remove are
// no-ops because the rows are the index.
type DBIndex struct {
	Repo courseSearcher
}

func (d *DBIndex) Index(context.Context, *models.Course) error { return nil }

func (d *DBIndex) Remove(context.Context, string) error { return nil }

func (d *DBIndex) Search(ctx context.Context, query string, from, size int) (int64, []string, error) {
	courses, total, err := d.Repo.SearchCourses(ctx, query, from, size)
	if err != nil {
		return 0, nil, err
	}
	ids := make([]string, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
	}
	return total, ids, nil
}

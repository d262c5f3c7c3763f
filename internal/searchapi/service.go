package searchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/SmirnovaT/Auth-sprint-2/internal/cache"
)

const (
	filmsIndex   = "movies"
	personsIndex = "persons"
)

var ErrNotFound = errors.New("document not found")

type Film struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	IMDbRating  float64  `json:"imdb_rating"`
	Description string   `json:"description,omitempty"`
	Genres      []string `json:"genres,omitempty"`
}

type Person struct {
	ID       string   `json:"id"`
	FullName string   `json:"full_name"`
	FilmIDs  []string `json:"film_ids,omitempty"`
}

// Service answers catalog queries from Elasticsearch with a read-through
// Redis cache in front.
type Service struct {
	es       *elasticsearch.Client
	cache    cache.SessionCache
	cacheTTL time.Duration
}

func NewService(es *elasticsearch.Client, responses cache.SessionCache, cacheTTL time.Duration) *Service {
	return &Service{es: es, cache: responses, cacheTTL: cacheTTL}
}

func (s *Service) SearchFilms(ctx context.Context, query string, page, size int) ([]Film, error) {
	key := fmt.Sprintf("search:films:%s:%d:%d", query, page, size)
	var films []Film
	if s.fromCache(ctx, key, &films) {
		return films, nil
	}

	if err := s.search(ctx, filmsIndex, "title", query, page, size, &films); err != nil {
		return nil, err
	}
	s.toCache(ctx, key, films)
	return films, nil
}

func (s *Service) GetFilm(ctx context.Context, id string) (*Film, error) {
	key := "film:" + id
	var film Film
	if s.fromCache(ctx, key, &film) {
		return &film, nil
	}

	if err := s.get(ctx, filmsIndex, id, &film); err != nil {
		return nil, err
	}
	s.toCache(ctx, key, film)
	return &film, nil
}

func (s *Service) SearchPersons(ctx context.Context, query string, page, size int) ([]Person, error) {
	key := fmt.Sprintf("search:persons:%s:%d:%d", query, page, size)
	var persons []Person
	if s.fromCache(ctx, key, &persons) {
		return persons, nil
	}

	if err := s.search(ctx, personsIndex, "full_name", query, page, size, &persons); err != nil {
		return nil, err
	}
	s.toCache(ctx, key, persons)
	return persons, nil
}

func (s *Service) GetPerson(ctx context.Context, id string) (*Person, error) {
	key := "person:" + id
	var person Person
	if s.fromCache(ctx, key, &person) {
		return &person, nil
	}

	if err := s.get(ctx, personsIndex, id, &person); err != nil {
		return nil, err
	}
	s.toCache(ctx, key, person)
	return &person, nil
}

func (s *Service) search(ctx context.Context, index, field, query string, page, size int, out any) error {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	body := map[string]any{
		"from": (page - 1) * size,
		"size": size,
	}
	if query == "" {
		body["query"] = map[string]any{"match_all": map[string]any{}}
	} else {
		body["query"] = map[string]any{
			"match": map[string]any{
				field: map[string]any{"query": query, "fuzziness": "auto"},
			},
		}
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}

	resp, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(index),
		s.es.Search.WithBody(&buf),
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return fmt.Errorf("elasticsearch: search %s: %s", index, resp.Status())
	}

	var envelope struct {
		Hits struct {
			Hits []struct {
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return err
	}

	sources := make([]json.RawMessage, 0, len(envelope.Hits.Hits))
	for _, hit := range envelope.Hits.Hits {
		sources = append(sources, hit.Source)
	}
	joined, err := json.Marshal(sources)
	if err != nil {
		return err
	}
	return json.Unmarshal(joined, out)
}

func (s *Service) get(ctx context.Context, index, id string, out any) error {
	resp, err := s.es.Get(index, id, s.es.Get.WithContext(ctx))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == 404 {
		return ErrNotFound
	}
	if resp.IsError() {
		return fmt.Errorf("elasticsearch: get %s/%s: %s", index, id, resp.Status())
	}

	var envelope struct {
		Found  bool            `json:"found"`
		Source json.RawMessage `json:"_source"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return err
	}
	if !envelope.Found {
		return ErrNotFound
	}
	return json.Unmarshal(envelope.Source, out)
}

// fromCache reports whether the key was present and decoded into out. Cache
// failures only cost a trip to Elasticsearch.
func (s *Service) fromCache(ctx context.Context, key string, out any) bool {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			log.Printf("search cache: get %q: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Printf("search cache: decode %q: %v", key, err)
		return false
	}
	return true
}

func (s *Service) toCache(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.cacheTTL); err != nil {
		log.Printf("search cache: set %q: %v", key, err)
	}
}

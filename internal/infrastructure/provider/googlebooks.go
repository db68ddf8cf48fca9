package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"bookreview-backend/pkg/logger"
)

// GoogleBooks normalizes the Google Books volumes API into NormalizedBook.
// Implements BookSource. All failures degrade to empty results so a broken
// upstream never fails a catalog search.
type GoogleBooks struct {
	baseURL string
	client  *http.Client
}

func NewGoogleBooks(baseURL string) *GoogleBooks {
	return &GoogleBooks{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// volume mirrors the subset of the Google Books response we consume.
type volume struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title         string   `json:"title"`
		Authors       []string `json:"authors"`
		Description   string   `json:"description"`
		PageCount     int      `json:"pageCount"`
		Categories    []string `json:"categories"`
		AverageRating float64  `json:"averageRating"`
		ImageLinks    struct {
			Thumbnail string `json:"thumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

type volumeList struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

func (g *GoogleBooks) Search(ctx context.Context, query string, page, limit int) SearchResult {
	startIndex := (page - 1) * limit

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("startIndex", strconv.Itoa(startIndex))

	var list volumeList
	if err := g.getJSON(ctx, g.baseURL+"/volumes?"+params.Encode(), &list); err != nil {
		logger.Warn("google books search failed, returning empty page", err)
		return SearchResult{Items: []NormalizedBook{}}
	}

	// Dedup within the response by external id, first occurrence wins.
	seen := make(map[string]bool)
	items := make([]NormalizedBook, 0, len(list.Items))
	for _, v := range list.Items {
		if v.ID == "" || seen[v.ID] {
			continue
		}
		seen[v.ID] = true
		items = append(items, normalizeVolume(v))
	}

	return SearchResult{Items: items, TotalItems: list.TotalItems}
}

func (g *GoogleBooks) FetchByID(ctx context.Context, externalID string) *NormalizedBook {
	var v volume
	if err := g.getJSON(ctx, g.baseURL+"/volumes/"+url.PathEscape(externalID), &v); err != nil {
		logger.Warn("google books fetch failed", err)
		return nil
	}
	if v.ID == "" {
		return nil
	}

	book := normalizeVolume(v)
	return &book
}

func (g *GoogleBooks) getJSON(ctx context.Context, rawURL string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("google books request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("google books returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode google books response: %w", err)
	}
	return nil
}

func normalizeVolume(v volume) NormalizedBook {
	info := v.VolumeInfo

	book := NormalizedBook{
		ExternalID: v.ID,
		Title:      info.Title,
		Authors:    info.Authors,
		Categories: cleanCategories(info.Categories),
	}

	if book.Title == "" {
		book.Title = placeholderTitle
	}
	if book.Authors == nil {
		book.Authors = []string{}
	}
	if info.Description != "" {
		desc := stripMarkup(info.Description)
		book.Description = &desc
	}
	if info.PageCount > 0 {
		pages := info.PageCount
		book.PageCount = &pages
	}
	if info.ImageLinks.Thumbnail != "" {
		thumb := info.ImageLinks.Thumbnail
		book.Thumbnail = &thumb
	}
	if info.AverageRating > 0 {
		rating := info.AverageRating
		book.AverageRating = &rating
	}

	return book
}

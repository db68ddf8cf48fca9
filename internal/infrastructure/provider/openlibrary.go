package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"bookreview-backend/pkg/logger"
)

const (
	authorMaxRetries = 3
	maxAuthorWorks   = 10
)

// OpenLibrary provides the import-by-key book lookup and author search.
// Book lookups soft-fail to nil; author-detail requests retry transient
// 503 responses with exponential backoff before giving up.
type OpenLibrary struct {
	baseURL      string
	client       *http.Client
	retryBackoff time.Duration
}

func NewOpenLibrary(baseURL string) *OpenLibrary {
	return &OpenLibrary{
		baseURL:      baseURL,
		client:       &http.Client{Timeout: 10 * time.Second},
		retryBackoff: time.Second,
	}
}

// flexText decodes Open Library fields that are either a plain string
// or an object of the form {"type": ..., "value": "..."}.
type flexText string

func (t *flexText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = flexText(s)
		return nil
	}

	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*t = flexText(obj.Value)
	return nil
}

type olBookData struct {
	Title   string `json:"title"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
	Description   flexText `json:"description"`
	NumberOfPages int      `json:"number_of_pages"`
	Subjects      []struct {
		Name string `json:"name"`
	} `json:"subjects"`
	Cover struct {
		Large  string `json:"large"`
		Medium string `json:"medium"`
		Small  string `json:"small"`
	} `json:"cover"`
	Ratings struct {
		Average float64 `json:"average"`
	} `json:"ratings"`
}

// FetchBookByKey resolves an Open Library edition key (OLID) into the
// canonical book shape. Returns nil when the key is unknown or the
// request fails.
func (o *OpenLibrary) FetchBookByKey(ctx context.Context, key string) *NormalizedBook {
	params := url.Values{}
	params.Set("bibkeys", "OLID:"+key)
	params.Set("format", "json")
	params.Set("jscmd", "data")

	body, err := o.get(ctx, o.baseURL+"/api/books?"+params.Encode())
	if err != nil {
		logger.Warn("open library book fetch failed", err)
		return nil
	}

	var data map[string]olBookData
	if err := json.Unmarshal(body, &data); err != nil {
		logger.Warn("open library book decode failed", err)
		return nil
	}

	bookData, ok := data["OLID:"+key]
	if !ok {
		return nil
	}

	book := NormalizedBook{
		ExternalID: key,
		Title:      bookData.Title,
		Authors:    make([]string, 0, len(bookData.Authors)),
		Categories: make([]string, 0, len(bookData.Subjects)),
	}
	if book.Title == "" {
		book.Title = placeholderTitle
	}
	for _, a := range bookData.Authors {
		book.Authors = append(book.Authors, a.Name)
	}
	subjects := make([]string, 0, len(bookData.Subjects))
	for _, s := range bookData.Subjects {
		subjects = append(subjects, s.Name)
	}
	book.Categories = cleanCategories(subjects)

	if desc := string(bookData.Description); desc != "" {
		stripped := stripMarkup(desc)
		book.Description = &stripped
	}
	if bookData.NumberOfPages > 0 {
		pages := bookData.NumberOfPages
		book.PageCount = &pages
	}
	if thumb := firstNonEmpty(bookData.Cover.Large, bookData.Cover.Medium, bookData.Cover.Small); thumb != "" {
		book.Thumbnail = &thumb
	}
	if bookData.Ratings.Average > 0 {
		rating := bookData.Ratings.Average
		book.AverageRating = &rating
	}

	return &book
}

type olAuthorDoc struct {
	Key            string   `json:"key"`
	TopSubjects    []string `json:"top_subjects"`
	WorkCount      int      `json:"work_count"`
	RatingsAverage float64  `json:"ratings_average"`
	RatingsCount   int      `json:"ratings_count"`
}

type olAuthor struct {
	Name      string   `json:"name"`
	BirthDate string   `json:"birth_date"`
	DeathDate string   `json:"death_date"`
	Bio       flexText `json:"bio"`
	Photos    []int    `json:"photos"`
}

type olWork struct {
	Title            string   `json:"title"`
	Key              string   `json:"key"`
	FirstPublishDate string   `json:"first_publish_date"`
	Subjects         []string `json:"subjects"`
	Description      flexText `json:"description"`
	CoverID          int      `json:"cover_id"`
	Covers           []int    `json:"covers"`
}

// SearchAuthor looks up an author by name and assembles details plus a
// bounded list of works. Returns nil when no author matches or the
// upstream stays unavailable after retries.
func (o *OpenLibrary) SearchAuthor(ctx context.Context, name string) *AuthorDetails {
	body, err := o.getWithRetry(ctx, o.baseURL+"/search/authors.json?q="+url.QueryEscape(name))
	if err != nil {
		logger.Warn("open library author search failed", err)
		return nil
	}

	var search struct {
		Docs []olAuthorDoc `json:"docs"`
	}
	if err := json.Unmarshal(body, &search); err != nil || len(search.Docs) == 0 {
		return nil
	}
	doc := search.Docs[0]

	body, err = o.getWithRetry(ctx, o.baseURL+"/authors/"+doc.Key+".json")
	if err != nil {
		logger.Warn("open library author detail failed", err)
		return nil
	}
	var author olAuthor
	if err := json.Unmarshal(body, &author); err != nil {
		return nil
	}

	works := o.fetchAuthorWorks(ctx, doc.Key)

	details := &AuthorDetails{
		Name:         author.Name,
		Key:          doc.Key,
		Works:        works,
		TopSubjects:  doc.TopSubjects,
		WorkCount:    doc.WorkCount,
		RatingsCount: doc.RatingsCount,
	}
	if details.Name == "" {
		details.Name = name
	}
	if details.TopSubjects == nil {
		details.TopSubjects = []string{}
	}
	if author.BirthDate != "" {
		details.BirthDate = &author.BirthDate
	}
	if author.DeathDate != "" {
		details.DeathDate = &author.DeathDate
	}
	if bio := string(author.Bio); bio != "" {
		details.Bio = &bio
	}
	if len(author.Photos) > 0 {
		photo := fmt.Sprintf("https://covers.openlibrary.org/a/id/%d-L.jpg", author.Photos[0])
		details.Photo = &photo
	}
	if doc.RatingsAverage > 0 {
		avg := doc.RatingsAverage
		details.RatingsAverage = &avg
	}

	return details
}

func (o *OpenLibrary) fetchAuthorWorks(ctx context.Context, authorKey string) []AuthorWork {
	works := []AuthorWork{}

	body, err := o.getWithRetry(ctx, o.baseURL+"/authors/"+authorKey+"/works.json")
	if err != nil {
		logger.Warn("open library works listing failed", err)
		return works
	}

	var listing struct {
		Entries []olWork `json:"entries"`
	}
	if err := json.Unmarshal(body, &listing); err != nil {
		return works
	}

	entries := listing.Entries
	if len(entries) > maxAuthorWorks {
		entries = entries[:maxAuthorWorks]
	}

	for _, entry := range entries {
		// Detail fetch enriches the work; fall back to the listing entry.
		detailBody, err := o.getWithRetry(ctx, o.baseURL+entry.Key+".json")
		if err == nil {
			var detail olWork
			if err := json.Unmarshal(detailBody, &detail); err == nil {
				if detail.Key == "" {
					detail.Key = entry.Key
				}
				works = append(works, normalizeWork(detail))
				continue
			}
		}
		works = append(works, normalizeWork(entry))
	}

	return works
}

func normalizeWork(w olWork) AuthorWork {
	work := AuthorWork{
		Title:    w.Title,
		Subjects: w.Subjects,
	}
	if work.Title == "" {
		work.Title = placeholderTitle
	}
	if work.Subjects == nil {
		work.Subjects = []string{}
	}
	if w.Key != "" {
		key := w.Key
		work.Key = &key
	}
	if w.FirstPublishDate != "" {
		published := w.FirstPublishDate
		work.FirstPublished = &published
	}
	if desc := string(w.Description); desc != "" {
		work.Description = &desc
	}

	coverID := w.CoverID
	if coverID == 0 && len(w.Covers) > 0 {
		coverID = w.Covers[0]
	}
	if coverID != 0 {
		id := coverID
		work.CoverID = &id
		coverURL := fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-L.jpg", id)
		work.CoverURL = &coverURL
	}

	return work
}

func (o *OpenLibrary) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "BookReviewAPI/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open library request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}

	return io.ReadAll(resp.Body)
}

// getWithRetry retries transient 503 responses with exponential backoff.
// Other failures are returned immediately.
func (o *OpenLibrary) getWithRetry(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= authorMaxRetries; attempt++ {
		body, err := o.get(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if se, ok := err.(*statusError); !ok || se.code != http.StatusServiceUnavailable {
			return nil, err
		}

		if attempt < authorMaxRetries {
			// backoff = retryBackoff * 2^attempt
			delay := o.retryBackoff * time.Duration(1<<uint(attempt))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, lastErr
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("open library returned status %d", e.code)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cast"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
	"costume-rental-backend/internal/utils"
)

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := cast.ToIntE(raw)
	if err != nil {
		return fallback
	}
	return n
}

func parsePage(r *http.Request) repository.Page {
	return repository.Page{
		Page:  queryInt(r, "page", 1),
		Limit: queryInt(r, "limit", repository.DefaultPageSize),
	}.Normalize()
}

// parseSort reads sort_by and sort_order. Unknown columns fall back to the repository default.
func parseSort(r *http.Request) repository.Sort {
	q := r.URL.Query()
	order := strings.ToLower(q.Get("sort_order"))
	return repository.Sort{
		Field: q.Get("sort_by"),
		Desc:  order == "" || order == "desc",
	}
}

func queryDate(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	t, err := utils.ParseDate(raw)
	if err != nil {
		return nil, domain.Validation("Invalid %s", key)
	}
	return &t, nil
}

type pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func newPagination(page repository.Page, total int) pagination {
	pages := 0
	if page.Limit > 0 {
		pages = (total + page.Limit - 1) / page.Limit
	}
	return pagination{Page: page.Page, Limit: page.Limit, Total: total, TotalPages: pages}
}

package domain

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// ID is used across domain entities.
type ID int64

// Sort defines sorting preference.
type Sort struct {
	Field     string `json:"field"`
	Direction string `json:"direction"` // asc / desc
}

// ParseSort reads "col" (ascending) or "-col" (descending).
func ParseSort(raw string) Sort {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "-") {
		return Sort{Field: strings.TrimPrefix(raw, "-"), Direction: "desc"}
	}
	return Sort{Field: raw, Direction: "asc"}
}

func (s Sort) String() string {
	if s.Direction == "desc" {
		return "-" + s.Field
	}
	return s.Field
}

// PageParams are the list parameters shared by the REST API and the portal.
type PageParams struct {
	Page    int
	Limit   int
	Sort    string
	Search  string
	Filters map[string]string
}

// Normalize clamps paging values and falls back to defaultSort.
func (p PageParams) Normalize(defaultLimit int, defaultSort string) PageParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if strings.TrimSpace(p.Sort) == "" {
		p.Sort = defaultSort
	}
	p.Search = strings.TrimSpace(p.Search)
	return p
}

// Offset is the row offset of the first record on the page.
func (p PageParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Values encodes the params as query string values: page, limit, sort, search, filter[col].
func (p PageParams) Values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Sort != "" {
		v.Set("sort", p.Sort)
	}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	keys := make([]string, 0, len(p.Filters))
	for k := range p.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if val := strings.TrimSpace(p.Filters[k]); val != "" {
			v.Set("filter["+k+"]", val)
		}
	}
	return v
}

// PageParamsFromValues is the inverse of Values.
func PageParamsFromValues(v url.Values) PageParams {
	p := PageParams{
		Sort:    strings.TrimSpace(v.Get("sort")),
		Search:  strings.TrimSpace(v.Get("search")),
		Filters: map[string]string{},
	}
	p.Page, _ = strconv.Atoi(v.Get("page"))
	p.Limit, _ = strconv.Atoi(v.Get("limit"))
	for key, vals := range v {
		if !strings.HasPrefix(key, "filter[") || !strings.HasSuffix(key, "]") || len(vals) == 0 {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(key, "filter["), "]")
		if name != "" && strings.TrimSpace(vals[0]) != "" {
			p.Filters[name] = strings.TrimSpace(vals[0])
		}
	}
	return p
}

// Page is one page of records plus the metadata it was fetched with.
type Page[T any] struct {
	Records  []T    `json:"records"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	Limit    int    `json:"limit"`
	LastPage int    `json:"last_page"`
	Sort     string `json:"sort"`
}

// NewPage fills the derived metadata for records fetched with p.
func NewPage[T any](records []T, total int, p PageParams) Page[T] {
	if records == nil {
		records = []T{}
	}
	last := 1
	if p.Limit > 0 && total > 0 {
		last = (total + p.Limit - 1) / p.Limit
	}
	return Page[T]{
		Records:  records,
		Total:    total,
		Page:     p.Page,
		Limit:    p.Limit,
		LastPage: last,
		Sort:     p.Sort,
	}
}

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID   ID     `json:"userId"`
	Role     string `json:"role"`
	DriverID ID     `json:"driverId,omitempty"`
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageParamsRoundTripThroughQuery(t *testing.T) {
	p := PageParams{
		Page:    3,
		Limit:   25,
		Sort:    "-created_at",
		Search:  "naia",
		Filters: map[string]string{"status": "pending", "rider_type": ""},
	}

	v := p.Values()
	assert.Equal(t, "3", v.Get("page"))
	assert.Equal(t, "pending", v.Get("filter[status]"))
	assert.False(t, v.Has("filter[rider_type]"))

	back := PageParamsFromValues(v)
	assert.Equal(t, 3, back.Page)
	assert.Equal(t, 25, back.Limit)
	assert.Equal(t, "-created_at", back.Sort)
	assert.Equal(t, "naia", back.Search)
	assert.Equal(t, map[string]string{"status": "pending"}, back.Filters)
}

func TestPageParamsNormalize(t *testing.T) {
	p := PageParams{Page: 0, Limit: 500}.Normalize(10, "id")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.Limit)
	assert.Equal(t, "id", p.Sort)
	assert.Equal(t, 0, p.Offset())

	p = PageParams{Page: 4, Limit: 0}.Normalize(10, "id")
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 30, p.Offset())
}

func TestNewPageLastPage(t *testing.T) {
	page := NewPage([]int{1, 2}, 21, PageParams{Page: 1, Limit: 10, Sort: "id"})
	assert.Equal(t, 3, page.LastPage)

	empty := NewPage[int](nil, 0, PageParams{Page: 1, Limit: 10})
	assert.NotNil(t, empty.Records)
	assert.Equal(t, 1, empty.LastPage)
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, Sort{Field: "id", Direction: "asc"}, ParseSort("id"))
	assert.Equal(t, Sort{Field: "created_at", Direction: "desc"}, ParseSort("-created_at"))
	assert.Equal(t, "-created_at", ParseSort("-created_at").String())
}

func TestValidationPredicates(t *testing.T) {
	many := ValidationErrors{{Field: "status", Msg: "Required"}, {Field: "notes", Msg: "Required"}}
	assert.True(t, IsValidation(many))
	assert.Equal(t, "status: Required (and 1 more)", many.Error())
	assert.Equal(t, map[string]string{"status": "Required", "notes": "Required"}, many.Fields())

	assert.True(t, IsNotFound(NotFoundError{Resource: "transport request", ID: 7}))
	assert.Equal(t, "transport request 7 not found", NotFoundError{Resource: "transport request", ID: 7}.Error())
	assert.False(t, IsConflict(NotFoundError{}))
}

package utils

import (
	"math"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PaginationParams struct {
	Page     int    `json:"page" form:"page"`
	PageSize int    `json:"page_size" form:"page_size"`
	Sort     string `json:"sort" form:"sort"`
	Order    string `json:"order" form:"order"`
	Search   string `json:"search" form:"search"`
}

type PaginationMeta struct {
	Page        int   `json:"page"`
	PageSize    int   `json:"page_size"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

var sortableFields = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"amount":         true,
	"status":         true,
	"name":           true,
	"current_amount": true,
	"requested_at":   true,
}

// DefaultPagination is used by callers that list without query parameters.
func DefaultPagination() *PaginationParams {
	return &PaginationParams{Page: 1, PageSize: DefaultPageSize, Sort: "created_at", Order: "desc"}
}

func GetPaginationParams(c *gin.Context) *PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize))))
	sort := c.DefaultQuery("sort", "created_at")
	order := c.DefaultQuery("order", "desc")

	if page < 1 {
		page = 1
	}
	if pageSize < MinPageSize {
		pageSize = MinPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if !sortableFields[sort] {
		sort = "created_at"
	}
	if order != "asc" && order != "desc" {
		order = "desc"
	}

	return &PaginationParams{
		Page:     page,
		PageSize: pageSize,
		Sort:     sort,
		Order:    order,
		Search:   c.Query("search"),
	}
}

func (p *PaginationParams) GetSkip() int {
	return (p.Page - 1) * p.PageSize
}

func (p *PaginationParams) GetLimit() int {
	return p.PageSize
}

func (p *PaginationParams) Descending() bool {
	return p.Order != "asc"
}

func (p *PaginationParams) GetSortOptions() *options.FindOptions {
	opts := options.Find()
	opts.SetSkip(int64(p.GetSkip()))
	opts.SetLimit(int64(p.GetLimit()))

	sortOrder := 1
	if p.Descending() {
		sortOrder = -1
	}
	opts.SetSort(bson.D{{Key: p.Sort, Value: sortOrder}, {Key: "_id", Value: sortOrder}})

	return opts
}

// GetSearchFilter builds a case-insensitive $or regex filter over fields.
func (p *PaginationParams) GetSearchFilter(fields []string) bson.M {
	if p.Search == "" || len(fields) == 0 {
		return bson.M{}
	}

	pattern := regexp.QuoteMeta(p.Search)
	orConditions := make([]bson.M, 0, len(fields))
	for _, field := range fields {
		orConditions = append(orConditions, bson.M{
			field: bson.M{"$regex": pattern, "$options": "i"},
		})
	}

	return bson.M{"$or": orConditions}
}

// Window returns the [start, end) slice bounds for an in-memory result of size total.
func (p *PaginationParams) Window(total int) (int, int) {
	start := p.GetSkip()
	if start > total {
		start = total
	}
	end := start + p.GetLimit()
	if end > total {
		end = total
	}
	return start, end
}

func CreatePaginationMeta(params *PaginationParams, total int64) *PaginationMeta {
	totalPages := int(math.Ceil(float64(total) / float64(params.PageSize)))

	return &PaginationMeta{
		Page:        params.Page,
		PageSize:    params.PageSize,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     params.Page < totalPages,
		HasPrevious: params.Page > 1,
	}
}

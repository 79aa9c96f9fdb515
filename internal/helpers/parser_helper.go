package helpers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/farellandr/certportal/internal/repository"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)

var ErrInvalidPagination = errors.New("invalid pagination parameters")

func StringToInt(s string) (int, error) {
	return strconv.Atoi(s)
}

type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) Bounds() repository.Page {
	return repository.Page{Offset: (p.Page - 1) * p.Limit, Limit: p.Limit}
}

func (p Pagination) Response(total int64) gin.H {
	return gin.H{
		"total":       total,
		"page":        p.Page,
		"limit":       p.Limit,
		"total_pages": (total + int64(p.Limit) - 1) / int64(p.Limit),
	}
}

func ParsePagination(c *gin.Context) (Pagination, error) {
	pageNum, err := StringToInt(c.DefaultQuery("page", "1"))
	if err != nil || pageNum < 1 {
		return Pagination{}, ErrInvalidPagination
	}
	limitNum, err := StringToInt(c.DefaultQuery("limit", strconv.Itoa(DefaultPageLimit)))
	if err != nil || limitNum < 1 {
		return Pagination{}, ErrInvalidPagination
	}
	if limitNum > MaxPageLimit {
		limitNum = MaxPageLimit
	}
	return Pagination{Page: pageNum, Limit: limitNum}, nil
}

func ParseUUID(s string) (uuid.UUID, bool) {
	id, err := uuid.Parse(s)
	return id, err == nil
}

// ParseOptionalUUID returns nil for an empty string.
func ParseOptionalUUID(s string) (*uuid.UUID, bool) {
	if s == "" {
		return nil, true
	}
	id, ok := ParseUUID(s)
	if !ok {
		return nil, false
	}
	return &id, true
}

// ParseDate accepts a calendar date or an RFC 3339 timestamp and returns UTC
// midnight of the day as written. A timestamp keeps the day of its own offset.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

package services

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/baharkarakas/taskmanager-backend/internal/models"
)

const maxTaskLimit = 100

var sortFields = map[string]models.TaskSortField{
	"createdAt":   models.TaskSortCreatedAt,
	"updatedAt":   models.TaskSortUpdatedAt,
	"description": models.TaskSortDescription,
	"completed":   models.TaskSortCompleted,
}

// ParseTaskQuery reads completed, limit, offset (or skip) and
// sortBy=field:asc|desc from a query string.
func ParseTaskQuery(v url.Values) (models.TaskQuery, error) {
	q := models.TaskQuery{SortBy: models.TaskSortCreatedAt}

	if s := v.Get("completed"); s != "" {
		switch s {
		case "true":
			b := true
			q.Completed = &b
		case "false":
			b := false
			q.Completed = &b
		default:
			return models.TaskQuery{}, invalidField("completed", "must be true or false")
		}
	}

	if s := v.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return models.TaskQuery{}, invalidField("limit", "must be a non-negative integer")
		}
		q.Limit = min(n, maxTaskLimit)
	}

	offset := v.Get("offset")
	if offset == "" {
		offset = v.Get("skip")
	}
	if offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			return models.TaskQuery{}, invalidField("offset", "must be a non-negative integer")
		}
		q.Offset = n
	}

	if s := v.Get("sortBy"); s != "" {
		field, dir, _ := strings.Cut(s, ":")
		f, ok := sortFields[field]
		if !ok {
			return models.TaskQuery{}, invalidField("sortBy", "unknown field "+strconv.Quote(field))
		}
		q.SortBy = f
		switch strings.ToLower(dir) {
		case "", "asc":
		case "desc":
			q.Desc = true
		default:
			return models.TaskQuery{}, invalidField("sortBy", "direction must be asc or desc")
		}
	}
	return q, nil
}

package handlers

import (
	"errors"
	"strconv"
)

// maxPageSize bounds a single catalog page so a crafted limit cannot pull
// the whole collection in one request.
const maxPageSize = int64(100)

var errBadPagination = errors.New("invalid pagination params")

func parsePaginationParams(pageStr, limitStr string) (int64, int64, error) {
	page := int64(1)
	limit := int64(20)

	if pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, errBadPagination
		}
		page = p
	}

	if limitStr != "" {
		l, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || l < 1 {
			return 0, 0, errBadPagination
		}
		limit = l
	}

	if limit > maxPageSize {
		limit = maxPageSize
	}

	return page, limit, nil
}

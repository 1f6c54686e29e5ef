package persistence

import (
	"fmt"

	"github.com/retailpos/backend/internal/domain/shared"
)

// orderClause builds a safe ORDER BY clause from the filter. Only
// column names in the allow list are accepted, anything else falls
// back to created_at.
func orderClause(filter shared.Filter, validFields map[string]bool) string {
	orderBy := "created_at"
	if filter.OrderBy != "" && validFields[filter.OrderBy] {
		orderBy = filter.OrderBy
	}

	orderDir := "DESC"
	if filter.OrderDir == "asc" || filter.OrderDir == "ASC" {
		orderDir = "ASC"
	}

	return fmt.Sprintf("%s %s", orderBy, orderDir)
}

package httputil

import (
	"github.com/gin-gonic/gin"
	"github.com/program-ledger/console/internal/types"
)

// ParseID parses the ID in the path parameter.
func ParseID(c *gin.Context, param string) (types.ID, error) {
	return types.ParseID(c.Param(param))
}

// OptionalID parses an ID from the query string. A missing or invalid ID
// is no ID.
func OptionalID(c *gin.Context, key string) *types.ID {
	id, err := types.ParseOptionalID(c.Query(key))
	if err != nil {
		return nil
	}
	return id
}

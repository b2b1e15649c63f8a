package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const tenantContextKey = "tenant_id"

// Tenant extracts the owning tenant from the X-Tenant-ID header injected by
// the edge gateway and stores it in the request context. Requests without
// the header operate in the global (tenant-less) scope; every revision
// lookup downstream is scoped by this value, so a cross-tenant id simply
// resolves to not-found.
func Tenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("X-Tenant-ID")
		if header != "" {
			if id, err := strconv.ParseUint(header, 10, 64); err == nil {
				c.Set(tenantContextKey, id)
			}
		}
		c.Next()
	}
}

// GetTenantID returns the tenant scope of the request, nil for global scope
func GetTenantID(c *gin.Context) *uint64 {
	v, ok := c.Get(tenantContextKey)
	if !ok {
		return nil
	}
	id, ok := v.(uint64)
	if !ok {
		return nil
	}
	return &id
}

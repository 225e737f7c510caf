package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/medilabs/diagnostics-api/internal/domain/repository"
	infraRepo "github.com/medilabs/diagnostics-api/internal/infrastructure/repository"
	"github.com/medilabs/diagnostics-api/internal/presentation/http/dto/response"
)

// BranchMiddleware resolves the working branch for the request and plants it
// in the request context so every repository query is scoped to it.
//
// The branch comes from the token claim by default. Head-office users carry
// no branch claim; they may select a branch with the X-Branch-ID header, or
// omit it to operate across all branches.
func BranchMiddleware(branchRepo repository.BranchRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		headOffice := isHeadOffice(c)

		var branchID uuid.UUID
		if v, exists := c.Get("token_branch_id"); exists {
			if id, ok := v.(uuid.UUID); ok {
				branchID = id
			}
		}

		// A header override is only honoured for head-office users; branch
		// staff are pinned to their token's branch.
		if header := c.GetHeader("X-Branch-ID"); header != "" && headOffice {
			id, err := uuid.Parse(header)
			if err != nil {
				response.BadRequest(c, "Invalid X-Branch-ID header")
				c.Abort()
				return
			}
			branch, err := branchRepo.GetByID(c.Request.Context(), id)
			if err != nil || branch == nil {
				response.NotFound(c, "Branch not found")
				c.Abort()
				return
			}
			branchID = branch.ID
		}

		if branchID == uuid.Nil {
			if !headOffice {
				response.Forbidden(c, "No branch assigned to this account")
				c.Abort()
				return
			}
			// Head office without a selected branch sees all branches.
			ctx := infraRepo.WithSkipBranchScope(c.Request.Context(), true)
			c.Request = c.Request.WithContext(ctx)
			c.Next()
			return
		}

		c.Set("branch_id", branchID)
		ctx := infraRepo.WithBranch(c.Request.Context(), branchID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetBranchID retrieves the resolved branch ID from gin context
func GetBranchID(c *gin.Context) uuid.UUID {
	v, exists := c.Get("branch_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

func isHeadOffice(c *gin.Context) bool {
	roles, exists := c.Get("user_roles")
	if !exists {
		return false
	}
	list, ok := roles.([]string)
	if !ok {
		return false
	}
	for _, role := range list {
		if role == "head-office" || role == "super-admin" {
			return true
		}
	}
	return false
}

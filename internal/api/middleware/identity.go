package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sivaogeti/school-management/pkg/response"
)

// Context keys populated by Identity.
const (
	RoleKey      = "role"
	ClassNameKey = "class_name"
	SectionKey   = "section"
)

// Roles recognised by the role guard.
const (
	RoleAdmin       = "Admin"
	RolePrincipal   = "Principal"
	RoleFrontOffice = "FrontOffice"
	RoleTeacher     = "Teacher"
	RoleStudent     = "Student"
)

// Identity reads the caller identity that the upstream gateway attaches
// after authenticating the session: the role, and for student/teacher
// callers the class-section exactly as stored on their profile. The service
// trusts these values and normalizes class spellings at lookup time; it
// never validates them against a roster.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := strings.TrimSpace(c.GetHeader("X-User-Role"))
		if role == "" {
			response.Unauthorized(c, 10002, "missing caller identity")
			c.Abort()
			return
		}

		c.Set(RoleKey, role)
		c.Set(ClassNameKey, strings.TrimSpace(c.GetHeader("X-Class")))
		c.Set(SectionKey, strings.TrimSpace(c.GetHeader("X-Section")))

		c.Next()
	}
}

// RoleAuth allows only the listed roles through.
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(RoleKey)
		if !exists {
			response.Unauthorized(c, 10002, "not authenticated")
			c.Abort()
			return
		}

		callerRole := role.(string)
		for _, r := range allowedRoles {
			if callerRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "insufficient role")
		c.Abort()
	}
}

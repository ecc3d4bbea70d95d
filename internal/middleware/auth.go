package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/models"
	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CurrentStudentKey is the gin context key holding the authenticated student.
const CurrentStudentKey = "currentStudent"

// AuthMiddleware validates the JWT and stores the current student in the
// request context. The student row is re-read on every request so admin
// revocation takes effect immediately.
func AuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) Header: Authorization: Bearer xxx
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		// 2) URL query ?token=xxx (for download links that cannot set headers)
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil || claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "login expired, please sign in again")
			c.Abort()
			return
		}

		var student models.Student
		if err := db.First(&student, claims.StudentID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "student not found")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query student failed")
			}
			c.Abort()
			return
		}

		c.Set(CurrentStudentKey, &student)
		c.Next()
	}
}

// AdminRequired rejects requests whose authenticated student is not an
// administrator. It must run after AuthMiddleware.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CurrentStudentKey)
		student, _ := v.(*models.Student)
		if !ok || student == nil || !student.IsAdmin {
			util.Error(c, http.StatusForbidden, util.CodeForbidden, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

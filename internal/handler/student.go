package handler

import (
	"net/http"
	"strconv"

	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/store"
	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/util"

	"github.com/gin-gonic/gin"
)

// GetMe returns the authenticated student's profile.
func GetMe(c *gin.Context) {
	student := currentStudent(c)
	if student == nil {
		return
	}

	util.Success(c, util.Response{
		"student": gin.H{
			"id":         student.ID,
			"student_id": student.StudentID,
			"name":       student.Name,
			"email":      student.Email,
			"is_admin":   student.IsAdmin,
			"created_at": student.CreatedAt,
		},
	})
}

// ListStudents returns a page of registered students. Admin only.
func ListStudents(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
		if limit <= 0 || limit > 100 {
			limit = 100
		}

		students, err := st.ListStudents(skip, limit)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "list students failed")
			return
		}

		out := make([]gin.H, 0, len(students))
		for _, s := range students {
			out = append(out, gin.H{
				"id":         s.ID,
				"student_id": s.StudentID,
				"name":       s.Name,
				"email":      s.Email,
				"is_admin":   s.IsAdmin,
			})
		}
		util.Success(c, util.Response{"students": out})
	}
}

package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/models"
	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/store"
	"github.com/Wakjira-Tesama/AI-Based-Desktop-Pooling-System/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	Store      *store.Store
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

func NewAuthHandler(st *store.Store, jwtSecret string, ttlHours, bcryptCost int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	if bcryptCost <= 0 {
		bcryptCost = 12
	}
	return &AuthHandler{
		Store:      st,
		JWTSecret:  jwtSecret,
		TokenTTL:   time.Duration(ttlHours) * time.Hour,
		BcryptCost: bcryptCost,
	}
}

// ---------- register ----------

type registerReq struct {
	StudentID string `json:"student_id" binding:"required"`
	Name      string `json:"name" binding:"required,max=64"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required,min=6,max=64"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	req.StudentID = strings.ToLower(strings.TrimSpace(req.StudentID))
	req.Email = strings.TrimSpace(req.Email)

	if err := util.ValidateStudentID(req.StudentID); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	if err := util.ValidateEmail(req.Email); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	existing, err := h.Store.StudentByEmail(req.Email)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query student failed")
		return
	}
	if existing != nil {
		util.Error(c, http.StatusConflict, util.CodeConflict, "email already registered")
		return
	}
	existing, err = h.Store.StudentByExternalID(req.StudentID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query student failed")
		return
	}
	if existing != nil {
		util.Error(c, http.StatusConflict, util.CodeConflict, "student id already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "hash password failed")
		return
	}

	student := models.Student{
		StudentID:      req.StudentID,
		Name:           req.Name,
		Email:          req.Email,
		HashedPassword: string(hash),
	}
	if err := h.Store.CreateStudent(&student); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "create student failed")
		return
	}

	util.Success(c, util.Response{
		"message": "registered",
		"student": gin.H{
			"id":         student.ID,
			"student_id": student.StudentID,
			"name":       student.Name,
			"email":      student.Email,
		},
	})
}

// ---------- login ----------

type loginReq struct {
	// Identifier is the email or the university ID.
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	req.Identifier = strings.TrimSpace(req.Identifier)

	// email first, university ID second
	student, err := h.Store.StudentByEmail(req.Identifier)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query student failed")
		return
	}
	if student == nil {
		student, err = h.Store.StudentByExternalID(req.Identifier)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query student failed")
			return
		}
	}
	if student == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "incorrect username or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.HashedPassword), []byte(req.Password)); err != nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "incorrect username or password")
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, student.ID, h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "generate token failed")
		return
	}

	util.Success(c, util.Response{
		"token": token,
		"student": gin.H{
			"id":         student.ID,
			"student_id": student.StudentID,
			"name":       student.Name,
			"email":      student.Email,
			"is_admin":   student.IsAdmin,
		},
	})
}

package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "user-search-service/internal/domain/user"
	"user-search-service/internal/usecase/user"
	pkgerrors "user-search-service/pkg/errors"
)

// UserHandler handles HTTP requests for user search
type UserHandler struct {
	uc                user.Usecase
	log               *zap.Logger
	legacyErrorStatus bool
	now               func() time.Time
}

// Option configures a UserHandler.
type Option func(*UserHandler)

// WithLegacyErrorStatus reports validation failures as 500 instead of 400.
func WithLegacyErrorStatus(enabled bool) Option {
	return func(h *UserHandler) {
		h.legacyErrorStatus = enabled
	}
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger, opts ...Option) *UserHandler {
	h := &UserHandler{
		uc:  uc,
		log: log,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Pagination represents pagination information
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int64 `json:"page"`
	PerPage    int64 `json:"per_page"`
	TotalPages int64 `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// SearchUsersResponse represents the HTTP response for a user search
type SearchUsersResponse struct {
	Success    bool           `json:"success"`
	Data       []UserResponse `json:"data"`
	Pagination Pagination     `json:"pagination"`
	Search     string         `json:"search"`
	Timestamp  string         `json:"timestamp"`
	Total      int64          `json:"total"`
	PerPage    int64          `json:"per_page"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// SearchUsers handles GET /api/users
func (h *UserHandler) SearchUsers(c *gin.Context) {
	search := c.Query("search")
	page := int64(1)
	if raw, ok := c.GetQuery("page"); ok {
		page = domain.ParsePage(raw)
	}

	resp, err := h.uc.SearchUsers(c.Request.Context(), user.SearchUsersRequest{
		Search: search,
		Page:   page,
	})
	if err != nil {
		h.log.Warn("Gin SearchUsers failed", zap.Error(err))
		h.handleError(c, err)
		return
	}

	data := make([]UserResponse, len(resp.Users))
	for i, u := range resp.Users {
		data[i] = UserResponse{
			ID:    u.ID,
			Name:  u.Name,
			Email: u.Email,
		}
	}

	p := resp.Pagination
	c.JSON(http.StatusOK, SearchUsersResponse{
		Success: true,
		Data:    data,
		Pagination: Pagination{
			Total:      p.Total,
			Page:       p.Page,
			PerPage:    p.PerPage,
			TotalPages: p.TotalPages,
			HasNext:    p.HasNext,
			HasPrev:    p.HasPrev,
		},
		Search:    resp.Search,
		Timestamp: h.timestamp(),
		Total:     p.Total,
		PerPage:   p.PerPage,
	})
}

// Preflight handles OPTIONS requests. CORS headers are set by middleware.
func (h *UserHandler) Preflight(c *gin.Context) {
	c.Status(http.StatusOK)
}

// MethodNotAllowed handles requests with an unsupported method
func (h *UserHandler) MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
}

// Health reports whether the user dataset can be loaded
func (h *UserHandler) Health(c *gin.Context) {
	if err := h.uc.Ping(c.Request.Context()); err != nil {
		h.log.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": "user-search-service",
			"error":   pkgerrors.PublicMessage(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "user-search-service",
	})
}

// handleError converts usecase errors to HTTP responses
func (h *UserHandler) handleError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if pkgerrors.IsValidation(err) && !h.legacyErrorStatus {
		status = http.StatusBadRequest
	}

	c.JSON(status, ErrorResponse{
		Success:   false,
		Error:     pkgerrors.PublicMessage(err),
		Timestamp: h.timestamp(),
	})
}

func (h *UserHandler) timestamp() string {
	return h.now().Format(time.RFC3339)
}

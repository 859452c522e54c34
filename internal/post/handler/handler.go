package handler

import (
	"errors"
	"net/http"

	"github.com/blogsystem/blog-api/internal/post/service"
	"github.com/blogsystem/blog-api/pkg/metrics"
	"github.com/blogsystem/blog-api/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// Handler exposes the post CRUD surface
type Handler struct {
	svc        *service.Service
	production bool
}

func NewHandler(svc *service.Service, production bool) *Handler {
	return &Handler{svc: svc, production: production}
}

// Register wires the post routes. Reads are public; mutations sit behind
// the provided auth middleware.
func (h *Handler) Register(r *gin.Engine, auth gin.HandlerFunc) {
	posts := r.Group("/api/posts")
	posts.GET("", h.List)
	posts.GET("/:id", h.Get)
	posts.POST("", auth, h.Create)
	posts.PUT("/:id", auth, h.Update)
	posts.DELETE("/:id", auth, h.Delete)
}

// List returns the full matching set: ?search= matches title or content
// case-insensitively, ?author= filters by owning account.
func (h *Handler) List(c *gin.Context) {
	posts, err := h.svc.List(c.Request.Context(), c.Query("search"), c.Query("author"))
	if err != nil {
		metrics.PostOperations.WithLabelValues("list", "error").Inc()
		h.serverError(c, "Error fetching posts", err)
		return
	}
	metrics.PostOperations.WithLabelValues("list", "ok").Inc()
	c.JSON(http.StatusOK, gin.H{"posts": posts, "total": len(posts)})
}

func (h *Handler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			metrics.PostOperations.WithLabelValues("get", "not_found").Inc()
			c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
			return
		}
		metrics.PostOperations.WithLabelValues("get", "error").Inc()
		h.serverError(c, "Error fetching post", err)
		return
	}
	metrics.PostOperations.WithLabelValues("get", "ok").Inc()
	c.JSON(http.StatusOK, gin.H{"post": p})
}

func (h *Handler) Create(c *gin.Context) {
	var in service.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	caller := middleware.CallerID(c)
	if caller == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
		return
	}
	p, err := h.svc.Create(c.Request.Context(), in, caller)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			metrics.PostOperations.WithLabelValues("create", "invalid").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"message": ve.Message})
			return
		}
		metrics.PostOperations.WithLabelValues("create", "error").Inc()
		h.serverError(c, "Error creating post", err)
		return
	}
	metrics.PostOperations.WithLabelValues("create", "ok").Inc()
	c.JSON(http.StatusCreated, gin.H{"message": "Post created successfully", "post": p})
}

func (h *Handler) Update(c *gin.Context) {
	var in service.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	caller := middleware.CallerID(c)
	if caller == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), in, caller)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			metrics.PostOperations.WithLabelValues("update", "not_found").Inc()
			c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		case errors.Is(err, service.ErrNotOwner):
			metrics.PostOperations.WithLabelValues("update", "forbidden").Inc()
			c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to update this post"})
		default:
			var ve *service.ValidationError
			if errors.As(err, &ve) {
				metrics.PostOperations.WithLabelValues("update", "invalid").Inc()
				c.JSON(http.StatusBadRequest, gin.H{"message": ve.Message})
				return
			}
			metrics.PostOperations.WithLabelValues("update", "error").Inc()
			h.serverError(c, "Error updating post", err)
		}
		return
	}
	metrics.PostOperations.WithLabelValues("update", "ok").Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Post updated successfully", "post": p})
}

func (h *Handler) Delete(c *gin.Context) {
	caller := middleware.CallerID(c)
	if caller == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
		return
	}
	err := h.svc.Delete(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			metrics.PostOperations.WithLabelValues("delete", "not_found").Inc()
			c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		case errors.Is(err, service.ErrNotOwner):
			metrics.PostOperations.WithLabelValues("delete", "forbidden").Inc()
			c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to delete this post"})
		default:
			metrics.PostOperations.WithLabelValues("delete", "error").Inc()
			h.serverError(c, "Error deleting post", err)
		}
		return
	}
	metrics.PostOperations.WithLabelValues("delete", "ok").Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// serverError renders a 500; raw error detail is echoed only outside production
func (h *Handler) serverError(c *gin.Context, msg string, err error) {
	body := gin.H{"message": msg}
	if !h.production {
		body["error"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/httpapi/access"
	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/middleware"
	"reviewhub/internal/httpapi/service"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:comment_id", h.Get)
	rg.PATCH("/:comment_id", h.Update)
	rg.DELETE("/:comment_id", h.Delete)
}

func (h *CommentHandler) List(c *gin.Context) {
	titleID, reviewID, ok := reviewParams(c)
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)

	resp, err := h.commentService.List(c.Request.Context(), titleID, reviewID, page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) || errors.Is(err, service.ErrTitleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list comments"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CommentHandler) Get(c *gin.Context) {
	titleID, reviewID, commentID, ok := commentParams(c)
	if !ok {
		return
	}

	resp, err := h.commentService.Get(c.Request.Context(), titleID, reviewID, commentID)
	if err != nil {
		if errors.Is(err, service.ErrCommentNotFound) || errors.Is(err, service.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get comment"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CommentHandler) Create(c *gin.Context) {
	titleID, reviewID, ok := reviewParams(c)
	if !ok {
		return
	}
	author, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.commentService.Create(c.Request.Context(), author, titleID, reviewID, req)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) || errors.Is(err, service.ErrTitleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create comment"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CommentHandler) Update(c *gin.Context) {
	titleID, reviewID, commentID, ok := commentParams(c)
	if !ok {
		return
	}
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.commentService.Update(c.Request.Context(), actor, titleID, reviewID, commentID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommentNotFound), errors.Is(err, service.ErrReviewNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, access.ErrPermissionDenied), errors.Is(err, access.ErrAuthenticationRequired):
			middleware.AbortWithAccessError(c, err)
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update comment"})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	titleID, reviewID, commentID, ok := commentParams(c)
	if !ok {
		return
	}
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), actor, titleID, reviewID, commentID); err != nil {
		switch {
		case errors.Is(err, service.ErrCommentNotFound), errors.Is(err, service.ErrReviewNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, access.ErrPermissionDenied), errors.Is(err, access.ErrAuthenticationRequired):
			middleware.AbortWithAccessError(c, err)
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete comment"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func commentParams(c *gin.Context) (titleID, reviewID, commentID int64, ok bool) {
	titleID, reviewID, ok = reviewParams(c)
	if !ok {
		return 0, 0, 0, false
	}
	commentID, ok = parseIDParam(c, "comment_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return 0, 0, 0, false
	}
	return titleID, reviewID, commentID, true
}

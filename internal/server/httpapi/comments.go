package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type addCommentRequest struct {
	PostID int64  `json:"post_id" binding:"required,gt=0"`
	Text   string `json:"text" binding:"required"`
}

type updateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *Handler) getComments(c *gin.Context) {
	comments, err := h.comments.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Couldn't get comments. Server error.")
		return
	}
	ok(c, http.StatusOK, comments, "Comments loaded successfully.")
}

func (h *Handler) addComment(c *gin.Context) {
	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	cm, err := h.comments.Create(c.Request.Context(), principal(c).User.ID, req.PostID, req.Text)
	if err != nil {
		h.fail(c, err, "Comment not created. Server error.")
		return
	}
	ok(c, http.StatusCreated, cm, "Comment created successfully.")
}

func (h *Handler) updateComment(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	cm, err := h.comments.Update(c.Request.Context(), principal(c).User.ID, id, req.Text)
	if err != nil {
		h.fail(c, err, "Comment not updated. Server error.")
		return
	}
	ok(c, http.StatusOK, cm, "Comment updated successfully.")
}

func (h *Handler) deleteComment(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}

	cm, err := h.comments.Delete(c.Request.Context(), principal(c).User.ID, id)
	if err != nil {
		h.fail(c, err, "Couldn't delete comment. Server error.")
		return
	}
	ok(c, http.StatusOK, cm, "Comment deleted successfully.")
}

package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/postboard/internal/server/models"
	"github.com/gin-gonic/gin"
)

type getPostsRequest struct {
	SearchText string `json:"searchText"`
}

type addPostRequest struct {
	Title string `json:"title" binding:"required"`
	Text  string `json:"text" binding:"required"`
}

type updatePostRequest struct {
	Title *string `json:"title"`
	Text  *string `json:"text"`
}

func (h *Handler) getPosts(c *gin.Context) {
	var req getPostsRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err.Error())
		return
	}

	posts, err := h.posts.List(c.Request.Context(), req.SearchText)
	if err != nil {
		h.fail(c, err, "Couldn't get posts. Server error.")
		return
	}
	ok(c, http.StatusOK, posts, "Posts loaded successfully.")
}

func (h *Handler) addPost(c *gin.Context) {
	var req addPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	p, err := h.posts.Create(c.Request.Context(), principal(c).User.ID, req.Title, req.Text)
	if err != nil {
		h.fail(c, err, "Post not created. Server error.")
		return
	}
	ok(c, http.StatusCreated, p, "Post created successfully.")
}

func (h *Handler) updatePost(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	p, err := h.posts.Update(c.Request.Context(), principal(c).User.ID, id, models.PostPatch{Title: req.Title, Text: req.Text})
	if err != nil {
		h.fail(c, err, "Post not updated. Server error.")
		return
	}
	ok(c, http.StatusOK, p, "Post updated successfully.")
}

func (h *Handler) deletePost(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}

	p, err := h.posts.Delete(c.Request.Context(), principal(c).User.ID, id)
	if err != nil {
		h.fail(c, err, "Couldn't delete post. Server error.")
		return
	}
	ok(c, http.StatusOK, p, "Post deleted successfully.")
}

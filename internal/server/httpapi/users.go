package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/postboard/internal/common"
	"github.com/dmitrijs2005/postboard/internal/server/metrics"
	"github.com/dmitrijs2005/postboard/internal/server/models"
	"github.com/gin-gonic/gin"
)

type addUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateUserRequest struct {
	Name string `json:"name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

func (h *Handler) getUsers(c *gin.Context) {
	users, err := h.users.ListWithPosts(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Couldn't get users. Server error.")
		return
	}
	ok(c, http.StatusOK, users, "Users loaded successfully.")
}

func (h *Handler) addUser(c *gin.Context) {
	var req addUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	u, err := h.users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.fail(c, err, "User not created. Server error.")
		return
	}
	ok(c, http.StatusCreated, u, "User created successfully.")
}

func (h *Handler) updateUser(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	u, err := h.users.UpdateName(c.Request.Context(), principal(c).User.ID, id, req.Name)
	if err != nil {
		h.fail(c, err, "User not updated. Server error.")
		return
	}
	ok(c, http.StatusOK, u, "User updated successfully.")
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}

	u, err := h.users.Delete(c.Request.Context(), principal(c).User.ID, id)
	if err != nil {
		h.fail(c, err, "Couldn't delete user. Server error.")
		return
	}
	ok(c, http.StatusOK, u, "User deleted successfully.")
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordLogin(metrics.LoginInvalidRequest)
		badRequest(c, err.Error())
		return
	}

	res, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidCredential) {
			c.JSON(http.StatusForbidden, gin.H{"data": nil, "message": "Invalid email or password."})
			return
		}
		h.fail(c, err, "Couldn't login. Server error.")
		return
	}

	ok(c, http.StatusOK, loginResponse{User: res.User, Token: res.Token, ExpiresAt: res.ExpiresAt}, "Login successful.")
}

func (h *Handler) userLogged(c *gin.Context) {
	ok(c, http.StatusOK, principal(c).User, "User logged in")
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.users.Logout(c.Request.Context(), principal(c).Claims); err != nil {
		h.fail(c, err, "Couldn't logout. Server error.")
		return
	}
	ok(c, http.StatusOK, nil, "Logged out.")
}

func (h *Handler) logoutAll(c *gin.Context) {
	if err := h.users.LogoutAll(c.Request.Context(), principal(c).User.ID); err != nil {
		h.fail(c, err, "Couldn't logout. Server error.")
		return
	}
	ok(c, http.StatusOK, nil, "All sessions revoked.")
}

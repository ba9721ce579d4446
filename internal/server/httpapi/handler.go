// Package httpapi is the REST surface of postboard, built on gin.
package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/postboard/internal/logging"
	"github.com/dmitrijs2005/postboard/internal/server/auth"
	"github.com/dmitrijs2005/postboard/internal/server/metrics"
	"github.com/dmitrijs2005/postboard/internal/server/services"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	users    *services.UserService
	posts    *services.PostService
	comments *services.CommentService
	gate     *auth.Gate
	logger   logging.Logger
	metrics  *metrics.Metrics
}

func NewHandler(us *services.UserService, ps *services.PostService, cs *services.CommentService,
	g *auth.Gate, l logging.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		users:    us,
		posts:    ps,
		comments: cs,
		gate:     g,
		logger:   l.With("module", "http_api"),
		metrics:  m,
	}
}

// Router builds the gin engine with every route of the service.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), CORS(), RequestLogger(h.logger, h.metrics))

	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "Hello World!") })
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	gated := RequireAuth(h.gate)

	user := r.Group("/user")
	user.GET("/get_users", h.getUsers)
	user.POST("/add_user", h.addUser)
	user.POST("/user_login", h.login)
	user.PUT("/update_user/:id", gated, h.updateUser)
	user.DELETE("/delete_user/:id", gated, h.deleteUser)
	user.GET("/user_logged", gated, h.userLogged)
	user.POST("/logout", gated, h.logout)
	user.POST("/logout_all", gated, h.logoutAll)

	post := r.Group("/post")
	post.POST("/get_posts", h.getPosts)
	post.POST("/add_post", gated, h.addPost)
	post.PUT("/update_post/:id", gated, h.updatePost)
	post.DELETE("/delete_post/:id", gated, h.deletePost)

	comment := r.Group("/comment")
	comment.GET("/get_comments", h.getComments)
	comment.POST("/add_comment", gated, h.addComment)
	comment.PUT("/update_comment/:id", gated, h.updateComment)
	comment.DELETE("/delete_comment/:id", gated, h.deleteComment)

	return r
}

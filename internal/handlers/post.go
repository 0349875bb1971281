package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkowalczyk/plant_shop/internal/models"
	"github.com/mkowalczyk/plant_shop/internal/mykafka"
	"github.com/mkowalczyk/plant_shop/internal/repo"
	"github.com/mkowalczyk/plant_shop/internal/session"
)

type PostHandler struct {
	Repo     *repo.GormRepo
	Sessions *session.Manager
	Producer *mykafka.Producer
	ImageDir string
}

type PostForm struct {
	Title string `form:"title" validate:"required"`
	Body  string `form:"body"  validate:"required"`
}

type CommentForm struct {
	Text string `form:"text" validate:"required"`
}

func (h *PostHandler) Forum(c echo.Context) error {
	st, err := sessionState(c, h.Sessions)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	posts, err := h.Repo.Posts(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return render(c, h.Sessions, st, http.StatusOK, "forum.html", echo.Map{
		"Posts": posts,
	})
}

func (h *PostHandler) ShowPost(c echo.Context) error {
	st, err := sessionState(c, h.Sessions)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return redirectWithFlash(c, h.Sessions, st, "danger", "Post not found.", "/forum")
	}

	post, err := h.Repo.PostByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return redirectWithFlash(c, h.Sessions, st, "danger", "Post not found.", "/forum")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	comments, err := h.Repo.CommentsByPost(c.Request().Context(), post.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	authorName := ""
	if author, err := h.Repo.UserByID(c.Request().Context(), post.AuthorID); err == nil {
		authorName = author.Name
	}

	return render(c, h.Sessions, st, http.StatusOK, "post.html", echo.Map{
		"Post":       post,
		"Comments":   comments,
		"AuthorName": authorName,
	})
}

// AddComment needs an identity to attribute the comment to; anonymous posters
// are sent to the login page instead.
func (h *PostHandler) AddComment(c echo.Context) error {
	st, err := sessionState(c, h.Sessions)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if !st.LoggedIn() {
		return redirectWithFlash(c, h.Sessions, st, "warning", "Please log in to comment.", "/login")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return redirectWithFlash(c, h.Sessions, st, "danger", "Post not found.", "/forum")
	}

	var form CommentForm
	if err := c.Bind(&form); err != nil {
		return redirectWithFlash(c, h.Sessions, st, "danger", "Comment cannot be empty.", "/post/"+c.Param("id"))
	}
	if err := c.Validate(&form); err != nil {
		return redirectWithFlash(c, h.Sessions, st, "danger", "Comment cannot be empty.", "/post/"+c.Param("id"))
	}

	comment := models.Comment{
		AuthorID: st.UserID,
		PostID:   uint(id),
		Text:     form.Text,
	}
	if err := h.Repo.CreateComment(c.Request().Context(), &comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.Redirect(http.StatusFound, "/post/"+c.Param("id"))
}

func (h *PostHandler) MakePostPage(c echo.Context) error {
	st, err := sessionState(c, h.Sessions)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return render(c, h.Sessions, st, http.StatusOK, "make_post.html", nil)
}

func (h *PostHandler) MakePost(c echo.Context) error {
	st, err := sessionState(c, h.Sessions)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var form PostForm
	if err := c.Bind(&form); err != nil {
		return redirectWithFlash(c, h.Sessions, st, "danger", "Please fill in every field.", "/dodaj_post")
	}
	if err := c.Validate(&form); err != nil {
		return redirectWithFlash(c, h.Sessions, st, "danger", "Please fill in every field.", "/dodaj_post")
	}

	image, err := saveUpload(c, "image", h.ImageDir)
	if err != nil {
		return redirectWithFlash(c, h.Sessions, st, "danger", "Image upload failed.", "/dodaj_post")
	}

	post := models.BlogPost{
		AuthorID: st.UserID,
		Title:    form.Title,
		Date:     time.Now().Format("January 02, 2006"),
		Body:     form.Body,
		Image:    image,
	}
	if err := h.Repo.CreatePost(c.Request().Context(), &post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return redirectWithFlash(c, h.Sessions, st, "success", "New post has been added!", "/forum")
}

func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return c.Redirect(http.StatusFound, "/forum")
	}

	if err := h.Repo.DeletePost(c.Request().Context(), uint(id)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.Redirect(http.StatusFound, "/forum")
}

func (h *PostHandler) Profil(c echo.Context) error {
	st, err := sessionState(c, h.Sessions)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	user, err := h.Repo.UserByID(c.Request().Context(), st.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	posts, err := h.Repo.PostsByAuthor(c.Request().Context(), st.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	orders, err := h.Repo.OrdersByUser(c.Request().Context(), st.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return render(c, h.Sessions, st, http.StatusOK, "profil.html", echo.Map{
		"User":   user,
		"Posts":  posts,
		"Orders": orders,
	})
}

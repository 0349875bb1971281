package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mkowalczyk/plant_shop/internal/models"
)

func (env *testEnv) createPost(authorID uint, title string) models.BlogPost {
	p := models.BlogPost{
		AuthorID: authorID,
		Title:    title,
		Date:     "August 31, 2026",
		Body:     "body",
		Image:    "plant.jpg",
	}
	require.NoError(env.T, env.DB.Create(&p).Error)
	return p
}

func TestShowPost(t *testing.T) {
	env := newTestEnv(t)
	ck := env.register("a@x.com", "Alice", "password")
	post := env.createPost(1, "watering tips")
	require.NoError(t, env.DB.Create(&models.Comment{AuthorID: 1, PostID: post.ID, Text: "thanks!"}).Error)

	rec, c := env.doGet("/post/1", ck)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.Post.ShowPost(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "watering tips")
	require.Contains(t, rec.Body.String(), "thanks!")
	require.Contains(t, rec.Body.String(), "Alice")
}

func TestShowPostNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doGet("/post/99")
	c.SetParamNames("id")
	c.SetParamValues("99")
	require.NoError(t, env.Post.ShowPost(c))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/forum", rec.Header().Get("Location"))
}

func TestAddComment(t *testing.T) {
	env := newTestEnv(t)
	ck := env.register("a@x.com", "Alice", "password")
	post := env.createPost(1, "watering tips")

	form := url.Values{}
	form.Set("text", "great post")

	rec, c := env.doForm(http.MethodPost, "/post/1", form, ck)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.Post.AddComment(c))
	require.Equal(t, http.StatusFound, rec.Code)

	var comments []models.Comment
	require.NoError(t, env.DB.Where("post_id = ?", post.ID).Find(&comments).Error)
	require.Len(t, comments, 1)
	require.Equal(t, "great post", comments[0].Text)
	require.NotZero(t, comments[0].AuthorID)
}

func TestAddCommentRequiresLogin(t *testing.T) {
	env := newTestEnv(t)
	env.createPost(1, "watering tips")

	form := url.Values{}
	form.Set("text", "anonymous comment")

	rec, c := env.doForm(http.MethodPost, "/post/1", form)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.Post.AddComment(c))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))

	var count int64
	require.NoError(t, env.DB.Model(&models.Comment{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestMakePostRequiresFields(t *testing.T) {
	env := newTestEnv(t)
	ck := env.register("a@x.com", "Alice", "password")

	form := url.Values{}
	form.Set("title", "only a title")

	rec, c := env.doForm(http.MethodPost, "/dodaj_post", form, ck)
	require.NoError(t, env.Post.MakePost(c))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/dodaj_post", rec.Header().Get("Location"))

	var count int64
	require.NoError(t, env.DB.Model(&models.BlogPost{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestDeletePost(t *testing.T) {
	env := newTestEnv(t)
	post := env.createPost(1, "to be removed")

	rec, c := env.doGet("/delete/1")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.Post.DeletePost(c))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/forum", rec.Header().Get("Location"))

	var count int64
	require.NoError(t, env.DB.Model(&models.BlogPost{}).Where("id = ?", post.ID).Count(&count).Error)
	require.Zero(t, count)
}

func TestProfil(t *testing.T) {
	env := newTestEnv(t)
	ck := env.register("a@x.com", "Alice", "password")
	env.createPost(1, "my first post")
	require.NoError(t, env.DB.Create(&models.Order{UserID: 1, Date: "August 31, 2026", Details: "2x monstera"}).Error)

	rec, c := env.doGet("/profil", ck)
	require.NoError(t, env.Post.Profil(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "my first post")
	require.Contains(t, rec.Body.String(), "2x monstera")
	require.Contains(t, rec.Body.String(), "Alice")
}

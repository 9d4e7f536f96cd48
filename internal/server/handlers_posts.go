package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"cyberforum/internal/forum"
	"cyberforum/internal/models"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	posts, err := s.Forum.ListPosts(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "index", map[string]any{"Posts": posts})
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	post, err := s.Forum.GetPost(r.Context(), id)
	if err != nil {
		s.postError(w, r, err)
		return
	}
	comments, err := s.Forum.ListComments(r.Context(), id)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "post", map[string]any{
		"Post":     post,
		"Comments": comments,
	})
}

func (s *Server) handleCreateForm(w http.ResponseWriter, r *http.Request, who models.Session) {
	s.render(w, r, http.StatusOK, "create", nil)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request, who models.Session) {
	in := forum.PostInput{Title: r.FormValue("title"), Content: r.FormValue("content")}
	if _, err := s.Forum.CreatePost(r.Context(), who, in); err != nil {
		if verr, ok := forum.AsValidation(err); ok {
			s.render(w, r, http.StatusOK, "create", map[string]any{"Form": in}, verr.Message)
			return
		}
		s.serverError(w, r, err)
		return
	}
	s.redirect(w, r, "/", "Post created successfully")
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request, who models.Session) {
	id, ok := postID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	post, err := s.Forum.GetPost(r.Context(), id)
	if err != nil {
		s.postError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "edit", map[string]any{"Post": post})
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request, who models.Session) {
	id, ok := postID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	in := forum.PostInput{Title: r.FormValue("title"), Content: r.FormValue("content")}
	if _, err := s.Forum.UpdatePost(r.Context(), who, id, in); err != nil {
		if verr, ok := forum.AsValidation(err); ok {
			post := &models.Post{ID: id, Title: in.Title, Content: in.Content}
			s.render(w, r, http.StatusOK, "edit", map[string]any{"Post": post}, verr.Message)
			return
		}
		s.postError(w, r, err)
		return
	}
	s.redirect(w, r, postURL(id), "Post updated successfully")
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request, who models.Session) {
	id, ok := postID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	post, err := s.Forum.DeletePost(r.Context(), who, id)
	if err != nil {
		s.postError(w, r, err)
		return
	}
	s.redirect(w, r, "/", `"`+post.Title+`" was successfully deleted!`)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request, who models.Session) {
	id, ok := postID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	in := forum.CommentInput{Content: r.FormValue("comment")}
	if _, err := s.Forum.AddComment(r.Context(), who, id, in); err != nil {
		if verr, ok := forum.AsValidation(err); ok {
			s.redirect(w, r, postURL(id), verr.Message)
			return
		}
		s.serverError(w, r, err)
		return
	}
	s.redirect(w, r, postURL(id), "Comment added successfully")
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	posts, err := s.Forum.SearchPosts(r.Context(), query)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "search", map[string]any{"Posts": posts, "Query": query})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request, who models.Session) {
	posts, err := s.Forum.ProfilePosts(r.Context(), who)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "profile", map[string]any{"Posts": posts})
}

// postError answers 404 for unknown posts and 500 for everything else.
func (s *Server) postError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, forum.ErrNotFound) {
		s.notFound(w, r)
		return
	}
	s.serverError(w, r, err)
}

// helpers
func postID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func postURL(id int64) string {
	return "/" + strconv.FormatInt(id, 10)
}

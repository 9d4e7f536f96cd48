package server

import (
	"errors"
	"net/http"

	"cyberforum/internal/forum"
	"cyberforum/internal/session"
)

const adminOnlyMessage = "Only admin can register new users"

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login", nil)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	in := forum.LoginInput{Username: r.FormValue("username"), Password: r.FormValue("password")}
	who, err := s.Forum.Authenticate(r.Context(), in)
	if err != nil {
		msg, ok := loginMessage(err)
		if !ok {
			s.serverError(w, r, err)
			return
		}
		s.render(w, r, http.StatusOK, "login", map[string]any{"Form": in}, msg)
		return
	}
	if err := s.Sessions.Login(w, r, who); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func loginMessage(err error) (string, bool) {
	if verr, ok := forum.AsValidation(err); ok {
		return verr.Message, true
	}
	switch {
	case errors.Is(err, forum.ErrUserNotFound):
		return "Username does not exist!", true
	case errors.Is(err, forum.ErrBadCredentials):
		return "Password is incorrect!", true
	}
	return "", false
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Destroy(w, r); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.redirect(w, r, "/", "You have been logged out.")
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	if !forum.IsAdmin(session.FromContext(r.Context())) {
		s.redirect(w, r, "/contactus", adminOnlyMessage)
		return
	}
	s.render(w, r, http.StatusOK, "register", nil)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	in := forum.RegisterInput{
		Username: r.FormValue("username"),
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Confirm:  r.FormValue("confirm"),
	}
	_, err := s.Forum.Register(r.Context(), session.FromContext(r.Context()), in)
	switch {
	case err == nil:
		s.redirect(w, r, "/login", "Registration successful")
	case errors.Is(err, forum.ErrForbidden):
		s.redirect(w, r, "/contactus", adminOnlyMessage)
	case errors.Is(err, forum.ErrDuplicateUsername):
		s.renderRegister(w, r, in, "Username already exists!")
	default:
		if verr, ok := forum.AsValidation(err); ok {
			s.renderRegister(w, r, in, verr.Message)
			return
		}
		s.serverError(w, r, err)
	}
}

// renderRegister re-renders the form without echoing passwords back.
func (s *Server) renderRegister(w http.ResponseWriter, r *http.Request, in forum.RegisterInput, msg string) {
	in.Password, in.Confirm = "", ""
	s.render(w, r, http.StatusOK, "register", map[string]any{"Form": in}, msg)
}

func (s *Server) handleContactForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "contactus", nil)
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	in := forum.ContactInput{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Issue:   r.FormValue("issue"),
		Subject: r.FormValue("subject"),
		Message: r.FormValue("message"),
	}
	if err := s.Forum.Contact(r.Context(), in); err != nil {
		if verr, ok := forum.AsValidation(err); ok {
			s.render(w, r, http.StatusOK, "contactus", map[string]any{"Form": in}, verr.Message)
			return
		}
		s.serverError(w, r, err)
		return
	}
	s.redirect(w, r, "/contactus", "Message sent!")
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	msg := "Subscription successful"
	if err := s.Forum.Subscribe(r.Context(), r.FormValue("email")); err != nil {
		verr, ok := forum.AsValidation(err)
		if !ok {
			s.serverError(w, r, err)
			return
		}
		msg = verr.Message
	}
	s.redirect(w, r, "/", msg)
}

package web

import (
	"errors"
	"net/http"

	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/domain/user"
)

// handleLogin handles GET (form) and POST (authenticate) for /login.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		if _, ok := middleware.IdentityFromContext(r.Context()); ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "login.html", map[string]any{"Username": ""})
		return
	}

	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.LoginInput{}
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.Username = r.FormValue("Username")
		input.Password = r.FormValue("Password")
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{
		UserStore: stores.UserStore,
	})
	if err != nil {
		if errors.Is(err, orchestrators.ErrInvalidCredentials) || errors.Is(err, orchestrators.ErrMissingCredentials) {
			if isHTMLRequest(r) {
				w.WriteHeader(http.StatusUnauthorized)
				renderTemplate(w, r, "login.html", map[string]any{
					"Error":    err.Error(),
					"Username": input.Username,
				})
				return
			}
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		internalError(w, err)
		return
	}

	token, err := sessions.Create(r.Context(), result.Identity)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, result.Identity)
}

// handleLogout handles POST /logout.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if token := middleware.SessionToken(r); token != "" {
		if err := sessions.Delete(r.Context(), token); err != nil {
			internalError(w, err)
			return
		}
	}
	middleware.ClearSessionCookie(w)

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleProfile handles GET (view) and POST (update) for /profile.
func handleProfile(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	if r.Method == "GET" {
		if isHTMLRequest(r) {
			renderTemplate(w, r, "profile.html", map[string]any{"Identity": identity})
			return
		}
		writeJSON(w, identity)
		return
	}

	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	update := user.ProfileUpdate{}
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		update.Username = r.FormValue("Username")
		update.Name = r.FormValue("Name")
	} else {
		if err := strictDecode(r, &update); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	result, err := orchestrators.ExecuteUpdateProfile(r.Context(), orchestrators.UpdateProfileInput{
		UserID:       identity.ID,
		SessionToken: middleware.SessionToken(r),
		Update:       update,
	}, orchestrators.UpdateProfileDeps{
		UserStore: stores.UserStore,
		Sessions:  sessions,
	})
	if err != nil {
		if errors.Is(err, orchestrators.ErrUsernameTaken) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}
	writeJSON(w, result.Identity)
}

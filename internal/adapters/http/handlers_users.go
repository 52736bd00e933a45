package web

import (
	"errors"
	"net/http"
	"strconv"

	userStore "gymdesk/internal/adapters/storage/user"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/domain/user"
)

// handleUsers handles GET (list) and POST (register account) for /users.
// Owner only; the route guard enforces that.
func handleUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	isHTML := isHTMLRequest(r)

	if r.Method == "GET" {
		q := r.URL.Query()
		limit, _ := strconv.Atoi(q.Get("per_page"))
		offset, _ := strconv.Atoi(q.Get("offset"))

		users, err := stores.UserStore.List(ctx, userStore.ListFilter{
			Role:   q.Get("role"),
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			internalError(w, err)
			return
		}

		// Never expose password hashes, even to the owner.
		identities := make([]user.Identity, 0, len(users))
		for _, u := range users {
			identities = append(identities, u.Identity())
		}

		if isHTML {
			renderTemplate(w, r, "users.html", map[string]any{
				"Users": identities,
				"Role":  q.Get("role"),
			})
			return
		}
		writeJSON(w, identities)
		return
	}

	if r.Method == "POST" {
		input := orchestrators.RegisterUserInput{}

		if isForm(r) {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form submission", http.StatusBadRequest)
				return
			}
			input.Username = r.FormValue("Username")
			input.Password = r.FormValue("Password")
			input.Name = r.FormValue("Name")
			input.Role = r.FormValue("Role")
		} else {
			if err := strictDecode(r, &input); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
		}

		result, err := orchestrators.ExecuteRegisterUser(ctx, input, orchestrators.RegisterUserDeps{
			UserStore: stores.UserStore,
		})
		if err != nil {
			if errors.Is(err, orchestrators.ErrUsernameTaken) {
				http.Error(w, err.Error(), http.StatusConflict)
				return
			}
			if isValidationError(err) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			internalError(w, err)
			return
		}

		if isHTML {
			http.Redirect(w, r, "/users", http.StatusSeeOther)
			return
		}
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, result)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleUserForm handles GET /users/new.
func handleUserForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	renderTemplate(w, r, "user_form.html", map[string]any{
		"Roles": user.ValidRoles,
	})
}

package web

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/csrf"

	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/application/projections"
	"gymdesk/internal/domain/dietplan"
	"gymdesk/internal/domain/fee"
	"gymdesk/internal/domain/member"
	"gymdesk/internal/domain/user"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// validationErrors are the domain sentinels that surface to the client
// as a 400 rather than a generic 500.
var validationErrors = []error{
	member.ErrNameTooShort,
	member.ErrInvalidPhone,
	member.ErrAddressTooShort,
	member.ErrInvalidPlan,
	fee.ErrEmptyMember,
	fee.ErrInvalidAmount,
	fee.ErrInvalidStatus,
	fee.ErrMissingDueDate,
	dietplan.ErrEmptyMember,
	dietplan.ErrNoMeals,
	dietplan.ErrInvalidSlot,
	dietplan.ErrEmptyMealName,
	dietplan.ErrEmptyCategory,
	dietplan.ErrEmptyQuantity,
	user.ErrEmptyUsername,
	user.ErrEmptyName,
	user.ErrInvalidRole,
	user.ErrEmptyPassword,
	user.ErrPasswordTooShort,
}

func isValidationError(err error) bool {
	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// isForm reports whether the request carries an HTML form body.
func isForm(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
}

//go:embed templates
var templatesFS embed.FS

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

// writeJSON sends a JSON response.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	identity, ok := middleware.IdentityFromContext(r.Context())

	funcMap := template.FuncMap{
		"currentRole":     func() string { return identity.Role },
		"currentName":     func() string { return identity.Name },
		"currentUsername": func() string { return identity.Username },
		"isLoggedIn":      func() bool { return ok },
		"isOwner":         func() bool { return identity.Role == user.RoleOwner },
		"isStaff":         func() bool { return identity.Role == user.RoleOwner || identity.Role == user.RoleTrainer },
		"csrfToken":       func() string { return csrf.Token(r) },
		"formatDate":      func(t time.Time) string { return t.Format("2 Jan 2006") },
		"add":             func(a, b int) int { return a + b },
		"sub":             func(a, b int) int { return a - b },
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templatesFS,
		"templates/layout.html", "templates/"+templateName)
	if err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		internalError(w, err)
		return
	}
}

// handleDashboard handles GET / with headline counts for staff and a
// simpler landing page for members.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	identity, _ := middleware.IdentityFromContext(r.Context())

	data := map[string]any{"Identity": identity}
	if identity.Role != user.RoleMember {
		result, err := projections.QueryGetDashboard(r.Context(), projections.GetDashboardQuery{Now: timeNow()}, projections.GetDashboardDeps{
			MemberStore:   stores.MemberStore,
			DietPlanStore: stores.DietPlanStore,
			FeeStore:      stores.FeeStore,
		})
		if err != nil {
			internalError(w, err)
			return
		}
		data["Stats"] = result
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "dashboard.html", data)
		return
	}
	writeJSON(w, data)
}

// handlePerf handles GET /perf: a JSON snapshot of recent request and
// query timings.
func handlePerf(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if perfCollector == nil {
		http.Error(w, "perf collection disabled", http.StatusServiceUnavailable)
		return
	}

	minutes := 15
	if v := r.URL.Query().Get("minutes"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			minutes = n
		}
	}
	snap := perfCollector.Snapshot(timeNow().Add(-time.Duration(minutes)*time.Minute), 20)
	writeJSON(w, snap)
}

package web

import (
	"net/http"
	"strconv"

	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/application/projections"
	"gymdesk/internal/domain/member"
)

// handleMembers handles GET (list) and POST (register) for /members.
func handleMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	isHTML := isHTMLRequest(r)

	if r.Method == "GET" {
		q := r.URL.Query()
		limit, _ := strconv.Atoi(q.Get("per_page"))
		offset, _ := strconv.Atoi(q.Get("offset"))

		result, err := projections.QueryGetMemberList(ctx, projections.GetMemberListQuery{
			Search: q.Get("q"),
			Limit:  limit,
			Offset: offset,
		}, projections.GetMemberListDeps{MemberStore: stores.MemberStore})
		if err != nil {
			internalError(w, err)
			return
		}

		if isHTML {
			renderTemplate(w, r, "members.html", map[string]any{
				"Members": result.Members,
				"Total":   result.Total,
				"Search":  q.Get("q"),
			})
			return
		}
		writeJSON(w, result)
		return
	}

	if r.Method == "POST" {
		identity, _ := middleware.IdentityFromContext(ctx)
		input := orchestrators.RegisterMemberInput{}

		if isForm(r) {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form submission", http.StatusBadRequest)
				return
			}
			input.Name = r.FormValue("Name")
			input.Phone = r.FormValue("Phone")
			input.Address = r.FormValue("Address")
			input.GymPlan = r.FormValue("GymPlan")
		} else {
			if err := strictDecode(r, &input); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
		}
		input.CreatedBy = identity.ID

		result, err := orchestrators.ExecuteRegisterMember(ctx, input, orchestrators.RegisterMemberDeps{
			MemberStore: stores.MemberStore,
		})
		if err != nil {
			if isValidationError(err) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			internalError(w, err)
			return
		}

		if isHTML {
			http.Redirect(w, r, "/members", http.StatusSeeOther)
			return
		}
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, result)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleMemberForm handles GET /members/new.
func handleMemberForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	renderTemplate(w, r, "member_form.html", map[string]any{
		"Plans": []string{member.PlanPT, member.PlanNonPT},
	})
}

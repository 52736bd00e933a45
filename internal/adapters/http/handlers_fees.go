package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gymdesk/internal/adapters/http/middleware"
	memberStore "gymdesk/internal/adapters/storage/member"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/application/projections"
	"gymdesk/internal/domain/fee"
)

// handleFees handles GET (list) and POST (record) for /fees.
func handleFees(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	isHTML := isHTMLRequest(r)

	if r.Method == "GET" {
		q := r.URL.Query()
		limit, _ := strconv.Atoi(q.Get("per_page"))
		offset, _ := strconv.Atoi(q.Get("offset"))

		filter := q.Get("filter")
		if filter == "" {
			filter = projections.FeeFilterAll
		}

		result, err := projections.QueryGetFeeList(ctx, projections.GetFeeListQuery{
			Filter: filter,
			Search: q.Get("q"),
			Now:    timeNow(),
			Limit:  limit,
			Offset: offset,
		}, projections.GetFeeListDeps{
			FeeStore:    stores.FeeStore,
			MemberStore: stores.MemberStore,
		})
		if err != nil {
			internalError(w, err)
			return
		}

		if isHTML {
			renderTemplate(w, r, "fees.html", map[string]any{
				"Fees":         result.Fees,
				"Filter":       filter,
				"Search":       q.Get("q"),
				"TotalPaid":    result.TotalPaid,
				"TotalDue":     result.TotalDue,
				"TotalOverdue": result.TotalOverdue,
			})
			return
		}
		writeJSON(w, result)
		return
	}

	if r.Method == "POST" {
		identity, _ := middleware.IdentityFromContext(ctx)
		input := orchestrators.RecordFeeInput{}

		if isForm(r) {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form submission", http.StatusBadRequest)
				return
			}
			input.MemberID = r.FormValue("MemberID")
			input.AdmissionNumber = r.FormValue("AdmissionNumber")
			input.AmountPaid, _ = strconv.ParseFloat(r.FormValue("AmountPaid"), 64)
			input.PaymentDate = parseDateField(r.FormValue("PaymentDate"))
			input.DueDate = parseDateField(r.FormValue("DueDate"))
			input.Status = r.FormValue("Status")
		} else {
			if err := strictDecode(r, &input); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
		}
		input.CreatedBy = identity.ID

		result, err := orchestrators.ExecuteRecordFee(ctx, input, orchestrators.RecordFeeDeps{
			FeeStore:    stores.FeeStore,
			MemberStore: stores.MemberStore,
		})
		if err != nil {
			if errors.Is(err, orchestrators.ErrUnknownMember) {
				http.Error(w, err.Error(), http.StatusNotFound)
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
			http.Redirect(w, r, "/fees", http.StatusSeeOther)
			return
		}
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, result)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleFeeForm handles GET /fees/new.
func handleFeeForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	members, err := stores.MemberStore.List(r.Context(), memberStore.ListFilter{})
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "fee_form.html", map[string]any{
		"Members":  members,
		"Statuses": []string{fee.StatusPaid, fee.StatusDue},
	})
}

// parseDateField parses a yyyy-mm-dd form value; a blank or malformed
// value yields the zero time so validation can reject it.
func parseDateField(value string) time.Time {
	t, _ := time.Parse("2006-01-02", value)
	return t
}

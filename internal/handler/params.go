package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/locapro/partner-api/internal/domain"
	"github.com/locapro/partner-api/internal/middleware"
)

// partnerOf returns the authenticated caller. The auth middleware guarantees
// it is present on every /api/v1 route; a missing principal answers 401.
func partnerOf(w http.ResponseWriter, r *http.Request) (middleware.Principal, bool) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: ErrorDetail{Code: "unauthorized", Message: "missing partner identity"}})
	}
	return p, ok
}

// pathID binds the {id} path parameter as a UUID.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		requestError(w, "invalid id: "+err.Error())
		return uuid.Nil, false
	}
	return id, true
}

// queryParam binds an optional query parameter into dst, which must be a
// pointer to a nil pointer (e.g. **int). dst stays nil when name is absent.
func queryParam(w http.ResponseWriter, r *http.Request, name string, dst any) bool {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dst); err != nil {
		requestError(w, "invalid "+name+": "+err.Error())
		return false
	}
	return true
}

// queryString binds an optional string query parameter into dst; an absent
// parameter leaves dst empty.
func queryString(w http.ResponseWriter, r *http.Request, name string, dst *string) bool {
	var v *string
	if !queryParam(w, r, name, &v) {
		return false
	}
	if v != nil {
		*dst = *v
	}
	return true
}

// pagination binds ?page= and ?limit= (defaults: page=1, limit=20, max=100).
func pagination(w http.ResponseWriter, r *http.Request) (domain.PaginationParams, bool) {
	var page, limit *int
	if !queryParam(w, r, "page", &page) || !queryParam(w, r, "limit", &limit) {
		return domain.PaginationParams{}, false
	}
	return domain.NewPaginationParams(page, limit), true
}

// pageOf wraps one page of results in the list envelope.
func pageOf[T any](data []T, p domain.PaginationParams, total int64) Page[T] {
	return Page[T]{Data: data, Pagination: Pagination{Page: p.Page, Limit: p.Limit, Total: total}}
}

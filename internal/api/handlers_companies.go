package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"regportal/internal/company"
	"regportal/internal/models"
)

// SearchCompanies handles company search requests.
// GET /api/v1/companies/search?q=term
func (h *Handlers) SearchCompanies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	companies, err := h.companyService.Search(r.Context(), query)
	if err != nil {
		if errors.Is(err, company.ErrQueryTooLong) {
			h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeValidation, "Search query too long")
			return
		}
		h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Search failed")
		return
	}

	response := models.SearchResponse{Results: make([]models.CompanySummary, 0, len(companies))}
	for _, c := range companies {
		response.Results = append(response.Results, models.NewCompanySummary(c))
	}
	h.writeJSONResponse(w, http.StatusOK, response)
}

// GetCompany handles company detail requests.
// GET /api/v1/companies/{id}
func (h *Handlers) GetCompany(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	c, err := h.companyService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, company.ErrNotFound) {
			h.writeErrorResponse(w, http.StatusNotFound, models.ErrorCodeNotFound, "Company not found")
			return
		}
		h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Failed to load company")
		return
	}
	h.writeJSONResponse(w, http.StatusOK, models.CompanyResponse{Company: c})
}

// CompareCompanies handles side-by-side comparison requests.
// POST /api/v1/companies/compare
func (h *Handlers) CompareCompanies(w http.ResponseWriter, r *http.Request) {
	var req models.CompareRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeBadRequest, "Invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeValidation, "Select between 2 and 5 companies to compare")
		return
	}

	companies, err := h.companyService.Compare(r.Context(), req.CompanyIDs)
	if err != nil {
		var missingErr *company.MissingError
		if errors.As(err, &missingErr) {
			h.writeJSONResponse(w, http.StatusNotFound, models.CompareErrorResponse{
				Error:      "Some companies were not found",
				MissingIDs: missingErr.MissingIDs,
			})
			return
		}
		h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Comparison failed")
		return
	}
	h.writeJSONResponse(w, http.StatusOK, models.CompareResponse{Companies: companies})
}

// BatchCompanies resolves a list of company IDs to minimal references.
// POST /api/v1/companies/batch
func (h *Handlers) BatchCompanies(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CompanyIDs []string `json:"company_ids"`
	}
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeBadRequest, "Invalid JSON body")
		return
	}

	companies, err := h.companyService.Batch(r.Context(), req.CompanyIDs)
	if err != nil {
		if errors.Is(err, company.ErrBatchTooBig) {
			h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeValidation, "At most 10 companies per batch request")
			return
		}
		h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Batch lookup failed")
		return
	}

	response := models.BatchResponse{Companies: make([]models.CompanyRef, 0, len(companies))}
	for _, c := range companies {
		response.Companies = append(response.Companies, models.CompanyRef{
			ID:                 c.ID,
			Name:               c.Name,
			RegistrationNumber: c.RegistrationNumber,
		})
	}
	h.writeJSONResponse(w, http.StatusOK, response)
}

package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"dupesweep/internal/deletion"
	"dupesweep/internal/grouping"
	"dupesweep/internal/repository"
	"dupesweep/internal/service"
)

const maxBodyBytes = 4 << 20

type deleteProductsRequest struct {
	IDs []string `json:"ids"`
}

type groupRequest struct {
	Group *grouping.Group `json:"group"`
	// ID is only read by delete-member.
	ID string `json:"id,omitempty"`
}

type groupResponse struct {
	Group *grouping.Group `json:"group"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Web] Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// serviceFor resolves the request's shop, writing the error response itself
// when the shop cannot be served.
func (s *Server) serviceFor(w http.ResponseWriter, r *http.Request) (*service.Service, bool) {
	shop := s.shopFor(r)
	if shop == "" {
		writeError(w, http.StatusBadRequest, "missing shop")
		return nil, false
	}
	svc, err := s.services.ForShop(r.Context(), shop)
	if errors.Is(err, repository.ErrSessionNotFound) {
		writeError(w, http.StatusUnauthorized, "shop is not installed: "+shop)
		return nil, false
	}
	if err != nil {
		log.Printf("[Web] Failed to resolve shop %s: %v", shop, err)
		writeError(w, http.StatusInternalServerError, "failed to resolve shop")
		return nil, false
	}
	return svc, true
}

// criterionParam reads ?criterion=, defaulting to title when absent. An
// unescaped "title+sku" arrives as "title sku" and is accepted as such.
func criterionParam(r *http.Request) (grouping.Criterion, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("criterion"))
	if raw == "" {
		return grouping.ByTitle, nil
	}
	return grouping.ParseCriterion(strings.ReplaceAll(raw, " ", "+"))
}

func (s *Server) handleDuplicates(w http.ResponseWriter, r *http.Request) {
	c, err := criterionParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	svc, ok := s.serviceFor(w, r)
	if !ok {
		return
	}

	report, err := svc.Scan(r.Context(), c)
	if err != nil {
		log.Printf("[Web] Scan of %s failed: %v", svc.Shop(), err)
		writeError(w, http.StatusBadGateway, "failed to fetch catalog: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleDeleteProducts(w http.ResponseWriter, r *http.Request) {
	var req deleteProductsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	svc, ok := s.serviceFor(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, svc.DeleteSelected(r.Context(), req.IDs))
}

func (s *Server) handleDeleteOriginal(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Group == nil || req.Group.Original.ID == "" {
		writeError(w, http.StatusBadRequest, "group with an original is required")
		return
	}
	svc, ok := s.serviceFor(w, r)
	if !ok {
		return
	}

	next, err := svc.DeleteOriginal(r.Context(), *req.Group)
	if err != nil {
		writeGroupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groupResponse{Group: next})
}

func (s *Server) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Group == nil || req.Group.Original.ID == "" || req.ID == "" {
		writeError(w, http.StatusBadRequest, "group and id are required")
		return
	}
	svc, ok := s.serviceFor(w, r)
	if !ok {
		return
	}

	next, err := svc.DeleteMember(r.Context(), *req.Group, req.ID)
	if err != nil {
		writeGroupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groupResponse{Group: next})
}

func writeGroupError(w http.ResponseWriter, err error) {
	if errors.Is(err, deletion.ErrNotMember) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeError(w, http.StatusBadGateway, "delete failed: "+err.Error())
}

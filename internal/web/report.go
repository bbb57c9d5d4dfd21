package web

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"net/http"
	"net/url"

	"dupesweep/internal/grouping"
	"dupesweep/internal/service"
)

//go:embed templates/report.html
var templateFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html"))

var criterionLabels = map[grouping.Criterion]string{
	grouping.ByTitle:        "Title",
	grouping.BySKU:          "SKU",
	grouping.ByTitleSKU:     "Title + SKU",
	grouping.ByVendor:       "Vendor",
	grouping.ByBarcode:      "Barcode",
	grouping.ByTitleBarcode: "Title + Barcode",
	grouping.BySKUBarcode:   "SKU + Barcode",
}

type reportTab struct {
	Name   string
	Label  string
	URL    string
	Active bool
}

type reportPage struct {
	Shop   string
	Tabs   []reportTab
	Report *service.Report
	Error  string
}

func tabsFor(shop string, active grouping.Criterion) []reportTab {
	tabs := make([]reportTab, 0, len(grouping.Criteria()))
	for _, c := range grouping.Criteria() {
		q := url.Values{"criterion": {c.String()}}
		if shop != "" {
			q.Set("shop", shop)
		}
		tabs = append(tabs, reportTab{
			Name:   c.String(),
			Label:  criterionLabels[c],
			URL:    "/duplicates?" + q.Encode(),
			Active: c == active,
		})
	}
	return tabs
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	shop := s.shopFor(r)

	c, err := criterionParam(r)
	if err != nil {
		s.renderReport(w, http.StatusBadRequest, reportPage{Shop: shop, Tabs: tabsFor(shop, 0), Error: err.Error()})
		return
	}
	page := reportPage{Shop: shop, Tabs: tabsFor(shop, c)}

	svc, ok := s.serviceFor(w, r)
	if !ok {
		return
	}

	page.Report, err = svc.Scan(r.Context(), c)
	if err != nil {
		log.Printf("[Web] Report scan of %s failed: %v", shop, err)
		page.Error = "Could not load the catalog: " + err.Error()
		s.renderReport(w, http.StatusBadGateway, page)
		return
	}
	s.renderReport(w, http.StatusOK, page)
}

func (s *Server) renderReport(w http.ResponseWriter, status int, page reportPage) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, page); err != nil {
		log.Printf("[Web] Failed to render report: %v", err)
		http.Error(w, "failed to render report", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

package web

import (
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Sustained-Sync-API/cs4850/internal/core"
	"github.com/Sustained-Sync-API/cs4850/internal/csvio"
	"github.com/Sustained-Sync-API/cs4850/internal/logging"
	"github.com/Sustained-Sync-API/cs4850/internal/schema"
)

// billPage is the response body for GET /api/bills.
type billPage struct {
	Results    []core.Record  `json:"results"`
	Count      int            `json:"count"`
	TotalPages int            `json:"total_pages"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	Sort       core.SortState `json:"sort"`
	Totals     pageTotals     `json:"totals"`
}

// pageTotals are the sums over the visible slice only, rendered as decimal
// strings.
type pageTotals struct {
	Cost        string `json:"cost"`
	Consumption string `json:"consumption"`
}

// handleListBills returns one sorted page of persisted bills. Sorting is
// typed per column (dates, amounts, collated text) and stable, so records
// with equal keys keep their stored order.
func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListBills(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("list bills", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load bills")
		return
	}

	state := schema.DefaultSort
	if key := r.URL.Query().Get("sort"); key != "" {
		state.Key = key
		state.Dir = r.URL.Query().Get("dir")
	}

	col, ok := core.ColumnByKey(schema.SortColumns, state.Key)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown sort column: "+state.Key)
		return
	}
	if state.Dir != core.Asc && state.Dir != core.Desc {
		state.Dir = col.DefaultDir
	}

	page := parseIntParam(r, "page", 1)
	size := parseIntParam(r, "page_size", s.cfg.Upload.DefaultPageSize)

	sorted := core.SortRecords(records, col, state.Dir)
	visible := core.Paginate(sorted, page, size)
	summary := core.Summarize(visible)

	if visible == nil {
		visible = []core.Record{}
	}

	writeJSON(w, billPage{
		Results:    visible,
		Count:      len(records),
		TotalPages: core.TotalPages(len(records), size),
		Page:       page,
		PageSize:   size,
		Sort:       state,
		Totals: pageTotals{
			Cost:        summary.Cost.String(),
			Consumption: summary.Consumption.String(),
		},
	})
}

// handleUploadBills ingests a reviewed CSV batch. Records are stored keyed
// on bill_id (re-uploads update); rows whose values cannot be converted are
// reported back with their source row numbers rather than failing the file.
func (s *Server) handleUploadBills(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeIssues(w, http.StatusBadRequest, []core.Issue{
			{Row: core.RowFile, Message: "unable to read uploaded file"},
		})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeIssues(w, http.StatusBadRequest, []core.Issue{
			{Row: core.RowFile, Message: "unable to read uploaded file"},
		})
		return
	}

	headers, rows := csvio.Parse(string(csvio.Sanitize(data)))

	if missing := missingRequired(headers); len(missing) > 0 {
		writeError(w, http.StatusBadRequest, "missing required columns: "+strings.Join(missing, ", "))
		return
	}

	// Key the positional rows by header, padding short rows — the same
	// normalization the review grid applies.
	batch := core.NewBatch(schema.BillFields).Load(headers, rows)

	uploadID := uuid.New().String()
	inserted, updated, rowErrs, err := s.store.UpsertBills(r.Context(), batch.Rows, header.Filename)
	if err != nil {
		logger.Error("upload failed", "upload_id", uploadID, "file", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store bills")
		return
	}

	status := core.StatusSuccess
	if len(rowErrs) > 0 {
		status = core.StatusCompletedWithErrors
	}
	if rowErrs == nil {
		rowErrs = []core.Issue{}
	}

	logger.Info("bills uploaded",
		"upload_id", uploadID,
		"file", header.Filename,
		"inserted", inserted,
		"updated", updated,
		"row_errors", len(rowErrs),
	)

	writeJSON(w, core.UploadResult{
		UploadID: uploadID,
		Inserted: inserted,
		Updated:  updated,
		Errors:   rowErrs,
		Status:   status,
	})
}

// handleCountBills returns the number of stored bills.
func (s *Server) handleCountBills(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.CountBills(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("count bills", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to count bills")
		return
	}
	writeJSON(w, map[string]int64{"count": count})
}

// handleMetrics returns the dashboard totals and per-type breakdown.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := s.store.Metrics(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("metrics", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute metrics")
		return
	}
	writeJSON(w, metrics)
}

// handleTrends returns the monthly cost/consumption series.
func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	series, err := s.store.MonthlyTrends(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("trends", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute trends")
		return
	}
	writeJSON(w, map[string]any{"series": series})
}

// handleDownloadTemplate serves the CSV upload template: the full header
// row plus one example bill.
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	text := csvio.StringifyRows(schema.TemplateHeaders, [][]string{schema.TemplateExampleRow})

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="sustainsync_template.csv"`)
	if _, err := w.Write([]byte(text)); err != nil {
		logging.FromContext(r.Context()).Error("write template", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// missingRequired returns the required bill columns absent from a header
// row, in declaration order.
func missingRequired(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[strings.TrimSpace(h)] = true
	}

	var missing []string
	for _, name := range schema.RequiredHeaders {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

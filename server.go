package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"business-advisor/chat"
	"business-advisor/kpi"
	"business-advisor/spreadsheet"
)

const maxWorkbookBytes = 32 << 20

// Server wires the session registry and the orchestrator behind the
// HTTP surface.
type Server struct {
	registry     *chat.Registry
	orchestrator *chat.Orchestrator
}

func NewServer(registry *chat.Registry, orchestrator *chat.Orchestrator) *Server {
	return &Server{registry: registry, orchestrator: orchestrator}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/sessions", s.handleCreateSession)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Post("/mode", s.handleSelectMode)
		r.Post("/workbook", s.handleUploadWorkbook)
		r.Post("/profile", s.handleBuildProfile)
		r.Post("/messages", s.handleSendMessage)
		r.Get("/messages", s.handleGetMessages)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session := s.registry.Create()
	log.Infof("Created session %s", session.ID())
	respondJSON(w, http.StatusCreated, map[string]string{"session_id": session.ID().String()})
}

func (s *Server) handleSelectMode(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	var body struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	mode := chat.Mode(body.Mode)
	if mode != chat.ModeGeneral && mode != chat.ModeData {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown mode %q", body.Mode))
		return
	}

	session.SelectMode(mode)
	log.Infof("Session %s switched to %s mode", session.ID(), mode)
	respondJSON(w, http.StatusOK, map[string]string{"mode": body.Mode})
}

func (s *Server) handleUploadWorkbook(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	if session.Mode() != chat.ModeData {
		respondError(w, http.StatusConflict, "session is not in data mode")
		return
	}

	if err := r.ParseMultipartForm(maxWorkbookBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing workbook file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "could not read workbook file")
		return
	}

	sheets, err := spreadsheet.ListSheets(data)
	if err != nil {
		log.Errorf("Session %s uploaded an unreadable workbook: %v", session.ID(), err)
		respondError(w, http.StatusUnprocessableEntity, "workbook could not be opened")
		return
	}

	session.SetWorkbook(data)
	log.Infof("Session %s uploaded a workbook with %d sheets", session.ID(), len(sheets))
	respondJSON(w, http.StatusOK, map[string]interface{}{"sheets": sheets})
}

type profileResponse struct {
	TotalRevenue  string `json:"total_revenue"`
	TotalExpenses string `json:"total_expenses"`
	NetProfit     string `json:"net_profit"`
	ProfitMargin  string `json:"profit_margin"`
	ProfileText   string `json:"profile_text"`
}

func (s *Server) handleBuildProfile(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	if session.Mode() != chat.ModeData {
		respondError(w, http.StatusConflict, "session is not in data mode")
		return
	}

	workbook := session.Workbook()
	if workbook == nil {
		respondError(w, http.StatusConflict, "no workbook uploaded")
		return
	}

	var body struct {
		SalesSheet    string `json:"sales_sheet"`
		ExpensesSheet string `json:"expenses_sheet"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sales, err := spreadsheet.ReadSheet(workbook, body.SalesSheet)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("could not read sales sheet: %v", err))
		return
	}
	expenses, err := spreadsheet.ReadSheet(workbook, body.ExpensesSheet)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("could not read expenses sheet: %v", err))
		return
	}

	profile := kpi.BuildProfile(sales, expenses)
	profileText := profile.RenderText()
	session.ActivateGrounding(profileText)
	log.Infof("Session %s grounded on a fresh profile", session.ID())

	respondJSON(w, http.StatusOK, profileResponse{
		TotalRevenue:  metricOrNA(profile.TotalRevenue, formatDollars),
		TotalExpenses: metricOrNA(profile.TotalExpenses, formatDollars),
		NetProfit:     metricOrNA(profile.NetProfit, formatDollars),
		ProfitMargin:  metricOrNA(profile.Margin, formatPercent),
		ProfileText:   profileText,
	})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == "" {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := s.orchestrator.HandleTurn(r.Context(), session, body.Text)
	if err != nil {
		if errors.Is(err, chat.ErrNotConfigured) {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"messages": session.Messages()})
}

// session resolves the {id} path parameter, answering 404 itself when
// the session does not exist.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*chat.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid session id")
		return nil, false
	}
	session, exists := s.registry.Get(id)
	if !exists {
		respondError(w, http.StatusNotFound, "unknown session")
		return nil, false
	}
	return session, true
}

func metricOrNA(v *float64, format func(float64) string) string {
	if v == nil {
		return "N/A"
	}
	return format(*v)
}

func formatDollars(v float64) string {
	return "$" + kpi.FormatWhole(v)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

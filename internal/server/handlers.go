package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/samber/lo"

	"github.com/abhisek/thetaquiz/internal/ability"
	"github.com/abhisek/thetaquiz/internal/judge"
	"github.com/abhisek/thetaquiz/internal/qbreader"
	"github.com/abhisek/thetaquiz/internal/session"
)

// Provenance modes reported by /api/next.
const (
	ModeTable         = "theta-table"
	ModeTableFallback = "theta-table-fallback"
)

type startRequest struct {
	Category               string     `json:"category"`
	Subcategory            string     `json:"subcategory"`
	AlternateSubcategories stringList `json:"alternateSubcategories"`
	Rounds                 flexInt    `json:"rounds"`
}

type answerRequest struct {
	Answer   string   `json:"answer"`
	Override flexBool `json:"override"`
}

type metaResponse struct {
	Set    string `json:"set"`
	Year   int    `json:"year"`
	Packet int    `json:"packet"`
	Number int    `json:"qnum"`
}

type nextResponse struct {
	Done       bool         `json:"done"`
	Mode       string       `json:"mode"`
	Stage      string       `json:"stage"`
	Theta      float64      `json:"theta"`
	Level      string       `json:"level"`
	Part       string       `json:"part"`
	PartLabel  string       `json:"partLabel"`
	Meta       metaResponse `json:"meta"`
	Prompt     string       `json:"prompt"`
	Leadin     string       `json:"leadin"`
	ShowLeadin bool         `json:"showLeadin"`
	Round      int          `json:"round"`
	Rounds     int          `json:"rounds"`
}

type doneResponse struct {
	Done  bool              `json:"done"`
	Theta float64           `json:"theta"`
	SE    *float64          `json:"se"`
	CI    *ability.Interval `json:"ci"`
}

type answerResponse struct {
	Prompt         bool              `json:"prompt"`
	Verdict        string            `json:"verdict"`
	DirectedPrompt string            `json:"directedPrompt,omitempty"`
	Correct        bool              `json:"correct"`
	OfficialAnswer string            `json:"officialAnswer"`
	Theta          float64           `json:"theta"`
	SE             *float64          `json:"se"`
	CI             *ability.Interval `json:"ci"`
	RoundsDone     int               `json:"roundsDone"`
	RoundsTotal    int               `json:"roundsTotal"`
}

type errorResponse struct {
	Done  *bool  `json:"done,omitempty"`
	Error string `json:"error"`
}

type categoryResponse struct {
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	rounds := int(req.Rounds)
	if rounds == 0 {
		rounds = s.engine.Config().DefaultRounds
	}
	rounds = max(1, rounds)

	id := s.sessionID(w, r)
	f := session.Filters{
		Category:               req.Category,
		Subcategory:            req.Subcategory,
		AlternateSubcategories: req.AlternateSubcategories,
	}
	if _, err := s.engine.Start(r.Context(), id, f, rounds); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := s.sessionID(w, r)

	res, err := s.engine.ServeNext(ctx, id)
	if errors.Is(err, session.ErrNotFound) {
		// A caller without a session gets the default one.
		if _, err = s.engine.Start(ctx, id, session.Filters{}, s.engine.Config().DefaultRounds); err == nil {
			res, err = s.engine.ServeNext(ctx, id)
		}
	}
	switch {
	case errors.Is(err, session.ErrRoundsExhausted):
		s.writeDone(ctx, w, r, id)
		return
	case errors.Is(err, session.ErrSparse):
		writeJSON(w, http.StatusOK, errorResponse{Done: lo.ToPtr(false), Error: "sparse"})
		return
	case err != nil:
		s.writeError(w, r, err)
		return
	}

	item := res.Item
	mode := ModeTable
	if item.Stage.Broadened() {
		mode = ModeTableFallback
	}
	writeJSON(w, http.StatusOK, nextResponse{
		Mode:      mode,
		Stage:     item.Stage.String(),
		Theta:     res.Status.Snapshot.Rounded().Ability,
		Level:     item.Level,
		Part:      item.Part.String(),
		PartLabel: item.PartLabel,
		Meta: metaResponse{
			Set:    item.Meta.Set,
			Year:   item.Meta.Year,
			Packet: item.Meta.Packet,
			Number: item.Meta.Number,
		},
		Prompt:     item.Prompt,
		Leadin:     item.Leadin,
		ShowLeadin: item.ShowLeadin,
		Round:      res.Status.RoundsDone + 1,
		Rounds:     res.Status.RoundsTotal,
	})
}

func (s *Server) writeDone(ctx context.Context, w http.ResponseWriter, r *http.Request, id string) {
	st, err := s.engine.Snapshot(ctx, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap := st.Snapshot.Rounded()
	writeJSON(w, http.StatusOK, doneResponse{
		Done:  true,
		Theta: snap.Ability,
		SE:    snap.StandardError,
		CI:    snap.Interval,
	})
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	id := s.sessionID(w, r)
	res, err := s.engine.GradeResponse(r.Context(), id, req.Answer, bool(req.Override))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	snap := res.Status.Snapshot.Rounded()
	writeJSON(w, http.StatusOK, answerResponse{
		Prompt:         res.Decision.Verdict == judge.Prompt,
		Verdict:        string(res.Decision.Verdict),
		DirectedPrompt: res.Decision.DirectedPrompt,
		Correct:        res.Correct,
		OfficialAnswer: res.OfficialAnswer,
		Theta:          snap.Ability,
		SE:             snap.StandardError,
		CI:             snap.Interval,
		RoundsDone:     res.Status.RoundsDone,
		RoundsTotal:    res.Status.RoundsTotal,
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	out := lo.Map(qbreader.CategoryNames(), func(name string, _ int) categoryResponse {
		subs := qbreader.Categories[name]
		if subs == nil {
			subs = []string{}
		}
		return categoryResponse{Name: name, Subcategories: subs}
	})
	writeJSON(w, http.StatusOK, map[string]any{"categories": out})
}

// writeError maps engine errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, session.ErrNoPendingItem), errors.Is(err, session.ErrNotFound):
		status, msg = http.StatusConflict, session.ErrNoPendingItem.Error()
	case errors.Is(err, session.ErrInvalidRounds):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		status, msg = http.StatusGatewayTimeout, "upstream timeout"
	case errors.Is(err, context.Canceled):
		status, msg = 499, "request canceled"
	default:
		var se *qbreader.StatusError
		if errors.As(err, &se) {
			status, msg = http.StatusBadGateway, "upstream unavailable"
		}
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

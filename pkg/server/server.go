// Package server exposes the review flow over a localhost HTTP UI:
// deck selection, card review with rating buttons, card entry, and a
// statistics page. Card text is rendered as Markdown.
package server

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"mnemo/internal/logger"
	"mnemo/pkg/core"
	"mnemo/pkg/srs"
)

type Server struct {
	core         core.Core
	tmpl         *template.Template
	forecastDays int
}

func New(c core.Core, forecastDays int) (*Server, error) {
	tmpl := template.New("pages").Funcs(template.FuncMap{
		"markdown": renderMarkdown,
	})
	for name, text := range pageTemplates {
		if _, err := tmpl.New(name).Parse(text); err != nil {
			return nil, errors.Wrapf(err, "parse template %q", name)
		}
	}
	return &Server{core: c, tmpl: tmpl, forecastDays: forecastDays}, nil
}

// Router returns the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.HandleIndex).Methods("GET")
	r.HandleFunc("/load", s.HandleLoad).Methods("POST")
	r.HandleFunc("/review", s.HandleReview).Methods("GET")
	r.HandleFunc("/rate", s.HandleRate).Methods("POST")
	r.HandleFunc("/cards", s.HandleAddCard).Methods("POST")
	r.HandleFunc("/stats", s.HandleStats).Methods("GET")
	r.HandleFunc("/healthz", s.HandleHealth).Methods("GET")
	return r
}

// renderMarkdown converts card text to sanitized-enough HTML for the
// card panes. The parser is stateful, so a fresh one is built per call.
func renderMarkdown(text string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.HardLineBreak)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return template.HTML(markdown.ToHTML([]byte(text), p, r))
}

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	var buf strings.Builder
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		logger.Errorf("execute template %q: %v", name, err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(buf.String()))
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) HandleIndex(w http.ResponseWriter, r *http.Request) {
	decks, err := s.core.ListDecks()
	if err != nil {
		http.Error(w, errors.Wrap(err, "list decks").Error(), http.StatusInternalServerError)
		return
	}
	s.render(w, "decks", struct {
		Decks []core.DeckInfo
	}{decks})
}

func (s *Server) HandleLoad(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	names := r.Form["deck"]
	if _, err := s.core.LoadDecks(names); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := s.core.StartSession(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/review", http.StatusSeeOther)
}

func (s *Server) HandleReview(w http.ResponseWriter, r *http.Request) {
	card, ok := s.core.CurrentCard()
	data := struct {
		Done       bool
		Front      string
		Back       string
		ShowAnswer bool
		Remaining  int
		Ratings    []srs.Rating
	}{
		Done:      !ok,
		Remaining: s.core.Remaining(),
		Ratings:   []srs.Rating{srs.Again, srs.Hard, srs.Good, srs.Easy},
	}
	if ok {
		data.Front = card.Front
		data.ShowAnswer = r.URL.Query().Get("answer") == "1"
		if data.ShowAnswer {
			data.Back = card.Back
		}
	}
	s.render(w, "review", data)
}

func (s *Server) HandleRate(w http.ResponseWriter, r *http.Request) {
	var rating srs.Rating

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Rating srs.Rating `json:"rating"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, errors.Wrap(err, "decode rating").Error(), http.StatusBadRequest)
			return
		}
		defer r.Body.Close()
		rating = body.Rating
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		if err := rating.UnmarshalText([]byte(r.Form.Get("rating"))); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if err := s.core.Rate(rating); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, srs.ErrInvalidRating):
			status = http.StatusBadRequest
		case errors.Is(err, core.ErrNoSession):
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Remaining int  `json:"remaining"`
			Done      bool `json:"done"`
		}{
			Remaining: s.core.Remaining(),
			Done:      s.core.Remaining() == 0,
		})
		return
	}
	http.Redirect(w, r, "/review", http.StatusSeeOther)
}

func (s *Server) HandleAddCard(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	front := strings.TrimSpace(r.Form.Get("front"))
	back := strings.TrimSpace(r.Form.Get("back"))
	if err := s.core.AddCard(front, back); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/review", http.StatusSeeOther)
}

func (s *Server) HandleStats(w http.ResponseWriter, r *http.Request) {
	summary, err := s.core.Stats(s.forecastDays)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrNoDecksLoaded) {
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}
	s.render(w, "stats", summary)
}

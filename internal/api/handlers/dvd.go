package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mduret/dvdtheque-api/internal/api/middleware"
	"github.com/mduret/dvdtheque-api/internal/domain"
	"github.com/mduret/dvdtheque-api/internal/service"
)

type DVDHandler struct {
	dvdService *service.DVDService
}

func NewDVDHandler(dvdService *service.DVDService) *DVDHandler {
	return &DVDHandler{dvdService: dvdService}
}

type DVDRequest struct {
	Title           string   `json:"titre"`
	Director        string   `json:"realisateur"`
	Year            *int     `json:"annee"`
	Genre           string   `json:"genre"`
	DurationMinutes *int     `json:"duree"`
	Actors          []string `json:"acteurs"`
	Synopsis        string   `json:"synopsis"`
	Lent            bool     `json:"prete"`
	LentTo          string   `json:"preteA"`
}

type DVDListResponse struct {
	DVDs       []*domain.DVD `json:"dvds"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
}

func (h *DVDHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "")
}

func (h *DVDHandler) Search(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, r.URL.Query().Get("q"))
}

func (h *DVDHandler) list(w http.ResponseWriter, r *http.Request, query string) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "token manquant")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.dvdService.List(r.Context(), ownerID, query, page, limit)
	if err != nil {
		log.Printf("ERROR [DVDHandler.List] %v", err)
		writeError(w, http.StatusInternalServerError, serverErrorMessage)
		return
	}

	writeJSON(w, http.StatusOK, DVDListResponse{
		DVDs:       result.Items,
		Total:      result.Total,
		Page:       result.Page,
		TotalPages: result.TotalPages,
	})
}

func (h *DVDHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "token manquant")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "DVD non trouve")
		return
	}

	dvd, err := h.dvdService.Get(r.Context(), ownerID, id)
	if err != nil {
		h.renderError(w, "DVDHandler.Get", err)
		return
	}

	writeJSON(w, http.StatusOK, dvd)
}

func (h *DVDHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "token manquant")
		return
	}

	var req DVDRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON invalide")
		return
	}

	dvd, err := h.dvdService.Create(r.Context(), ownerID, dvdInput(req))
	if err != nil {
		h.renderError(w, "DVDHandler.Create", err)
		return
	}

	writeJSON(w, http.StatusCreated, dvd)
}

func (h *DVDHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "token manquant")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "DVD non trouve")
		return
	}

	var req DVDRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON invalide")
		return
	}

	dvd, err := h.dvdService.Update(r.Context(), ownerID, id, dvdInput(req))
	if err != nil {
		h.renderError(w, "DVDHandler.Update", err)
		return
	}

	writeJSON(w, http.StatusOK, dvd)
}

func (h *DVDHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "token manquant")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "DVD non trouve")
		return
	}

	if err := h.dvdService.Delete(r.Context(), ownerID, id); err != nil {
		h.renderError(w, "DVDHandler.Delete", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "DVD supprime"})
}

func (h *DVDHandler) renderError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrDVDNotFound):
		writeError(w, http.StatusNotFound, "DVD non trouve")
	case errors.Is(err, domain.ErrTitleRequired):
		writeError(w, http.StatusBadRequest, "titre requis")
	case errors.Is(err, domain.ErrInvalidYear):
		writeError(w, http.StatusBadRequest, "annee invalide")
	case errors.Is(err, domain.ErrInvalidDuration):
		writeError(w, http.StatusBadRequest, "duree invalide")
	default:
		log.Printf("ERROR [%s] %v", op, err)
		writeError(w, http.StatusInternalServerError, serverErrorMessage)
	}
}

func dvdInput(req DVDRequest) service.DVDInput {
	return service.DVDInput{
		Title:           req.Title,
		Director:        req.Director,
		Year:            req.Year,
		Genre:           req.Genre,
		DurationMinutes: req.DurationMinutes,
		Actors:          req.Actors,
		Synopsis:        req.Synopsis,
		Lent:            req.Lent,
		LentTo:          req.LentTo,
	}
}

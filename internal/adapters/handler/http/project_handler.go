package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/votesync/internal/core/domain"
	"github.com/vncsmyrnk/votesync/internal/core/ports"
)

type ProjectHandler struct {
	service ports.ProjectService
}

func NewProjectHandler(service ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		service: service,
	}
}

type createProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	project, err := h.service.Create(r.Context(), ports.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, domain.ErrTitleRequired) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, domain.ErrInternal.Error())
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	viewer, _ := userFromContext(r.Context())

	project, err := h.service.GetProject(r.Context(), chi.URLParam(r, "id"), viewer)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidProjectID):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrProjectNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, domain.ErrInternal.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 1 {
			writeError(w, http.StatusBadRequest, "invalid page")
			return
		}
		page = p
	}

	viewer, _ := userFromContext(r.Context())
	projects, err := h.service.ListProjects(r.Context(), ports.ListProjectsInput{
		Page:   page,
		Query:  r.URL.Query().Get("q"),
		Viewer: viewer,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, domain.ErrInternal.Error())
		return
	}

	writeJSON(w, http.StatusOK, projects)
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"petitions/internal/petition/models"
	"petitions/internal/platform/middleware"
	dErrors "petitions/pkg/domain-errors"
	"petitions/pkg/platform/httputil"
)

const maxBodyBytes = 1 << 20

// Service defines the petition operations exposed over HTTP.
type Service interface {
	ListPetitions(ctx context.Context) ([]*models.Petition, error)
	CreatePetition(ctx context.Context, req *models.CreatePetitionRequest) (*models.Petition, error)
	GetPetition(ctx context.Context, id int64) (*models.PetitionDetails, error)
	UpdatePetition(ctx context.Context, id int64, req *models.UpdatePetitionRequest) (*models.Petition, error)
	DeletePetition(ctx context.Context, id int64) error
	ListSignatures(ctx context.Context, petitionID int64) ([]*models.Signature, error)
	SignPetition(ctx context.Context, petitionID int64, req *models.SignPetitionRequest) (*models.Signature, error)
}

// Handler serves the petition endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
	editor  func(http.Handler) http.Handler
}

// New creates a petition Handler. A nil editor validator leaves the editor
// routes open.
func New(service Service, logger *slog.Logger, editor *middleware.EditorValidator) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		editor:  middleware.RequireEditor(editor, logger),
	}
}

// Register mounts the petition routes. Both /petitions and /petitions/ are
// served.
func (h *Handler) Register(r chi.Router) {
	r.Route("/petitions", func(r chi.Router) {
		r.Get("/", h.handleListPetitions)
		r.With(h.editor).Post("/", h.handleCreatePetition)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.handleGetPetition)
			r.With(h.editor).Put("/", h.handleUpdatePetition)
			r.With(h.editor).Delete("/", h.handleDeletePetition)
			r.Post("/signatures", h.handleSignPetition)
			r.With(h.editor).Get("/signatures", h.handleListSignatures)
		})
	})
}

func (h *Handler) handleListPetitions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	petitions, err := h.service.ListPetitions(ctx)
	if err != nil {
		h.writeError(ctx, w, err, "failed to list petitions")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPetitionResponses(petitions))
}

func (h *Handler) handleCreatePetition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.CreatePetitionRequest
	if !h.decode(w, r, &req) {
		return
	}
	petition, err := h.service.CreatePetition(ctx, &req)
	if err != nil {
		h.writeError(ctx, w, err, "failed to create petition")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPetitionResponse(petition))
}

func (h *Handler) handleGetPetition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.petitionID(w, r)
	if !ok {
		return
	}
	details, err := h.service.GetPetition(ctx, id)
	if err != nil {
		h.writeError(ctx, w, err, "failed to get petition")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPetitionDetailResponse(details))
}

func (h *Handler) handleUpdatePetition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.petitionID(w, r)
	if !ok {
		return
	}
	var req models.UpdatePetitionRequest
	if !h.decode(w, r, &req) {
		return
	}
	petition, err := h.service.UpdatePetition(ctx, id, &req)
	if err != nil {
		h.writeError(ctx, w, err, "failed to update petition")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPetitionResponse(petition))
}

func (h *Handler) handleDeletePetition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.petitionID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeletePetition(ctx, id); err != nil {
		h.writeError(ctx, w, err, "failed to delete petition")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSignPetition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.petitionID(w, r)
	if !ok {
		return
	}
	var req models.SignPetitionRequest
	if !h.decode(w, r, &req) {
		return
	}
	signature, err := h.service.SignPetition(ctx, id, &req)
	if err != nil {
		h.writeError(ctx, w, err, "failed to sign petition")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSignatureResponse(signature))
}

func (h *Handler) handleListSignatures(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.petitionID(w, r)
	if !ok {
		return
	}
	signatures, err := h.service.ListSignatures(ctx, id)
	if err != nil {
		h.writeError(ctx, w, err, "failed to list signatures")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSignatureResponses(signatures))
}

// petitionID parses the {id} segment. Anything that is not a positive integer
// cannot name a petition, so it is reported as not found.
func (h *Handler) petitionID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "petition not found"))
		return 0, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if err == nil {
		return true
	}
	h.logger.WarnContext(r.Context(), "invalid request body",
		"request_id", middleware.GetRequestID(r.Context()),
		"error", err.Error(),
	)
	msg := "invalid request body"
	if errors.Is(err, io.EOF) {
		msg = "request body is required"
	}
	httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, msg))
	return false
}

// writeError logs unexpected failures before writing the envelope. Client
// errors are already logged by the service.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}

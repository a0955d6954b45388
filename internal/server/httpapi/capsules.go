package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dkolesni/timecapsule/internal/server/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) createCapsule(w http.ResponseWriter, r *http.Request) {
	var req capsuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	capsule := &models.Capsule{
		TitleEncrypted:   req.TitleEncrypted,
		TitleIV:          req.TitleIV,
		ContentEncrypted: req.ContentEncrypted,
		ContentIV:        req.ContentIV,
		UnlockDate:       req.UnlockDate,
		CapsuleType:      req.CapsuleType,
	}

	id, err := h.capsules.Create(r.Context(), userIDFromContext(r.Context()), capsule)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, createdResponse{ID: id})
}

func (h *Handler) listCapsules(w http.ResponseWriter, r *http.Request) {
	capsules, err := h.capsules.ListForUser(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result := make([]capsuleResponse, 0, len(capsules))
	for _, c := range capsules {
		result = append(result, toCapsuleResponse(c))
	}
	h.writeJSON(w, r, http.StatusOK, result)
}

func (h *Handler) getCapsule(w http.ResponseWriter, r *http.Request) {
	capsule, err := h.capsules.GetForUser(r.Context(), chi.URLParam(r, "id"), userIDFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, toCapsuleResponse(capsule))
}

func (h *Handler) unlockCapsule(w http.ResponseWriter, r *http.Request) {
	if err := h.capsules.Unlock(r.Context(), chi.URLParam(r, "id"), userIDFromContext(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createFileSlot(w http.ResponseWriter, r *http.Request) {
	slot, err := h.capsules.CreateFileSlot(r.Context(), chi.URLParam(r, "id"), userIDFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, fileSlotResponse{FilePath: slot.FilePath, UploadURL: slot.UploadURL})
}

func (h *Handler) createFile(w http.ResponseWriter, r *http.Request) {
	var req fileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	file := &models.File{
		CapsuleID:     chi.URLParam(r, "id"),
		FilePath:      req.FilePath,
		NameEncrypted: req.NameEncrypted,
		NameIV:        req.NameIV,
		TypeEncrypted: req.TypeEncrypted,
		TypeIV:        req.TypeIV,
		FileIV:        req.FileIV,
	}

	id, err := h.capsules.CreateFile(r.Context(), userIDFromContext(r.Context()), file)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, createdResponse{ID: id})
}

func (h *Handler) listFiles(w http.ResponseWriter, r *http.Request) {
	views, err := h.capsules.ListFiles(r.Context(), chi.URLParam(r, "id"), userIDFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result := make([]fileResponse, 0, len(views))
	for _, v := range views {
		result = append(result, toFileResponse(v))
	}
	h.writeJSON(w, r, http.StatusOK, result)
}

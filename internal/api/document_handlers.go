package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shalomhq/shalom/internal/types"
	"github.com/shalomhq/shalom/internal/validation"
)

// maxDocumentBytes caps scratch document payloads at 1 MiB.
const maxDocumentBytes = 1 << 20

// requireNamespace validates the {namespace} path parameter against the
// closed namespace set.
func requireNamespace(w http.ResponseWriter, r *http.Request) (string, bool) {
	ns := chi.URLParam(r, "namespace")
	if err := validation.ValidateEnum("namespace", ns, types.Namespaces); err != nil {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{*err})
		return "", false
	}
	return ns, true
}

// ListDocuments handles GET /api/v1/data/{namespace}
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ns, ok := requireNamespace(w, r)
	if !ok {
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	docs, err := h.store.ListDocuments(r.Context(), userID, ns)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// GetDocument handles GET /api/v1/data/{namespace}/{key}
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	ns, ok := requireNamespace(w, r)
	if !ok {
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	doc, err := h.store.GetDocument(r.Context(), userID, ns, chi.URLParam(r, "key"))
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// PutDocument handles PUT /api/v1/data/{namespace}/{key}. The body is the
// raw JSON value; it is stored opaquely.
func (h *Handler) PutDocument(w http.ResponseWriter, r *http.Request) {
	ns, ok := requireNamespace(w, r)
	if !ok {
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")
	if err := validation.ValidateRequired("key", key); err != nil {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{*err})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes))
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if !json.Valid(body) {
		WriteProblem(w, r, http.StatusBadRequest, "Body must be valid JSON")
		return
	}

	doc, err := h.store.PutDocument(r.Context(), types.Document{
		UserID:    userID,
		Namespace: ns,
		Key:       key,
		Value:     json.RawMessage(body),
	})
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// DeleteDocument handles DELETE /api/v1/data/{namespace}/{key}
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	ns, ok := requireNamespace(w, r)
	if !ok {
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteDocument(r.Context(), userID, ns, chi.URLParam(r, "key")); err != nil {
		MapStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/inkwell/blog-api/internal/apperr"
	"github.com/inkwell/blog-api/internal/auth"
	"github.com/inkwell/blog-api/internal/metrics"
	"github.com/inkwell/blog-api/internal/models"
	"github.com/inkwell/blog-api/internal/services"
	"github.com/inkwell/blog-api/internal/validation"
	"github.com/rs/zerolog/log"
)

const articleNotFound = "Article not found"

var (
	requiredArticleFields  = []string{"title", "content", "category"}
	updatableArticleFields = []string{"title", "content", "category"}
)

// ArticleHandler handles HTTP requests related to articles. Every route
// expects the bearer middleware to have attached an identity.
type ArticleHandler struct {
	service services.ArticleServiceProvider
	metrics *metrics.Metrics
}

// NewArticleHandler creates a new ArticleHandler.
func NewArticleHandler(service services.ArticleServiceProvider, m *metrics.Metrics) *ArticleHandler {
	return &ArticleHandler{service: service, metrics: m}
}

// GetAll lists the caller's articles.
func (h *ArticleHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	articles, err := h.service.GetArticlesByOwner(r.Context(), identity.ID)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	if articles == nil {
		articles = []models.Article{}
	}

	writeJSON(w, http.StatusOK, articles)
}

// Get returns a single article owned by the caller.
func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	article, ok := h.loadOwned(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// Create saves a new article for the caller. A body _parent, if given,
// must name the caller.
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}

	if field := validation.FirstMissing(body, requiredArticleFields...); field != "" {
		writeServiceError(w, r, apperr.NewValidationError(field,
			fmt.Sprintf("Missing `%s` in request body", field)), "")
		return
	}
	if err := validation.RequireStrings(body, append(requiredArticleFields, "_parent")...); err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	for _, field := range requiredArticleFields {
		if v, _ := validation.String(body, field); strings.TrimSpace(v) == "" {
			writeServiceError(w, r, apperr.NewValidationError(field,
				fmt.Sprintf("Missing `%s` in request body", field)), "")
			return
		}
	}

	article := models.Article{Parent: identity.ID}
	article.Title, _ = validation.String(body, "title")
	article.Content, _ = validation.String(body, "content")
	article.Category, _ = validation.String(body, "category")

	if parent, given := validation.String(body, "_parent"); given {
		if err := auth.RequireOwner(identity, parent); err != nil {
			log.Warn().Str("user_id", identity.ID).Str("parent", parent).Msg("Refusing article for another owner")
			writeServiceError(w, r, err, "")
			return
		}
	}

	created, err := h.service.CreateArticle(r.Context(), article)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	h.metrics.ArticlesCreatedTotal.Inc()
	writeJSON(w, http.StatusCreated, created)
}

// Update applies a partial update. The body id must match the path id.
func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}

	bodyID, isString := validation.String(body, "id")
	if !isString || bodyID != id {
		shown := bodyID
		if raw, present := body["id"]; present && !isString {
			shown = fmt.Sprint(raw)
		}
		message := fmt.Sprintf("Request patch id (%s and request body id (%s) must match)", id, shown)
		log.Warn().Msg(message)
		writeError(w, http.StatusBadRequest, message)
		return
	}
	if err := validation.RequireStrings(body, updatableArticleFields...); err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	if _, ok := h.loadOwned(w, r, id); !ok {
		return
	}

	var update models.ArticleUpdate
	if v, ok := validation.String(body, "title"); ok {
		update.Title = &v
	}
	if v, ok := validation.String(body, "content"); ok {
		update.Content = &v
	}
	if v, ok := validation.String(body, "category"); ok {
		update.Category = &v
	}

	if err := h.service.UpdateArticle(r.Context(), id, update); err != nil {
		writeServiceError(w, r, err, articleNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes an article owned by the caller.
func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.loadOwned(w, r, id); !ok {
		return
	}

	if err := h.service.DeleteArticle(r.Context(), id); err != nil {
		writeServiceError(w, r, err, articleNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadOwned fetches an article and applies the owner check, writing the
// failure response itself.
func (h *ArticleHandler) loadOwned(w http.ResponseWriter, r *http.Request, id string) (models.Article, bool) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return models.Article{}, false
	}

	article, err := h.service.GetArticleByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, articleNotFound)
		return models.Article{}, false
	}
	if err := auth.RequireOwner(identity, article.Parent); err != nil {
		log.Warn().Str("user_id", identity.ID).Str("article_id", id).Msg("Refusing access to foreign article")
		writeServiceError(w, r, err, articleNotFound)
		return models.Article{}, false
	}
	return article, true
}

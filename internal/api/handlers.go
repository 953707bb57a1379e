package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/verdantpress/blogapi/internal/blob"
	"github.com/verdantpress/blogapi/internal/config"
	"github.com/verdantpress/blogapi/internal/directory"
	"github.com/verdantpress/blogapi/internal/middleware"
	"github.com/verdantpress/blogapi/internal/models"
	"github.com/verdantpress/blogapi/internal/publish"
	"github.com/verdantpress/blogapi/internal/query"
)

// Handlers is the thin HTTP layer over the pipeline. All multipart
// parsing happens here; the orchestrator only ever sees a Submission.
type Handlers struct {
	config       *config.Config
	orchestrator *publish.Orchestrator
	engine       *query.Engine
	authors      *directory.Directory
}

func NewHandlers(cfg *config.Config, orch *publish.Orchestrator, engine *query.Engine, authors *directory.Directory) *Handlers {
	return &Handlers{
		config:       cfg,
		orchestrator: orch,
		engine:       engine,
		authors:      authors,
	}
}

// HealthCheck handles the /health endpoint
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// CreateArticle handles POST /api/v1/articles
func (h *Handlers) CreateArticle(c *fiber.Ctx) error {
	sub, err := h.submissionFromForm(c)
	if err != nil {
		return err
	}

	article, err := h.orchestrator.Publish(c.Context(), sub)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(article)
}

// ListArticles handles GET /api/v1/articles
func (h *Handlers) ListArticles(c *fiber.Ctx) error {
	views, err := h.engine.Query(c.Context(), query.Filter{
		Category:   c.Query("category"),
		SearchText: c.Query("search"),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"total": len(views),
		"items": views,
	})
}

// GetArticle handles GET /api/v1/articles/:id
func (h *Handlers) GetArticle(c *fiber.Ctx) error {
	view, err := h.engine.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// UpdateArticle handles PUT /api/v1/articles/:id
func (h *Handlers) UpdateArticle(c *fiber.Ctx) error {
	sub, err := h.submissionFromForm(c)
	if err != nil {
		return err
	}

	article, err := h.orchestrator.Update(c.Context(), c.Params("id"), sub)
	if err != nil {
		return err
	}
	return c.JSON(article)
}

// DeleteArticle handles DELETE /api/v1/articles/:id
func (h *Handlers) DeleteArticle(c *fiber.Ctx) error {
	if err := h.orchestrator.Delete(c.Context(), c.Params("id"), middleware.Identity(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  "deleted",
		"message": "Article deleted successfully",
	})
}

// MyArticles handles GET /api/v1/my/articles
func (h *Handlers) MyArticles(c *fiber.Ctx) error {
	author, err := h.authors.ResolveByEmail(c.Context(), middleware.Identity(c))
	if err != nil {
		return err
	}

	views, err := h.engine.Query(c.Context(), query.Filter{
		AuthorID:   author.ID,
		Category:   c.Query("category"),
		SearchText: c.Query("search"),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"total": len(views),
		"items": views,
	})
}

// ListCategories handles GET /api/v1/categories
func (h *Handlers) ListCategories(c *fiber.Ctx) error {
	categories, err := h.engine.DistinctCategories(c.Context())
	if err != nil {
		return err
	}
	if categories == nil {
		categories = []string{}
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// UpsertAuthor handles POST /api/v1/admin/authors, the write boundary of
// the external identity-provisioning flow.
func (h *Handlers) UpsertAuthor(c *fiber.Ctx) error {
	var author models.Author
	if err := c.BodyParser(&author); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body: " + err.Error(),
		})
	}
	if author.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "email is required",
		})
	}

	stored, err := h.authors.Provision(c.Context(), &author)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(stored)
}

// submissionFromForm builds the pipeline command from a multipart form.
func (h *Handlers) submissionFromForm(c *fiber.Ctx) (*models.Submission, error) {
	sub := &models.Submission{
		AuthorEmail:    middleware.Identity(c),
		Title:          c.FormValue("title"),
		Description:    c.FormValue("description"),
		Content:        c.FormValue("content"),
		Category:       c.FormValue("category"),
		CustomCategory: c.FormValue("custom_category"),
		Status:         models.Status(c.FormValue("status")),
		ImageURL:       c.FormValue("image_url"),
	}

	if raw := c.FormValue("schedule_date"); raw != "" {
		date, err := parseScheduleDate(raw)
		if err != nil {
			return nil, &publish.ValidationError{Fields: map[string]string{
				"schedule_date": err.Error(),
			}}
		}
		sub.ScheduleDate = date
	}

	file, err := c.FormFile("image")
	if err == nil && file != nil {
		if file.Size > h.config.MaxImageSize {
			return nil, fmt.Errorf("%w: %d bytes (limit %d)",
				blob.ErrPayloadTooLarge, file.Size, h.config.MaxImageSize)
		}
		data, mimeType, err := readUpload(file)
		if err != nil {
			return nil, err
		}
		sub.ImageData = data
		sub.ImageMime = mimeType
	}

	return sub, nil
}

func readUpload(file *multipart.FileHeader) ([]byte, string, error) {
	f, err := file.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read uploaded file: %w", err)
	}
	return data, file.Header.Get("Content-Type"), nil
}

// parseScheduleDate accepts both date-only form values and full
// timestamps.
func parseScheduleDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("must be YYYY-MM-DD or RFC 3339, got %q", raw)
}

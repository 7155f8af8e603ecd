package controller

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/Evgen-Mutagen/breakfast-orders/internal/core"
	"github.com/Evgen-Mutagen/breakfast-orders/internal/model"
)

const (
	indexTitle   = "Schnubbis Frühstück Order"
	indexSection = "Schnubbis frühstück order"
	successTitle = "Gesendet :3"
	adminTitle   = "Orders"
)

//go:embed templates/*.html
var templatesFS embed.FS

type PageController struct {
	orderService core.OrderService
	decorator    core.Decorator
	templates    *template.Template
	logger       *zap.Logger
}

func NewPageController(orderService core.OrderService, decorator core.Decorator, logger *zap.Logger) (*PageController, error) {
	tmpl, err := template.New("pages").
		Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
		ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &PageController{
		orderService: orderService,
		decorator:    decorator,
		templates:    tmpl,
		logger:       logger,
	}, nil
}

func (c *PageController) Index(w http.ResponseWriter, r *http.Request) {
	c.render(w, "index.html", map[string]any{
		"Title":       indexTitle,
		"Section":     indexSection,
		"MaxComments": model.MaxCommentsLength,
	})
}

func (c *PageController) Success(w http.ResponseWriter, r *http.Request) {
	c.render(w, "success.html", map[string]any{
		"Title":      successTitle,
		"Decoration": c.decorator.Decorate(r.Context()),
	})
}

func (c *PageController) Admin(w http.ResponseWriter, r *http.Request) {
	orders, err := c.orderService.ListOrders(r.Context())
	if err != nil {
		c.logger.Error("Failed to list orders", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	c.render(w, "admin.html", map[string]any{
		"Title":  adminTitle,
		"Orders": orders,
	})
}

func (c *PageController) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := c.templates.ExecuteTemplate(&buf, name, data); err != nil {
		c.logger.Error("Failed to render template",
			zap.String("template", name),
			zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

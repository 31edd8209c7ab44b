package web

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Template names.
const (
	ProductListTemplate       = "product_list.tmpl"
	ProductDetailTemplate     = "product_detail.tmpl"
	ProductFormTemplate       = "product_form.tmpl"
	SellerProductListTemplate = "seller_product_list.tmpl"
)

var funcMap = template.FuncMap{
	"price": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"add":   func(a, b int) int { return a + b },
	"sub":   func(a, b int) int { return a - b },
	"join":  strings.Join,
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.tmpl")
}

// Load installs the page templates on the engine.
func Load(engine *gin.Engine) error {
	tmpl, err := Templates()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	engine.SetHTMLTemplate(tmpl)
	return nil
}

// WantsHTML reports whether the client prefers an HTML page over JSON.
// Clients that send no Accept header get JSON.
func WantsHTML(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML
}

// Render writes data as the named page for browsers and as JSON otherwise.
func Render(c *gin.Context, status int, name string, data gin.H) {
	if WantsHTML(c) {
		c.HTML(status, name, data)
		return
	}
	c.JSON(status, data)
}

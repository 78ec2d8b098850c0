package views

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/gofiber/template/html"
)

//go:embed templates/*.html
var files embed.FS

// Layout wraps every page; pages are rendered where it calls {{embed}}.
const Layout = "layout"

// New returns the board's template engine over the embedded pages.
func New() *html.Engine {
	sub, err := fs.Sub(files, "templates")
	if err != nil {
		panic(fmt.Sprintf("embedded templates missing: %s", err))
	}

	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("timestamp", timestamp)
	engine.AddFunc("coords", coords)
	return engine
}

func timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}

func coords(lat, lng float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lng)
}

package rolniknysa

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Maathias/rolniknysa-backend/markdown"
)

const (
	homeArticleCount     = 5
	tagIndexArticleCount = 10
)

func (a *App) handleHome(c echo.Context) error {
	articles, err := a.Store.RecentArticles(homeArticleCount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"articles": articles})
}

// handleArticle is the display read: returning the article also counts a
// view, so this is deliberately not GetArticle.
func (a *App) handleArticle(c echo.Context) error {
	article, err := a.Store.GetArticleCountingView(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	recent, err := a.Store.RecentArticles(homeArticleCount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"article":  article,
		"articles": recent,
	})
}

func (a *App) handleTagIndex(c echo.Context) error {
	articles, err := a.Store.RecentArticles(tagIndexArticleCount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"tags":     []string{},
		"articles": articles,
	})
}

func (a *App) handleTag(c echo.Context) error {
	tags := filterEmpty(strings.Split(c.Param("tags"), ","))
	if len(tags) == 0 {
		return a.handleTagIndex(c)
	}
	articles, err := a.Store.ArticlesByTags(tags)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"tags":     tags,
		"articles": articles,
	})
}

func (a *App) handleSearch(c echo.Context) error {
	query := c.QueryParam("q")
	start := time.Now()
	articles, err := a.Store.SearchArticles(query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"articles": articles,
		"meta": echo.Map{
			"results": len(articles),
			"time":    time.Since(start).Seconds(),
			"query":   query,
		},
	})
}

// handleImage streams a stored picture with its recorded mimetype. Any
// lookup failure is a plain 404, matching the public contract.
func (a *App) handleImage(c echo.Context) error {
	img, err := a.Store.GetImage(c.Param("slug"))
	if err != nil {
		return echo.ErrNotFound
	}
	if _, err := os.Stat(img.Path); err != nil {
		return echo.ErrNotFound
	}
	c.Response().Header().Set(echo.HeaderContentType, img.Mimetype)
	return c.File(img.Path)
}

// handleUpload is the authoring action: one multipart request creates the
// image record and the article record referencing it. Content arrives as
// markdown and is rendered to HTML before it is stored.
func (a *App) handleUpload(c echo.Context) error {
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return c.String(http.StatusBadRequest, "title required")
	}
	author := c.FormValue("author")

	file, err := c.FormFile("files")
	if err != nil {
		return c.String(http.StatusBadRequest, "no image file provided")
	}
	if file.Size > maxUploadSize {
		return c.String(http.StatusBadRequest, "file too large")
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	img, data, err := processImage(src, file.Filename, author)
	if err != nil {
		return c.String(http.StatusBadRequest, "invalid image: "+err.Error())
	}
	img.Path = filepath.Join(a.Config.UploadDir, storedFilename())
	if err := os.WriteFile(img.Path, data, 0o644); err != nil {
		return err
	}
	if err := a.Store.SaveImage(img); err != nil {
		return err
	}
	c.Logger().Infof("new image %q (%d bytes)", img.Src, img.Size)

	article := Article{
		Src:     Slugify(title, a.Config.SlugMaxLen),
		Title:   title,
		Img:     []ImageRef{{Src: "/img/" + img.Src, Caption: c.FormValue("caption")}},
		Content: markdown.Render(c.FormValue("content")),
		Tags:    filterEmpty(strings.Split(c.FormValue("tags"), ",")),
		Date:    time.Now().UTC(),
		Author:  author,
	}
	if err := a.Store.SaveArticle(article); err != nil {
		return err
	}
	c.Logger().Infof("new article %q", article.Src)

	return c.String(http.StatusOK, "ok")
}

func handleWebhook(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func filterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

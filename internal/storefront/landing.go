package storefront

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"jrmart/internal/models"
)

type CategoryCard struct {
	Name      string
	Blurb     string
	BrowseURL string
	Active    bool
}

// LandingPage is the home page state.
type LandingPage struct {
	Categories []CategoryCard
	Query      string
	Category   models.Category
	Searched   bool
	Results    []ProductRow
	Alert      string
}

// Landing renders the home page. A bare visit is static; a search or a
// category browse lists matching products.
type Landing struct {
	Products  ProductRepository
	Presenter Presenter
	Logger    *slog.Logger
}

func (l *Landing) Render(ctx context.Context, query, category string) LandingPage {
	page := LandingPage{Query: strings.TrimSpace(query)}
	if c, ok := models.ParseCategory(category); ok {
		page.Category = c
	}
	for _, c := range models.Categories {
		page.Categories = append(page.Categories, CategoryCard{
			Name:      string(c),
			Blurb:     "Explore our " + string(c) + " collection",
			BrowseURL: HomePath + "?category=" + url.QueryEscape(string(c)),
			Active:    c == page.Category,
		})
	}

	f := models.Filter{Query: page.Query, Category: page.Category}
	if f.IsZero() || l.Products == nil {
		return page
	}
	page.Searched = true
	items, err := l.Products.Find(ctx, f)
	if err != nil {
		logger := l.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.WarnContext(ctx, "search products failed", "query", f.Query, "category", f.Category, "error", err)
		page.Alert = MsgFetchFailed
		return page
	}
	page.Results = l.Presenter.Rows(items)
	return page
}

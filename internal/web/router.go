// Package web serves the storefront pages with gin.
package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"jrmart/internal/config"
	"jrmart/internal/middleware"
	"jrmart/internal/models"
	"jrmart/internal/storefront"
	"jrmart/internal/views"
)

type ViewData map[string]any

const sessionName = "jrmart_session"

// Deps are the collaborators of the storefront router.
type Deps struct {
	Products storefront.ProductRepository
	Images   storefront.ImageStore
	Config   config.Storefront
	Logger   *slog.Logger
	Now      func() time.Time
}

type server struct {
	landing   *storefront.Landing
	create    *storefront.CreateForm
	edit      *storefront.EditForm
	presenter storefront.Presenter
	products  storefront.ProductRepository
	logger    *slog.Logger
}

// NewRouter wires the storefront routes.
func NewRouter(d Deps) (*gin.Engine, error) {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	presenter := storefront.Presenter{ImageBaseURL: d.Config.ImageBaseURL}
	s := &server{
		landing:   &storefront.Landing{Products: d.Products, Presenter: presenter, Logger: d.Logger},
		create:    &storefront.CreateForm{Products: d.Products, Images: d.Images, SellerID: d.Config.SellerID, Now: d.Now, Logger: d.Logger},
		edit:      &storefront.EditForm{Products: d.Products, Images: d.Images, Logger: d.Logger},
		presenter: presenter,
		products:  d.Products,
		logger:    d.Logger,
	}

	tmpl, err := views.Parse()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Logger))

	store := cookie.NewStore([]byte(d.Config.SessionSecret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions(sessionName, store))
	r.SetHTMLTemplate(tmpl)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	r.GET(storefront.HomePath, s.home)

	admin := r.Group(storefront.ListPath)
	admin.GET("", s.list)
	admin.GET("/create", s.createForm)
	admin.POST("/create", s.createSubmit)
	admin.GET("/edit/:id", s.editForm)
	admin.POST("/edit/:id", s.editSubmit)
	admin.POST("/delete/:id", s.delete)

	return r, nil
}

// withFlash adds the pending alerts of the session to the view.
func withFlash(c *gin.Context, data ViewData) ViewData {
	if data == nil {
		data = ViewData{}
	}
	sess := sessions.Default(c)
	if flashes := sess.Flashes(); len(flashes) > 0 {
		data["Flashes"] = flashes
		_ = sess.Save()
	}
	return data
}

func flash(c *gin.Context, msg string) {
	sess := sessions.Default(c)
	sess.AddFlash(msg)
	_ = sess.Save()
}

func (s *server) home(c *gin.Context) {
	page := s.landing.Render(c.Request.Context(), c.Query("q"), c.Query("category"))
	c.HTML(http.StatusOK, "home.tmpl", withFlash(c, ViewData{"Page": page}))
}

func (s *server) list(c *gin.Context) {
	view := &storefront.ListView{Products: s.products, Presenter: s.presenter, Logger: s.logger}
	status := http.StatusOK
	if err := view.Refresh(c.Request.Context()); err != nil {
		_ = c.Error(err)
		status = http.StatusBadGateway
	}
	c.HTML(status, "product_list.tmpl", withFlash(c, ViewData{
		"Title": "Products",
		"Rows":  view.Rows(),
		"Error": view.Alert(),
	}))
}

func (s *server) delete(c *gin.Context) {
	view := &storefront.ListView{Products: s.products, Presenter: s.presenter, Logger: s.logger}
	if err := view.Remove(c.Request.Context(), models.ID(c.Param("id"))); err != nil {
		_ = c.Error(err)
		flash(c, view.Alert())
	} else {
		flash(c, storefront.MsgDeleted)
	}
	c.Redirect(http.StatusSeeOther, storefront.ListPath)
}

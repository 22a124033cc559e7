package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"jrmart/internal/models"
	"jrmart/internal/productclient"
	"jrmart/internal/storefront"
)

// maxFormBody bounds the request body of the product form. It leaves room
// above storefront.MaxImageSize so an oversized image still arrives with the
// other fields and the form can be shown again filled in.
const maxFormBody = 2 * storefront.MaxImageSize

// formInput reads the product form. A missing file is not an error here:
// the controller decides whether the image is required.
func formInput(c *gin.Context) (storefront.FormInput, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFormBody)
	if _, err := c.MultipartForm(); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return storefront.FormInput{}, err
	}
	in := storefront.FormInput{
		Name:        c.PostForm("name"),
		Category:    c.PostForm("category"),
		Price:       c.PostForm("price"),
		Description: c.PostForm("description"),
	}
	if fh, err := c.FormFile("image"); err == nil {
		in.Image = &storefront.Upload{
			Filename: fh.Filename,
			Size:     fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		}
	}
	return in, nil
}

// unreadableForm renders the form again when the body could not be parsed.
func (s *server) unreadableForm(c *gin.Context, mode, action string, err error) {
	_ = c.Error(err)
	status, alert := http.StatusBadRequest, storefront.MsgFillAllFields
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status, alert = http.StatusRequestEntityTooLarge, storefront.MsgImageTooLarge
	}
	c.HTML(status, "product_form.tmpl", withFlash(c,
		s.formView(mode, action, storefront.FormResult{Alert: alert})))
}

func (s *server) formView(mode, action string, res storefront.FormResult) ViewData {
	title := "Create Product"
	if mode == "edit" {
		title = "Edit Product"
	}
	return ViewData{
		"Title":      title,
		"Mode":       mode,
		"Action":     action,
		"Form":       res.Input,
		"Item":       res.Product,
		"ImageURL":   s.presenter.ImageURL(res.Product.ImageFilename),
		"Categories": models.Categories,
		"Error":      res.Alert,
	}
}

// failureStatus maps a failed submit to the status of the re-rendered form.
func failureStatus(err error) int {
	var ve *productclient.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case productclient.IsNotFound(err):
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func (s *server) createForm(c *gin.Context) {
	c.HTML(http.StatusOK, "product_form.tmpl", withFlash(c,
		s.formView("create", storefront.CreatePath, storefront.FormResult{})))
}

func (s *server) createSubmit(c *gin.Context) {
	in, err := formInput(c)
	if err != nil {
		s.unreadableForm(c, "create", storefront.CreatePath, err)
		return
	}
	res := s.create.Submit(c.Request.Context(), in)
	if res.State == storefront.Succeeded {
		flash(c, res.Alert)
		c.Redirect(http.StatusSeeOther, res.Redirect)
		return
	}
	_ = c.Error(res.Err)
	c.HTML(failureStatus(res.Err), "product_form.tmpl", withFlash(c,
		s.formView("create", storefront.CreatePath, res)))
}

func (s *server) editForm(c *gin.Context) {
	id := models.ID(c.Param("id"))
	res := s.edit.Load(c.Request.Context(), id)
	if res.Err != nil {
		_ = c.Error(res.Err)
		c.HTML(failureStatus(res.Err), "product_form.tmpl", withFlash(c, s.formView("edit", "", res)))
		return
	}
	c.HTML(http.StatusOK, "product_form.tmpl", withFlash(c, s.formView("edit", storefront.EditPath(id), res)))
}

func (s *server) editSubmit(c *gin.Context) {
	id := models.ID(c.Param("id"))
	in, err := formInput(c)
	if err != nil {
		s.unreadableForm(c, "edit", storefront.EditPath(id), err)
		return
	}
	res := s.edit.Submit(c.Request.Context(), id, in)
	if res.State == storefront.Succeeded {
		flash(c, res.Alert)
		c.Redirect(http.StatusSeeOther, res.Redirect)
		return
	}
	_ = c.Error(res.Err)
	action := storefront.EditPath(id)
	if productclient.IsNotFound(res.Err) {
		action = ""
	}
	c.HTML(failureStatus(res.Err), "product_form.tmpl", withFlash(c, s.formView("edit", action, res)))
}

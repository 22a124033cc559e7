package storefront

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"jrmart/internal/models"
	"jrmart/internal/productclient"
)

// FormState is where a product form is in its submit cycle.
type FormState int

const (
	Editing FormState = iota
	Submitting
	Succeeded
)

func (s FormState) String() string {
	switch s {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	}
	return fmt.Sprintf("FormState(%d)", int(s))
}

// MaxImageSize is the largest product image accepted.
const MaxImageSize = 8 << 20

// Upload is an image file picked in the form. Open is only called once the
// rest of the form is valid.
type Upload struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

func (u *Upload) present() bool {
	return u != nil && u.Size > 0 && ImageNameOf(u) != ""
}

// ImageNameOf returns the reference derived from the picked file's name.
func ImageNameOf(u *Upload) string {
	if u == nil {
		return ""
	}
	return models.ImageName(u.Filename)
}

// FormInput is the raw text of the product form.
type FormInput struct {
	Name        string
	Category    string
	Price       string
	Description string
	Image       *Upload
}

// FormResult is the page state after a form event.
type FormResult struct {
	State    FormState
	Input    FormInput
	Product  models.Product
	Alert    string
	Err      error
	Redirect string
}

func (r FormResult) Failed() bool { return r.State == Editing && r.Alert != "" }

// draft validates the text fields. The returned message is empty when in is
// usable.
func (in FormInput) draft(requireImage bool) (models.Draft, string) {
	var d models.Draft
	name := strings.TrimSpace(in.Name)
	category := strings.TrimSpace(in.Category)
	price := strings.TrimSpace(in.Price)
	desc := strings.TrimSpace(in.Description)
	if name == "" || category == "" || price == "" || desc == "" || (requireImage && !in.Image.present()) {
		return d, MsgFillAllFields
	}
	if in.Image != nil && in.Image.Size > MaxImageSize {
		return d, MsgImageTooLarge
	}

	cat, ok := models.ParseCategory(category)
	if !ok {
		return d, MsgInvalidCategory
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(price, ",", "."))
	if err != nil || amount.IsNegative() {
		return d, MsgInvalidPrice
	}

	d.Name = name
	d.Category = cat
	d.Price = amount.InexactFloat64()
	d.Description = desc
	return d, ""
}

func validationErr(msg string) error {
	return fmt.Errorf("%s: %w", msg, &productclient.ValidationError{Fields: []string{"form"}})
}

// storeImage uploads u when an image store is configured. Without one, the
// reference is derived from the file name and the bytes stay on the client.
func storeImage(ctx context.Context, images ImageStore, u *Upload) (string, error) {
	name := ImageNameOf(u)
	if images == nil {
		return name, nil
	}
	rc, err := u.Open()
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer rc.Close()
	return images.UploadImage(ctx, name, rc)
}

// CreateForm drives the create product page.
type CreateForm struct {
	Products ProductRepository
	Images   ImageStore
	SellerID int
	Now      func() time.Time
	Logger   *slog.Logger
}

func (f *CreateForm) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

func (f *CreateForm) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.Default()
}

// Submit validates in and, when valid, stores the image and creates the
// product. Invalid input never reaches the catalog.
func (f *CreateForm) Submit(ctx context.Context, in FormInput) FormResult {
	res := FormResult{State: Editing, Input: in}
	d, msg := in.draft(true)
	if msg != "" {
		res.Alert, res.Err = msg, validationErr(msg)
		return res
	}

	res.State = Submitting
	ref, err := storeImage(ctx, f.Images, in.Image)
	if err != nil {
		return f.fail(ctx, res, err)
	}
	d.ImageFilename = ref
	d.CreatedAt = f.now().UTC()
	d.SellerID = f.SellerID
	d.Status = models.StatusAvailable

	p, err := f.Products.Create(ctx, d)
	if err != nil {
		return f.fail(ctx, res, err)
	}
	f.logger().InfoContext(ctx, "product created", "id", p.ID, "name", p.Name)
	return FormResult{State: Succeeded, Product: p, Alert: MsgCreated, Redirect: ListPath}
}

func (f *CreateForm) fail(ctx context.Context, res FormResult, err error) FormResult {
	f.logger().WarnContext(ctx, "create product failed", "error", err)
	res.State = Editing
	res.Err = err
	res.Alert = MsgCreateFailed
	var ve *productclient.ValidationError
	if errors.As(err, &ve) {
		res.Alert = MsgFillAllFields
	}
	return res
}

// EditForm drives the edit product page. The image is optional there: when
// none is picked the stored reference is kept.
type EditForm struct {
	Products ProductRepository
	Images   ImageStore
	Logger   *slog.Logger
}

func (f *EditForm) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.Default()
}

// Load fills the form from the stored product.
func (f *EditForm) Load(ctx context.Context, id models.ID) FormResult {
	p, err := f.Products.Get(ctx, id)
	if err != nil {
		f.logger().WarnContext(ctx, "load product failed", "id", id, "error", err)
		alert := MsgFetchFailed
		if productclient.IsNotFound(err) {
			alert = MsgNotFound
		}
		return FormResult{State: Editing, Alert: alert, Err: err}
	}
	return FormResult{State: Editing, Product: p, Input: InputOf(p)}
}

// InputOf renders p back into form text.
func InputOf(p models.Product) FormInput {
	return FormInput{
		Name:        p.Name,
		Category:    string(p.Category),
		Price:       decimal.NewFromFloat(p.Price).String(),
		Description: p.Description,
	}
}

// Submit updates the product. createdAt, sellerId and status are carried
// over from the stored product unchanged.
func (f *EditForm) Submit(ctx context.Context, id models.ID, in FormInput) FormResult {
	res := FormResult{State: Editing, Input: in}
	current, err := f.Products.Get(ctx, id)
	if err != nil {
		return f.fail(ctx, res, err)
	}
	res.Product = current

	d, msg := in.draft(false)
	if msg != "" {
		res.Alert, res.Err = msg, validationErr(msg)
		return res
	}

	res.State = Submitting
	d.ImageFilename = current.ImageFilename
	if in.Image.present() {
		ref, err := storeImage(ctx, f.Images, in.Image)
		if err != nil {
			return f.fail(ctx, res, err)
		}
		d.ImageFilename = ref
	}
	d.CreatedAt = current.CreatedAt
	d.CreatedRaw = current.CreatedRaw
	d.SellerID = current.SellerID
	d.Status = current.Status

	p, err := f.Products.Update(ctx, id, d)
	if err != nil {
		return f.fail(ctx, res, err)
	}
	f.logger().InfoContext(ctx, "product updated", "id", p.ID)
	return FormResult{State: Succeeded, Product: p, Alert: MsgUpdated, Redirect: ListPath}
}

func (f *EditForm) fail(ctx context.Context, res FormResult, err error) FormResult {
	f.logger().WarnContext(ctx, "update product failed", "error", err)
	res.State = Editing
	res.Err = err
	switch {
	case productclient.IsNotFound(err):
		res.Alert = MsgNotFound
	default:
		res.Alert = MsgUpdateFailed
	}
	return res
}

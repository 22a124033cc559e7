package storefront

import (
	"context"
	"io"
	"strings"
	"sync"

	"jrmart/internal/models"
	"jrmart/internal/productclient"
)

// fakeRepo records calls and answers from a map keyed by id.
type fakeRepo struct {
	mu       sync.Mutex
	items    []models.Product
	err      error
	calls    map[string]int
	created  []models.Draft
	updated  []models.Draft
	filters  []models.Filter
	nextID   int
	uploaded map[string]string
}

func newFakeRepo(items ...models.Product) *fakeRepo {
	return &fakeRepo{items: items, calls: map[string]int{}, uploaded: map[string]string{}, nextID: 100}
}

func (f *fakeRepo) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeRepo) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.err
}

func (f *fakeRepo) List(ctx context.Context) ([]models.Product, error) {
	if err := f.record("list"); err != nil {
		return nil, err
	}
	return append([]models.Product(nil), f.items...), nil
}

func (f *fakeRepo) Find(ctx context.Context, flt models.Filter) ([]models.Product, error) {
	if err := f.record("find"); err != nil {
		return nil, err
	}
	f.filters = append(f.filters, flt)
	var out []models.Product
	for _, p := range f.items {
		if flt.Category != "" && p.Category != flt.Category {
			continue
		}
		if flt.Query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(flt.Query)) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeRepo) Get(ctx context.Context, id models.ID) (models.Product, error) {
	if err := f.record("get"); err != nil {
		return models.Product{}, err
	}
	for _, p := range f.items {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, &productclient.ServiceError{Op: "get product", StatusCode: 404}
}

func (f *fakeRepo) Create(ctx context.Context, d models.Draft) (models.Product, error) {
	if err := f.record("create"); err != nil {
		return models.Product{}, err
	}
	f.created = append(f.created, d)
	f.nextID++
	p := models.Product{
		ID: models.IDFromUint(uint(f.nextID)), Name: d.Name, Category: d.Category, Price: d.Price,
		Description: d.Description, ImageFilename: d.ImageFilename, CreatedAt: d.CreatedAt,
		SellerID: d.SellerID, Status: d.Status,
	}
	f.items = append(f.items, p)
	return p, nil
}

func (f *fakeRepo) Update(ctx context.Context, id models.ID, d models.Draft) (models.Product, error) {
	if err := f.record("update"); err != nil {
		return models.Product{}, err
	}
	f.updated = append(f.updated, d)
	for i, p := range f.items {
		if p.ID == id {
			p.Name, p.Category, p.Price, p.Description = d.Name, d.Category, d.Price, d.Description
			p.ImageFilename, p.CreatedAt, p.SellerID, p.Status = d.ImageFilename, d.CreatedAt, d.SellerID, d.Status
			f.items[i] = p
			return p, nil
		}
	}
	return models.Product{}, &productclient.ServiceError{Op: "update product", StatusCode: 404}
}

func (f *fakeRepo) Delete(ctx context.Context, id models.ID) error {
	if err := f.record("delete"); err != nil {
		return err
	}
	for i, p := range f.items {
		if p.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return &productclient.ServiceError{Op: "delete product", StatusCode: 404}
}

func (f *fakeRepo) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := f.record("upload"); err != nil {
		return "", err
	}
	b, _ := io.ReadAll(r)
	f.uploaded[filename] = string(b)
	return filename, nil
}

func upload(name, content string) *Upload {
	return &Upload{
		Filename: name,
		Size:     int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

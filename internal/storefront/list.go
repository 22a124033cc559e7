package storefront

import (
	"context"
	"log/slog"

	"jrmart/internal/models"
)

// ListView is the admin product table. Every Refresh fetches the whole
// collection and replaces what is shown.
type ListView struct {
	Products  ProductRepository
	Presenter Presenter
	Logger    *slog.Logger

	items []models.Product
	alert string
}

func (v *ListView) logger() *slog.Logger {
	if v.Logger != nil {
		return v.Logger
	}
	return slog.Default()
}

// Refresh reloads the collection. On failure the previous rows stay and the
// alert is set.
func (v *ListView) Refresh(ctx context.Context) error {
	items, err := v.Products.List(ctx)
	if err != nil {
		v.logger().WarnContext(ctx, "list products failed", "error", err)
		v.alert = MsgFetchFailed
		return err
	}
	v.items = items
	v.alert = ""
	return nil
}

// Remove deletes one product without reloading the table. The storefront
// redirects to the list page after a delete, and that page load is the
// Refresh that shows the new collection.
func (v *ListView) Remove(ctx context.Context, id models.ID) error {
	if err := v.Products.Delete(ctx, id); err != nil {
		v.logger().WarnContext(ctx, "delete product failed", "id", id, "error", err)
		v.alert = MsgDeleteFailed
		return err
	}
	v.logger().InfoContext(ctx, "product deleted", "id", id)
	return nil
}

func (v *ListView) Rows() []ProductRow { return v.Presenter.Rows(v.items) }

func (v *ListView) Len() int { return len(v.items) }

func (v *ListView) Alert() string { return v.alert }

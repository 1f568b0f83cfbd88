package catalog

import (
	"context"
	"strings"

	"pos-storefront/model"
)

// Source lists product rows from the backend ordered by the given column
// (model.OrderByCategory or model.OrderByID).
type Source interface {
	ListProducts(ctx context.Context, orderBy string) ([]model.Product, error)
}

type Fetcher struct {
	src Source
}

func NewFetcher(src Source) *Fetcher {
	return &Fetcher{src: src}
}

// Fetch returns the sellable catalog: rows grouped by category, nameless
// rows dropped.
func (f *Fetcher) Fetch(ctx context.Context) ([]model.Product, error) {
	return f.fetch(ctx, model.OrderByCategory)
}

// FetchForAdmin returns the same projection in id order for the product
// management screen.
func (f *Fetcher) FetchForAdmin(ctx context.Context) ([]model.Product, error) {
	return f.fetch(ctx, model.OrderByID)
}

// Query fetches and applies Search. An empty query is a plain fetch.
func (f *Fetcher) Query(ctx context.Context, query string, admin bool) ([]model.Product, error) {
	var (
		products []model.Product
		err      error
	)
	if admin {
		products, err = f.FetchForAdmin(ctx)
	} else {
		products, err = f.Fetch(ctx)
	}
	if err != nil {
		return nil, err
	}
	return Search(products, query), nil
}

func (f *Fetcher) fetch(ctx context.Context, orderBy string) ([]model.Product, error) {
	rows, err := f.src.ListProducts(ctx, orderBy)
	if err != nil {
		return nil, err
	}
	return Named(rows), nil
}

// Named drops rows without a name.
func Named(rows []model.Product) []model.Product {
	out := make([]model.Product, 0, len(rows))
	for _, p := range rows {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Search keeps products whose name contains query, ignoring case. Only the
// empty query returns products unchanged; whitespace is matched as typed.
func Search(products []model.Product, query string) []model.Product {
	q := strings.ToLower(query)
	if q == "" {
		return products
	}
	var out []model.Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

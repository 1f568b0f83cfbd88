package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"pos-storefront/model"

	"github.com/shopspring/decimal"
)

// ParseProductForm validates the admin form. Prices accept a decimal comma;
// a blank promotion price means no promotion.
func ParseProductForm(f model.ProductForm) (model.Product, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return model.Product{}, model.Validation("product form", fmt.Errorf("name is required"))
	}

	price, err := parsePrice("price", f.Price)
	if err != nil {
		return model.Product{}, err
	}

	promo := f.PromotionPrice
	if strings.TrimSpace(promo) == "" {
		promo = "0"
	}
	promotion, err := parsePrice("promotion_price", promo)
	if err != nil {
		return model.Product{}, err
	}

	qty, err := strconv.Atoi(strings.TrimSpace(f.Quantity))
	if err != nil {
		return model.Product{}, model.Validation("product form", fmt.Errorf("quantity %q is not a whole number", f.Quantity))
	}
	if qty < 0 {
		return model.Product{}, model.Validation("product form", fmt.Errorf("quantity cannot be negative"))
	}

	return model.Product{
		Name:           name,
		Quantity:       qty,
		Price:          price,
		PromotionPrice: promotion,
		Category:       strings.TrimSpace(f.Category),
	}, nil
}

func parsePrice(field, raw string) (float64, error) {
	s := strings.Replace(strings.TrimSpace(raw), ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, model.Validation("product form", fmt.Errorf("%s %q is not a number", field, raw))
	}
	if d.IsNegative() {
		return 0, model.Validation("product form", fmt.Errorf("%s cannot be negative", field))
	}
	return d.Round(2).InexactFloat64(), nil
}

// Package view maps catalog, cart and report state to the structures the
// client renders. Nothing here does I/O.
package view

import (
	"strconv"
	"strings"

	"pos-storefront/cart"
	"pos-storefront/model"
	"pos-storefront/report"
)

const productsPerRow = 2

type Tab struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

type ShellView struct {
	Title string `json:"title"`
	Role  string `json:"role"`
	Tabs  []Tab  `json:"tabs"`
}

// Shell lists the navigation tabs open to role.
func Shell(title, role string) ShellView {
	tabs := []Tab{
		{ID: "catalog", Label: "Produtos", Icon: "storefront"},
		{ID: "cart", Label: "Caixa", Icon: "shopping_cart"},
	}
	if role == model.RoleAdmin {
		tabs = append(tabs,
			Tab{ID: "products", Label: "Estoque", Icon: "inventory"},
			Tab{ID: "dashboard", Label: "Dashboard", Icon: "bar_chart"},
		)
	}
	tabs = append(tabs, Tab{ID: "settings", Label: "Configurações", Icon: "settings"})
	return ShellView{Title: title, Role: role, Tabs: tabs}
}

type ProductCard struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Price          string `json:"price"`
	PromotionPrice string `json:"promotion_price,omitempty"`
	Strikethrough  bool   `json:"strikethrough"`
	Quantity       int    `json:"quantity"`
	Accent         string `json:"accent"`
}

type CatalogView struct {
	Query string          `json:"query"`
	Rows  [][]ProductCard `json:"rows"`
	Total string          `json:"total"`
}

var categoryAccents = map[string]string{
	"vestuário": "blue",
}

// Accent picks the card colour for a category.
func Accent(category string) string {
	if c, ok := categoryAccents[strings.ToLower(strings.TrimSpace(category))]; ok {
		return c
	}
	return "grey"
}

func Card(p model.Product, quantity int) ProductCard {
	c := ProductCard{
		ID:       p.ID,
		Title:    p.Name,
		Price:    cart.FormatCurrency(p.Price),
		Quantity: quantity,
		Accent:   Accent(p.Category),
	}
	if p.PromotionPrice > 0 {
		c.PromotionPrice = cart.FormatCurrency(p.PromotionPrice)
		c.Strikethrough = true
	}
	return c
}

// Catalog lays out shown two per row. The total covers every line in all,
// so a search does not hide what is already in the cart.
func Catalog(query string, shown []model.Product, all []cart.Line) CatalogView {
	quantities := make(map[int64]int, len(all))
	for _, l := range all {
		quantities[l.Product.ID] = l.Quantity
	}

	rows := [][]ProductCard{}
	for i := 0; i < len(shown); i += productsPerRow {
		end := i + productsPerRow
		if end > len(shown) {
			end = len(shown)
		}
		row := make([]ProductCard, 0, productsPerRow)
		for _, p := range shown[i:end] {
			row = append(row, Card(p, quantities[p.ID]))
		}
		rows = append(rows, row)
	}
	return CatalogView{Query: query, Rows: rows, Total: cart.FormatCurrency(cart.Total(all))}
}

type CartLineView struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

type CartView struct {
	Lines        []CartLineView `json:"lines"`
	Total        string         `json:"total"`
	PaymentTypes []string       `json:"payment_types"`
}

// Cart shows the lines with a positive quantity and the order total.
func Cart(lines []cart.Line) CartView {
	v := CartView{Lines: []CartLineView{}, PaymentTypes: model.PaymentTypes}
	for _, l := range cart.Ordered(lines) {
		price := l.Product.EffectivePrice()
		v.Lines = append(v.Lines, CartLineView{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Quantity:  l.Quantity,
			UnitPrice: cart.FormatCurrency(price),
			Subtotal:  cart.FormatCurrency(price * float64(l.Quantity)),
		})
	}
	v.Total = cart.FormatCurrency(cart.Total(lines))
	return v
}

type AdminProductView struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Quantity       string `json:"quantity"`
	Price          string `json:"price"`
	PromotionPrice string `json:"promotion_price"`
	Category       string `json:"category"`
}

// AdminProducts renders editable rows with decimal-comma numbers.
func AdminProducts(products []model.Product) []AdminProductView {
	out := make([]AdminProductView, 0, len(products))
	for _, p := range products {
		out = append(out, AdminProductView{
			ID:             p.ID,
			Name:           p.Name,
			Quantity:       strconv.Itoa(p.Quantity),
			Price:          decimalComma(p.Price),
			PromotionPrice: decimalComma(p.PromotionPrice),
			Category:       p.Category,
		})
	}
	return out
}

func decimalComma(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', -1, 64), ".", ",", 1)
}

type BarGroup struct {
	X   int `json:"x"`
	ToY int `json:"to_y"`
}

type AxisLabel struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

type BarChart struct {
	Groups []BarGroup  `json:"groups"`
	Labels []AxisLabel `json:"labels"`
	MaxY   int         `json:"max_y"`
}

type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

type DashboardView struct {
	Sales       int      `json:"sales"`
	Products    int      `json:"products"`
	TotalSold   string   `json:"total_sold"`
	TopProducts BarChart `json:"top_products"`
	AgeTable    Table    `json:"age_table"`
	GeneratedAt string   `json:"generated_at"`
}

func Chart(top []report.ProductTotal) BarChart {
	c := BarChart{Groups: []BarGroup{}, Labels: []AxisLabel{}}
	maxQty := 0
	for i, p := range top {
		c.Groups = append(c.Groups, BarGroup{X: i, ToY: p.Quantity})
		c.Labels = append(c.Labels, AxisLabel{Value: i, Label: p.Name})
		if p.Quantity > maxQty {
			maxQty = p.Quantity
		}
	}
	c.MaxY = maxQty + 2
	return c
}

func AgeTable(rows []report.AgeBest) Table {
	t := Table{Columns: []string{"Idade", "Produto", "Qtde. Vendida"}, Rows: [][]string{}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.AgeGroup, r.Name, strconv.Itoa(r.Quantity)})
	}
	return t
}

func Dashboard(s report.Summary) DashboardView {
	return DashboardView{
		Sales:       s.OrdersToday,
		Products:    s.UnitsToday,
		TotalSold:   cart.FormatCurrency(s.RevenueToday),
		TopProducts: Chart(s.TopProducts),
		AgeTable:    AgeTable(s.AgeBest),
		GeneratedAt: s.GeneratedAt.Format("02/01/2006 15:04"),
	}
}

type SettingsView struct {
	Title string `json:"title"`
	Store string `json:"store"`
	Bio   string `json:"bio"`
	Theme string `json:"theme"`
}

func Settings(store, bio, theme string) SettingsView {
	return SettingsView{Title: "Configurações", Store: store, Bio: bio, Theme: theme}
}

type BannerView struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// Banner is the dismissible error shown for any failed action.
func Banner(err error) BannerView {
	return BannerView{
		Error: "Error occurred: " + err.Error(),
		Kind:  string(model.KindOf(err)),
	}
}

// Package report aggregates order history into the sales dashboard.
package report

import (
	"fmt"
	"sort"
	"time"

	"pos-storefront/model"

	"github.com/shopspring/decimal"
)

// Dataset is the raw history the dashboard is computed from. Joins are done
// here rather than in the backend.
type Dataset struct {
	Orders   []model.OrderRecord
	Details  []model.DetailRecord
	Users    []model.CustomerAge
	Products []model.Product
}

type ProductTotal struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type AgeBest struct {
	AgeGroup string `json:"age_group"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type Summary struct {
	RevenueToday float64        `json:"revenue_today"`
	OrdersToday  int            `json:"orders_today"`
	UnitsToday   int            `json:"units_today"`
	TopProducts  []ProductTotal `json:"top_products"`
	AgeBest      []AgeBest      `json:"age_best"`
	GeneratedAt  time.Time      `json:"generated_at"`
}

// Age bands are left-inclusive: [10,15), [15,20) ... [35,40).
const (
	ageFloor = 10
	ageCeil  = 40
	ageStep  = 5
)

// AgeBands lists the band labels in ascending order.
func AgeBands() []string {
	var out []string
	for lo := ageFloor; lo < ageCeil; lo += ageStep {
		out = append(out, fmt.Sprintf("%d-%d", lo, lo+ageStep))
	}
	return out
}

// AgeBand returns the band label for age, or false when age is outside every
// band.
func AgeBand(age int) (string, bool) {
	if age < ageFloor || age >= ageCeil {
		return "", false
	}
	lo := ageFloor + (age-ageFloor)/ageStep*ageStep
	return fmt.Sprintf("%d-%d", lo, lo+ageStep), true
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	a, b = a.In(loc), b.In(loc)
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// RevenueOn sums order totals created on day (in loc), rounded to cents.
func RevenueOn(orders []model.OrderRecord, day time.Time, loc *time.Location) float64 {
	var sum float64
	for _, o := range orders {
		if sameDay(o.CreatedAt, day, loc) {
			sum += o.Total
		}
	}
	return decimal.NewFromFloat(sum).Round(2).InexactFloat64()
}

// OrdersOn counts orders created on day.
func OrdersOn(orders []model.OrderRecord, day time.Time, loc *time.Location) int {
	n := 0
	for _, o := range orders {
		if sameDay(o.CreatedAt, day, loc) {
			n++
		}
	}
	return n
}

// UnitsOn sums detail quantities created on day.
func UnitsOn(details []model.DetailRecord, day time.Time, loc *time.Location) int {
	n := 0
	for _, d := range details {
		if sameDay(d.CreatedAt, day, loc) {
			n += d.Quantity
		}
	}
	return n
}

// TopProducts sums detail quantities per product name and returns the n
// largest. Details whose product no longer exists are dropped. Ties keep
// names in ascending order.
func TopProducts(details []model.DetailRecord, products []model.Product, n int) []ProductTotal {
	names := productNames(products)
	sums := make(map[string]int)
	for _, d := range details {
		name, ok := names[d.ProductID]
		if !ok {
			continue
		}
		sums[name] += d.Quantity
	}

	out := rank(sums)
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// rank orders totals by quantity descending, names ascending within ties.
func rank(sums map[string]int) []ProductTotal {
	out := make([]ProductTotal, 0, len(sums))
	for name, q := range sums {
		out = append(out, ProductTotal{Name: name, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity > out[j].Quantity })
	return out
}

func productNames(products []model.Product) map[int64]string {
	names := make(map[int64]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	return names
}

// OrderIndex attributes detail rows to orders. A checkout inserts its detail
// lines as one batch and stores the id of the first row on the order, so an
// order owns the detail ids from its DetailID up to the next order's
// DetailID. Rows written after the order was created belong to a checkout
// that failed before its order insert and have no owner.
type OrderIndex struct {
	starts []int64
	orders []model.OrderRecord
}

func NewOrderIndex(orders []model.OrderRecord) *OrderIndex {
	idx := &OrderIndex{}
	for _, o := range orders {
		if o.DetailID == nil {
			continue
		}
		idx.orders = append(idx.orders, o)
	}
	sort.SliceStable(idx.orders, func(i, j int) bool {
		return *idx.orders[i].DetailID < *idx.orders[j].DetailID
	})
	for _, o := range idx.orders {
		idx.starts = append(idx.starts, *o.DetailID)
	}
	return idx
}

// OrderFor returns the order that owns d.
func (idx *OrderIndex) OrderFor(d model.DetailRecord) (model.OrderRecord, bool) {
	// first start greater than the id, the owner is just before it
	i := sort.Search(len(idx.starts), func(i int) bool { return idx.starts[i] > d.ID })
	if i == 0 {
		return model.OrderRecord{}, false
	}
	owner := idx.orders[i-1]
	if d.CreatedAt.After(owner.CreatedAt) {
		return model.OrderRecord{}, false
	}
	return owner, true
}

// BestSellersByAge picks the best-selling product for every customer age,
// then reports each age band with the winner of its lowest age. Ties within
// an age go to the name that sorts first.
func BestSellersByAge(ds Dataset) []AgeBest {
	names := productNames(ds.Products)
	ages := make(map[int64]int, len(ds.Users))
	for _, u := range ds.Users {
		if u.Age != nil {
			ages[u.ID] = *u.Age
		}
	}
	idx := NewOrderIndex(ds.Orders)

	perAge := make(map[int]map[string]int)
	for _, d := range ds.Details {
		name, ok := names[d.ProductID]
		if !ok {
			continue
		}
		order, ok := idx.OrderFor(d)
		if !ok {
			continue
		}
		age, ok := ages[order.UserID]
		if !ok {
			continue
		}
		if perAge[age] == nil {
			perAge[age] = make(map[string]int)
		}
		perAge[age][name] += d.Quantity
	}

	sortedAges := make([]int, 0, len(perAge))
	for age := range perAge {
		sortedAges = append(sortedAges, age)
	}
	sort.Ints(sortedAges)

	perBand := make(map[string]AgeBest)
	for _, age := range sortedAges {
		band, ok := AgeBand(age)
		if !ok {
			continue
		}
		if _, taken := perBand[band]; taken {
			continue
		}
		top := rank(perAge[age])[0]
		perBand[band] = AgeBest{AgeGroup: band, Name: top.Name, Quantity: top.Quantity}
	}

	var out []AgeBest
	for _, band := range AgeBands() {
		if best, ok := perBand[band]; ok {
			out = append(out, best)
		}
	}
	return out
}

// Summarize computes the dashboard for the day containing now.
func Summarize(ds Dataset, now time.Time, loc *time.Location, topN int) Summary {
	return Summary{
		RevenueToday: RevenueOn(ds.Orders, now, loc),
		OrdersToday:  OrdersOn(ds.Orders, now, loc),
		UnitsToday:   UnitsOn(ds.Details, now, loc),
		TopProducts:  TopProducts(ds.Details, ds.Products, topN),
		AgeBest:      BestSellersByAge(ds),
		GeneratedAt:  now,
	}
}

package report

import (
	"testing"
	"time"

	"pos-storefront/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func i64(v int64) *int64 { return &v }
func age(v int) *int     { return &v }

var saoPaulo = time.FixedZone("BRT", -3*60*60)

// now is 2026-10-15 10:00 in Sao Paulo.
var now = time.Date(2026, 10, 15, 13, 0, 0, 0, time.UTC)

func testDataset() Dataset {
	today := now.Add(-2 * time.Hour)
	yesterday := now.Add(-26 * time.Hour)
	// 01:30 UTC on the 16th is still the 15th in Sao Paulo
	lateToday := time.Date(2026, 10, 16, 1, 30, 0, 0, time.UTC)

	return Dataset{
		Products: []model.Product{
			{ID: 1, Name: "Camiseta"},
			{ID: 2, Name: "Boné"},
			{ID: 3, Name: "Caneca"},
		},
		Users: []model.CustomerAge{
			{ID: 10, Age: age(15)},
			{ID: 11, Age: age(14)},
			{ID: 12, Age: age(42)},
			{ID: 13, Age: nil},
		},
		Orders: []model.OrderRecord{
			{ID: 100, UserID: 10, DetailID: i64(1), Total: 100.10, CreatedAt: today},
			{ID: 101, UserID: 11, DetailID: i64(3), Total: 20.20, CreatedAt: lateToday},
			{ID: 102, UserID: 12, DetailID: i64(4), Total: 55, CreatedAt: yesterday},
			{ID: 103, UserID: 13, DetailID: nil, Total: 0, CreatedAt: today},
		},
		Details: []model.DetailRecord{
			{ID: 1, ProductID: 1, Quantity: 2, CreatedAt: today},
			{ID: 2, ProductID: 2, Quantity: 3, CreatedAt: today},
			{ID: 3, ProductID: 3, Quantity: 1, CreatedAt: lateToday},
			{ID: 4, ProductID: 1, Quantity: 5, CreatedAt: yesterday},
			{ID: 5, ProductID: 99, Quantity: 7, CreatedAt: yesterday},
		},
	}
}

func TestAgeBand(t *testing.T) {
	tests := []struct {
		age  int
		band string
		ok   bool
	}{
		{9, "", false},
		{10, "10-15", true},
		{14, "10-15", true},
		{15, "15-20", true},
		{19, "15-20", true},
		{35, "35-40", true},
		{39, "35-40", true},
		{40, "", false},
		{70, "", false},
	}

	for _, tt := range tests {
		band, ok := AgeBand(tt.age)
		assert.Equal(t, tt.band, band, "age %d", tt.age)
		assert.Equal(t, tt.ok, ok, "age %d", tt.age)
	}

	assert.Equal(t, []string{"10-15", "15-20", "20-25", "25-30", "30-35", "35-40"}, AgeBands())
}

func TestTodayFigures(t *testing.T) {
	ds := testDataset()

	assert.Equal(t, 120.30, RevenueOn(ds.Orders, now, saoPaulo))
	assert.Equal(t, 3, OrdersOn(ds.Orders, now, saoPaulo))
	assert.Equal(t, 6, UnitsOn(ds.Details, now, saoPaulo))

	// in UTC the late order belongs to tomorrow
	assert.Equal(t, 100.10, RevenueOn(ds.Orders, now, time.UTC))
	assert.Equal(t, 2, OrdersOn(ds.Orders, now, time.UTC))
}

func TestTopProducts(t *testing.T) {
	ds := testDataset()

	top := TopProducts(ds.Details, ds.Products, 8)
	assert.Equal(t, []ProductTotal{
		{Name: "Camiseta", Quantity: 7},
		{Name: "Boné", Quantity: 3},
		{Name: "Caneca", Quantity: 1},
	}, top)

	assert.Len(t, TopProducts(ds.Details, ds.Products, 2), 2)
	assert.Empty(t, TopProducts(nil, ds.Products, 8))
}

func TestTopProducts_TieKeepsNameOrder(t *testing.T) {
	products := []model.Product{{ID: 1, Name: "Zebra"}, {ID: 2, Name: "Abacaxi"}}
	details := []model.DetailRecord{
		{ID: 1, ProductID: 1, Quantity: 4},
		{ID: 2, ProductID: 2, Quantity: 4},
	}

	top := TopProducts(details, products, 8)
	require.Len(t, top, 2)
	assert.Equal(t, "Abacaxi", top[0].Name)
}

func TestOrderIndex(t *testing.T) {
	idx := NewOrderIndex([]model.OrderRecord{
		{ID: 2, DetailID: i64(10)},
		{ID: 1, DetailID: i64(4)},
		{ID: 3, DetailID: nil},
	})

	_, ok := idx.OrderFor(model.DetailRecord{ID: 3})
	assert.False(t, ok)

	for detail, order := range map[int64]int64{4: 1, 9: 1, 10: 2, 50: 2} {
		o, ok := idx.OrderFor(model.DetailRecord{ID: detail})
		require.True(t, ok, "detail %d", detail)
		assert.Equal(t, order, o.ID, "detail %d", detail)
	}
}

func TestBestSellersByAge(t *testing.T) {
	ds := testDataset()

	best := BestSellersByAge(ds)

	// age 15 lands in 15-20 and buys Camiseta x2 and Boné x3 in one order;
	// age 14 lands in 10-15; age 42 is outside every band.
	assert.Equal(t, []AgeBest{
		{AgeGroup: "10-15", Name: "Caneca", Quantity: 1},
		{AgeGroup: "15-20", Name: "Boné", Quantity: 3},
	}, best)
}

func TestOrderIndex_SkipsRowsWrittenAfterOrder(t *testing.T) {
	placed := now.Add(-time.Hour)
	idx := NewOrderIndex([]model.OrderRecord{{ID: 1, DetailID: i64(1), CreatedAt: placed}})

	_, ok := idx.OrderFor(model.DetailRecord{ID: 1, CreatedAt: placed.Add(-time.Second)})
	assert.True(t, ok)

	_, ok = idx.OrderFor(model.DetailRecord{ID: 2, CreatedAt: placed.Add(time.Minute)})
	assert.False(t, ok)
}

func TestBestSellersByAge_LowestAgeDecidesBand(t *testing.T) {
	ds := Dataset{
		Products: []model.Product{{ID: 1, Name: "Abacaxi"}, {ID: 2, Name: "Banana"}},
		Users:    []model.CustomerAge{{ID: 1, Age: age(16)}, {ID: 2, Age: age(15)}},
		Orders: []model.OrderRecord{
			{ID: 1, UserID: 1, DetailID: i64(1)},
			{ID: 2, UserID: 2, DetailID: i64(2)},
		},
		Details: []model.DetailRecord{
			{ID: 1, ProductID: 2, Quantity: 5},
			{ID: 2, ProductID: 1, Quantity: 1},
		},
	}

	assert.Equal(t, []AgeBest{{AgeGroup: "15-20", Name: "Abacaxi", Quantity: 1}}, BestSellersByAge(ds))
}

func TestBestSellersByAge_TieWithinAgeGoesToName(t *testing.T) {
	ds := Dataset{
		Products: []model.Product{{ID: 1, Name: "Caneca"}, {ID: 2, Name: "Boné"}},
		Users:    []model.CustomerAge{{ID: 1, Age: age(22)}},
		Orders:   []model.OrderRecord{{ID: 1, UserID: 1, DetailID: i64(1)}},
		Details: []model.DetailRecord{
			{ID: 1, ProductID: 1, Quantity: 2},
			{ID: 2, ProductID: 2, Quantity: 2},
		},
	}

	assert.Equal(t, []AgeBest{{AgeGroup: "20-25", Name: "Boné", Quantity: 2}}, BestSellersByAge(ds))
}

func TestBestSellersByAge_OrphanBatchNotCredited(t *testing.T) {
	placed := now.Add(-2 * time.Hour)
	failed := now.Add(-time.Hour)

	ds := Dataset{
		Products: []model.Product{{ID: 1, Name: "Abacaxi"}, {ID: 2, Name: "Banana"}},
		Users:    []model.CustomerAge{{ID: 1, Age: age(15)}, {ID: 2, Age: age(30)}},
		// customer 2 got as far as the details insert; no order row exists
		Orders: []model.OrderRecord{{ID: 1, UserID: 1, DetailID: i64(1), CreatedAt: placed}},
		Details: []model.DetailRecord{
			{ID: 1, ProductID: 1, Quantity: 1, CreatedAt: placed.Add(-time.Second)},
			{ID: 2, ProductID: 2, Quantity: 5, CreatedAt: failed},
		},
	}

	assert.Equal(t, []AgeBest{{AgeGroup: "15-20", Name: "Abacaxi", Quantity: 1}}, BestSellersByAge(ds))
}

func TestSummarize(t *testing.T) {
	s := Summarize(testDataset(), now, saoPaulo, 8)

	assert.Equal(t, 120.30, s.RevenueToday)
	assert.Equal(t, 3, s.OrdersToday)
	assert.Equal(t, 6, s.UnitsToday)
	assert.Len(t, s.TopProducts, 3)
	assert.Len(t, s.AgeBest, 2)
	assert.Equal(t, now, s.GeneratedAt)
}

// Package synth generates plausible replacement data for the dictionary
// and source-of-truth sheets: week labels, brand and category dictionaries,
// and full 33-column source rows drawn from finite reference pools.
//
// All randomness flows through an explicitly passed *rand.Rand so output is
// reproducible for a fixed seed, and callers that fan work out can hand
// each worker its own seeded generator.
package synth

import (
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/TsubasaBE/go-sheetpatch/weekcal"
)

// DefaultWeekStart is the first week-ending date used when the caller does
// not anchor the series to the template's own weeks.
var DefaultWeekStart = time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)

// ── reference pools ──────────────────────────────────────────────────────────

var companies = []string{
	"Aurora Foods", "Pacific Harvest", "Golden Fields Co", "Summit Brands",
	"TerraNova Foods", "Blue Mesa Group", "Northern Lights Foods",
	"Silver Crest Foods", "Frontier Organics", "Oak & Pine Foods",
}

var franchises = []string{
	"Everyday Favorites", "Chef Select", "Market Classics", "Fresh Corner",
	"Heritage Kitchen",
}

var attributes = []string{
	"Category Int Fresh", "Premium Line", "Family Pack", "Organic Range",
	"Value Line",
}

var geographies = []string{
	"Total US - Multi Outlet+", "Total US - Grocery", "Northeast",
	"Southeast", "Midwest", "West",
}

var packageTypes = []string{"Can", "Pouch", "Bottle", "Box", "Jar", "Tray"}

var sizes = []string{"8 oz", "12 oz", "16 oz", "24 oz", "32 oz", "48 oz", "64 oz"}

var brandNames = []string{
	"Evergreen", "Solstice", "Cascade", "Lumen", "Harbor", "Mesa",
	"Redwood", "Juniper", "Arroyo", "Summit",
}

var brandSuffixes = []string{"Foods", "Kitchen", "Harvest", "Market"}

type categoryGroup struct {
	name string
	subs []string
}

var categories = []categoryGroup{
	{"Snacks", []string{"Chips", "Crackers", "Nuts"}},
	{"Beverages", []string{"Sparkling Water", "Juice", "Energy Drinks"}},
	{"Dairy", []string{"Yogurt", "Cheese", "Butter"}},
	{"Bakery", []string{"Bread", "Cookies", "Cakes"}},
	{"Frozen", []string{"Frozen Meals", "Ice Cream", "Frozen Vegetables"}},
	{"Pantry", []string{"Pasta", "Sauces", "Rice"}},
	{"Breakfast", []string{"Cereal", "Oatmeal", "Granola"}},
	{"Protein", []string{"Chicken", "Beef", "Plant-Based"}},
	{"Produce", []string{"Salad Kits", "Fresh Berries", "Cut Fruit"}},
}

// ── dictionary rows ──────────────────────────────────────────────────────────

// WeekRow is one entry of the Week Dictionary sheet.
type WeekRow struct {
	Time string // e.g. "Week Ending 01-05-25"
	Week int    // 1-based position in the series
}

// MakeWeekRows builds a weekly series of count week-ending labels starting
// at start and stepping seven days.
func MakeWeekRows(count int, start time.Time) []WeekRow {
	rows := make([]WeekRow, 0, count)
	for i := 0; i < count; i++ {
		rows = append(rows, WeekRow{
			Time: weekcal.FormatWeekEnding(start.AddDate(0, 0, 7*i)),
			Week: i + 1,
		})
	}
	return rows
}

// BrandRow is one entry of the Brand Dictionary sheet: the uppercased brand
// key plus its display name.
type BrandRow struct {
	Brand string
	Name  string
}

// MakeBrandRows draws count brand entries from the name/suffix pools.
func MakeBrandRows(rng *rand.Rand, count int) []BrandRow {
	rows := make([]BrandRow, 0, count)
	for i := 0; i < count; i++ {
		name := pick(rng, brandNames) + " " + pick(rng, brandSuffixes)
		rows = append(rows, BrandRow{Brand: upper(name), Name: name})
	}
	return rows
}

// CategoryRow is one entry of the Category Dictionary sheet. Product is a
// composite "BRAND Subcategory Size - Barcode" string.
type CategoryRow struct {
	Product     string
	Category    string
	Subcategory string
}

// MakeCategoryRows draws count category entries, attaching each product to
// a brand from the already-generated brand dictionary.
func MakeCategoryRows(rng *rand.Rand, count int, brands []BrandRow) []CategoryRow {
	const barcodeBase = 7600000000000
	rows := make([]CategoryRow, 0, count)
	for i := 0; i < count; i++ {
		group := categories[rng.Intn(len(categories))]
		sub := pick(rng, group.subs)
		brand := ""
		if len(brands) > 0 {
			brand = brands[rng.Intn(len(brands))].Brand
		}
		barcode := strconv.FormatInt(barcodeBase+int64(i), 10)
		rows = append(rows, CategoryRow{
			Product:     brand + " " + sub + " " + pick(rng, sizes) + " - " + barcode,
			Category:    group.name,
			Subcategory: sub,
		})
	}
	return rows
}

// ── sheet adapters ───────────────────────────────────────────────────────────

// Per-column numeric flags for the dictionary sheets and the 33-column
// source-of-truth layout. These are fixed schemas, not re-derived per row.
var (
	WeekNumericFlags     = []bool{false, true}
	BrandNumericFlags    = []bool{false, false}
	CategoryNumericFlags = []bool{false, false, false}

	SourceNumericFlags = []bool{
		false, false, false, false, false, // company, franchise, attributes, outlet, product
		false, false, true, true, false, // geography, time, week, month number, month name
		false, true, false, true, false, // month code, year, brand value, total ounces, package type
		false, false, true, true, true, // category, subcategory, dollar sales ±, unit sales
		true, true, true, true, true, // unit sales prior, ACV ±, items per store, total stores
		true, true, true, true, true, // stores selling, price ±, weekly units/store, weekly dollars/store
		false, false, false, // brand SM, category SM, subcategory SM
	}
)

// WeekSheetRows converts week entries to sheet rows ([Time, Week]).
func WeekSheetRows(weeks []WeekRow) [][]string {
	rows := make([][]string, len(weeks))
	for i, w := range weeks {
		rows[i] = []string{w.Time, strconv.Itoa(w.Week)}
	}
	return rows
}

// BrandSheetRows converts brand entries to sheet rows ([Brand, Name]).
func BrandSheetRows(brands []BrandRow) [][]string {
	rows := make([][]string, len(brands))
	for i, b := range brands {
		rows[i] = []string{b.Brand, b.Name}
	}
	return rows
}

// CategorySheetRows converts category entries to sheet rows
// ([Product, Category, Subcategory]).
func CategorySheetRows(cats []CategoryRow) [][]string {
	rows := make([][]string, len(cats))
	for i, c := range cats {
		rows[i] = []string{c.Product, c.Category, c.Subcategory}
	}
	return rows
}

// ── source-of-truth generator ────────────────────────────────────────────────

// SourceRow produces one 33-column source-of-truth data row, drawing its
// dictionary references from the given pools. Numeric values are returned
// as their literal textual representation, ready for the row encoder.
func SourceRow(rng *rand.Rand, brands []BrandRow, cats []CategoryRow, weeks []WeekRow) []string {
	brand := brands[rng.Intn(len(brands))]
	cat := cats[rng.Intn(len(cats))]
	week := weeks[rng.Intn(len(weeks))]

	monthNum := 1 + rng.Intn(12)
	year := []int{2023, 2024, 2025}[rng.Intn(3)]

	priceUnit := roundTo(0.5+rng.Float64()*24.5, 3)
	units := roundTo(5+rng.Float64()*795, 2)
	dollars := roundTo(units*priceUnit, 2)
	priceUnitPrev := roundTo(math.Max(0.1, priceUnit*(0.85+rng.Float64()*0.3)), 3)
	unitsPrev := roundTo(5+rng.Float64()*795, 2)
	dollarsPrev := roundTo(unitsPrev*priceUnitPrev, 2)

	storesTotal := 25000 + rng.Intn(125001)
	sellingLow := max(500, storesTotal/8)
	storesSelling := sellingLow + rng.Intn(storesTotal-sellingLow+1)
	itemsPerStore := roundTo(0.5+rng.Float64()*7.5, 3)
	avgUnitsPerStore := roundTo(units/float64(storesSelling)*(8+rng.Float64()*10), 4)
	avgDollarsPerStore := roundTo(dollars/float64(storesSelling)*(8+rng.Float64()*10), 4)

	return []string{
		pick(rng, companies),
		pick(rng, franchises),
		pick(rng, attributes),
		"MULO PLUS",
		cat.Product,
		pick(rng, geographies),
		week.Time,
		strconv.Itoa(week.Week),
		strconv.Itoa(monthNum),
		time.Month(monthNum).String(),
		weekcal.MonthCode(monthNum),
		strconv.Itoa(year),
		brand.Brand,
		formatFloat(roundTo(4+rng.Float64()*92, 1)),
		pick(rng, packageTypes),
		cat.Category,
		cat.Subcategory,
		formatFloat(dollars),
		formatFloat(dollarsPrev),
		formatFloat(units),
		formatFloat(unitsPrev),
		formatFloat(ratio(rng)),
		formatFloat(ratio(rng)),
		formatFloat(itemsPerStore),
		strconv.Itoa(storesTotal),
		formatFloat(roundTo(float64(storesSelling)*(0.5+rng.Float64()*0.7), 3)),
		formatFloat(priceUnit),
		formatFloat(priceUnitPrev),
		formatFloat(avgUnitsPerStore),
		formatFloat(avgDollarsPerStore),
		brand.Brand,
		cat.Category,
		cat.Subcategory,
	}
}

// ratio returns an ACV-style share in [0.05, 0.95], rounded to 4 places.
func ratio(rng *rand.Rand) float64 {
	return roundTo(0.05+rng.Float64()*0.9, 4)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func pick(rng *rand.Rand, pool []string) string {
	return pool[rng.Intn(len(pool))]
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

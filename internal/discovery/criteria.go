// Package discovery реализует конвейер поиска услуг: фильтрацию, сортировку и постраничный вывод.
package discovery

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Значения критериев, отключающие соответствующий фильтр.
const (
	AllCategories = "All Categories"
	AllPrices     = "All Prices"
	AllRatings    = "All Ratings"
)

// Метки диапазонов цены.
const (
	PriceUpTo50   = "$0 - $50"
	Price50To100  = "$50 - $100"
	Price100To200 = "$100 - $200"
	PriceAbove200 = "$200+"
)

// Метки порядка сортировки.
const (
	SortRecommended = "Recommended"
	SortPriceAsc    = "Price: Low to High"
	SortPriceDesc   = "Price: High to Low"
	SortTopRated    = "Top Rated"
	SortMostPopular = "Most Popular"
)

var (
	// ErrUnknownPrice возвращается для неизвестной метки диапазона цены.
	ErrUnknownPrice = errors.New("unknown price range")
	// ErrUnknownRating возвращается для неизвестной метки минимального рейтинга.
	ErrUnknownRating = errors.New("unknown rating threshold")
	// ErrUnknownSort возвращается для неизвестного порядка сортировки.
	ErrUnknownSort = errors.New("unknown sort order")
)

// PriceRanges перечисляет метки диапазонов цены в порядке отображения.
var PriceRanges = []string{AllPrices, PriceUpTo50, Price50To100, Price100To200, PriceAbove200}

// RatingThresholds перечисляет метки минимального рейтинга в порядке отображения.
var RatingThresholds = []string{AllRatings, "4.5 & up", "4.0 & up", "3.5 & up", "3.0 & up"}

// SortOrders перечисляет метки сортировки в порядке отображения.
var SortOrders = []string{SortRecommended, SortPriceAsc, SortPriceDesc, SortTopRated, SortMostPopular}

var criteriaNamespace = uuid.MustParse("4f7d2a0e-8c1b-5e3a-9d6f-2b8c7e1a4d90")

var priceBrackets = map[string]func(float64) bool{
	PriceUpTo50:   func(p float64) bool { return p <= 50 },
	Price50To100:  func(p float64) bool { return p > 50 && p <= 100 },
	Price100To200: func(p float64) bool { return p > 100 && p <= 200 },
	PriceAbove200: func(p float64) bool { return p > 200 },
}

// Criteria описывает выбранные пользователем фильтры и сортировку.
type Criteria struct {
	Category string
	Price    string
	Rating   string
	SortBy   string
	Search   string
	Location string
}

// DefaultCriteria возвращает критерии, при которых список не фильтруется и не сортируется.
func DefaultCriteria() Criteria {
	return Criteria{
		Category: AllCategories,
		Price:    AllPrices,
		Rating:   AllRatings,
		SortBy:   SortRecommended,
	}
}

// Normalize подставляет значения по умолчанию вместо пустых полей.
func (c Criteria) Normalize() Criteria {
	if c.Category == "" {
		c.Category = AllCategories
	}
	if c.Price == "" {
		c.Price = AllPrices
	}
	if c.Rating == "" {
		c.Rating = AllRatings
	}
	if c.SortBy == "" {
		c.SortBy = SortRecommended
	}
	return c
}

// Key возвращает устойчивый идентификатор нормализованных критериев.
// Выдача возвращает его в CriteriaKey, клиент передаёт его обратно вместе с номером страницы.
func (c Criteria) Key() string {
	c = c.Normalize()
	name := strings.Join([]string{c.Category, c.Price, c.Rating, c.SortBy, c.Search, c.Location}, "\x00")
	return uuid.NewSHA1(criteriaNamespace, []byte(name)).String()
}

// PageFor возвращает page, если key совпадает с ключом критериев, и 1 в остальных случаях.
// Так любое изменение критериев возвращает выдачу на первую страницу.
func (c Criteria) PageFor(key string, page int) int {
	if key == "" || key != c.Key() {
		return 1
	}
	return page
}

// Validate проверяет, что метки цены, рейтинга и сортировки известны.
func (c Criteria) Validate() error {
	c = c.Normalize()

	if _, ok := priceBrackets[c.Price]; !ok && c.Price != AllPrices {
		return ErrUnknownPrice
	}
	if c.Rating != AllRatings {
		if _, err := ratingThreshold(c.Rating); err != nil {
			return err
		}
	}
	switch c.SortBy {
	case SortRecommended, SortPriceAsc, SortPriceDesc, SortTopRated, SortMostPopular:
	default:
		return ErrUnknownSort
	}
	return nil
}

// ratingThreshold извлекает порог из метки RatingThresholds вида "4.5 & up".
func ratingThreshold(label string) (float64, error) {
	if label == AllRatings || !slices.Contains(RatingThresholds, label) {
		return 0, ErrUnknownRating
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(label, " & up"), 64)
	if err != nil {
		return 0, ErrUnknownRating
	}
	return v, nil
}

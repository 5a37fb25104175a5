package discovery

import (
	"cmp"
	"slices"
	"strings"

	"github.com/mmeshcher/homeservices/internal/model"
)

// PageSize - количество услуг на одной странице выдачи.
const PageSize = 6

// State описывает состояние выдачи.
type State string

const (
	StateReady State = "ready"
	StateEmpty State = "empty"
	StateError State = "error"
)

// Result содержит одну страницу выдачи и данные для навигации по страницам.
type Result struct {
	State       State           `json:"state"`
	Services    []model.Service `json:"services"`
	Total       int             `json:"total"`
	Page        int             `json:"page"`
	TotalPages  int             `json:"totalPages"`
	Pages       []PageItem      `json:"pages"`
	HasPrev     bool            `json:"hasPrev"`
	HasNext     bool            `json:"hasNext"`
	CriteriaKey string          `json:"criteriaKey,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// Failed возвращает выдачу для случая, когда список услуг не удалось загрузить.
// Такая выдача отличается от пустой.
func Failed(err error) Result {
	msg := "failed to load services"
	if err != nil {
		msg = err.Error()
	}
	return Result{State: StateError, Services: []model.Service{}, Page: 1, Error: msg}
}

// Run применяет критерии к полному списку услуг и возвращает запрошенную страницу.
// Номер страницы приводится к диапазону [1, TotalPages].
func Run(services []model.Service, c Criteria, page int) (Result, error) {
	if err := c.Validate(); err != nil {
		return Result{}, err
	}

	filtered := Filter(services, c)
	totalPages := TotalPages(len(filtered))
	page = clampPage(page, totalPages)

	res := Result{
		State:       StateReady,
		Services:    Paginate(filtered, page),
		Total:       len(filtered),
		Page:        page,
		TotalPages:  totalPages,
		Pages:       PageStrip(page, totalPages),
		HasPrev:     page > 1,
		HasNext:     page < totalPages,
		CriteriaKey: c.Key(),
	}
	if len(filtered) == 0 {
		res.State = StateEmpty
	}

	return res, nil
}

// Filter возвращает отфильтрованную и отсортированную копию списка услуг.
// Исходный срез не изменяется.
func Filter(services []model.Service, c Criteria) []model.Service {
	c = c.Normalize()

	out := make([]model.Service, 0, len(services))
	for _, s := range services {
		if matches(s, c) {
			out = append(out, s)
		}
	}

	sortServices(out, c.SortBy)
	return out
}

func matches(s model.Service, c Criteria) bool {
	if c.Category != AllCategories && s.Category != c.Category {
		return false
	}

	if in, ok := priceBrackets[c.Price]; ok && !in(s.Price) {
		return false
	}

	if c.Rating != AllRatings {
		threshold, err := ratingThreshold(c.Rating)
		if err == nil && AverageRating(s.Reviews) < threshold {
			return false
		}
	}

	if c.Search != "" {
		q := strings.ToLower(c.Search)
		if !containsFold(s.Title, q) && !containsFold(s.Description, q) && !containsFold(s.Provider, q) {
			return false
		}
	}

	if c.Location != "" && !containsFold(s.Location, strings.ToLower(c.Location)) {
		return false
	}

	return true
}

func containsFold(field, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(field), lowerQuery)
}

func sortServices(list []model.Service, sortBy string) {
	switch sortBy {
	case SortPriceAsc:
		slices.SortStableFunc(list, func(a, b model.Service) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case SortPriceDesc:
		slices.SortStableFunc(list, func(a, b model.Service) int {
			return cmp.Compare(b.Price, a.Price)
		})
	case SortTopRated:
		slices.SortStableFunc(list, func(a, b model.Service) int {
			return cmp.Compare(AverageRating(b.Reviews), AverageRating(a.Reviews))
		})
	case SortMostPopular:
		slices.SortStableFunc(list, func(a, b model.Service) int {
			return cmp.Compare(len(b.Reviews), len(a.Reviews))
		})
	}
}

// TotalPages возвращает количество страниц для n услуг.
func TotalPages(n int) int {
	return (n + PageSize - 1) / PageSize
}

// Paginate возвращает услуги страницы page (нумерация с 1).
func Paginate(list []model.Service, page int) []model.Service {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * PageSize
	if start >= len(list) {
		return []model.Service{}
	}
	end := min(start+PageSize, len(list))
	return list[start:end]
}

func clampPage(page, totalPages int) int {
	if page < 1 || totalPages == 0 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

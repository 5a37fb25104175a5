package marketplace

import (
	"context"
	"net/http"

	"github.com/mmeshcher/homeservices/internal/model"
)

// Categories возвращает все категории услуг.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	var wire []wireCategory
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &wire); err != nil {
		return nil, err
	}

	out := make([]model.Category, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toModel())
	}
	return out, nil
}

// CreateCategory создаёт категорию и возвращает её идентификатор.
func (c *Client) CreateCategory(ctx context.Context, cat model.Category) (string, error) {
	var res insertResult
	if err := c.do(ctx, http.MethodPost, "/categories", newCategoryBody(cat), &res); err != nil {
		return "", err
	}
	return string(res.InsertedID), nil
}

// UpdateCategory заменяет поля категории.
func (c *Client) UpdateCategory(ctx context.Context, id string, cat model.Category) error {
	return c.do(ctx, http.MethodPut, "/categories/"+seg(id), newCategoryBody(cat), nil)
}

// DeleteCategory удаляет категорию.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/categories/"+seg(id), nil, nil)
}

// Services возвращает полный список услуг.
func (c *Client) Services(ctx context.Context) ([]model.Service, error) {
	return c.services(ctx, "/services")
}

// ServicesByProvider возвращает услуги исполнителя с указанным email.
func (c *Client) ServicesByProvider(ctx context.Context, email string) ([]model.Service, error) {
	return c.services(ctx, "/services/my/"+seg(email))
}

func (c *Client) services(ctx context.Context, path string) ([]model.Service, error) {
	var wire []wireService
	if err := c.do(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}

	out := make([]model.Service, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toModel())
	}
	return out, nil
}

// Service возвращает услугу по идентификатору.
func (c *Client) Service(ctx context.Context, id string) (*model.Service, error) {
	var wire *wireService
	if err := c.do(ctx, http.MethodGet, "/services/"+seg(id), nil, &wire); err != nil {
		return nil, err
	}
	if wire == nil {
		return nil, ErrNotFound
	}

	s := wire.toModel()
	return &s, nil
}

// CreateService публикует услугу и возвращает её идентификатор.
func (c *Client) CreateService(ctx context.Context, s model.Service) (string, error) {
	var res insertResult
	if err := c.do(ctx, http.MethodPost, "/services", newServiceBody(s), &res); err != nil {
		return "", err
	}
	return string(res.InsertedID), nil
}

// UpdateService заменяет поля услуги.
func (c *Client) UpdateService(ctx context.Context, id string, s model.Service) error {
	return c.do(ctx, http.MethodPut, "/services/"+seg(id), newServiceBody(s), nil)
}

// DeleteService удаляет услугу.
func (c *Client) DeleteService(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/services/"+seg(id), nil, nil)
}

// ReplaceReviews записывает полный список отзывов услуги.
func (c *Client) ReplaceReviews(ctx context.Context, serviceID string, reviews []model.Review) error {
	if reviews == nil {
		reviews = []model.Review{}
	}
	body := struct {
		Reviews []model.Review `json:"reviews"`
	}{Reviews: reviews}

	return c.do(ctx, http.MethodPut, "/services/"+seg(serviceID), body, nil)
}

// ReviewsByReviewer возвращает отзывы, оставленные пользователем с указанным email.
func (c *Client) ReviewsByReviewer(ctx context.Context, email string) ([]model.ReviewEntry, error) {
	var wire []wireReviewEntry
	if err := c.do(ctx, http.MethodGet, "/services/reviews/"+seg(email), nil, &wire); err != nil {
		return nil, err
	}

	out := make([]model.ReviewEntry, 0, len(wire))
	for _, w := range wire {
		out = append(out, model.ReviewEntry{
			ServiceID:   string(w.ServiceID),
			ServiceName: w.ServiceName,
			Review:      w.Review.toModel(),
		})
	}
	return out, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mmeshcher/homeservices/internal/discovery"
	"github.com/mmeshcher/homeservices/internal/marketplace"
	"github.com/mmeshcher/homeservices/internal/model"
)

var (
	// ErrInvalidService возвращается для услуги без названия, категории или с некорректной ценой.
	ErrInvalidService = errors.New("title, category and a non-negative price are required")
	// ErrInvalidCategory возвращается для категории без названия.
	ErrInvalidCategory = errors.New("category name is required")
	// ErrCategoryExists возвращается при создании категории с уже занятым названием.
	ErrCategoryExists = errors.New("category already exists")
)

func isNotFound(err error) bool {
	return errors.Is(err, marketplace.ErrNotFound)
}

// Catalog содержит категории и услуги, загруженные для главной страницы каталога.
type Catalog struct {
	Categories    []model.Category `json:"categories"`
	CategoryNames []string         `json:"categoryNames"`
	Services      []model.Service  `json:"services"`
}

// LoadCatalog загружает категории, затем услуги.
func (s *Service) LoadCatalog(ctx context.Context) (*Catalog, error) {
	categories, err := s.api.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	services, err := s.api.Services(ctx)
	if err != nil {
		return nil, fmt.Errorf("load services: %w", err)
	}

	names := make([]string, 0, len(categories)+1)
	names = append(names, discovery.AllCategories)
	for _, c := range categories {
		names = append(names, c.Name)
	}

	return &Catalog{Categories: categories, CategoryNames: names, Services: services}, nil
}

// Categories возвращает все категории.
func (s *Service) Categories(ctx context.Context) ([]model.Category, error) {
	return s.api.Categories(ctx)
}

// Discover загружает услуги и возвращает страницу page для критериев c.
// Ошибка загрузки не возвращается, а отражается в состоянии выдачи.
func (s *Service) Discover(ctx context.Context, c discovery.Criteria, page int) (discovery.Result, error) {
	if err := c.Validate(); err != nil {
		return discovery.Result{}, err
	}

	services, err := s.api.Services(ctx)
	if err != nil {
		s.logger.Error("load services error", zap.Error(err))
		return discovery.Failed(err), nil
	}

	return discovery.Run(services, c, page)
}

// ServiceByID возвращает услугу по идентификатору.
func (s *Service) ServiceByID(ctx context.Context, id string) (*model.Service, error) {
	return s.api.Service(ctx, id)
}

// ServiceInput содержит поля формы услуги. Цена принимается строкой и приводится к числу.
type ServiceInput struct {
	Title       string
	Category    string
	Description string
	Price       string
	Duration    string
	Image       string
	Location    string
	Features    []string
	IsPopular   bool
}

func (in ServiceInput) toModel() (model.Service, error) {
	title := strings.TrimSpace(in.Title)
	category := strings.TrimSpace(in.Category)
	if title == "" || category == "" {
		return model.Service{}, ErrInvalidService
	}

	price := 0.0
	if p := strings.TrimSpace(in.Price); p != "" {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return model.Service{}, ErrInvalidService
		}
		price = v
	}

	features := make([]string, 0, len(in.Features))
	for _, f := range in.Features {
		if f = strings.TrimSpace(f); f != "" {
			features = append(features, f)
		}
	}

	return model.Service{
		Title:       title,
		Category:    category,
		Description: in.Description,
		Price:       price,
		Duration:    in.Duration,
		Image:       in.Image,
		Location:    in.Location,
		Features:    features,
		IsPopular:   in.IsPopular,
		Reviews:     []model.Review{},
	}, nil
}

// MyServices возвращает услуги исполнителя текущей сессии.
func (s *Service) MyServices(ctx context.Context, session model.Session) ([]model.Service, error) {
	return s.api.ServicesByProvider(ctx, session.Email)
}

// CreateService публикует услугу от имени исполнителя текущей сессии.
func (s *Service) CreateService(ctx context.Context, session model.Session, in ServiceInput) (string, error) {
	svc, err := in.toModel()
	if err != nil {
		return "", err
	}
	svc.Email = session.Email
	svc.Provider = session.Name
	svc.ProviderID = session.UserID

	id, err := s.api.CreateService(ctx, svc)
	if err != nil {
		return "", fmt.Errorf("create service: %w", err)
	}
	return id, nil
}

// UpdateService заменяет поля услуги. Исполнитель может менять только свои услуги, администратор - любые.
// Отзывы и владелец услуги сохраняются.
func (s *Service) UpdateService(ctx context.Context, session model.Session, id string, in ServiceInput) error {
	existing, err := s.ownedService(ctx, session, id)
	if err != nil {
		return err
	}

	svc, err := in.toModel()
	if err != nil {
		return err
	}
	svc.Reviews = existing.Reviews
	svc.Email = existing.Email
	svc.Provider = existing.Provider
	svc.ProviderID = existing.ProviderID

	if err := s.api.UpdateService(ctx, id, svc); err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	return nil
}

// DeleteService удаляет услугу с той же проверкой прав, что и UpdateService.
func (s *Service) DeleteService(ctx context.Context, session model.Session, id string) error {
	if _, err := s.ownedService(ctx, session, id); err != nil {
		return err
	}

	if err := s.api.DeleteService(ctx, id); err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	return nil
}

func (s *Service) ownedService(ctx context.Context, session model.Session, id string) (*model.Service, error) {
	existing, err := s.api.Service(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Role != model.RoleAdmin && !strings.EqualFold(existing.Email, session.Email) {
		return nil, ErrForbidden
	}
	return existing, nil
}

// CreateCategory создаёт категорию с уникальным названием.
func (s *Service) CreateCategory(ctx context.Context, c model.Category) (string, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return "", ErrInvalidCategory
	}

	existing, err := s.api.Categories(ctx)
	if err != nil {
		return "", fmt.Errorf("load categories: %w", err)
	}
	for _, e := range existing {
		if e.Name == c.Name {
			return "", ErrCategoryExists
		}
	}

	id, err := s.api.CreateCategory(ctx, c)
	if err != nil {
		return "", fmt.Errorf("create category: %w", err)
	}
	return id, nil
}

// UpdateCategory заменяет поля категории.
func (s *Service) UpdateCategory(ctx context.Context, id string, c model.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return ErrInvalidCategory
	}
	if err := s.api.UpdateCategory(ctx, id, c); err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// DeleteCategory удаляет категорию. Услуги этой категории не затрагиваются.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := s.api.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

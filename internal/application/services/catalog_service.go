package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ntandostore/core/internal/domain/entities"
	"github.com/ntandostore/core/internal/infrastructure/logger"
	"github.com/ntandostore/core/internal/infrastructure/metrics"
	"github.com/ntandostore/core/internal/ports"
)

const recentContactsLimit = 5

// CatalogService handles services, domains, settings and contacts
type CatalogService struct {
	store   ports.DocumentRepository
	now     func() time.Time
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store ports.DocumentRepository, appLogger *logger.Logger, m *metrics.Metrics) *CatalogService {
	return &CatalogService{
		store:   store,
		now:     time.Now,
		logger:  appLogger.WithComponent("catalog"),
		metrics: m,
	}
}

// ListServices returns every service in display order
func (s *CatalogService) ListServices(ctx context.Context) []entities.Service {
	return s.store.Snapshot(ctx).Services
}

// CreateService appends a service with the next free id
func (s *CatalogService) CreateService(ctx context.Context, req ports.ServiceRequest) (*entities.Service, *ports.SaveReport, error) {
	var created entities.Service

	report, err := s.store.Update(ctx, func(doc *entities.Document) error {
		created = entities.Service{
			ID:          doc.NextServiceID(),
			Name:        req.Name,
			Description: req.Description,
			Icon:        req.Icon,
			Features:    cleanFeatures(req.Features),
		}
		doc.Services = append(doc.Services, created)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create service: %w", err)
	}

	s.logger.Infow("Service created", "service_id", created.ID, "name", created.Name)
	return &created, report, nil
}

// UpdateService overwrites the fields of an existing service. The id never changes.
func (s *CatalogService) UpdateService(ctx context.Context, id int, req ports.ServiceRequest) (*entities.Service, *ports.SaveReport, error) {
	var updated entities.Service

	report, err := s.store.Update(ctx, func(doc *entities.Document) error {
		i, err := doc.FindService(id)
		if err != nil {
			return err
		}
		svc := &doc.Services[i]
		svc.Name = req.Name
		svc.Description = req.Description
		svc.Icon = req.Icon
		if req.Features != nil {
			svc.Features = cleanFeatures(req.Features)
		}
		updated = *svc
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update service: %w", err)
	}

	s.logger.Infow("Service updated", "service_id", id)
	return &updated, report, nil
}

// DeleteService removes the service with the given id
func (s *CatalogService) DeleteService(ctx context.Context, id int) (*ports.SaveReport, error) {
	report, err := s.store.Update(ctx, func(doc *entities.Document) error {
		i, err := doc.FindService(id)
		if err != nil {
			return err
		}
		doc.Services = append(doc.Services[:i], doc.Services[i+1:]...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete service: %w", err)
	}

	s.logger.Infow("Service deleted", "service_id", id)
	return report, nil
}

// ListDomains returns every listed domain; positions are their identifiers
func (s *CatalogService) ListDomains(ctx context.Context) []entities.Domain {
	return s.store.Snapshot(ctx).Domains
}

// CreateDomain appends a domain listing
func (s *CatalogService) CreateDomain(ctx context.Context, req ports.DomainRequest) (*entities.Domain, *ports.SaveReport, error) {
	status, err := domainStatus(req.Status, entities.DomainStatusAvailable)
	if err != nil {
		return nil, nil, err
	}

	created := entities.Domain{
		Name:        strings.TrimSpace(req.Name),
		Price:       req.Price,
		Status:      status,
		Description: req.Description,
	}
	report, err := s.store.Update(ctx, func(doc *entities.Document) error {
		doc.Domains = append(doc.Domains, created)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create domain: %w", err)
	}

	s.logger.Infow("Domain created", "domain", created.Name)
	return &created, report, nil
}

// UpdateDomain overwrites the domain at index. An empty status keeps the current one.
func (s *CatalogService) UpdateDomain(ctx context.Context, index int, req ports.DomainRequest) (*entities.Domain, *ports.SaveReport, error) {
	var updated entities.Domain

	report, err := s.store.Update(ctx, func(doc *entities.Document) error {
		if err := doc.CheckDomainIndex(index); err != nil {
			return err
		}
		d := &doc.Domains[index]
		status, err := domainStatus(req.Status, d.Status)
		if err != nil {
			return err
		}
		d.Name = strings.TrimSpace(req.Name)
		d.Price = req.Price
		d.Status = status
		d.Description = req.Description
		updated = *d
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update domain: %w", err)
	}

	s.logger.Infow("Domain updated", "index", index, "domain", updated.Name)
	return &updated, report, nil
}

// DeleteDomain removes the domain at index; later domains shift down by one
func (s *CatalogService) DeleteDomain(ctx context.Context, index int) (*ports.SaveReport, error) {
	report, err := s.store.Update(ctx, func(doc *entities.Document) error {
		if err := doc.CheckDomainIndex(index); err != nil {
			return err
		}
		doc.Domains = append(doc.Domains[:index], doc.Domains[index+1:]...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete domain: %w", err)
	}

	s.logger.Infow("Domain deleted", "index", index)
	return report, nil
}

// GetSettings returns the site settings
func (s *CatalogService) GetSettings(ctx context.Context) entities.Settings {
	return s.store.Snapshot(ctx).Settings
}

// UpdateSettings merges the supplied keys into the settings
func (s *CatalogService) UpdateSettings(ctx context.Context, req ports.UpdateSettingsRequest) (*entities.Settings, *ports.SaveReport, error) {
	var updated entities.Settings

	report, err := s.store.Update(ctx, func(doc *entities.Document) error {
		applySettings(&doc.Settings, req)
		updated = doc.Settings
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update settings: %w", err)
	}

	s.logger.Infow("Settings updated")
	return &updated, report, nil
}

// ListContacts returns every contact submission, oldest first
func (s *CatalogService) ListContacts(ctx context.Context) []entities.Contact {
	return s.store.Snapshot(ctx).Contacts
}

// SubmitContact records a contact form submission
func (s *CatalogService) SubmitContact(ctx context.Context, req ports.ContactRequest) (*entities.Contact, *ports.SaveReport, error) {
	var created entities.Contact

	report, err := s.store.Update(ctx, func(doc *entities.Document) error {
		created = entities.Contact{
			ID:      doc.NextContactID(),
			Name:    req.Name,
			Email:   req.Email,
			Service: req.Service,
			Message: req.Message,
			Date:    s.now().UTC(),
			Status:  entities.ContactStatusNew,
		}
		doc.Contacts = append(doc.Contacts, created)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to save contact: %w", err)
	}

	s.metrics.IncContacts()
	s.logger.Infow("Contact submitted", "contact_id", created.ID)
	return &created, report, nil
}

// Dashboard summarises the store for the admin landing page
func (s *CatalogService) Dashboard(ctx context.Context) *ports.DashboardSummary {
	doc := s.store.Snapshot(ctx)
	return &ports.DashboardSummary{
		TotalServices:  len(doc.Services),
		TotalDomains:   len(doc.Domains),
		TotalContacts:  len(doc.Contacts),
		RecentContacts: doc.RecentContacts(recentContactsLimit),
	}
}

func applySettings(dst *entities.Settings, req ports.UpdateSettingsRequest) {
	set := func(field *string, value *string) {
		if value != nil {
			*field = *value
		}
	}
	set(&dst.SiteTitle, req.SiteTitle)
	set(&dst.HeroTitle, req.HeroTitle)
	set(&dst.HeroSubtitle, req.HeroSubtitle)
	set(&dst.BackgroundImage, req.BackgroundImage)
	set(&dst.BackgroundMusic, req.BackgroundMusic)
	set(&dst.Logo, req.Logo)
	set(&dst.PrimaryColor, req.PrimaryColor)
	set(&dst.SecondaryColor, req.SecondaryColor)
	set(&dst.AccentColor, req.AccentColor)
}

func domainStatus(status, fallback entities.DomainStatus) (entities.DomainStatus, error) {
	switch status {
	case "":
		return fallback, nil
	case entities.DomainStatusAvailable, entities.DomainStatusReserved, entities.DomainStatusSold:
		return status, nil
	default:
		return "", fmt.Errorf("%w: unknown domain status %q", entities.ErrValidation, status)
	}
}

// cleanFeatures drops blank entries, as the admin form sends one feature per line
func cleanFeatures(in []string) []string {
	out := make([]string, 0, len(in))
	for _, f := range in {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

package ports

import (
	"context"
	"io"
	"time"

	"github.com/ntandostore/core/internal/domain/entities"
)

// AuthService interface for admin authentication
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// CatalogService interface for storefront content operations
type CatalogService interface {
	ListServices(ctx context.Context) []entities.Service
	CreateService(ctx context.Context, req ServiceRequest) (*entities.Service, *SaveReport, error)
	UpdateService(ctx context.Context, id int, req ServiceRequest) (*entities.Service, *SaveReport, error)
	DeleteService(ctx context.Context, id int) (*SaveReport, error)

	ListDomains(ctx context.Context) []entities.Domain
	CreateDomain(ctx context.Context, req DomainRequest) (*entities.Domain, *SaveReport, error)
	UpdateDomain(ctx context.Context, index int, req DomainRequest) (*entities.Domain, *SaveReport, error)
	DeleteDomain(ctx context.Context, index int) (*SaveReport, error)

	GetSettings(ctx context.Context) entities.Settings
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (*entities.Settings, *SaveReport, error)

	ListContacts(ctx context.Context) []entities.Contact
	SubmitContact(ctx context.Context, req ContactRequest) (*entities.Contact, *SaveReport, error)

	Dashboard(ctx context.Context) *DashboardSummary
}

// BackupService interface for snapshot management
type BackupService interface {
	Create(ctx context.Context) (*entities.BackupInfo, error)
	List(ctx context.Context) ([]entities.BackupInfo, error)
	Download(ctx context.Context, name string) (string, error)
	Restore(ctx context.Context, name string) (*SaveReport, error)
	Prune(ctx context.Context) ([]string, error)
}

// TransferService interface for full export and import
type TransferService interface {
	Export(ctx context.Context) (*ExportResult, error)
	Import(ctx context.Context, src io.Reader) (*SaveReport, error)
}

// UploadService interface for media uploads
type UploadService interface {
	Upload(ctx context.Context, target UploadTarget, file UploadFile) (*UploadResult, error)
}

// SystemService interface for the admin system panel
type SystemService interface {
	Info(ctx context.Context) (*SystemInfo, error)
}

// Auth related types
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      AdminUser `json:"user"`
}

type AdminUser struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Catalog related types
type ServiceRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Icon        string   `json:"icon" validate:"max=32"`
	Features    []string `json:"features"`
}

type DomainRequest struct {
	Name        string                `json:"name" validate:"required,max=253"`
	Price       string                `json:"price" validate:"max=64"`
	Status      entities.DomainStatus `json:"status"`
	Description string                `json:"description" validate:"max=2000"`
}

// UpdateSettingsRequest merges only the keys that are present
type UpdateSettingsRequest struct {
	SiteTitle       *string `json:"siteTitle"`
	HeroTitle       *string `json:"heroTitle"`
	HeroSubtitle    *string `json:"heroSubtitle"`
	BackgroundImage *string `json:"backgroundImage"`
	BackgroundMusic *string `json:"backgroundMusic"`
	Logo            *string `json:"logo"`
	PrimaryColor    *string `json:"primaryColor"`
	SecondaryColor  *string `json:"secondaryColor"`
	AccentColor     *string `json:"accentColor"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"max=200"`
	Email   string `json:"email" validate:"omitempty,email"`
	Service string `json:"service" validate:"max=200"`
	Message string `json:"message" validate:"max=5000"`
}

type DashboardSummary struct {
	TotalServices  int                `json:"totalServices"`
	TotalDomains   int                `json:"totalDomains"`
	TotalContacts  int                `json:"totalContacts"`
	RecentContacts []entities.Contact `json:"recentContacts"`
}

// Transfer related types
type ExportResult struct {
	Filename string
	Path     string
	Envelope *entities.ExportEnvelope
}

// Upload related types
type UploadTarget string

const (
	UploadTargetLogo       UploadTarget = "logo"
	UploadTargetBackground UploadTarget = "background"
	UploadTargetMusic      UploadTarget = "music"
)

// UploadFile is a received file, independent of the transport that carried it
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

type UploadResult struct {
	Filename string      `json:"filename"`
	URL      string      `json:"url"`
	Report   *SaveReport `json:"-"`
}

// System related types
type SystemInfo struct {
	DataDirSize  string      `json:"dataDirSize"`
	UploadsSize  string      `json:"uploadsSize"`
	BackupsCount int         `json:"backupsCount"`
	Uptime       float64     `json:"uptime"`
	Memory       MemoryUsage `json:"memory"`
	GoVersion    string      `json:"goVersion"`
}

type MemoryUsage struct {
	Used  uint64 `json:"used"`
	Total uint64 `json:"total"`
}

// StepResult is the outcome of one step of the save pipeline
type StepResult struct {
	Step  string `json:"step"`
	Error string `json:"error,omitempty"`
}

// SaveReport lists what happened after the data file was written.
// A report is only produced when the primary write succeeded.
type SaveReport struct {
	Steps []StepResult `json:"steps"`
}

// Warnings returns one message per failed step
func (r *SaveReport) Warnings() []string {
	if r == nil {
		return nil
	}
	var out []string
	for _, s := range r.Steps {
		if s.Error != "" {
			out = append(out, s.Step+" failed: "+s.Error)
		}
	}
	return out
}

// OK reports whether every step succeeded
func (r *SaveReport) OK() bool {
	return len(r.Warnings()) == 0
}

package entities

import (
	"time"
)

// DomainStatus is the sale state of a listed domain
type DomainStatus string

const (
	DomainStatusAvailable DomainStatus = "available"
	DomainStatusReserved  DomainStatus = "reserved"
	DomainStatusSold      DomainStatus = "sold"
)

// ContactStatus tracks a contact submission
type ContactStatus string

const (
	ContactStatusNew ContactStatus = "new"
)

// Document is the whole store as it lives in memory and in the data file
type Document struct {
	Services []Service `json:"services"`
	Domains  []Domain  `json:"domains"`
	Settings Settings  `json:"settings"`
	Contacts []Contact `json:"contacts"`
}

// Service represents an offered service on the storefront
type Service struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Features    []string `json:"features"`
}

// Domain is a domain name listed for sale, addressed by its position
type Domain struct {
	Name        string       `json:"name"`
	Price       string       `json:"price"`
	Status      DomainStatus `json:"status"`
	Description string       `json:"description"`
}

// Settings holds site-wide presentation values
type Settings struct {
	SiteTitle       string `json:"siteTitle"`
	HeroTitle       string `json:"heroTitle"`
	HeroSubtitle    string `json:"heroSubtitle"`
	BackgroundImage string `json:"backgroundImage"`
	BackgroundMusic string `json:"backgroundMusic"`
	Logo            string `json:"logo"`
	PrimaryColor    string `json:"primaryColor"`
	SecondaryColor  string `json:"secondaryColor"`
	AccentColor     string `json:"accentColor"`
}

// Contact is a submission of the public contact form
type Contact struct {
	ID      int           `json:"id"`
	Name    string        `json:"name"`
	Email   string        `json:"email"`
	Service string        `json:"service"`
	Message string        `json:"message"`
	Date    time.Time     `json:"date"`
	Status  ContactStatus `json:"status"`
}

// BackupInfo describes one snapshot in the backup catalog
type BackupInfo struct {
	Filename string    `json:"filename"`
	Size     int64     `json:"size"`
	Created  time.Time `json:"created"`
}

// UploadMeta describes one stored media file; bytes are never embedded
type UploadMeta struct {
	Size     int64     `json:"size"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
	Type     string    `json:"type"`
}

// ExportEnvelope is the self-describing export file format
type ExportEnvelope struct {
	Timestamp time.Time             `json:"timestamp"`
	Version   string                `json:"version"`
	Data      *Document             `json:"data"`
	Uploads   map[string]UploadMeta `json:"uploads"`
}

// Normalize replaces nil collections with empty ones so they serialise as []
func (d *Document) Normalize() {
	if d.Services == nil {
		d.Services = []Service{}
	}
	if d.Domains == nil {
		d.Domains = []Domain{}
	}
	if d.Contacts == nil {
		d.Contacts = []Contact{}
	}
	for i := range d.Services {
		if d.Services[i].Features == nil {
			d.Services[i].Features = []string{}
		}
	}
}

// Clone returns a deep copy of the document
func (d *Document) Clone() *Document {
	out := &Document{
		Services: make([]Service, len(d.Services)),
		Domains:  make([]Domain, len(d.Domains)),
		Settings: d.Settings,
		Contacts: make([]Contact, len(d.Contacts)),
	}
	for i, s := range d.Services {
		s.Features = append([]string{}, s.Features...)
		out.Services[i] = s
	}
	copy(out.Domains, d.Domains)
	copy(out.Contacts, d.Contacts)
	return out
}

// NextServiceID returns max(existing ids)+1, or 1 when there are none.
// Ids freed by deleting the highest service are handed out again.
func (d *Document) NextServiceID() int {
	next := 1
	for _, s := range d.Services {
		if s.ID >= next {
			next = s.ID + 1
		}
	}
	return next
}

// NextContactID follows the same max+1 rule as services
func (d *Document) NextContactID() int {
	next := 1
	for _, c := range d.Contacts {
		if c.ID >= next {
			next = c.ID + 1
		}
	}
	return next
}

// FindService returns the index of the service with the given id
func (d *Document) FindService(id int) (int, error) {
	for i, s := range d.Services {
		if s.ID == id {
			return i, nil
		}
	}
	return -1, ErrServiceNotFound
}

// CheckDomainIndex validates a positional domain reference
func (d *Document) CheckDomainIndex(index int) error {
	if index < 0 || index >= len(d.Domains) {
		return ErrDomainNotFound
	}
	return nil
}

// RecentContacts returns up to n of the latest contacts, newest first
func (d *Document) RecentContacts(n int) []Contact {
	start := len(d.Contacts) - n
	if start < 0 {
		start = 0
	}
	out := make([]Contact, 0, len(d.Contacts)-start)
	for i := len(d.Contacts) - 1; i >= start; i-- {
		out = append(out, d.Contacts[i])
	}
	return out
}

// DefaultDocument is the seed content used when no data file can be loaded
func DefaultDocument() *Document {
	return &Document{
		Services: []Service{
			{ID: 1, Name: "Domain Sales", Description: "Premium domains: nett.to, zone.id", Icon: "🌐", Features: []string{"Premium TLDs", "Instant Transfer", "Free DNS"}},
			{ID: 2, Name: "Website Development", Description: "Modern, responsive web design", Icon: "💻", Features: []string{"React/Vue/Next.js", "Mobile First", "SEO Optimized"}},
			{ID: 3, Name: "Web Hosting", Description: "Reliable hosting solutions", Icon: "🚀", Features: []string{"99.9% Uptime", "SSL Certificate", "Daily Backups"}},
			{ID: 4, Name: "WhatsApp Bots", Description: "Fix and develop WhatsApp bots", Icon: "🤖", Features: []string{"24/7 Support", "Custom Flows", "API Integration"}},
			{ID: 5, Name: "API Services", Description: "Working APIs for your business", Icon: "🔌", Features: []string{"REST APIs", "GraphQL", "Documentation"}},
			{ID: 6, Name: "Business Emails", Description: "Professional email solutions", Icon: "📧", Features: []string{"Custom Domain", "50GB Storage", "Mobile Sync"}},
			{ID: 7, Name: "Design Services", Description: "Posters, business cards & more", Icon: "🎨", Features: []string{"Print Ready", "Digital Formats", "Quick Delivery"}},
		},
		Domains: []Domain{
			{Name: "nett.to", Price: "$299", Status: DomainStatusAvailable, Description: "Premium .to domain for tech projects"},
			{Name: "zone.id", Price: "$199", Status: DomainStatusAvailable, Description: "Perfect .id domain for Indonesian market"},
		},
		Settings: Settings{
			SiteTitle:      "🚀 NtandoStore V6",
			HeroTitle:      "Welcome to the Future 2026",
			HeroSubtitle:   "Your complete digital solution provider - from premium domains to cutting-edge web development",
			PrimaryColor:   "#6366f1",
			SecondaryColor: "#22d3ee",
			AccentColor:    "#f43f5e",
		},
		Contacts: []Contact{},
	}
}

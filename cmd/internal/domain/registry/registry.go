package registry

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"slices"
	"strings"

	"classaction/cmd/internal/domain/entity"
	"classaction/cmd/internal/utils"

	"github.com/dustin/go-humanize"
)

//go:embed templates/*.html
var templateFS embed.FS

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldTel      FieldType = "tel"
	FieldNumber   FieldType = "number"
	FieldTextarea FieldType = "textarea"
)

type Field struct {
	Key         string
	Label       string
	Placeholder string
	Type        FieldType
	Required    bool
}

// Profile is the presentation of one company: form strings and the
// confirmation email. Profiles are shared, callers must not modify them.
type Profile struct {
	ID             string
	DisplayName    string
	Title          string
	Description    string
	Fields         []Field
	SubmitText     string
	SuccessMessage string
	EmailSubject   string

	confirmation *template.Template
}

type FormConfig struct {
	Company        string
	DisplayName    string
	Title          string
	Description    string
	Fields         []Field
	SubmitText     string
	SuccessMessage string
}

type Email struct {
	Subject string
	HTML    string
}

// Registry resolves a company identifier to its profile. Unknown
// identifiers get the generic profile with their own display name, so a
// new matter only needs to be listed as supported.
type Registry struct {
	profiles     map[string]*Profile
	supported    []string
	contactEmail string

	fallback *template.Template
	admin    *template.Template
}

func New(supported []string, contactEmail string) (*Registry, error) {
	atosTmpl, err := parse("confirmation_atos.html")
	if err != nil {
		return nil, err
	}
	fallback, err := parse("confirmation_default.html")
	if err != nil {
		return nil, err
	}
	admin, err := parse("admin_notification.html")
	if err != nil {
		return nil, err
	}

	r := &Registry{
		profiles:     make(map[string]*Profile),
		contactEmail: contactEmail,
		fallback:     fallback,
		admin:        admin,
	}
	for _, id := range supported {
		id = utils.NormalizeCompany(id)
		if id != "" && !slices.Contains(r.supported, id) {
			r.supported = append(r.supported, id)
		}
	}

	r.profiles["atos"] = atosProfile(atosTmpl)
	r.profiles["urpea"] = genericProfile("urpea", fallback)
	return r, nil
}

func parse(name string) (*template.Template, error) {
	tmpl, err := template.New(name).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("registry: parse template %s: %w", name, err)
	}
	return tmpl, nil
}

func (r *Registry) Profile(company string) *Profile {
	id := utils.NormalizeCompany(company)
	if p, ok := r.profiles[id]; ok {
		return p
	}
	return genericProfile(id, r.fallback)
}

func (r *Registry) FormConfig(company string) FormConfig {
	p := r.Profile(company)
	return FormConfig{
		Company:        p.ID,
		DisplayName:    p.DisplayName,
		Title:          p.Title,
		Description:    p.Description,
		Fields:         slices.Clone(p.Fields),
		SubmitText:     p.SubmitText,
		SuccessMessage: p.SuccessMessage,
	}
}

func (r *Registry) DisplayName(company string) string {
	return r.Profile(company).DisplayName
}

// IsSupported reports whether the company currently accepts registrations.
func (r *Registry) IsSupported(company string) bool {
	return slices.Contains(r.supported, utils.NormalizeCompany(company))
}

func (r *Registry) Supported() []string {
	return slices.Clone(r.supported)
}

type confirmationData struct {
	DisplayName  string
	ContactEmail string
	Record       *entity.Shareholder
}

func (r *Registry) ConfirmationEmail(record *entity.Shareholder) (*Email, error) {
	p := r.Profile(record.Company)

	var buf bytes.Buffer
	err := p.confirmation.ExecuteTemplate(&buf, "layout", &confirmationData{
		DisplayName:  p.DisplayName,
		ContactEmail: r.contactEmail,
		Record:       record,
	})
	if err != nil {
		return nil, fmt.Errorf("registry: render confirmation for %s: %w", p.ID, err)
	}
	return &Email{Subject: p.EmailSubject, HTML: buf.String()}, nil
}

type adminData struct {
	DisplayName   string
	Record        *entity.Shareholder
	ShareCount    string
	PurchasePrice string
	SellPrice     string
	Loss          string
	Remarks       template.HTML
	RegisteredAt  string
}

func (r *Registry) AdminNotification(record *entity.Shareholder) (*Email, error) {
	p := r.Profile(record.Company)

	var remarks template.HTML
	if record.Remarks != "" {
		escaped := template.HTMLEscapeString(record.Remarks)
		remarks = template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
	}

	var buf bytes.Buffer
	err := r.admin.ExecuteTemplate(&buf, "layout", &adminData{
		DisplayName:   p.DisplayName,
		Record:        record,
		ShareCount:    humanize.Comma(record.ShareCount),
		PurchasePrice: humanize.CommafWithDigits(record.PurchasePrice.InexactFloat64(), 2),
		SellPrice:     humanize.CommafWithDigits(record.SellPrice.InexactFloat64(), 2),
		Loss:          humanize.CommafWithDigits(record.Loss.InexactFloat64(), 2),
		Remarks:       remarks,
		RegisteredAt:  utils.FormatDateTime(record.CreatedAt),
	})
	if err != nil {
		return nil, fmt.Errorf("registry: render admin notification for %s: %w", p.ID, err)
	}

	subject := fmt.Sprintf("New %s Shareholder Registration - %s", p.DisplayName, record.Name)
	return &Email{Subject: subject, HTML: buf.String()}, nil
}

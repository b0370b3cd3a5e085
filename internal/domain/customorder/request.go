// Package customorder models bespoke order requests (corporate gifting,
// wedding stationery, bulk runs) that the shop quotes by e-mail.
package customorder

import (
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Kind string

const (
	KindCorporate Kind = "corporate"
	KindWedding   Kind = "wedding"
	KindBulk      Kind = "bulk"
	KindOther     Kind = "other"
)

func (k Kind) Valid() bool {
	switch k {
	case KindCorporate, KindWedding, KindBulk, KindOther:
		return true
	}
	return false
}

// StatusNew is the only status the storefront writes; the studio moves it on.
const StatusNew = "new"

// DefaultEmail receives the pre-filled request mail.
const DefaultEmail = "sassynary@gmail.com"

type Request struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Kind      Kind      `json:"type"`
	Message   string    `json:"message"`
	ImageURL  string    `json:"image_url,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Normalized trims every field and defaults the kind to corporate.
func (r Request) Normalized() Request {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Message = strings.TrimSpace(r.Message)
	r.Kind = Kind(strings.TrimSpace(string(r.Kind)))
	if r.Kind == "" {
		r.Kind = KindCorporate
	}
	r.Status = StatusNew
	return r
}

// Validate returns one message per invalid field, or nil.
func (r Request) Validate() map[string]string {
	fields := map[string]string{}
	for name, value := range map[string]string{
		"name":    r.Name,
		"email":   r.Email,
		"phone":   r.Phone,
		"message": r.Message,
	} {
		if strings.TrimSpace(value) == "" {
			fields[name] = "required"
		}
	}
	if _, missing := fields["email"]; !missing {
		if _, err := mail.ParseAddress(r.Email); err != nil {
			fields["email"] = "invalid email address"
		}
	}
	if r.Kind != "" && !r.Kind.Valid() {
		fields["type"] = "choose corporate, wedding, bulk or other"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// Document is the remote "custom_orders" shape. createdAt is assigned by the store.
func (r Request) Document() map[string]any {
	return map[string]any{
		"name":     r.Name,
		"email":    r.Email,
		"phone":    r.Phone,
		"type":     string(r.Kind),
		"message":  r.Message,
		"imageUrl": r.ImageURL,
		"status":   r.Status,
	}
}

// MailBody is the request text pre-filled into the customer's mail client.
func (r Request) MailBody() string {
	parts := []string{
		"Hi Sassynary Team,\n\nI'm interested in a custom order!\n",
		"Name: " + r.Name,
		"Email: " + r.Email,
		"Phone: " + r.Phone,
		"Type: " + string(r.Kind) + "\n",
		"Details:\n" + r.Message + "\n",
	}
	if r.ImageURL != "" {
		parts = append(parts, "Reference Image URL: "+r.ImageURL)
	}
	return strings.Join(parts, "\n")
}

// MailtoLink addresses the request to the studio inbox.
func (r Request) MailtoLink(to string) string {
	if to == "" {
		to = DefaultEmail
	}
	subject := "Custom Order Request: " + string(r.Kind)
	return "mailto:" + to + "?subject=" + escape(subject) + "&body=" + escape(r.MailBody())
}

// ImagePath is where a reference image is uploaded.
func ImagePath(at time.Time, fileName string) string {
	name := strings.TrimSpace(fileName)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		name = "reference"
	}
	return "custom-orders/" + strconv.FormatInt(at.UnixMilli(), 10) + "-" + name
}

// escape percent-encodes like a browser's encodeURIComponent: spaces become %20.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

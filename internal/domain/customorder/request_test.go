package customorder

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() Request {
	return Request{
		Name:    "Asha Rao",
		Email:   "asha@example.com",
		Phone:   "+91 98765 43210",
		Kind:    KindWedding,
		Message: "120 invites, gold foil, by March",
	}
}

func TestRequest_Normalized(t *testing.T) {
	r := Request{Name: "  Asha ", Email: " asha@example.com ", Message: " hi ", Status: "done"}.Normalized()

	assert.Equal(t, "Asha", r.Name)
	assert.Equal(t, "asha@example.com", r.Email)
	assert.Equal(t, "hi", r.Message)
	assert.Equal(t, KindCorporate, r.Kind)
	assert.Equal(t, StatusNew, r.Status)
}

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Request)
		fields map[string]string
	}{
		{"valid", func(*Request) {}, nil},
		{"missing everything", func(r *Request) { *r = Request{} }, map[string]string{
			"name": "required", "email": "required", "phone": "required", "message": "required",
		}},
		{"bad email", func(r *Request) { r.Email = "asha" }, map[string]string{"email": "invalid email address"}},
		{"unknown type", func(r *Request) { r.Kind = "birthday" }, map[string]string{"type": "choose corporate, wedding, bulk or other"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRequest()
			tt.modify(&r)
			assert.Equal(t, tt.fields, r.Validate())
		})
	}
}

func TestRequest_Document(t *testing.T) {
	r := validRequest().Normalized()
	r.ImageURL = "https://blobs.test/custom-orders/1-logo.png"

	doc := r.Document()

	assert.Equal(t, "wedding", doc["type"])
	assert.Equal(t, "new", doc["status"])
	assert.Equal(t, r.ImageURL, doc["imageUrl"])
	assert.NotContains(t, doc, "createdAt")
}

func TestRequest_MailBody(t *testing.T) {
	r := validRequest()
	want := "Hi Sassynary Team,\n\nI'm interested in a custom order!\n\n" +
		"Name: Asha Rao\nEmail: asha@example.com\nPhone: +91 98765 43210\nType: wedding\n\n" +
		"Details:\n120 invites, gold foil, by March\n"
	assert.Equal(t, want, r.MailBody())

	r.ImageURL = "https://blobs.test/x.png"
	assert.True(t, strings.HasSuffix(r.MailBody(), "\nReference Image URL: https://blobs.test/x.png"))
}

func TestRequest_MailtoLink(t *testing.T) {
	r := validRequest()
	r.Message = "Tea & cake? 50% off"

	link := r.MailtoLink("")

	require.True(t, strings.HasPrefix(link, "mailto:sassynary@gmail.com?subject=Custom%20Order%20Request%3A%20wedding&body="))
	assert.NotContains(t, link, "+")
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, r.MailBody(), u.Query().Get("body"))
	assert.Equal(t, "Custom Order Request: wedding", u.Query().Get("subject"))

	assert.True(t, strings.HasPrefix(r.MailtoLink("studio@example.com"), "mailto:studio@example.com?"))
}

func TestImagePath(t *testing.T) {
	at := time.UnixMilli(1760000000000)

	assert.Equal(t, "custom-orders/1760000000000-logo.png", ImagePath(at, "logo.png"))
	assert.Equal(t, "custom-orders/1760000000000-logo.png", ImagePath(at, `C:\Users\asha\logo.png`))
	assert.Equal(t, "custom-orders/1760000000000-reference", ImagePath(at, " "))
}

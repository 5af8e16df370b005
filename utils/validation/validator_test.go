package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateStruct(t *testing.T) {
	type form struct {
		Email string `validate:"required,email"`
		Name  string `validate:"required,min=2"`
		Link  string `validate:"omitempty,url"`
	}

	v := NewValidator()

	assert.NoError(t, v.ValidateStruct(form{Email: "a@example.org", Name: "Jo"}))
	assert.Error(t, v.ValidateStruct(form{Email: "not-an-email", Name: "Jo"}))
	assert.Error(t, v.ValidateStruct(form{Email: "a@example.org", Name: "J"}))
	assert.Error(t, v.ValidateStruct(form{Email: "a@example.org", Name: "Jo", Link: "nope"}))
}

func TestFormatValidationErrors(t *testing.T) {
	type form struct {
		Email string `validate:"required"`
		Name  string `validate:"min=2"`
		Link  string `validate:"url"`
	}

	err := NewValidator().ValidateStruct(form{Name: "J", Link: "nope"})
	fields := FormatValidationErrors(err)

	assert.Equal(t, "Email is required", fields["email"])
	assert.Equal(t, "Name must be at least 2", fields["name"])
	assert.Equal(t, "Link must be a valid URL", fields["link"])
}

func TestValidateURL(t *testing.T) {
	valid := []string{
		"https://example.org",
		"http://example.org/path?query=1",
		"https://sub.example.org:8443/deep/path",
	}
	for _, url := range valid {
		assert.True(t, ValidateURL(url), url)
	}

	invalid := []string{
		"",
		"not a url",
		"ftp://example.org/file",
		"javascript:alert(1)",
		"https://",
	}
	for _, url := range invalid {
		assert.False(t, ValidateURL(url), url)
	}
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello  "))
	assert.Equal(t, "", SanitizeString("   "))
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text passes through",
			in:   "no markup here",
			want: "no markup here",
		},
		{
			name: "tags are removed",
			in:   "<p>hello <b>world</b></p>",
			want: "hello world",
		},
		{
			name: "attributes cannot smuggle markup",
			in:   `<img src="x" onerror="alert(1)">caption`,
			want: "caption",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripHTML(tt.in)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "<")
		})
	}
}

func TestNormalizeStringSet(t *testing.T) {
	got := NormalizeStringSet([]string{" climate ", "climate", "", "open-source", "  ", "climate"})
	assert.Equal(t, []string{"climate", "open-source"}, got)

	assert.Empty(t, NormalizeStringSet(nil))
	assert.Empty(t, NormalizeStringSet([]string{"", "  "}))
}

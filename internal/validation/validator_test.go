package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Title    string   `form:"title" validate:"required"`
	Genres   []string `form:"genres" validate:"min=1"`
	Email    string   `json:"email" validate:"omitempty,email"`
	Internal string   `validate:"max=3"`
}

func TestValidateStruct(t *testing.T) {
	errs := ValidateStruct(sample{Email: "nope", Internal: "toolong"})

	assert.Equal(t, []string{"email", "genres", "internal", "title"}, errs.Fields())
	assert.Equal(t, []string{"This field is required."}, errs["title"])
	assert.Equal(t, []string{"Enter a valid email address."}, errs["email"])
}

func TestValidateStructValid(t *testing.T) {
	assert.Nil(t, ValidateStruct(sample{Title: "Soup", Genres: []string{"x"}}))
}

func TestFieldErrors(t *testing.T) {
	fe := FieldErrors{}
	assert.True(t, fe.Empty())

	fe.Add("title", "a")
	fe.Merge(FieldErrors{"title": {"b"}, "portions": {"c"}})

	assert.True(t, fe.Has("title"))
	assert.False(t, fe.Has("calories"))
	assert.Equal(t, []string{"a", "b"}, fe["title"])
	assert.Equal(t, []string{"portions", "title"}, fe.Fields())
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Ensure this has at least 1 item(s) or characters.", Message("min", "1"))
	assert.Equal(t, `Failed the "uuid4" check.`, Message("uuid4", ""))
}

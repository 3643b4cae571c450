package validator

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmail(t *testing.T) {
	v := New()

	valid := []string{"guest@ranch.ca", "Jane.Doe+trail@example.com", "  padded@example.org  "}
	for _, email := range valid {
		assert.NoError(t, v.Email(email), email)
	}

	invalid := []string{"", "not-an-email", "missing-at-sign.com", "two@@example.com", "spaces in@example.com"}
	for _, email := range invalid {
		assert.Error(t, v.Email(email), email)
	}
}

func TestEmail_LengthCap(t *testing.T) {
	v := New()
	label := strings.Repeat("a", 60)

	// 254 characters, the longest address a mail path can carry
	atLimit := strings.Repeat("b", 64) + "@" + strings.Join([]string{label, label, label}, ".") + "." + strings.Repeat("c", 6)
	require.Len(t, atLimit, 254)
	assert.NoError(t, v.Email(atLimit))

	tooLong := "guest@" + strings.Join([]string{label, label, label, label, label}, ".") + ".ca"
	assert.EqualError(t, v.Email(tooLong), "invalid email address")
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "guest@ranch.ca", NormalizeEmail("  Guest@Ranch.CA "))
}

func TestID(t *testing.T) {
	v := New()
	want := uuid.New()

	got, err := v.ID("timeSlotId", want.String())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = v.ID("timeSlotId", "")
	assert.EqualError(t, err, "timeSlotId is required")

	_, err = v.ID("serviceId", "42")
	assert.EqualError(t, err, "serviceId must be a valid UUID")
}

func TestStruct(t *testing.T) {
	type request struct {
		Name  string `json:"guestName" binding:"max=5"`
		Count int    `json:"participantCount" binding:"gte=1"`
	}
	v := New()

	assert.NoError(t, v.Struct(request{Name: "Ann", Count: 1}))
	assert.EqualError(t, v.Struct(request{Name: "Annabelle", Count: 1}), "guestName must not exceed 5")
	assert.EqualError(t, v.Struct(request{Name: "Ann", Count: 0}), "participantCount must be at least 1")
}

func TestValidateStruct_GinBinding(t *testing.T) {
	type request struct {
		Phone *string `json:"guestPhone" binding:"omitempty,max=3"`
	}
	v := New()
	long := "555-1234"

	assert.NoError(t, v.ValidateStruct(nil))
	assert.NoError(t, v.ValidateStruct("not a struct"))
	assert.NoError(t, v.ValidateStruct(&request{}))

	err := v.ValidateStruct(&request{Phone: &long})
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "guestPhone", fe.Field)
	assert.Equal(t, "guestPhone must not exceed 3", fe.Message)
}

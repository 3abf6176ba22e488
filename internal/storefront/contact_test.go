package storefront

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubmitContact(t *testing.T) {
	notifier := &recordingNotifier{}

	err := SubmitContact(notifier, ContactForm{Name: "Asha", Email: "a@example.com", Message: "Do you ship to Pune?"})
	assert.NoError(t, err)
	assert.Equal(t, toast{Message: "Thank you! Your message has been sent."}, notifier.last())

	err = SubmitContact(notifier, ContactForm{Name: "Asha", Email: "a@example.com", Message: "   "})
	assert.Error(t, err)
	assert.True(t, notifier.last().IsError)
}

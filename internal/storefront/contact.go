package storefront

import "strings"

const msgContactSent = "Thank you! Your message has been sent."

// ContactForm is the message a visitor sends from the contact page. It is
// acknowledged locally and not delivered anywhere.
type ContactForm struct {
	Name    string `validate:"required,max=100"`
	Email   string `validate:"required,email"`
	Message string `validate:"required,max=2000"`
}

// SubmitContact validates the form and acknowledges it with a toast.
func SubmitContact(n Notifier, form ContactForm) error {
	form.Message = strings.TrimSpace(form.Message)
	if err := formValidator.Struct(form); err != nil {
		n.Toast("Please fill out all contact details.", true)
		return err
	}
	n.Toast(msgContactSent, false)
	return nil
}

package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// LoginForm collects email and password for sign-in or sign-up. The mode is
// toggled by the user, never inferred.
type LoginForm struct {
	email    textinput.Model
	password textinput.Model

	// signup switches the submit action from sign-in to account creation.
	signup bool
	// focusPassword tracks which of the two fields is active.
	focusPassword bool
}

// NewLoginForm returns a form in sign-in mode with the email field focused.
func NewLoginForm() LoginForm {
	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 120
	email.Width = 36
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 120
	password.Width = 36
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return LoginForm{email: email, password: password}
}

// Signup reports whether the form is in sign-up mode.
func (f *LoginForm) Signup() bool { return f.signup }

// ToggleMode flips between sign-in and sign-up.
func (f *LoginForm) ToggleMode() { f.signup = !f.signup }

// CycleFocus moves between the email and password fields.
func (f *LoginForm) CycleFocus() {
	f.focusPassword = !f.focusPassword
	if f.focusPassword {
		f.email.Blur()
		f.password.Focus()
	} else {
		f.password.Blur()
		f.email.Focus()
	}
}

// Values returns the entered credentials. ok is false while either field is empty.
func (f *LoginForm) Values() (email, password string, ok bool) {
	email = f.email.Value()
	password = f.password.Value()
	return email, password, email != "" && password != ""
}

// Clear empties the password, keeping the email for another attempt.
func (f *LoginForm) Clear() {
	f.password.SetValue("")
}

// Update forwards the message to the focused field.
func (f LoginForm) Update(msg tea.Msg) (LoginForm, tea.Cmd) {
	var cmd tea.Cmd
	if f.focusPassword {
		f.password, cmd = f.password.Update(msg)
	} else {
		f.email, cmd = f.email.Update(msg)
	}
	return f, cmd
}

// View renders the form.
func (f LoginForm) View(styles Styles) string {
	header := "Login"
	hint := "enter: sign in  tab: next field  ctrl+r: need an account?  ctrl+c: quit"
	if f.signup {
		header = "Sign Up"
		hint = "enter: create account  tab: next field  ctrl+r: have an account?  ctrl+c: quit"
	}

	s := styles.Title.Render("NoteHub / "+header) + "\n\n"
	s += f.email.View() + "\n"
	s += f.password.View() + "\n\n"
	s += styles.Help.Render(hint)
	return s
}

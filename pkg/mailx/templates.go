package mailx

import "fmt"

// ResetPasswordMessage builds the password-reset email. The link targets the
// frontend, which posts the token back to the API.
func ResetPasswordMessage(to, frontendBaseURL, token string) Message {
	return Message{
		To:      to,
		Subject: "Reset your password",
		HTML: fmt.Sprintf(`<html>
  <body>
    <h3>Password reset</h3>
    <p>Click <a href="%s/reset-password?token=%s">here</a> to reset your password.</p>
    <p>The link expires shortly. If you did not request a reset, ignore this email.</p>
  </body>
</html>`, frontendBaseURL, token),
	}
}

// InvitationMessage builds the invite email sent when an admin invites a new
// user. Accepting the invite sets the account password and activates it.
func InvitationMessage(to, frontendBaseURL, token string) Message {
	return Message{
		To:      to,
		Subject: "You have been invited",
		HTML: fmt.Sprintf(`<html>
  <body>
    <h3>Welcome</h3>
    <p>You have been invited to join. Click <a href="%s/verify-invitation?token=%s">here</a> to choose a password and activate your account.</p>
  </body>
</html>`, frontendBaseURL, token),
	}
}

// Package smtp delivers rendered emails over a direct SMTP session using
// github.com/wneessen/go-mail.
//
//	engine, err := smtp.New(smtp.Config{
//		Host:     "smtp.example.com",
//		Port:     587,
//		Security: smtp.SecurityStartTLS,
//		Username: "mailer",
//		Password: os.Getenv("SMTP_PASSWORD"),
//	})
//
// Security modes:
//
//   - SecurityNone: plain connection
//   - SecuritySSL: implicit TLS from connect (usually port 465)
//   - SecurityStartTLS: STARTTLS is required, the send fails without it
//
// PLAIN authentication is used only when both Username and Password are set,
// and with SecurityNone it is sent over the plain connection.
//
// An HTML-only email still goes out as multipart/alternative, with the HTML
// part as its only child.
// Every Send opens and closes its own connection; there is no pooling or retry.
package smtp

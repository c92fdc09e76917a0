// Package resend delivers rendered emails through the Resend API.
//
//	engine, err := resend.New(resend.Config{
//		APIKey:      os.Getenv("RESEND_API_KEY"),
//		SenderEmail: "team@example.com",
//		SenderName:  "Example Team",
//	})
//	if err != nil {
//		return err
//	}
//	m := mailer.New(renderer, mailer.WithEngine(engine))
//
// Failed calls return a *mailer.DeliveryError wrapping the API error.
package resend

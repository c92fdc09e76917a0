// Package mailgun delivers rendered emails through the Mailgun messages API.
//
// Each Send is one POST of a URL-encoded form to
// {BaseURL}/v3/{Domain}/messages, authenticated with HTTP basic auth as user
// "api". There are no retries.
//
//	engine, err := mailgun.New(mailgun.Config{
//		APIKey: os.Getenv("MAILGUN_API_KEY"),
//		Domain: "mg.example.com",
//	})
//	if err != nil {
//		return err
//	}
//	m := mailer.New(renderer, mailer.WithEngine(engine))
//
// A rejected message returns a *mailer.DeliveryError carrying the status code
// and the response body:
//
//	var deliveryErr *mailer.DeliveryError
//	if errors.As(err, &deliveryErr) {
//		log.Printf("mailgun said %d: %s", deliveryErr.StatusCode, deliveryErr.Body)
//	}
package mailgun

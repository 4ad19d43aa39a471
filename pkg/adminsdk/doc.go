/*
Package adminsdk is a small Go client for the back-office admin service.

The service is a server-rendered HTML application, so the client behaves like
a browser: it keeps the session cookie in a jar, posts forms and does not
follow redirects so callers can see where the server wanted to send them.

	client := adminsdk.NewClient("http://localhost:8080")

	if err := client.Login(ctx, "admin@example.com", "secret-password"); err != nil {
		if errors.Is(err, adminsdk.ErrLoginInvalid) {
			// wrong email or password
		}
		return err
	}

	err := client.SaveUser(ctx, adminsdk.UserForm{
		Email:     "a@b.com",
		Username:  "ab",
		FirstName: "Ada",
		LastName:  "Byron",
		Password:  "analytical-engine",
	})

Failed requests come back as *StatusError, which matches the sentinel errors
in this package with errors.Is.
*/
package adminsdk

/*
Package usersdk is a client for the accounts service.

# Client vs Session

Client covers the public endpoints: health probes, registration, the
availability checks and login. A successful login returns a Session, which
carries the access token and covers everything behind the bearer check.

	client := usersdk.NewClient("https://accounts.example.com")

	taken, err := client.IsNickNameTaken(ctx, "Ace")

	session, err := client.Login(ctx, "u1@x.com", "password")
	me, err := session.Me(ctx)

# Refresh

The refresh token never leaves the server. When a request comes back with
408 token_expired the session calls POST /v1/auth/refresh with its expired
access token and retries the request once with the new one. Any other failure
from the refresh endpoint means the user has to log in again.

# Errors

Every non-2xx response is returned as *httpx.APIError with StatusCode set:

	var apiErr *httpx.APIError
	if errors.As(err, &apiErr) && apiErr.Code == httpx.CodeInvalidCredential {
		// wrong email or password
	}
*/
package usersdk

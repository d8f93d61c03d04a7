package httpx

import (
	"net/http"
	"time"
)

const defaultExternalHTTPTimeout = 30 * time.Second

// externalHTTPClient is shared by every outbound integration so all
// external calls carry the same bounded timeout.
var externalHTTPClient = &http.Client{
	Timeout: defaultExternalHTTPTimeout,
}

func ConfigureExternalHTTPClient(timeoutSeconds int) time.Duration {
	timeout := defaultExternalHTTPTimeout
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	externalHTTPClient.Timeout = timeout
	return timeout
}

func ExternalHTTPClient() *http.Client {
	return externalHTTPClient
}

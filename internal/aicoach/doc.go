// Package aicoach proxies coaching chat requests to a hosted
// chat-completion API, keeping the API token server-side. Request and
// response bodies pass through opaquely.
package aicoach

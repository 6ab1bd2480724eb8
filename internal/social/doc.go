// Package social holds the provider-connection core of the service.
//
// A Connection is a persisted OAuth grant linking a browser session to one
// provider account. The Gate answers whether the session holds a connection
// for a provider; the Presenter turns an authenticated Client into the view
// model of the hello page. ConnectionFactory values, one per provider, are
// created with RegisterProvider and kept in a Registry, which also hands out
// the per-request Client bound to the primary connection.
//
// The package knows nothing about HTTP routing or storage engines: providers
// live under providers/ and repository backends under store/.
package social

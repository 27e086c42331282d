// Package source acquires gauge photos from their configured origin.
//
// Two origins are supported: a file on local disk (FileSource, with
// change-detection caching so unchanged files are not re-decoded every
// polling cycle) and a network camera snapshot endpoint (CameraSource,
// plain HTTP GET with optional bearer-token auth). Both implement the
// Source interface consumed by the poller.
//
// Decoding registers the PNG, JPEG and GIF format handlers; anything the
// standard image package can decode through those works as input.
package source

// Package httpserver exposes the JSON API and the live event streams over Echo.
//
// Handlers translate HTTP requests into application service calls and map
// domain errors to structured responses. The /sse and /ws endpoints attach a
// broadcast subscription to the connection and drain its merged stream until
// the client disconnects.
package httpserver

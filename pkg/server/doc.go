// Package server serves a route tree over HTTP.
//
// Every mapped route renders a page whose <title> is the route's document
// title. The page also carries the document title widget and a small script
// that keeps the title live over a websocket.
//
// Endpoints:
//
//	GET /<mapped path>       page shell
//	GET /_routemeta/routes   JSON route table
//	GET /_routemeta/ws       title feed
//	GET /metrics             Prometheus metrics, when enabled
//
// # Title Feed
//
// A client sends transitions and receives titles:
//
//	-> {"route": "members.show", "params": {"user_id": "1"}}
//	<- {"title": "User Ann - All Members - Ember Enhanced Router"}
//
// Each connection gets its own registry fork, so connections never see each
// other's active route. Controller fields come only from the FieldsFunc
// given to WithFields; clients name a route and its params and cannot set
// fields themselves.
package server

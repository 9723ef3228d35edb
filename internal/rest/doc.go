// Package rest implements the REST/JSON façade of the query service.
//
// It is a translating front end over the provider's gRPC API, not over
// the store: every query goes through the rpc client, so the REST
// surface can be deployed independently of the engine. Inbound bodies
// are validated (more strictly than the gRPC surface) before anything
// reaches the query engine; malformed requests never leave this package.
package rest

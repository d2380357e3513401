// Package server serves flight pages over HTTP.
//
// A Handler turns a page function into responses. Each request path is
// canonicalized first; non-canonical paths are redirected and malformed
// ones answer 400. The page tree is then resolved and encoded, and the
// response is either the wire form (when the request carries the wire
// query flag, "?jsx" by default) or a complete HTML document with the
// same wire form embedded for hydration.
//
// Responses are built in full before anything is written. When building
// fails the client receives the mapped status code with an empty body,
// see StatusOf.
//
// A ProxyHandler is the rendering tier of a split deployment: it fetches
// the wire form from an upstream Handler and renders it locally.
//
// Server mounts either handler on a chi router alongside a health check,
// Prometheus metrics, static files and the development reload socket:
//
//	h, err := server.NewHandler(server.HandlerConfig{Page: blog.Page})
//	if err != nil {
//	    return err
//	}
//	srv := server.New(h, &server.ServerConfig{Address: ":3000"})
//	return srv.Run(ctx)
package server

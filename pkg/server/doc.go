// Package server exposes a compose.Engine over HTTP and WebSocket.
//
// # Routes
//
//	GET  /healthz            liveness probe
//	GET  /components         component names (when ServerConfig.Names is set)
//	GET  /components/{name}  render with query-string params
//	POST /components/{name}  render with a JSON object of params
//	GET  /metrics            Prometheus metrics (when ServerConfig.Gatherer is set)
//	GET  /ws                 live session
//
// Render errors are JSON objects with a code and a message. Unknown
// components are 404, failed loads 502, and renders that outlive
// ServerConfig.RenderTimeout 504.
//
// # Live sessions
//
// Each WebSocket connection owns one component tree and one reactive.Queue.
// A read goroutine decodes client frames and dispatches them to the queue;
// the connection's handler goroutine runs the queue and is the only writer.
// Asynchronous loads started by the tree deliver through the same queue,
// so every mutation of the tree happens on that one goroutine.
//
// Client frames:
//
//	{"type":"mount","name":"card","params":{"title":"Hello"}}
//
// Server frames:
//
//	{"type":"html","html":"<h2>Hello</h2>"}
//	{"type":"error","code":"E202","message":"..."}
//
// A mount frame always remounts, even when it repeats the previous one. The
// server pushes markup after every successful mount in the tree, skipping
// pushes that would repeat the last one sent.
//
// # Usage
//
//	engine := compose.New(compose.WithRegistry(reg))
//	srv := server.New(engine, &server.ServerConfig{Address: ":8080"})
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server

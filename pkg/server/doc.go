// Package server provides the HTTP server for the Zealot API.
//
// This package wires the stores, authorization policy, asset storage and
// message catalogs together behind a gorilla/mux router. Every request
// passes through an access log, panic recovery, HTTP method override
// (HTML forms tunnel PATCH, PUT and DELETE through POST) and request
// metrics.
//
// # Server Setup
//
//	srv, err := server.NewServer(cfg, db, tokens, assetStore, "0.0.0.0", "80")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//   - /apps, /apps/new, /apps/{id}, /apps/{id}/edit - App management
//   - / - Version
//   - /health - Database connectivity
//   - /metrics - Prometheus metrics
package server

// Package driven defines the interfaces the core services consume:
// the backend HTTP APIs (classes, documents, query, auth) and local
// storage for configuration and the persisted credential.
//
// Adapters in internal/adapters/driven implement these interfaces;
// the core never imports an adapter.
package driven

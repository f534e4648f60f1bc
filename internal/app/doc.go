// Package app provides the application service layer.
//
// Orchestrates use cases: account CRUD, batch uploads, submissions and bet settlement.
// Sits between HTTP handlers and domain repositories. Depends on domain interfaces,
// not concrete implementations. Every successful mutation is published to the
// broadcast bus after its store transaction has committed.
package app

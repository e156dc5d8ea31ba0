// Package model defines the provider-agnostic abstractions and concrete
// helpers for interacting with language models inside callclerk.
//
// Core goals:
//   - Keep request/response shapes minimal and transport independent
//   - Hide vendor SDK specifics behind a single Complete call
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (e.g. OpenAI, Anthropic) implement the Model interface from this
// package so higher layers (dialog, façade) remain decoupled from vendor SDKs.
package model

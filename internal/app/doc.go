// Package app contains the core application logic. It defines the App
// struct, its configuration, and the drive and simulate lifecycles,
// decoupled from any specific entrypoint like a CLI.
package app

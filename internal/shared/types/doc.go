// Package types defines the wire contracts shared between the HTTP layer and
// the chat orchestration: the /chat request and reply shapes and the
// /generate-image request and reply shapes. Field tags match what the studio
// frontend sends and expects, including the explicit null imageUrl.
package types

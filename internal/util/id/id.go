// Package id generates opaque identifiers for entities the core
// itself never names: IPC subscriber connections.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Generate returns a 24-character nanoid using an alphanumeric
// alphabet. Shorter than the teacher's 48 characters: tilecore's IDs
// tag short-lived in-process values (a websocket subscriber), not
// durable cross-service row keys.
func Generate() string {
	v, err := gonanoid.Generate(alphabet, 24)
	if err != nil {
		panic(fmt.Sprintf("generate nanoid: %v", err))
	}
	return v
}

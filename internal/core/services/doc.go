// Package services implements the driving port interfaces.
// Services contain the client-side sync and resolution logic:
// the class and document registries, the chat session and the
// refresh bus that ties mutating actions back to the registries.
//
// Services are pure Go with no CGO or external dependencies.
package services

// Package domain contains the practice entities (exercises, questions, users,
// sessions and answer attempts) and the rules that keep them consistent. It is
// independent of storage and transport.
package domain

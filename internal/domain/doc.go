// Package domain contains the core business entities of the practice service:
// questions, daily decks and the per-user answer statistics the deck builder
// reads. It is independent of any storage or delivery mechanism.
package domain

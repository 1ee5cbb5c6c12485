// Package relic defines the relic code domain model.
//
// Conventions:
//   - Canonical code form: "<Era> <Letter><Number>" (e.g., "Neo A10")
//   - Eras: Lith, Meso, Neo, Axi
//   - Letters: A-Z, numbers: 1-99
package relic

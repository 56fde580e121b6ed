// Package domain contains the core business entities: memory chunks,
// retrieval hits and packs, routing labels and the errors shared across
// services and adapters. Types here carry no I/O dependencies.
package domain

// Package driven defines the interfaces the core services require from
// infrastructure: storage, web search and the LLM. Adapters implement
// these; services depend only on the interfaces.
package driven

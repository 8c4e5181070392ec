// Package agent provides the reference stage executor implementations: a
// search-backed research executor and LLM-backed writing and critique
// executors. The engine only depends on the contracts in package executor;
// anything satisfying those interfaces can replace these.
package agent

// Package scribeflow turns a topic string into a polished document by
// coordinating research, writing and critique executors through a bounded
// iterative refine loop.
//
// The root package is a thin facade over the coordination engine: it wires
// configuration, reference executors, audit retention and progress
// observation together. The engine itself lives in package engine; the stage
// contracts in package executor; the pure revision decision in package
// policy.
//
// Minimal use:
//
//	svc, err := scribeflow.New(scribeflow.WithConfig(cfg))
//	result, err := svc.Generate(ctx, "Benefits of Intermittent Fasting")
package scribeflow

// Package model defines the data types exchanged between the workflow
// coordinator and its stage executors: research findings, drafts, critique
// feedback and the final generation result. Values produced by one stage are
// treated as read-only by every later stage; drafts are replaced, never
// mutated in place.
package model

// Package main hosts the elicitcam CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the full dataset build: preparing the
// human annotation tables, running incremental model annotation over the
// frame and hand-pose corpora, cleaning refusal boilerplate out of the
// results, predicting command labels, and inspecting coverage. It centralizes
// configuration resolution, credential validation, and structured logging
// setup so subcommands can focus on wiring units into an annotation run.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main

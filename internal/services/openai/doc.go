// Package openai implements the annotation source against the OpenAI chat
// completions API, reachable either directly or through a Microsoft Azure
// OpenAI deployment.
//
// Credentials are validated once at client construction; a missing or
// ambiguous scheme fails fast before any annotation work starts. Transient
// transport failures (timeouts, 429s, 5xx) are retried with exponential
// backoff, while provider-side content blocks come back as tagged rejected
// outcomes that the annotator skips without aborting the run.
package openai

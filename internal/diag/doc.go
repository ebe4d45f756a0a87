// Package diag defines the diagnostic model shared by all generator phases.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture findings
//     produced by the lexer, parser, resolver and generation passes.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// # Scope
//
// Package diag performs no formatting, IO or CLI integration. Rendering lives
// in internal/diagfmt; orchestration lives in internal/driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form,
//     one thousand-block per phase: LEX, SYN, RES, GEN, IO, PRJ.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing at the issue.
//   - Notes – optional secondary spans/messages for additional context.
//
// Notes should be used sparingly: each note must add new context (e.g. "first
// declared here") rather than repeating the diagnostic message.
//
// # Emitting diagnostics
//
// Phases emit through a diag.Reporter to decouple emission from storage. The
// parser constructs a ReportBuilder via ReportError/ReportWarning, chains
// WithNote, then calls Emit. When no extra metadata is needed, phases call
// Reporter.Report directly. BagReporter aggregates into a Bag, which supports
// sorting, deduplication and a hard cap.
//
// Keep the data model deterministic: repeated runs over the same schema must
// produce identical bags, because CLI output and the generation cache both
// key off them.
package diag

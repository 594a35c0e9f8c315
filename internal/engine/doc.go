// Package engine is the boundary to the code that actually renders a PDF as
// a DOCX document.
//
// A conversion is opened per source file ([Engine.Open]), run once
// ([Session.Convert]) and always closed ([Session.Close]). Two engines ship:
//
//   - [CommandEngine] runs an external converter process (pdf2docx by
//     default) built from an argument template, capturing stderr for
//     failure classification.
//   - [FitzEngine] extracts page text in-process with MuPDF (go-fitz) and
//     writes it out as a minimal DOCX package.
//
// Engine failures are classified into the [ErrOutOfMemory] and
// [ErrPermission] sentinels where possible; failed converter processes are
// reported as [*ExecError].
package engine
